package httpserver

import (
	"moviecatalog/movie"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse confirms a write. Movie is set on create, UpdatedMovie on
// update; delete carries only the message.
type MessageResponse struct {
	Message      string       `json:"message"`
	Movie        *movie.Movie `json:"movie,omitempty"`
	UpdatedMovie *movie.Movie `json:"updatedMovie,omitempty"`
}

func writeMessage(c echo.Context, status int, resp MessageResponse) error {
	return c.JSON(status, resp)
}

// writeList writes movies as a bare JSON array.
func writeList(c echo.Context, status int, movies []movie.Movie) error {
	if movies == nil {
		movies = []movie.Movie{}
	}
	return c.JSON(status, movies)
}
