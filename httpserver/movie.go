package httpserver

import (
	"net/http"

	"moviecatalog/errs"
	"moviecatalog/movie"

	"github.com/labstack/echo/v4"
)

func (s *Server) RegisterMovieRoutes(g *echo.Group) {
	g.POST("", s.handleCreateMovie)
	g.GET("", s.handleListMovies)
	g.GET("/:title", s.handleGetMovieByTitle)
	g.GET("/director/:directorName", s.handleListMoviesByDirector)
	g.GET("/genres/:genreName", s.handleListMoviesByGenre)
	g.POST("/:movieId", s.handleUpdateMovie)
	g.DELETE("/:movieId", s.handleDeleteMovie)
}

// handleCreateMovie godoc
// @Summary Create Movie
// @Description Store a new movie. Any field besides title, director and genre is kept as is.
// @Tags movies
// @Accept json
// @Produce json
// @Param movie body object true "Movie document"
// @Success 201 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies [post]
func (s *Server) handleCreateMovie(c echo.Context) error {
	if err := s.requireService(); err != nil {
		return err
	}

	var m movie.Movie
	if err := bindBody(c, &m); err != nil {
		return err
	}

	created, err := s.MovieService.CreateMovie(c.Request().Context(), m)
	if err != nil {
		return err
	}

	return writeMessage(c, http.StatusCreated, MessageResponse{
		Message: "Movie added successfully.",
		Movie:   &created,
	})
}

// handleListMovies godoc
// @Summary List Movies
// @Tags movies
// @Produce json
// @Success 200 {array} object
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies [get]
func (s *Server) handleListMovies(c echo.Context) error {
	if err := s.requireService(); err != nil {
		return err
	}

	movies, err := s.MovieService.AllMovies(c.Request().Context())
	return respondMovies(c, movies, err)
}

// handleGetMovieByTitle godoc
// @Summary Get Movie By Title
// @Description Exact, case-sensitive title match
// @Tags movies
// @Produce json
// @Param title path string true "Movie title"
// @Success 200 {object} object
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/{title} [get]
func (s *Server) handleGetMovieByTitle(c echo.Context) error {
	if err := s.requireService(); err != nil {
		return err
	}

	m, err := s.MovieService.MovieByTitle(c.Request().Context(), pathParam(c, "title"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, m)
}

// handleListMoviesByDirector godoc
// @Summary List Movies By Director
// @Tags movies
// @Produce json
// @Param directorName path string true "Director name"
// @Success 200 {array} object
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/director/{directorName} [get]
func (s *Server) handleListMoviesByDirector(c echo.Context) error {
	if err := s.requireService(); err != nil {
		return err
	}

	movies, err := s.MovieService.MoviesByDirector(c.Request().Context(), pathParam(c, "directorName"))
	return respondMovies(c, movies, err)
}

// handleListMoviesByGenre godoc
// @Summary List Movies By Genre
// @Tags movies
// @Produce json
// @Param genreName path string true "Genre name"
// @Success 200 {array} object
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/genres/{genreName} [get]
func (s *Server) handleListMoviesByGenre(c echo.Context) error {
	if err := s.requireService(); err != nil {
		return err
	}

	movies, err := s.MovieService.MoviesByGenre(c.Request().Context(), pathParam(c, "genreName"))
	return respondMovies(c, movies, err)
}

// handleUpdateMovie godoc
// @Summary Update Movie
// @Description Merge the supplied fields into the movie
// @Tags movies
// @Accept json
// @Produce json
// @Param movieId path string true "Movie id"
// @Param fields body object true "Fields to change"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/{movieId} [post]
func (s *Server) handleUpdateMovie(c echo.Context) error {
	if err := s.requireService(); err != nil {
		return err
	}

	var p movie.Patch
	if err := bindBody(c, &p); err != nil {
		return err
	}

	updated, err := s.MovieService.UpdateMovie(c.Request().Context(), pathParam(c, "movieId"), p)
	if err != nil {
		return err
	}

	return writeMessage(c, http.StatusOK, MessageResponse{
		Message:      "Movie updated successfully.",
		UpdatedMovie: &updated,
	})
}

// handleDeleteMovie godoc
// @Summary Delete Movie
// @Tags movies
// @Produce json
// @Param movieId path string true "Movie id"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /movies/{movieId} [delete]
func (s *Server) handleDeleteMovie(c echo.Context) error {
	if err := s.requireService(); err != nil {
		return err
	}

	if err := s.MovieService.DeleteMovie(c.Request().Context(), pathParam(c, "movieId")); err != nil {
		return err
	}

	return writeMessage(c, http.StatusOK, MessageResponse{Message: "Movie deleted successfully."})
}

// respondMovies writes a non-empty list; an empty one is a 404.
func respondMovies(c echo.Context, movies []movie.Movie, err error) error {
	if err != nil {
		return err
	}
	if len(movies) == 0 {
		return movie.ErrNoMoviesFound
	}
	return writeList(c, http.StatusOK, movies)
}

func (s *Server) requireService() error {
	if s.MovieService == nil {
		return errs.Errorf(errs.ENOTIMPLEMENTED, "movie service not configured")
	}
	return nil
}
