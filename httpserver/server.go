package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"moviecatalog/errs"
	"moviecatalog/movie"
	"moviecatalog/pkg/config"
	"moviecatalog/pkg/sentry"

	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

type Server struct {
	// Router is the Echo router instance
	Router *echo.Echo

	// Addr represents the address the server will listen on
	Addr string

	// Allowed origins for CORS
	AllowOrigins []string

	// Requests per second allowed per client IP, 0 disables the limiter
	RateLimit float64

	Logger *slog.Logger

	MovieService movie.Service
}

func Default(cfg *config.Config) *Server {
	s := Server{
		Router:       echo.New(),
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		AllowOrigins: splitOrigins(cfg.AllowOrigins),
		RateLimit:    cfg.RateLimit,
		Logger:       slog.Default(),
	}

	s.Router.HideBanner = true
	s.Router.HTTPErrorHandler = s.customHTTPErrorHandler
	s.RegisterGlobalMiddlewares()

	s.RegisterHealthRoutes()
	s.RegisterSwaggerRoutes()
	s.RegisterMovieRoutes(s.Router.Group("/movies"))
	return &s
}

func (s *Server) RegisterGlobalMiddlewares() {
	s.Router.Use(middleware.Recover())
	s.Router.Use(middleware.Secure())
	s.Router.Use(middleware.RequestID())
	s.Router.Use(middleware.Gzip())
	s.Router.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	if s.RateLimit > 0 {
		s.Router.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(s.RateLimit))))
	}

	// CORS
	if len(s.AllowOrigins) > 0 {
		s.Router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.AllowOrigins,
		}))
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

func (s *Server) Start() error {
	return s.Router.Start(s.Addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Router.Shutdown(ctx)
}

// customHTTPErrorHandler maps application errors to appropriate HTTP status
// codes and writes them as {"error": message}.
func (s *Server) customHTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	// Check if it's an Echo HTTPError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		// Map application error codes to HTTP status codes
		switch errs.ErrorCode(err) {
		case errs.EINVALID:
			code = http.StatusBadRequest
		case errs.ENOTFOUND:
			code = http.StatusNotFound
		case errs.ECONFLICT:
			code = http.StatusConflict
		case errs.EUNAUTHORIZED:
			code = http.StatusUnauthorized
		case errs.ENOTIMPLEMENTED:
			code = http.StatusNotImplemented
		}

		var appErr *errs.Error
		if errors.As(err, &appErr) && appErr.Message != "" {
			message = appErr.Message
		}
	}

	if code >= http.StatusInternalServerError {
		s.reportFault(c, err, code)
	}

	// Don't write response if already committed
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Error: message})
		}
		if err != nil {
			s.Logger.Error("write error response", "error", err)
		}
	}
}

func (s *Server) reportFault(c echo.Context, err error, code int) {
	requestID := c.Response().Header().Get(echo.HeaderXRequestID)
	s.Logger.ErrorContext(c.Request().Context(), "request failed",
		"request_id", requestID,
		"method", c.Request().Method,
		"path", c.Path(),
		"status", code,
		"error", err,
	)

	sentry.WithContext(c).
		WithTags(map[string]string{"request_id": requestID, "route": c.Path()}).
		Error(err)
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
