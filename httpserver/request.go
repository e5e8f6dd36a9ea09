package httpserver

import (
	"errors"
	"net/url"

	"moviecatalog/errs"

	"github.com/labstack/echo/v4"
)

// bindBody decodes the request body only. Path and query parameters are
// never bound, since update bodies decode into an open map.
func bindBody(c echo.Context, v interface{}) error {
	err := new(echo.DefaultBinder).BindBody(c, v)
	if err == nil {
		return nil
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		var appErr *errs.Error
		if errors.As(he.Internal, &appErr) {
			return appErr
		}
	}
	return err
}

// pathParam returns the unescaped value of a path parameter. The router
// matches on the raw path only when the request carried escapes such as %2F.
func pathParam(c echo.Context, name string) string {
	raw := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return raw
	}
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
