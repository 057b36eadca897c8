package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/notblessy/seopilot/view"
	"github.com/sirupsen/logrus"
)

// ErrorHandler answers API paths with {message} and renders the not-found
// page for unknown site paths.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			}
		}

		if code >= http.StatusInternalServerError {
			logrus.WithField("path", c.Request().URL.Path).Errorf("Unhandled error: %v", err)
			captureError(c, err)
		}

		var rerr error
		switch {
		case strings.HasPrefix(c.Request().URL.Path, "/api/"):
			rerr = c.JSON(code, errorResponse{Message: message})
		case code == http.StatusNotFound && c.Request().Method == http.MethodGet:
			rerr = render(c, http.StatusNotFound, view.NotFoundPage())
		default:
			e.DefaultHTTPErrorHandler(err, c)
			return
		}
		if rerr != nil {
			logrus.Errorf("Error writing error response: %v", rerr)
		}
	}
}
