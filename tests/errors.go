package testutil

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
)

// appHTTPErrorHandler answers every error as {"error": message}.
func appHTTPErrorHandler(err error, ctx echo.Context) {
	var code int
	var message string

	switch origErr := errors.Cause(err).(type) {
	case *echo.HTTPError:
		if origErr == middleware.ErrJWTMissing {
			code = http.StatusUnauthorized
			message = "missing or malformed jwt"
			break
		}
		if origErr.Internal != nil {
			if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
				origErr = herr
			}
		}
		code = origErr.Code
		if m, ok := origErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	default: // any other error is a server error
		code = http.StatusInternalServerError
		message = http.StatusText(http.StatusInternalServerError)
	}

	// Send response
	if !ctx.Response().Committed {
		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else {
			err = ctx.JSON(code, echo.Map{"error": message})
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}
