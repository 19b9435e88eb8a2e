package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor lists the domain errors with a fixed HTTP rendering. Order
// matters only when an error wraps more than one of them.
var statusFor = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrBookNotFound, http.StatusNotFound, "book not found"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid username or password"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domain.ErrTokenRevoked, http.StatusUnauthorized, "unauthorized"},
}

// NewHTTPErrorHandler renders handler errors as {"error": "<message>"}.
// echo.HTTPErrors keep their own code and message, known domain errors use
// statusFor, and anything else is logged and reported as a bare 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := classify(err)
		if code == http.StatusInternalServerError && msg == "" {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("route", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("unhandled error")
			msg = "internal server error"
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// classify returns the status and public message for err. An empty message
// with status 500 means err is unexpected.
func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			return m.code, m.msg
		}
	}
	return http.StatusInternalServerError, ""
}
