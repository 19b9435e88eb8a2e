package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// Context keys set by Auth.
const (
	TokenKey    = "token"
	UsernameKey = "username"
)

// TokenVerifier resolves a session token to the username it was issued to.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// Auth verifies the bearer token when one is present and injects it, with
// its username, into the echo and request contexts. Requests without an
// Authorization header pass through untouched so the record store can apply
// its own presence check.
func Auth(verifier TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			req := c.Request()
			username, err := verifier.Verify(req.Context(), parts[1])
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrTokenRevoked) {
					return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
				}
				return err
			}

			c.Set(TokenKey, parts[1])
			c.Set(UsernameKey, username)
			c.SetRequest(req.WithContext(domain.WithActor(req.Context(), username)))

			return next(c)
		}
	}
}
