package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/shelfsync/book-catalog/internal/api/middleware"
)

// sessionToken returns the bearer token the Auth middleware accepted, or ""
// when the request carried none. An empty token is passed through to the
// record store, which rejects the mutation itself.
func sessionToken(c echo.Context) string {
	token, _ := c.Get(middleware.TokenKey).(string)
	return token
}
