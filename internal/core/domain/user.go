package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrTokenRevoked       = errors.New("token revoked")
)

// User is an entry of the credential roster.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

type actorKey struct{}

// WithActor attaches the authenticated username to ctx.
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ActorFromContext returns the username stored by WithActor, or "".
func ActorFromContext(ctx context.Context) string {
	name, _ := ctx.Value(actorKey{}).(string)
	return name
}
