package ports

import "context"

type AuthService interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	IsAuthorized(token string) bool
	// Verify checks signature, expiry and revocation and returns the token's username.
	Verify(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}
