package ports

import (
	"context"
	"time"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// AuthRepository is the read side of the credential roster.
type AuthRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// RevocationStore remembers logged-out token IDs until they would have expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
