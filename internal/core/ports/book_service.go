package ports

import (
	"context"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// BookService is the record store contract seen by the transport layer.
// Mutations take the caller's session token and fail with
// domain.ErrUnauthorized when it is empty.
type BookService interface {
	List(ctx context.Context) ([]domain.Book, error)
	Create(ctx context.Context, token string, fields domain.BookFields) (*domain.Book, error)
	Update(ctx context.Context, token, id string, fields domain.BookFields) (*domain.Book, error)
	Delete(ctx context.Context, token, id string) error
}

// AuditDispatcher receives book events for asynchronous persistence.
type AuditDispatcher interface {
	Enqueue(event domain.BookEvent)
}
