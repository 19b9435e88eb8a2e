package ports

import (
	"context"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// BookRepository is the storage boundary for book records. Implementations
// return domain.ErrBookNotFound when an id does not match any record.
type BookRepository interface {
	// List returns every record in insertion order.
	List(ctx context.Context) ([]domain.Book, error)
	Insert(ctx context.Context, book domain.Book) error
	// Replace overwrites the editable fields of the record with book.ID.
	Replace(ctx context.Context, book domain.Book) error
	Delete(ctx context.Context, id string) error
}

// AuditRepository persists the change log of the catalog.
type AuditRepository interface {
	InsertEvent(ctx context.Context, event domain.BookEvent) error
}
