// Package memory holds in-process implementations of the repository ports.
// They are safe for concurrent use and lose their contents on restart.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// ErrDuplicateID is returned by Insert when the id is already stored.
var ErrDuplicateID = errors.New("book id already exists")

// BookRepository keeps books in a map and remembers insertion order.
type BookRepository struct {
	mu     sync.RWMutex
	books  map[string]domain.Book
	orders []string
}

// NewBookRepository returns a repository pre-loaded with seed, in order.
func NewBookRepository(seed []domain.Book) *BookRepository {
	r := &BookRepository{books: make(map[string]domain.Book, len(seed))}
	for _, b := range seed {
		if _, exists := r.books[b.ID]; !exists {
			r.orders = append(r.orders, b.ID)
		}
		r.books[b.ID] = b
	}
	return r
}

// List returns a copy of all books in insertion order.
func (r *BookRepository) List(_ context.Context) ([]domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]domain.Book, 0, len(r.orders))
	for _, id := range r.orders {
		if b, ok := r.books[id]; ok {
			res = append(res, b)
		}
	}
	return res, nil
}

// Insert appends a new book. An id that is already stored is rejected and
// leaves the existing book untouched.
func (r *BookRepository) Insert(_ context.Context, b domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.books[b.ID]; exists {
		return fmt.Errorf("insert book %s: %w", b.ID, ErrDuplicateID)
	}
	r.orders = append(r.orders, b.ID)
	r.books[b.ID] = b
	return nil
}

// Replace overwrites an existing book in place, keeping its position.
func (r *BookRepository) Replace(_ context.Context, b domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[b.ID]; !ok {
		return domain.ErrBookNotFound
	}
	r.books[b.ID] = b
	return nil
}

// Delete removes a book.
func (r *BookRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.books, id)
	filtered := r.orders[:0]
	for _, item := range r.orders {
		if item != id {
			filtered = append(filtered, item)
		}
	}
	r.orders = filtered
	return nil
}
