package memory

import (
	"context"
	"sync"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// AuditRepository appends book events to a slice.
type AuditRepository struct {
	mu     sync.Mutex
	events []domain.BookEvent
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) InsertEvent(_ context.Context, e domain.BookEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

// Events returns a copy of everything recorded so far.
func (r *AuditRepository) Events() []domain.BookEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.BookEvent, len(r.events))
	copy(out, r.events)
	return out
}
