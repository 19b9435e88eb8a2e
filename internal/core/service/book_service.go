package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/shelfsync/book-catalog/internal/api/metrics"
	"github.com/shelfsync/book-catalog/internal/core/domain"
	"github.com/shelfsync/book-catalog/internal/core/ports"
)

// BookService is the record store. It owns id assignment, gates mutations on
// the presence of a session token and serialises writes.
type BookService struct {
	repo    ports.BookRepository
	audit   ports.AuditDispatcher
	latency time.Duration
	logger  zerolog.Logger
	newID   func() string
	now     func() time.Time

	// mu serialises mutations so read-modify-write on the repository is atomic.
	mu sync.Mutex
}

// BookServiceOption customises a BookService.
type BookServiceOption func(*BookService)

// WithLatency sets the simulated latency every operation waits before resolving.
func WithLatency(d time.Duration) BookServiceOption {
	return func(s *BookService) { s.latency = d }
}

// WithAudit routes successful mutations to the given dispatcher.
func WithAudit(d ports.AuditDispatcher) BookServiceOption {
	return func(s *BookService) { s.audit = d }
}

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(fn func() string) BookServiceOption {
	return func(s *BookService) { s.newID = fn }
}

func NewBookService(repo ports.BookRepository, logger zerolog.Logger, opts ...BookServiceOption) *BookService {
	s := &BookService{
		repo:   repo,
		logger: logger,
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a snapshot of all books in insertion order.
func (s *BookService) List(ctx context.Context) ([]domain.Book, error) {
	defer observe("list", time.Now())

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	books, err := s.repo.List(ctx)
	if err != nil {
		s.fail("list", err)
		return nil, fmt.Errorf("list books: %w", err)
	}
	out := make([]domain.Book, len(books))
	copy(out, books)
	return out, nil
}

// Create assigns a fresh id to fields and appends the record.
func (s *BookService) Create(ctx context.Context, token string, fields domain.BookFields) (*domain.Book, error) {
	defer observe("create", time.Now())

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if token == "" {
		s.fail("create", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := domain.Book{ID: s.newID()}.WithFields(fields)
	if err := s.repo.Insert(ctx, book); err != nil {
		s.fail("create", err)
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.record(ctx, book, domain.ActionCreated)
	return &book, nil
}

// Update replaces the editable fields of the book with the given id.
func (s *BookService) Update(ctx context.Context, token, id string, fields domain.BookFields) (*domain.Book, error) {
	defer observe("update", time.Now())

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if token == "" {
		s.fail("update", domain.ErrUnauthorized)
		return nil, domain.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book := domain.Book{ID: id}.WithFields(fields)
	if err := s.repo.Replace(ctx, book); err != nil {
		s.fail("update", err)
		return nil, fmt.Errorf("update book %s: %w", id, err)
	}

	s.record(ctx, book, domain.ActionUpdated)
	return &book, nil
}

// Delete removes the book with the given id.
func (s *BookService) Delete(ctx context.Context, token, id string) error {
	defer observe("delete", time.Now())

	if err := s.wait(ctx); err != nil {
		return err
	}
	if token == "" {
		s.fail("delete", domain.ErrUnauthorized)
		return domain.ErrUnauthorized
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		s.fail("delete", err)
		return fmt.Errorf("delete book %s: %w", id, err)
	}

	s.record(ctx, domain.Book{ID: id}, domain.ActionDeleted)
	return nil
}

// wait blocks for the simulated latency or until ctx is done.
func (s *BookService) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *BookService) record(ctx context.Context, book domain.Book, action domain.BookAction) {
	actor := domain.ActorFromContext(ctx)
	metrics.BookMutationsTotal.WithLabelValues(string(action)).Inc()

	s.logger.Info().
		Str("book_id", book.ID).
		Str("action", string(action)).
		Str("actor", actor).
		Msg("book " + string(action))

	if s.audit != nil {
		s.audit.Enqueue(domain.BookEvent{
			BookID: book.ID,
			Action: action,
			Actor:  actor,
			Title:  book.Title,
			At:     s.now(),
		})
	}
}

func (s *BookService) fail(op string, err error) {
	reason := "internal"
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		reason = "unauthorized"
	case errors.Is(err, domain.ErrBookNotFound):
		reason = "not_found"
	default:
		s.logger.Error().Err(err).Str("operation", op).Msg("record store operation failed")
	}
	metrics.BookErrorsTotal.WithLabelValues(op, reason).Inc()
}

func observe(op string, start time.Time) {
	metrics.StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
