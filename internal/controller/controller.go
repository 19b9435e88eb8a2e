// Package controller holds the client-side state of the catalog: the book
// list, loading and error flags, a single notification and the pending delete
// confirmation. Presentation layers read Snapshot or subscribe with OnChange
// and forward user intents to the exported methods.
//
// Every mutation is pessimistic: the list shown is only ever what the last
// completed fetch returned.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/shelfsync/book-catalog/internal/core/domain"
	"github.com/shelfsync/book-catalog/internal/session"
)

// DefaultNotificationTimeout is how long a notification stays visible.
const DefaultNotificationTimeout = 5 * time.Second

// Fallback messages for failures that carry no text of their own.
const (
	msgFetchFailed  = "Failed to fetch books."
	msgDeleteFailed = "Failed to delete book."
	msgFormFailed   = "An error occurred."
	msgLoginFailed  = "An unexpected error occurred."
)

// BookStore is the record store the controller reads from and mutates.
type BookStore interface {
	List(ctx context.Context) ([]domain.Book, error)
	Create(ctx context.Context, token string, fields domain.BookFields) (*domain.Book, error)
	Update(ctx context.Context, token, id string, fields domain.BookFields) (*domain.Book, error)
	Delete(ctx context.Context, token, id string) error
}

// AuthGate issues and revokes session tokens.
type AuthGate interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Revoke(ctx context.Context, token string) error
}

// NotificationKind distinguishes success from error notifications.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	Kind    NotificationKind
	Message string
}

// State is a point-in-time copy of the controller state.
type State struct {
	Loading       bool
	Books         []domain.Book
	Error         string
	Notification  *Notification
	Authenticated bool
	PendingDelete *domain.Book
}

// Controller coordinates the record store, the auth gate and the session.
type Controller struct {
	store   BookStore
	auth    AuthGate
	session session.Store
	log     zerolog.Logger
	timeout time.Duration

	mu        sync.Mutex
	state     State
	fetchGen  uint64
	noteGen   uint64
	noteTimer *time.Timer
	listeners []func(State)
}

// Option customises a Controller.
type Option func(*Controller)

// WithNotificationTimeout overrides the auto-dismiss delay. Zero or negative
// keeps notifications until DismissNotification.
func WithNotificationTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Controller) { c.log = log }
}

func New(store BookStore, auth AuthGate, sess session.Store, opts ...Option) *Controller {
	c := &Controller{
		store:   store,
		auth:    auth,
		session: sess,
		log:     zerolog.Nop(),
		timeout: DefaultNotificationTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Authenticated = sess.CurrentToken() != ""
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// OnChange registers fn to be called with a fresh snapshot after every state
// change. Callbacks run outside the controller lock.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Mount performs the initial fetch.
func (c *Controller) Mount(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Refresh reloads the book list. When several fetches overlap only the most
// recently issued one is applied; older responses are discarded and Loading
// stays set until the latest completes.
func (c *Controller) Refresh(ctx context.Context) error {
	var gen uint64
	c.update(func(s *State) {
		c.fetchGen++
		gen = c.fetchGen
		s.Loading = true
		s.Error = ""
	})

	books, err := c.store.List(ctx)

	c.mu.Lock()
	if gen != c.fetchGen {
		c.mu.Unlock()
		c.log.Debug().Uint64("generation", gen).Msg("discarding stale fetch")
		return err
	}
	c.state.Loading = false
	if err != nil {
		c.state.Error = message(err, msgFetchFailed)
	} else {
		c.state.Books = books
	}
	c.emitLocked()
	return err
}

// Add validates form and creates a book. On failure the returned error is
// meant for inline display and the shown state is left untouched.
func (c *Controller) Add(ctx context.Context, form Form) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if _, err := c.store.Create(ctx, c.session.CurrentToken(), form.Fields()); err != nil {
		return withFallback(err, msgFormFailed)
	}

	c.notify(NotificationSuccess, fmt.Sprintf(`"%s" added successfully.`, form.Title))
	c.refreshAfterMutation(ctx)
	return nil
}

// Edit validates form and replaces the editable fields of book id.
func (c *Controller) Edit(ctx context.Context, id string, form Form) error {
	if err := form.Validate(); err != nil {
		return err
	}
	if _, err := c.store.Update(ctx, c.session.CurrentToken(), id, form.Fields()); err != nil {
		return withFallback(err, msgFormFailed)
	}

	c.notify(NotificationSuccess, fmt.Sprintf(`"%s" updated successfully.`, form.Title))
	c.refreshAfterMutation(ctx)
	return nil
}

// RequestDelete marks book as awaiting confirmation.
func (c *Controller) RequestDelete(book domain.Book) {
	c.update(func(s *State) {
		s.PendingDelete = &book
	})
}

// CancelDelete drops the pending delete request.
func (c *Controller) CancelDelete() {
	c.update(func(s *State) {
		s.PendingDelete = nil
	})
}

// ConfirmationMessage returns the prompt for the pending delete, or "" when
// none is pending.
func (c *Controller) ConfirmationMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.PendingDelete == nil {
		return ""
	}
	return DeletePrompt(*c.state.PendingDelete)
}

// DeletePrompt is the confirmation question for deleting book.
func DeletePrompt(book domain.Book) string {
	return fmt.Sprintf(`Are you sure you want to delete "%s"? This action cannot be undone.`, book.Title)
}

// ConfirmDelete deletes the pending book. The pending request is taken and
// cleared before the store is called, so concurrent confirmations delete at
// most once. Success and failure are both reported through the notification.
// Without a pending request it does nothing.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	pending := c.state.PendingDelete
	if pending == nil {
		c.mu.Unlock()
		return nil
	}
	c.state.PendingDelete = nil
	c.emitLocked()

	err := c.store.Delete(ctx, c.session.CurrentToken(), pending.ID)
	if err != nil {
		c.notify(NotificationError, message(err, msgDeleteFailed))
		return err
	}

	c.notify(NotificationSuccess, fmt.Sprintf(`"%s" deleted successfully.`, pending.Title))
	c.refreshAfterMutation(ctx)
	return nil
}

// Login authenticates and stores the session token.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	token, err := c.auth.Authenticate(ctx, username, password)
	if err != nil {
		return withFallback(err, msgLoginFailed)
	}
	if err := c.session.SetToken(token); err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Authenticated = true
	})
	return nil
}

// Logout revokes the token on a best effort basis and clears the session.
func (c *Controller) Logout(ctx context.Context) error {
	if token := c.session.CurrentToken(); token != "" {
		if err := c.auth.Revoke(ctx, token); err != nil {
			c.log.Warn().Err(err).Msg("token revocation failed")
		}
	}
	if err := c.session.ClearToken(); err != nil {
		return err
	}
	c.update(func(s *State) {
		s.Authenticated = false
		s.PendingDelete = nil
	})
	return nil
}

// DismissNotification hides the current notification.
func (c *Controller) DismissNotification() {
	c.mu.Lock()
	c.noteGen++
	c.stopTimerLocked()
	c.state.Notification = nil
	c.emitLocked()
}

func (c *Controller) notify(kind NotificationKind, msg string) {
	c.mu.Lock()
	c.noteGen++
	gen := c.noteGen
	c.stopTimerLocked()
	c.state.Notification = &Notification{Kind: kind, Message: msg}
	if c.timeout > 0 {
		c.noteTimer = time.AfterFunc(c.timeout, func() { c.expire(gen) })
	}
	c.emitLocked()
}

// expire dismisses notification gen unless a newer one has replaced it.
func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.noteGen || c.state.Notification == nil {
		c.mu.Unlock()
		return
	}
	c.noteTimer = nil
	c.state.Notification = nil
	c.emitLocked()
}

func (c *Controller) stopTimerLocked() {
	if c.noteTimer != nil {
		c.noteTimer.Stop()
		c.noteTimer = nil
	}
}

// refreshAfterMutation reloads the list. Its failure is already recorded in
// State.Error and does not fail the mutation.
func (c *Controller) refreshAfterMutation(ctx context.Context) {
	if err := c.Refresh(ctx); err != nil {
		c.log.Warn().Err(err).Msg("refresh after mutation failed")
	}
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	c.emitLocked()
}

// emitLocked snapshots the state, releases the lock and notifies listeners.
func (c *Controller) emitLocked() {
	snap := c.snapshotLocked()
	listeners := append([]func(State){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	if c.state.Books != nil {
		s.Books = append([]domain.Book(nil), c.state.Books...)
	}
	if c.state.Notification != nil {
		n := *c.state.Notification
		s.Notification = &n
	}
	if c.state.PendingDelete != nil {
		b := *c.state.PendingDelete
		s.PendingDelete = &b
	}
	return s
}

func message(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}

// withFallback returns err unchanged unless its message is empty.
func withFallback(err error, fallback string) error {
	if err.Error() == "" {
		return errors.New(fallback)
	}
	return err
}
