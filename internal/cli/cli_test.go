package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfsync/book-catalog/internal/api"
	"github.com/shelfsync/book-catalog/internal/core/domain"
	"github.com/shelfsync/book-catalog/internal/core/service"
	"github.com/shelfsync/book-catalog/internal/infrastructure/db/memory"
	"github.com/shelfsync/book-catalog/internal/infrastructure/seed"
)

type harness struct {
	t       *testing.T
	url     string
	dir     string
	session string
}

func newHarness(t *testing.T, books []domain.Book) *harness {
	t.Helper()
	data := seed.Default()
	users, err := memory.NewAuthRepository(data.Users, bcrypt.MinCost)
	require.NoError(t, err)

	log := zerolog.Nop()
	srv := httptest.NewServer(api.NewRouter(api.Deps{
		Books:  service.NewBookService(memory.NewBookRepository(books), log),
		Auth:   service.NewAuthService(users, memory.NewRevocationStore(), "secret", time.Hour, log),
		Logger: log,
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return &harness{t: t, url: srv.URL, dir: dir, session: filepath.Join(dir, "session")}
}

// run executes bookctl with stdin as input and returns stdout and stderr.
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{
		"--server", h.url,
		"--session-file", h.session,
		"--config", filepath.Join(h.dir, "missing.yml"),
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (h *harness) login() {
	h.t.Helper()
	_, _, err := h.run("", "login", "-u", "admin", "-p", "admin123")
	require.NoError(h.t, err)
}

func (h *harness) books() []domain.Book {
	h.t.Helper()
	out, _, err := h.run("", "list", "-o", "json")
	require.NoError(h.t, err)
	var books []domain.Book
	require.NoError(h.t, json.Unmarshal([]byte(out), &books))
	return books
}

func TestList_Table(t *testing.T) {
	h := newHarness(t, seed.Default().Books)

	out, _, err := h.run("", "list")
	require.NoError(t, err)
	for _, want := range []string{"TITLE", "The Alchemist", "Hobbit", "Frank Herbert", "2021"} {
		assert.Contains(t, out, want)
	}
}

func TestList_Empty(t *testing.T) {
	h := newHarness(t, nil)

	out, _, err := h.run("", "list")
	require.NoError(t, err)
	assert.Equal(t, "No Books Found\n", out)
}

func TestList_Formats(t *testing.T) {
	h := newHarness(t, seed.Default().Books)

	assert.Len(t, h.books(), 4)

	out, _, err := h.run("", "list", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: The Alchemist")

	_, _, err = h.run("", "list", "-o", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestAdd_WithoutSession(t *testing.T) {
	h := newHarness(t, seed.Default().Books)

	_, _, err := h.run("", "add", "--title", "Foo", "--author", "Bar", "--genre", "Baz", "--year", "2024")
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Len(t, h.books(), 4)
}

func TestAdd(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	h.login()

	out, _, err := h.run("", "add", "--title", "Foo", "--author", "Bar", "--genre", "Baz", "--year", "2024")
	require.NoError(t, err)
	assert.Contains(t, out, `"Foo" added successfully.`)

	books := h.books()
	require.Len(t, books, 5)
	assert.Equal(t, "Foo", books[4].Title)
	assert.Equal(t, 2024, books[4].YearPublished)
}

func TestAdd_Validation(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	h.login()

	_, _, err := h.run("", "add", "--author", "Bar", "--genre", "Baz")
	assert.EqualError(t, err, "title is required")
}

func TestEdit_KeepsUnsetFields(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	h.login()

	out, _, err := h.run("", "edit", "3", "--genre", "Classic")
	require.NoError(t, err)
	assert.Contains(t, out, `"Dune" updated successfully.`)

	books := h.books()
	assert.Equal(t, domain.Book{ID: "3", Title: "Dune", Author: "Frank Herbert", Genre: "Classic", YearPublished: 1965}, books[2])
}

func TestEdit_UnknownID(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	h.login()

	_, _, err := h.run("", "edit", "999", "--title", "X", "--author", "Y", "--genre", "Z", "--year", "2020")
	require.ErrorIs(t, err, domain.ErrBookNotFound)
	assert.EqualError(t, err, "book not found")
}

func TestEdit_UnknownIDWithPartialFlags(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	h.login()

	_, _, err := h.run("", "edit", "999", "--genre", "X")
	require.ErrorIs(t, err, domain.ErrBookNotFound)
	assert.EqualError(t, err, "book not found")
	assert.Len(t, h.books(), 4)
}

func TestDelete_Cancelled(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	h.login()

	out, _, err := h.run("n\n", "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `Are you sure you want to delete "Hobbit"? This action cannot be undone. [y/N]`)
	assert.Contains(t, out, "Cancelled.")
	assert.Len(t, h.books(), 4)
}

func TestDelete_Confirmed(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	h.login()

	out, _, err := h.run("y\n", "delete", "2")
	require.NoError(t, err)
	assert.Contains(t, out, `"Hobbit" deleted successfully.`)

	books := h.books()
	require.Len(t, books, 3)
	for _, b := range books {
		assert.NotEqual(t, "2", b.ID)
	}
}

func TestDelete_UnknownID(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	h.login()

	_, _, err := h.run("", "delete", "999", "--yes")
	require.ErrorIs(t, err, domain.ErrBookNotFound)
	assert.Len(t, h.books(), 4)
}

func TestLogin_Prompts(t *testing.T) {
	h := newHarness(t, seed.Default().Books)

	out, _, err := h.run("user1\nuser123\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Username: ")
	assert.Contains(t, out, "Password: ")
	assert.Contains(t, out, "Logged in as user1")

	raw, err := os.ReadFile(h.session)
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(string(raw)))
}

func TestLogin_InvalidCredentials(t *testing.T) {
	h := newHarness(t, seed.Default().Books)

	_, _, err := h.run("", "login", "-u", "admin", "-p", "wrong")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
	assert.EqualError(t, err, "invalid username or password")

	_, statErr := os.Stat(h.session)
	assert.True(t, os.IsNotExist(statErr))
}

func TestWhoamiAndLogout(t *testing.T) {
	h := newHarness(t, seed.Default().Books)

	out, _, err := h.run("", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not logged in\n", out)

	h.login()
	out, _, err = h.run("", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "User:    admin")
	assert.Contains(t, out, "(valid)")

	out, _, err = h.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	out, _, err = h.run("", "whoami")
	require.NoError(t, err)
	assert.Equal(t, "Not logged in\n", out)

	_, errOut, err := h.run("", "logout")
	require.NoError(t, err)
	assert.Contains(t, errOut, "Not logged in")
}

func TestConfigFile(t *testing.T) {
	h := newHarness(t, seed.Default().Books)
	path := filepath.Join(h.dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: "+h.url+"\nsession_file: "+h.session+"\n"), 0o600))

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", path, "list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Project Hail Mary")
}
