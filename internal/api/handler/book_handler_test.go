package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shelfsync/book-catalog/internal/api/middleware"
	"github.com/shelfsync/book-catalog/internal/core/domain"
)

type stubBookService struct {
	books    []domain.Book
	err      error
	gotToken string
	gotID    string
	gotField domain.BookFields
}

func (s *stubBookService) List(context.Context) ([]domain.Book, error) {
	return s.books, s.err
}

func (s *stubBookService) Create(_ context.Context, token string, f domain.BookFields) (*domain.Book, error) {
	s.gotToken, s.gotField = token, f
	if s.err != nil {
		return nil, s.err
	}
	b := domain.Book{ID: "new-id"}.WithFields(f)
	return &b, nil
}

func (s *stubBookService) Update(_ context.Context, token, id string, f domain.BookFields) (*domain.Book, error) {
	s.gotToken, s.gotID, s.gotField = token, id, f
	if s.err != nil {
		return nil, s.err
	}
	b := domain.Book{ID: id}.WithFields(f)
	return &b, nil
}

func (s *stubBookService) Delete(_ context.Context, token, id string) error {
	s.gotToken, s.gotID = token, id
	return s.err
}

const fooJSON = `{"title":"Foo","author":"Bar","genre":"Baz","yearPublished":2000}`

func newBookContext(method, path, body, token string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if token != "" {
		c.Set(middleware.TokenKey, token)
	}
	return c, rec
}

func TestBookHandler_List(t *testing.T) {
	stub := &stubBookService{books: []domain.Book{{ID: "1", Title: "Dune", YearPublished: 1965}}}
	c, rec := newBookContext(http.MethodGet, "/v1/books", "", "")

	if err := NewBookHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got) != 1 || got[0]["id"] != "1" || got[0]["yearPublished"] != float64(1965) {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestBookHandler_List_Error(t *testing.T) {
	boom := errors.New("boom")
	c, _ := newBookContext(http.MethodGet, "/v1/books", "", "")

	if err := NewBookHandler(&stubBookService{err: boom}).List(c); !errors.Is(err, boom) {
		t.Fatalf("expected error to propagate, got %v", err)
	}
}

func TestBookHandler_Create(t *testing.T) {
	stub := &stubBookService{}
	c, rec := newBookContext(http.MethodPost, "/v1/books", fooJSON, "tok")

	if err := NewBookHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if stub.gotToken != "tok" {
		t.Fatalf("expected token to be forwarded, got %q", stub.gotToken)
	}
	want := domain.BookFields{Title: "Foo", Author: "Bar", Genre: "Baz", YearPublished: 2000}
	if stub.gotField != want {
		t.Fatalf("expected %+v, got %+v", want, stub.gotField)
	}
}

func TestBookHandler_Create_ValidationError(t *testing.T) {
	stub := &stubBookService{}
	c, _ := newBookContext(http.MethodPost, "/v1/books", `{"title":"Foo","author":"","genre":"Baz"}`, "tok")

	err := NewBookHandler(stub).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "author is required") || !strings.Contains(msg, "yearPublished is required") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if stub.gotToken != "" {
		t.Fatal("service must not be called on invalid input")
	}
}

func TestBookHandler_Create_InvalidPayload(t *testing.T) {
	c, _ := newBookContext(http.MethodPost, "/v1/books", "{", "tok")

	err := NewBookHandler(&stubBookService{}).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestBookHandler_Create_WithoutToken(t *testing.T) {
	stub := &stubBookService{err: domain.ErrUnauthorized}
	c, _ := newBookContext(http.MethodPost, "/v1/books", fooJSON, "")

	if err := NewBookHandler(stub).Create(c); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if stub.gotToken != "" {
		t.Fatalf("expected empty token, got %q", stub.gotToken)
	}
}

func TestBookHandler_Update(t *testing.T) {
	stub := &stubBookService{}
	c, rec := newBookContext(http.MethodPut, "/v1/books/2", fooJSON, "tok")
	c.SetParamNames("id")
	c.SetParamValues("2")

	if err := NewBookHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.gotID != "2" {
		t.Fatalf("expected id 2, got %q", stub.gotID)
	}
}

func TestBookHandler_Update_NotFound(t *testing.T) {
	c, _ := newBookContext(http.MethodPut, "/v1/books/999", fooJSON, "tok")
	c.SetParamNames("id")
	c.SetParamValues("999")

	err := NewBookHandler(&stubBookService{err: domain.ErrBookNotFound}).Update(c)
	if !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound, got %v", err)
	}
}

func TestBookHandler_Delete(t *testing.T) {
	stub := &stubBookService{}
	c, rec := newBookContext(http.MethodDelete, "/v1/books/3", "", "tok")
	c.SetParamNames("id")
	c.SetParamValues("3")

	if err := NewBookHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != `{"success":true}` {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if stub.gotID != "3" {
		t.Fatalf("expected id 3, got %q", stub.gotID)
	}
}
