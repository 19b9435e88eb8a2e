// Package client talks to the catalog service over HTTP. Failures are mapped
// back onto the domain sentinel errors so callers can use errors.Is exactly as
// they would against the in-process services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// Client calls the catalog service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// APIError is a non-2xx response. Message is the server's error text; kind,
// when set, is the domain error the status maps to.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New constructs a catalog client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type bookPayload struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Genre         string `json:"genre"`
	YearPublished int    `json:"yearPublished"`
}

func payloadOf(f domain.BookFields) bookPayload {
	return bookPayload{Title: f.Title, Author: f.Author, Genre: f.Genre, YearPublished: f.YearPublished}
}

// List returns every book in the catalog.
func (c *Client) List(ctx context.Context) ([]domain.Book, error) {
	var books []domain.Book
	if err := c.do(ctx, http.MethodGet, "/v1/books", "", nil, &books); err != nil {
		return nil, err
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

func (c *Client) Create(ctx context.Context, token string, fields domain.BookFields) (*domain.Book, error) {
	var book domain.Book
	if err := c.do(ctx, http.MethodPost, "/v1/books", token, payloadOf(fields), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) Update(ctx context.Context, token, id string, fields domain.BookFields) (*domain.Book, error) {
	var book domain.Book
	if err := c.do(ctx, http.MethodPut, "/v1/books/"+url.PathEscape(id), token, payloadOf(fields), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) Delete(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/books/"+url.PathEscape(id), token, nil, nil)
}

// Authenticate exchanges credentials for a session token. A 401 maps to
// domain.ErrInvalidCredentials.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/login", "", body, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			apiErr.kind = domain.ErrInvalidCredentials
		}
		return "", err
	}
	return resp.Token, nil
}

// IsAuthorized mirrors the server gate: any non-empty token.
func (c *Client) IsAuthorized(token string) bool {
	return token != ""
}

// Revoke logs the token out on the server.
func (c *Client) Revoke(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	addAuthHeader(req, token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		msg := errResp.Error
		if msg == "" {
			msg = resp.Status
		}
		return &APIError{Status: resp.StatusCode, Message: msg, kind: kindOf(resp.StatusCode)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func kindOf(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrBookNotFound
	}
	return nil
}

func addAuthHeader(req *http.Request, token string) {
	if token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+token)
}
