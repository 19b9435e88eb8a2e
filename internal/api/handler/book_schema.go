package handler

import "github.com/shelfsync/book-catalog/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type bookRequest struct {
	Title         string `json:"title"         validate:"required"`
	Author        string `json:"author"        validate:"required"`
	Genre         string `json:"genre"         validate:"required"`
	YearPublished int    `json:"yearPublished" validate:"required"`
}

func (r bookRequest) fields() domain.BookFields {
	return domain.BookFields{
		Title:         r.Title,
		Author:        r.Author,
		Genre:         r.Genre,
		YearPublished: r.YearPublished,
	}
}

type deleteResponse struct {
	Success bool `json:"success"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}
