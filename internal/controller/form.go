package controller

import (
	"strings"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// Form is the add/edit input as entered by the user.
type Form struct {
	Title         string
	Author        string
	Genre         string
	YearPublished int
}

// FormFor pre-fills a form with book's current fields.
func FormFor(book domain.Book) Form {
	return Form{
		Title:         book.Title,
		Author:        book.Author,
		Genre:         book.Genre,
		YearPublished: book.YearPublished,
	}
}

// FormError reports the first missing field of a Form.
type FormError struct {
	Field string
}

func (e *FormError) Error() string {
	return e.Field + " is required"
}

// Validate requires every text field to be non-blank and the year to be set.
func (f Form) Validate() error {
	switch {
	case strings.TrimSpace(f.Title) == "":
		return &FormError{Field: "title"}
	case strings.TrimSpace(f.Author) == "":
		return &FormError{Field: "author"}
	case strings.TrimSpace(f.Genre) == "":
		return &FormError{Field: "genre"}
	case f.YearPublished == 0:
		return &FormError{Field: "yearPublished"}
	}
	return nil
}

func (f Form) Fields() domain.BookFields {
	return domain.BookFields{
		Title:         f.Title,
		Author:        f.Author,
		Genre:         f.Genre,
		YearPublished: f.YearPublished,
	}
}
