package domain

import (
	"errors"
	"time"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrUnauthorized = errors.New("unauthorized")
)

// Book is a single catalog record. ID is assigned by the store and never
// changes once set.
type Book struct {
	ID            string `json:"id"            bson:"_id"            yaml:"id"`
	Title         string `json:"title"         bson:"title"          yaml:"title"`
	Author        string `json:"author"        bson:"author"         yaml:"author"`
	Genre         string `json:"genre"         bson:"genre"          yaml:"genre"`
	YearPublished int    `json:"yearPublished" bson:"year_published" yaml:"year_published"`
}

// BookFields holds the editable subset of a Book.
type BookFields struct {
	Title         string
	Author        string
	Genre         string
	YearPublished int
}

// Fields returns the editable part of b.
func (b Book) Fields() BookFields {
	return BookFields{
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		YearPublished: b.YearPublished,
	}
}

// WithFields returns a copy of b with the editable fields replaced. The ID is kept.
func (b Book) WithFields(f BookFields) Book {
	b.Title = f.Title
	b.Author = f.Author
	b.Genre = f.Genre
	b.YearPublished = f.YearPublished
	return b
}

// BookAction names the kind of change recorded in the audit trail.
type BookAction string

const (
	ActionCreated BookAction = "created"
	ActionUpdated BookAction = "updated"
	ActionDeleted BookAction = "deleted"
)

// BookEvent is an audit record of a successful mutation.
type BookEvent struct {
	BookID string
	Action BookAction
	Actor  string
	Title  string
	At     time.Time
}
