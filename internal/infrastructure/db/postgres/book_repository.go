// Package postgres implements the book repository with GORM on PostgreSQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// BookModel is the books table row.
type BookModel struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)"`
	Title         string    `gorm:"type:text;not null"`
	Author        string    `gorm:"type:text;not null"`
	Genre         string    `gorm:"type:text;not null"`
	YearPublished int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"index"`
}

func (BookModel) TableName() string { return "books" }

func bookToModel(b domain.Book) BookModel {
	return BookModel{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		YearPublished: b.YearPublished,
	}
}

func bookFromModel(m BookModel) domain.Book {
	return domain.Book{
		ID:            m.ID,
		Title:         m.Title,
		Author:        m.Author,
		Genre:         m.Genre,
		YearPublished: m.YearPublished,
	}
}

// BookRepository implements ports.BookRepository using GORM + Postgres.
type BookRepository struct {
	db *gorm.DB
}

// Open connects to dsn and runs auto-migrations.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&BookModel{}, &BookEventModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return db, nil
}

func NewBookRepository(db *gorm.DB) *BookRepository {
	return &BookRepository{db: db}
}

// List returns all books ordered by created_at.
func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	var models []BookModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	res := make([]domain.Book, 0, len(models))
	for _, m := range models {
		res = append(res, bookFromModel(m))
	}
	return res, nil
}

// Insert stores a new book. GORM fills created_at.
func (r *BookRepository) Insert(ctx context.Context, b domain.Book) error {
	model := bookToModel(b)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Replace updates the editable columns of an existing book.
func (r *BookRepository) Replace(ctx context.Context, b domain.Book) error {
	res := r.db.WithContext(ctx).Model(&BookModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"title":          b.Title,
			"author":         b.Author,
			"genre":          b.Genre,
			"year_published": b.YearPublished,
		})
	if res.Error != nil {
		return fmt.Errorf("update book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// Delete removes a book row.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&BookModel{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete book: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// Seed inserts books when the table is empty, keeping their order.
func (r *BookRepository) Seed(ctx context.Context, books []domain.Book) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BookModel{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if count > 0 || len(books) == 0 {
		return nil
	}

	base := time.Now().UTC()
	models := make([]BookModel, 0, len(books))
	for i, b := range books {
		m := bookToModel(b)
		m.CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
		models = append(models, m)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("seed books: %w", err)
	}
	return nil
}
