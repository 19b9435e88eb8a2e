package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

// BookEventModel is one row of the book_events audit table.
type BookEventModel struct {
	ID          uint      `gorm:"primaryKey"`
	BookID      string    `gorm:"type:varchar(64);index;not null"`
	Action      string    `gorm:"type:varchar(16);not null"`
	Actor       string    `gorm:"type:text"`
	Title       string    `gorm:"type:text"`
	At          time.Time `gorm:"not null"`
	ProcessedAt time.Time
}

func (BookEventModel) TableName() string { return "book_events" }

// AuditRepository implements ports.AuditRepository using GORM + Postgres.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) InsertEvent(ctx context.Context, event domain.BookEvent) error {
	row := BookEventModel{
		BookID:      event.BookID,
		Action:      string(event.Action),
		Actor:       event.Actor,
		Title:       event.Title,
		At:          event.At.UTC(),
		ProcessedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert book event: %w", err)
	}
	return nil
}
