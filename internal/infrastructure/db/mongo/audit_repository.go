package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

const collectionBookEvents = "book_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{db: db}
}

// InsertEvent persists a book event to the book_events audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event domain.BookEvent) error {
	doc := bson.M{
		"book_id":      event.BookID,
		"action":       string(event.Action),
		"actor":        event.Actor,
		"at":           event.At.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.Title != "" {
		doc["title"] = event.Title
	}

	_, err := r.db.Collection(collectionBookEvents).InsertOne(ctx, doc)
	return err
}
