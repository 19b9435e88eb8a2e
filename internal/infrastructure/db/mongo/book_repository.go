package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shelfsync/book-catalog/internal/core/domain"
)

const collectionBooks = "books"

// BookRepository implements ports.BookRepository on a MongoDB collection.
// Insertion order is kept through the created_at field.
type BookRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{
		col: db.Collection(collectionBooks),
		now: func() time.Time { return time.Now().UTC() },
	}
}

type mongoBook struct {
	ID            string    `bson:"_id"`
	Title         string    `bson:"title"`
	Author        string    `bson:"author"`
	Genre         string    `bson:"genre"`
	YearPublished int       `bson:"year_published"`
	CreatedAt     time.Time `bson:"created_at"`
}

func (m mongoBook) toDomain() domain.Book {
	return domain.Book{
		ID:            m.ID,
		Title:         m.Title,
		Author:        m.Author,
		Genre:         m.Genre,
		YearPublished: m.YearPublished,
	}
}

// List returns all books ordered by creation time.
func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoBook
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	books := make([]domain.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, d.toDomain())
	}
	return books, nil
}

// Insert stores a new book document.
func (r *BookRepository) Insert(ctx context.Context, b domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoBook{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		YearPublished: b.YearPublished,
		CreatedAt:     r.now(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// Replace sets the editable fields of an existing book.
func (r *BookRepository) Replace(ctx context.Context, b domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"title":          b.Title,
		"author":         b.Author,
		"genre":          b.Genre,
		"year_published": b.YearPublished,
	}}
	res, err := r.col.UpdateByID(ctx, b.ID, update)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// Delete removes a book document.
func (r *BookRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookNotFound
	}
	return nil
}

// Seed inserts the given books when the collection is empty, spacing their
// created_at values so the seed order is preserved.
func (r *BookRepository) Seed(ctx context.Context, books []domain.Book) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	n, err := r.col.EstimatedDocumentCount(ctx)
	if err != nil {
		return fmt.Errorf("count books: %w", err)
	}
	if n > 0 || len(books) == 0 {
		return nil
	}

	base := r.now()
	docs := make([]interface{}, 0, len(books))
	for i, b := range books {
		docs = append(docs, mongoBook{
			ID:            b.ID,
			Title:         b.Title,
			Author:        b.Author,
			Genre:         b.Genre,
			YearPublished: b.YearPublished,
			CreatedAt:     base.Add(time.Duration(i) * time.Millisecond),
		})
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("seed books: %w", err)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the books collection.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
