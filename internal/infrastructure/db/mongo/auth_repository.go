package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/shelfsync/book-catalog/internal/core/domain"
	"github.com/shelfsync/book-catalog/internal/infrastructure/seed"
)

const authCollection = "auth_users"

type MongoAuthRepository struct {
	coll *mongo.Collection
}

func NewAuthRepository(db *mongo.Database) *MongoAuthRepository {
	return &MongoAuthRepository{coll: db.Collection(authCollection)}
}

type mongoUser struct {
	Username     string `bson:"_id"`
	PasswordHash string `bson:"password_hash"`
}

// FindByUsername looks a roster entry up by exact username.
func (r *MongoAuthRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, bson.M{"_id": username}).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	return &domain.User{Username: mu.Username, PasswordHash: mu.PasswordHash}, nil
}

// SeedRoster upserts the seed credentials, hashing passwords with bcrypt.
// Existing entries keep their stored hash.
func (r *MongoAuthRepository) SeedRoster(ctx context.Context, creds []seed.Credential) error {
	for _, c := range creds {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", c.Username, err)
		}
		_, err = r.coll.UpdateByID(ctx, c.Username,
			bson.M{"$setOnInsert": bson.M{"password_hash": string(hash)}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", c.Username, err)
		}
	}
	return nil
}
