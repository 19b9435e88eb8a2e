package memory

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/shelfsync/book-catalog/internal/core/domain"
	"github.com/shelfsync/book-catalog/internal/infrastructure/seed"
)

// AuthRepository is a fixed credential roster. It is read-only after construction.
type AuthRepository struct {
	users map[string]domain.User
}

// NewAuthRepository hashes the seed credentials with bcrypt at the given cost.
// A cost of 0 selects bcrypt.DefaultCost.
func NewAuthRepository(creds []seed.Credential, cost int) (*AuthRepository, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	r := &AuthRepository{users: make(map[string]domain.User, len(creds))}
	for _, c := range creds {
		hash, err := bcrypt.GenerateFromPassword([]byte(c.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", c.Username, err)
		}
		r.users[c.Username] = domain.User{Username: c.Username, PasswordHash: string(hash)}
	}
	return r, nil
}

// FindByUsername looks a user up by exact username.
func (r *AuthRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
