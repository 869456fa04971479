// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepository provides CRUD access for users.
// Duplicate emails are reported as errs.ErrAlreadyExists, misses as errs.ErrNotFound.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by exact email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// Update applies a partial change and returns the stored user.
	Update(ctx context.Context, id uuid.UUID, upd model.UserUpdate) (*model.User, error)
	// Delete removes a user and, by cascade, their posts.
	Delete(ctx context.Context, id uuid.UUID) error
}
