package repository

import (
	"context"

	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// PostRepository provides access to posts with their author and tags.
// Duplicate slugs are reported as errs.ErrAlreadyExists, misses as errs.ErrNotFound.
type PostRepository interface {
	// Create inserts a post, connecting or creating its tags, and returns it.
	Create(ctx context.Context, p model.NewPost) (*model.Post, error)
	// GetByID loads a post by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)
	// GetBySlugOrID loads a post whose slug or ID equals key.
	GetBySlugOrID(ctx context.Context, key string) (*model.Post, error)
	// Update applies a partial change and returns the stored post.
	Update(ctx context.Context, id uuid.UUID, upd model.PostUpdate) (*model.Post, error)
	// Delete removes a post.
	Delete(ctx context.Context, id uuid.UUID) error
	// Count returns the number of posts matching q.
	Count(ctx context.Context, q model.PostQuery) (int, error)
	// FindMany returns up to take posts matching q, skipping skip, in q.OrderBy order.
	FindMany(ctx context.Context, q model.PostQuery, skip, take int) ([]model.Post, error)
}
