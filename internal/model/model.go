// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// User represents a registered account. PasswordHash never leaves the service layer.
type User struct {
	ID           uuid.UUID // PK
	Email        string    // unique, case-sensitive as stored
	Name         string
	PasswordHash string // bcrypt digest
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Public returns the user's public fields.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// PublicUser is the identity without its password hash. It is what tokens carry
// and what the API returns.
type PublicUser struct {
	ID        uuid.UUID
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SignedInUser is the result of a successful sign in.
type SignedInUser struct {
	PublicUser
	AccessToken string
}

// UserUpdate is a partial self-service change; nil fields stay untouched.
type UserUpdate struct {
	Email        *string
	Name         *string
	PasswordHash *string
}

// Tag labels posts; names are unique.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"tagName"`
}

// Post is an owned content item. AuthorID is fixed at creation.
type Post struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Slug      string // unique, no whitespace
	Published bool
	AuthorID  uuid.UUID
	Author    PublicUser
	Tags      []Tag
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost holds the fields of a post to be created by an author.
type NewPost struct {
	ID        uuid.UUID
	Title     string
	Content   string
	Slug      string
	Published bool
	AuthorID  uuid.UUID
	Tags      []string
}

// PostUpdate is a partial change of a post; nil fields stay untouched.
// Tags are connected by name, existing tags are kept.
type PostUpdate struct {
	Title     *string
	Content   *string
	Slug      *string
	Published *bool
	Tags      []string
}

// PostWhere filters posts. Search is matched as a substring of the title,
// any tag name or the author name; it is AND-ed with AuthorID.
type PostWhere struct {
	AuthorID *uuid.UUID
	Search   string
}

// PostOrder selects the listing order.
type PostOrder int

const (
	// OrderCreatedAsc lists oldest first (creation order).
	OrderCreatedAsc PostOrder = iota
	// OrderCreatedDesc lists newest first.
	OrderCreatedDesc
)

// PostQuery is the query shape passed through the pagination engine to the post store.
type PostQuery struct {
	Where   PostWhere
	OrderBy PostOrder
}
