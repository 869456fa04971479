// Package convert projects domain entities onto API response views.
package convert

import (
	"fmt"
	"time"

	model "github.com/and161185/blog-api/internal/model"
	"github.com/and161185/blog-api/internal/pagination"
	u "github.com/gofrs/uuid/v5"
)

// --- helpers ---

// ParseID parses a canonical UUID path parameter.
func ParseID(s string) (u.UUID, error) {
	var id u.UUID
	if err := id.UnmarshalText([]byte(s)); err != nil {
		return u.Nil, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

// --- users ---

// User is the public projection of an identity.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SignedIn is a user with the access token issued at sign in.
type SignedIn struct {
	User
	AccessToken string `json:"access_token"`
}

// ToUser converts a public user to its view.
func ToUser(p model.PublicUser) User {
	return User{
		ID:        p.ID.String(),
		Email:     p.Email,
		Name:      p.Name,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToSignedIn converts a sign in result to its view.
func ToSignedIn(s model.SignedInUser) SignedIn {
	return SignedIn{User: ToUser(s.PublicUser), AccessToken: s.AccessToken}
}

// --- posts ---

// Tag is a tag as listed on a post.
type Tag struct {
	ID      int64  `json:"id"`
	TagName string `json:"tagName"`
}

// PostWithTags is a post without its author, as listed under a user.
type PostWithTags struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	Published bool      `json:"published"`
	Tags      []Tag     `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Post is a post with its author and tags.
type Post struct {
	PostWithTags
	Author User `json:"author"`
}

func toTags(in []model.Tag) []Tag {
	out := make([]Tag, 0, len(in))
	for _, t := range in {
		out = append(out, Tag{ID: t.ID, TagName: t.Name})
	}
	return out
}

// ToPostWithTags converts a post, dropping its author.
func ToPostWithTags(p model.Post) PostWithTags {
	return PostWithTags{
		ID:        p.ID.String(),
		Title:     p.Title,
		Content:   p.Content,
		Slug:      p.Slug,
		Published: p.Published,
		Tags:      toTags(p.Tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ToPost converts a post with its author.
func ToPost(p model.Post) Post {
	return Post{PostWithTags: ToPostWithTags(p), Author: ToUser(p.Author)}
}

// ToPostPage converts a page of posts with authors.
func ToPostPage(r pagination.Result[model.Post]) pagination.Result[Post] {
	return pagination.Map(r, ToPost)
}

// ToPostWithTagsPage converts a page of one author's posts.
func ToPostWithTagsPage(r pagination.Result[model.Post]) pagination.Result[PostWithTags] {
	return pagination.Map(r, ToPostWithTags)
}
