// Package memory contains in-process implementations of repository interfaces.
// It backs the server in development mode and the HTTP tests.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// Constraint names reported on conflicts, matching the SQL schema.
const (
	usersEmailKey = "users_email_key"
	postsSlugKey  = "posts_slug_key"
)

type postRow struct {
	post   model.Post // Author and Tags are resolved on read
	tagIDs []int64
}

// Store holds users, posts and tags behind one lock so that cascades and
// author joins see a consistent state.
type Store struct {
	mu sync.RWMutex

	users map[uuid.UUID]model.User
	posts map[uuid.UUID]*postRow
	tags  map[string]int64
	names map[int64]string

	nextTag int64
	last    time.Time
	now     func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users: make(map[uuid.UUID]model.User),
		posts: make(map[uuid.UUID]*postRow),
		tags:  make(map[string]int64),
		names: make(map[int64]string),
		now:   time.Now,
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Posts returns the post repository view of the store.
func (s *Store) Posts() *PostRepo { return &PostRepo{s: s} }

// tick returns a strictly increasing timestamp. Callers hold mu.
func (s *Store) tick() time.Time {
	t := s.now().UTC().Truncate(time.Microsecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// tagID returns the ID of the named tag, creating it when missing. Callers hold mu.
func (s *Store) tagID(name string) int64 {
	if id, ok := s.tags[name]; ok {
		return id
	}
	s.nextTag++
	s.tags[name] = s.nextTag
	s.names[s.nextTag] = name
	return s.nextTag
}

// resolve copies a stored post and fills its author and tags. Callers hold mu.
func (s *Store) resolve(r *postRow) model.Post {
	p := r.post
	p.Author = s.users[p.AuthorID].Public()
	p.Tags = make([]model.Tag, 0, len(r.tagIDs))
	for _, id := range r.tagIDs {
		p.Tags = append(p.Tags, model.Tag{ID: id, Name: s.names[id]})
	}
	sort.Slice(p.Tags, func(i, j int) bool { return p.Tags[i].ID < p.Tags[j].ID })
	return p
}

// matches evaluates a post filter the same way the SQL builder does. Callers hold mu.
func (s *Store) matches(r *postRow, w model.PostWhere) bool {
	if w.AuthorID != nil && r.post.AuthorID != *w.AuthorID {
		return false
	}
	if w.Search == "" {
		return true
	}
	if strings.Contains(r.post.Title, w.Search) {
		return true
	}
	for _, id := range r.tagIDs {
		if strings.Contains(s.names[id], w.Search) {
			return true
		}
	}
	return strings.Contains(s.users[r.post.AuthorID].Name, w.Search)
}
