package memory

import (
	"context"
	"slices"
	"sort"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// PostRepo implements PostRepository in memory.
type PostRepo struct{ s *Store }

func (r *PostRepo) slugTaken(slug string, except uuid.UUID) bool {
	for id, p := range r.s.posts {
		if id != except && p.post.Slug == slug {
			return true
		}
	}
	return false
}

func (r *PostRepo) connect(row *postRow, names []string) {
	for _, name := range names {
		id := r.s.tagID(name)
		if !slices.Contains(row.tagIDs, id) {
			row.tagIDs = append(row.tagIDs, id)
		}
	}
}

// Create inserts a post, connecting or creating its tags.
func (r *PostRepo) Create(_ context.Context, np model.NewPost) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[np.AuthorID]; !ok {
		return nil, errs.ErrNotFound
	}
	if r.slugTaken(np.Slug, uuid.Nil) {
		return nil, &errs.ConflictError{Key: postsSlugKey}
	}
	if _, ok := r.s.posts[np.ID]; ok {
		return nil, &errs.ConflictError{Key: "posts_pkey"}
	}
	now := r.s.tick()
	row := &postRow{post: model.Post{
		ID:        np.ID,
		Title:     np.Title,
		Content:   np.Content,
		Slug:      np.Slug,
		Published: np.Published,
		AuthorID:  np.AuthorID,
		CreatedAt: now,
		UpdatedAt: now,
	}}
	r.connect(row, np.Tags)
	r.s.posts[np.ID] = row
	p := r.s.resolve(row)
	return &p, nil
}

// GetByID loads a post by ID.
func (r *PostRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.posts[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	p := r.s.resolve(row)
	return &p, nil
}

// GetBySlugOrID loads a post whose ID or slug equals key; an ID match wins.
func (r *PostRepo) GetBySlugOrID(_ context.Context, key string) (*model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if id, err := uuid.FromString(key); err == nil && id.String() == key {
		if row, ok := r.s.posts[id]; ok {
			p := r.s.resolve(row)
			return &p, nil
		}
	}
	for _, row := range r.s.posts {
		if row.post.Slug == key {
			p := r.s.resolve(row)
			return &p, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Update applies the non-nil fields of upd and connects its tags.
func (r *PostRepo) Update(_ context.Context, id uuid.UUID, upd model.PostUpdate) (*model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.posts[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if upd.Slug != nil && r.slugTaken(*upd.Slug, id) {
		return nil, &errs.ConflictError{Key: postsSlugKey}
	}
	next := *row
	next.tagIDs = slices.Clone(row.tagIDs)
	if upd.Title != nil {
		next.post.Title = *upd.Title
	}
	if upd.Content != nil {
		next.post.Content = *upd.Content
	}
	if upd.Slug != nil {
		next.post.Slug = *upd.Slug
	}
	if upd.Published != nil {
		next.post.Published = *upd.Published
	}
	r.connect(&next, upd.Tags)
	next.post.UpdatedAt = r.s.tick()
	r.s.posts[id] = &next
	p := r.s.resolve(&next)
	return &p, nil
}

// Delete removes a post.
func (r *PostRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.posts[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}

// filter returns matching rows in q.OrderBy order. Callers hold mu.
func (r *PostRepo) filter(q model.PostQuery) []*postRow {
	var out []*postRow
	for _, row := range r.s.posts {
		if r.s.matches(row, q.Where) {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].post, out[j].post
		less := a.CreatedAt.Before(b.CreatedAt) ||
			(a.CreatedAt.Equal(b.CreatedAt) && a.ID.String() < b.ID.String())
		if q.OrderBy == model.OrderCreatedDesc {
			return !less && a.ID != b.ID
		}
		return less
	})
	return out
}

// Count returns the number of posts matching q.
func (r *PostRepo) Count(_ context.Context, q model.PostQuery) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.filter(q)), nil
}

// FindMany returns up to take posts matching q after skipping skip.
func (r *PostRepo) FindMany(_ context.Context, q model.PostQuery, skip, take int) ([]model.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rows := r.filter(q)
	skip = max(skip, 0)
	out := make([]model.Post, 0, take)
	for i := skip; i < len(rows) && len(out) < take; i++ {
		out = append(out, r.s.resolve(rows[i]))
	}
	return out, nil
}
