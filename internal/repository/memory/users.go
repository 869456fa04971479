package memory

import (
	"context"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserRepo implements UserRepository in memory.
type UserRepo struct{ s *Store }

func (r *UserRepo) emailTaken(email string, except uuid.UUID) bool {
	for id, u := range r.s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

// Create inserts a new user and fills its timestamps.
func (r *UserRepo) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(u.Email, uuid.Nil) {
		return &errs.ConflictError{Key: usersEmailKey}
	}
	if _, ok := r.s.users[u.ID]; ok {
		return &errs.ConflictError{Key: "users_pkey"}
	}
	now := r.s.tick()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

// GetByID loads a user by ID.
func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &u, nil
}

// GetByEmail loads a user by exact email.
func (r *UserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, errs.ErrNotFound
}

// Update applies the non-nil fields of upd.
func (r *UserRepo) Update(_ context.Context, id uuid.UUID, upd model.UserUpdate) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if upd.Email != nil {
		if r.emailTaken(*upd.Email, id) {
			return nil, &errs.ConflictError{Key: usersEmailKey}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = r.s.tick()
	r.s.users[id] = u
	return &u, nil
}

// Delete removes a user together with their posts.
func (r *UserRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return errs.ErrNotFound
	}
	delete(r.s.users, id)
	for pid, p := range r.s.posts {
		if p.post.AuthorID == id {
			delete(r.s.posts, pid)
		}
	}
	return nil
}
