package service

import (
	"context"
	"errors"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/and161185/blog-api/internal/repository"
	"github.com/gofrs/uuid/v5"
)

type fakeUsers struct {
	byEmail map[string]*model.User

	createErr error
	getErr    error

	createCalls int
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if f.byEmail == nil {
		f.byEmail = map[string]*model.User{}
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return &errs.ConflictError{Key: "users_email_key"}
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) Update(_ context.Context, id uuid.UUID, upd model.UserUpdate) (*model.User, error) {
	for k, u := range f.byEmail {
		if u.ID != id {
			continue
		}
		if upd.Email != nil {
			u.Email = *upd.Email
			delete(f.byEmail, k)
			f.byEmail[u.Email] = u
		}
		if upd.Name != nil {
			u.Name = *upd.Name
		}
		if upd.PasswordHash != nil {
			u.PasswordHash = *upd.PasswordHash
		}
		c := *u
		return &c, nil
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) Delete(_ context.Context, id uuid.UUID) error {
	for k, u := range f.byEmail {
		if u.ID == id {
			delete(f.byEmail, k)
			return nil
		}
	}
	return errs.ErrNotFound
}

// fakeRaceUsers hides the existing user from the pre-check, as if a
// concurrent sign up committed in between.
type fakeRaceUsers struct{ fakeUsers }

func (f *fakeRaceUsers) GetByEmail(context.Context, string) (*model.User, error) {
	return nil, errs.ErrNotFound
}

type fakePosts struct {
	byID map[uuid.UUID]*model.Post

	getErr error

	lastQuery   model.PostQuery
	lastNew     model.NewPost
	lastUpdate  model.PostUpdate
	updateCalls int
	deleteCalls int
	skip, take  int
	countResult int
	findResult  []model.Post
}

var _ repository.PostRepository = (*fakePosts)(nil)

func (f *fakePosts) Create(_ context.Context, np model.NewPost) (*model.Post, error) {
	f.lastNew = np
	p := &model.Post{ID: np.ID, Title: np.Title, Slug: np.Slug, AuthorID: np.AuthorID}
	if f.byID == nil {
		f.byID = map[uuid.UUID]*model.Post{}
	}
	f.byID[p.ID] = p
	return p, nil
}

func (f *fakePosts) GetByID(_ context.Context, id uuid.UUID) (*model.Post, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakePosts) GetBySlugOrID(_ context.Context, key string) (*model.Post, error) {
	for _, p := range f.byID {
		if p.Slug == key || p.ID.String() == key {
			c := *p
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakePosts) Update(_ context.Context, id uuid.UUID, upd model.PostUpdate) (*model.Post, error) {
	f.updateCalls++
	f.lastUpdate = upd
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	c := *p
	return &c, nil
}

func (f *fakePosts) Delete(_ context.Context, id uuid.UUID) error {
	f.deleteCalls++
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakePosts) Count(_ context.Context, q model.PostQuery) (int, error) {
	f.lastQuery = q
	return f.countResult, nil
}

func (f *fakePosts) FindMany(_ context.Context, q model.PostQuery, skip, take int) ([]model.Post, error) {
	f.skip, f.take = skip, take
	return f.findResult, nil
}

type fakeIssuer struct{ err error }

func (f fakeIssuer) Issue(u model.PublicUser) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + u.ID.String(), nil
}

var errBoom = errors.New("boom")
