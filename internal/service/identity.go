// Package service contains application services for identities, authentication and posts.
package service

import (
	"context"
	"errors"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/and161185/blog-api/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// IdentityService owns user records.
type IdentityService interface {
	// FindByEmail returns the user with the exact email, or nil when there is none.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Create persists a new identity; a taken email surfaces as errs.ErrAlreadyExists.
	Create(ctx context.Context, email, name, passwordHash string) (*model.User, error)
	// GetPublic returns the public fields of a user.
	GetPublic(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
	// Update applies a partial change.
	Update(ctx context.Context, id uuid.UUID, upd model.UserUpdate) (model.PublicUser, error)
	// Delete removes the user and their posts.
	Delete(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
}

type IdentityServiceImpl struct {
	users repository.UserRepository
}

// NewIdentityService constructs IdentityService over a user store.
func NewIdentityService(users repository.UserRepository) *IdentityServiceImpl {
	return &IdentityServiceImpl{users: users}
}

func (s *IdentityServiceImpl) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *IdentityServiceImpl) Create(ctx context.Context, email, name, passwordHash string) (*model.User, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	u := &model.User{ID: id, Email: email, Name: name, PasswordHash: passwordHash}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *IdentityServiceImpl) GetPublic(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, userNotFound(err, id.String())
	}
	return u.Public(), nil
}

func (s *IdentityServiceImpl) Update(ctx context.Context, id uuid.UUID, upd model.UserUpdate) (model.PublicUser, error) {
	u, err := s.users.Update(ctx, id, upd)
	if err != nil {
		return model.PublicUser{}, userNotFound(err, id.String())
	}
	return u.Public(), nil
}

func (s *IdentityServiceImpl) Delete(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return model.PublicUser{}, userNotFound(err, id.String())
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return model.PublicUser{}, userNotFound(err, id.String())
	}
	return u.Public(), nil
}

// userNotFound attaches the client message to a store miss.
func userNotFound(err error, id string) error {
	if errors.Is(err, errs.ErrNotFound) {
		return errs.New(errs.ErrNotFound, "No user found with id: %s", id)
	}
	return err
}
