package service

import (
	"context"

	"github.com/and161185/blog-api/internal/crypto"
	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
)

// UserChanges is a self-service profile change; nil fields stay untouched.
type UserChanges struct {
	Email    *string
	Name     *string
	Password *string
}

// UserService defines public profile reads and self-service changes.
type UserService interface {
	Get(ctx context.Context, id uuid.UUID) (model.PublicUser, error)
	UpdateSelf(ctx context.Context, actor model.PublicUser, ch UserChanges) (model.PublicUser, error)
	DeleteSelf(ctx context.Context, actor model.PublicUser) (model.PublicUser, error)
}

type UserServiceImpl struct {
	identities IdentityService
}

// NewUserService constructs UserService.
func NewUserService(identities IdentityService) *UserServiceImpl {
	return &UserServiceImpl{identities: identities}
}

func (s *UserServiceImpl) Get(ctx context.Context, id uuid.UUID) (model.PublicUser, error) {
	return s.identities.GetPublic(ctx, id)
}

// UpdateSelf stores a new password only as its digest.
func (s *UserServiceImpl) UpdateSelf(ctx context.Context, actor model.PublicUser, ch UserChanges) (model.PublicUser, error) {
	upd := model.UserUpdate{Email: ch.Email, Name: ch.Name}
	if ch.Password != nil {
		hash, err := crypto.HashPassword(*ch.Password)
		if err != nil {
			return model.PublicUser{}, err
		}
		upd.PasswordHash = &hash
	}
	return s.identities.Update(ctx, actor.ID, upd)
}

func (s *UserServiceImpl) DeleteSelf(ctx context.Context, actor model.PublicUser) (model.PublicUser, error) {
	return s.identities.Delete(ctx, actor.ID)
}
