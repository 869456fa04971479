package service

import (
	"context"
	"errors"

	"github.com/and161185/blog-api/internal/crypto"
	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
)

const msgBadCredentials = "Email or Password is incorrect"

// TokenIssuer signs access tokens for identities.
type TokenIssuer interface {
	Issue(u model.PublicUser) (string, error)
}

// AuthService defines sign up and sign in.
type AuthService interface {
	// SignUp registers a new identity with a hashed password.
	SignUp(ctx context.Context, email, name, password string) (model.PublicUser, error)
	// SignIn checks credentials and issues an access token.
	SignIn(ctx context.Context, email, password string) (model.SignedInUser, error)
}

type AuthServiceImpl struct {
	identities IdentityService
	tokens     TokenIssuer
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(identities IdentityService, tokens TokenIssuer) *AuthServiceImpl {
	return &AuthServiceImpl{identities: identities, tokens: tokens}
}

// SignUp fails with errs.ErrEmailAlreadyExists when the email is registered,
// including when a concurrent sign up wins the race to the store.
func (s *AuthServiceImpl) SignUp(ctx context.Context, email, name, password string) (model.PublicUser, error) {
	existing, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		return model.PublicUser{}, err
	}
	if existing != nil {
		return model.PublicUser{}, emailTaken(email)
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.PublicUser{}, err
	}
	u, err := s.identities.Create(ctx, email, name, hash)
	if errors.Is(err, errs.ErrAlreadyExists) {
		return model.PublicUser{}, emailTaken(email)
	}
	if err != nil {
		return model.PublicUser{}, err
	}
	return u.Public(), nil
}

// SignIn answers an unknown email and a wrong password identically.
func (s *AuthServiceImpl) SignIn(ctx context.Context, email, password string) (model.SignedInUser, error) {
	u, err := s.identities.FindByEmail(ctx, email)
	if err != nil {
		return model.SignedInUser{}, err
	}
	if u == nil {
		crypto.BurnCompare(password)
		return model.SignedInUser{}, errs.New(errs.ErrInvalidCredentials, msgBadCredentials)
	}
	if !crypto.VerifyPassword(password, u.PasswordHash) {
		return model.SignedInUser{}, errs.New(errs.ErrInvalidCredentials, msgBadCredentials)
	}

	pub := u.Public()
	tok, err := s.tokens.Issue(pub)
	if err != nil {
		return model.SignedInUser{}, err
	}
	return model.SignedInUser{PublicUser: pub, AccessToken: tok}, nil
}

func emailTaken(email string) error {
	return errs.New(errs.ErrEmailAlreadyExists, "User with email %s already exists", email)
}
