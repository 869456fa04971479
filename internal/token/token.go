// Package token issues and verifies signed identity tokens (HS256 JWT).
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
)

// Claims carries the public fields of an identity.
type Claims struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies tokens with a process-wide secret.
// It holds no mutable state and is safe for concurrent use.
type Issuer struct {
	signKey []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewIssuer constructs an Issuer. A ttl <= 0 issues tokens without an exp claim.
func NewIssuer(signKey []byte, ttl time.Duration) *Issuer {
	return &Issuer{signKey: signKey, ttl: ttl, now: time.Now}
}

// Issue signs the public fields of u.
func (i *Issuer) Issue(u model.PublicUser) (string, error) {
	now := i.now()
	claims := Claims{
		UserID:    u.ID.String(),
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  u.ID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if i.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(i.ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signKey)
}

// Verify checks signature and claim shape and returns the identity the token
// was issued for. Every failure is reported as errs.ErrInvalidToken.
func (i *Issuer) Verify(raw string) (model.PublicUser, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return i.signKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil || !parsed.Valid {
		return model.PublicUser{}, invalid(err)
	}

	id, err := uuid.FromString(claims.UserID)
	if err != nil || id == uuid.Nil {
		return model.PublicUser{}, invalid(errors.New("bad id claim"))
	}
	if claims.Email == "" {
		return model.PublicUser{}, invalid(errors.New("missing email claim"))
	}
	if claims.Subject != "" && claims.Subject != claims.UserID {
		return model.PublicUser{}, invalid(errors.New("subject mismatch"))
	}

	return model.PublicUser{
		ID:        id,
		Email:     claims.Email,
		Name:      claims.Name,
		CreatedAt: claims.CreatedAt,
		UpdatedAt: claims.UpdatedAt,
	}, nil
}

func invalid(cause error) error {
	if cause == nil {
		return errs.ErrInvalidToken
	}
	return fmt.Errorf("%w: %v", errs.ErrInvalidToken, cause)
}
