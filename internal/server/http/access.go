package httpserver

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
)

// AuthMode is the access requirement of a route. The zero value requires a
// valid token, so a route declared without a mode is protected.
type AuthMode int

const (
	// Required rejects requests without a valid bearer token.
	Required AuthMode = iota
	// Anonymous admits every request and binds the identity when a valid token is sent.
	Anonymous
)

func (m AuthMode) String() string {
	if m == Anonymous {
		return "anonymous"
	}
	return "required"
}

// TokenVerifier checks access tokens.
type TokenVerifier interface {
	Verify(raw string) (model.PublicUser, error)
}

// access returns the middleware that decides, before the handler runs,
// whether the request may proceed.
func access(mode AuthMode, tokens TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			if mode == Anonymous {
				return c.Next()
			}
			return errs.ErrUnauthorized
		}
		u, err := tokens.Verify(raw)
		if err != nil {
			if mode == Anonymous {
				return c.Next()
			}
			return errs.New(errs.ErrUnauthorized, "Unauthorized")
		}
		c.SetUserContext(WithUser(c.UserContext(), u))
		return c.Next()
	}
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(h string) (string, bool) {
	h = strings.TrimSpace(h)
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return "", false
	}
	t := strings.TrimSpace(h[7:])
	return t, t != ""
}

// actor returns the identity bound by access; handlers of Required routes only.
func actor(c *fiber.Ctx) (model.PublicUser, error) {
	u, ok := UserFromCtx(c.UserContext())
	if !ok {
		return model.PublicUser{}, errs.ErrUnauthorized
	}
	return u, nil
}
