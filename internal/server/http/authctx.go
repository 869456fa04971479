package httpserver

import (
	"context"

	"github.com/and161185/blog-api/internal/model"
)

type ctxKey string

const userKey ctxKey = "blog.user"

// WithUser stores the authenticated identity in context.
func WithUser(ctx context.Context, u model.PublicUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFromCtx fetches the authenticated identity from context.
func UserFromCtx(ctx context.Context) (model.PublicUser, bool) {
	v := ctx.Value(userKey)
	if v == nil {
		return model.PublicUser{}, false
	}
	u, ok := v.(model.PublicUser)
	return u, ok
}
