package service

import (
	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
)

const msgNotOwner = "You are not the author of this post"

// AuthorizeMutation allows a change to post only by its author.
// A missing post is reported before any ownership check.
func AuthorizeMutation(post *model.Post, actor model.PublicUser) error {
	if post == nil {
		return errs.ErrNotFound
	}
	if post.AuthorID != actor.ID {
		return errs.New(errs.ErrNotOwner, msgNotOwner)
	}
	return nil
}
