package service

import (
	"context"
	"errors"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/and161185/blog-api/internal/pagination"
	"github.com/and161185/blog-api/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// PostService defines reads and author-only mutations of posts.
type PostService interface {
	// List returns one page of all posts, optionally searched.
	List(ctx context.Context, req pagination.Request) (pagination.Result[model.Post], error)
	// ListByAuthor returns one page of a single author's posts.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, req pagination.Request) (pagination.Result[model.Post], error)
	// Get loads a post by slug or ID.
	Get(ctx context.Context, slugOrID string) (*model.Post, error)
	// Create stores a post authored by actor.
	Create(ctx context.Context, actor model.PublicUser, np model.NewPost) (*model.Post, error)
	// Update changes a post owned by actor.
	Update(ctx context.Context, actor model.PublicUser, id uuid.UUID, upd model.PostUpdate) (*model.Post, error)
	// Delete removes a post owned by actor and returns it.
	Delete(ctx context.Context, actor model.PublicUser, id uuid.UUID) (*model.Post, error)
}

type PostServiceImpl struct {
	posts repository.PostRepository
	pager pagination.Paginator
}

// NewPostService constructs PostService; perPage <= 0 selects pagination.DefaultPerPage.
func NewPostService(posts repository.PostRepository, perPage int) *PostServiceImpl {
	return &PostServiceImpl{posts: posts, pager: pagination.New(perPage)}
}

func (s *PostServiceImpl) List(ctx context.Context, req pagination.Request) (pagination.Result[model.Post], error) {
	q := model.PostQuery{Where: model.PostWhere{Search: req.Search}}
	return pagination.Paginate[model.Post, model.PostQuery](ctx, s.pager, s.posts, req, q)
}

func (s *PostServiceImpl) ListByAuthor(ctx context.Context, authorID uuid.UUID, req pagination.Request) (pagination.Result[model.Post], error) {
	q := model.PostQuery{Where: model.PostWhere{AuthorID: &authorID, Search: req.Search}}
	return pagination.Paginate[model.Post, model.PostQuery](ctx, s.pager, s.posts, req, q)
}

func (s *PostServiceImpl) Get(ctx context.Context, slugOrID string) (*model.Post, error) {
	p, err := s.posts.GetBySlugOrID(ctx, slugOrID)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, errs.New(errs.ErrNotFound, "No post found with slug or id: %s", slugOrID)
	}
	return p, err
}

func (s *PostServiceImpl) Create(ctx context.Context, actor model.PublicUser, np model.NewPost) (*model.Post, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	np.ID = id
	np.AuthorID = actor.ID
	np.Tags = uniqueTags(np.Tags)
	return s.posts.Create(ctx, np)
}

func (s *PostServiceImpl) Update(ctx context.Context, actor model.PublicUser, id uuid.UUID, upd model.PostUpdate) (*model.Post, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	upd.Tags = uniqueTags(upd.Tags)
	p, err := s.posts.Update(ctx, id, upd)
	if errors.Is(err, errs.ErrNotFound) {
		return nil, postNotFound(id)
	}
	return p, err
}

func (s *PostServiceImpl) Delete(ctx context.Context, actor model.PublicUser, id uuid.UUID) (*model.Post, error) {
	p, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, postNotFound(id)
		}
		return nil, err
	}
	return p, nil
}

// owned fetches the post and checks that actor wrote it.
func (s *PostServiceImpl) owned(ctx context.Context, actor model.PublicUser, id uuid.UUID) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, id)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if err := AuthorizeMutation(p, actor); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, postNotFound(id)
		}
		return nil, err
	}
	return p, nil
}

func postNotFound(id uuid.UUID) error {
	return errs.New(errs.ErrNotFound, "No post found with id: %s", id)
}

// uniqueTags drops repeated names, keeping first occurrences in order.
func uniqueTags(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
