package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// postWithAuthorAndTags selects a post, its author's public fields and its
// tags as a JSON array.
const postWithAuthorAndTags = `
SELECT p.id, p.title, p.content, p.slug, p.published, p.author_id, p.created_at, p.updated_at,
       u.email, u.name, u.created_at, u.updated_at,
       COALESCE((SELECT json_agg(json_build_object('id', t.id, 'tagName', t.tag_name) ORDER BY t.id)
                 FROM post_tags pt JOIN tags t ON t.id = pt.tag_id
                 WHERE pt.post_id = p.id), '[]'::json)
FROM posts p
JOIN users u ON u.id = p.author_id`

const postsFrom = `
FROM posts p
JOIN users u ON u.id = p.author_id`

// PostRepo implements PostRepository using PostgreSQL.
type PostRepo struct{ db *DB }

// NewPostRepo constructs a post repository.
func NewPostRepo(db *DB) *PostRepo { return &PostRepo{db: db} }

func scanPost(row pgx.Row) (*model.Post, error) {
	var (
		p    model.Post
		tags []byte
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Content, &p.Slug, &p.Published, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		&p.Author.Email, &p.Author.Name, &p.Author.CreatedAt, &p.Author.UpdatedAt,
		&tags,
	)
	if err != nil {
		return nil, err
	}
	p.Author.ID = p.AuthorID
	p.Tags = []model.Tag{}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}
	return &p, nil
}

// Create inserts the post and its tag links in one transaction.
func (r *PostRepo) Create(ctx context.Context, np model.NewPost) (out *model.Post, err error) {
	const ins = `
INSERT INTO posts (id, title, content, slug, published, author_id)
VALUES ($1, $2, $3, $4, $5, $6)`

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, ins, np.ID, np.Title, np.Content, np.Slug, np.Published, np.AuthorID); err != nil {
			return mapWriteErr("post.create", err)
		}
		if err := connectTags(ctx, tx, np.ID, np.Tags); err != nil {
			return err
		}
		p, err := getPost(ctx, tx, np.ID)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// connectTags links the named tags to the post, creating missing tags.
func connectTags(ctx context.Context, q querier, postID uuid.UUID, names []string) error {
	const upsertTag = `
INSERT INTO tags (tag_name) VALUES ($1)
ON CONFLICT (tag_name) DO UPDATE SET tag_name = EXCLUDED.tag_name
RETURNING id`
	const link = `INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`

	for _, name := range names {
		var tagID int64
		if err := q.QueryRow(ctx, upsertTag, name).Scan(&tagID); err != nil {
			return mapWriteErr("tag.upsert", err)
		}
		if _, err := q.Exec(ctx, link, postID, tagID); err != nil {
			return mapWriteErr("post_tag.link", err)
		}
	}
	return nil
}

func getPost(ctx context.Context, q querier, id uuid.UUID) (*model.Post, error) {
	p, err := scanPost(q.QueryRow(ctx, postWithAuthorAndTags+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, mapReadErr("post.get_by_id", err)
	}
	return p, nil
}

// GetByID loads a post by ID.
func (r *PostRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	return getPost(ctx, r.db.Pool, id)
}

// GetBySlugOrID loads a post by slug or ID; an ID match wins over a slug match.
func (r *PostRepo) GetBySlugOrID(ctx context.Context, key string) (*model.Post, error) {
	const where = ` WHERE p.id::text = $1 OR p.slug = $1 ORDER BY (p.id::text = $1) DESC LIMIT 1`
	p, err := scanPost(r.db.Pool.QueryRow(ctx, postWithAuthorAndTags+where, key))
	if err != nil {
		return nil, mapReadErr("post.get_by_slug_or_id", err)
	}
	return p, nil
}

// Update applies the non-nil fields of upd and connects its tags in one transaction.
func (r *PostRepo) Update(ctx context.Context, id uuid.UUID, upd model.PostUpdate) (out *model.Post, err error) {
	const q = `
UPDATE posts
SET title = COALESCE($2, title),
    content = COALESCE($3, content),
    slug = COALESCE($4, slug),
    published = COALESCE($5, published),
    updated_at = now()
WHERE id = $1`

	err = r.db.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, q, id, upd.Title, upd.Content, upd.Slug, upd.Published)
		if err != nil {
			return mapWriteErr("post.update", err)
		}
		if tag.RowsAffected() == 0 {
			return errs.ErrNotFound
		}
		if err := connectTags(ctx, tx, id, upd.Tags); err != nil {
			return err
		}
		p, err := getPost(ctx, tx, id)
		if err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a post; its tag links go with it.
func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return errs.Store("post.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Count returns the number of posts matching q.
func (r *PostRepo) Count(ctx context.Context, q model.PostQuery) (int, error) {
	var a args
	sql := `SELECT count(*)` + postsFrom + postWhere(q.Where, &a)
	var n int
	if err := r.db.Pool.QueryRow(ctx, sql, a.vals...).Scan(&n); err != nil {
		return 0, errs.Store("post.count", err)
	}
	return n, nil
}

// FindMany returns one window of posts matching q.
func (r *PostRepo) FindMany(ctx context.Context, q model.PostQuery, skip, take int) ([]model.Post, error) {
	var a args
	sql := postWithAuthorAndTags + postWhere(q.Where, &a) + postOrder(q.OrderBy)
	sql += ` OFFSET ` + a.add(skip) + ` LIMIT ` + a.add(take)

	rows, err := r.db.Pool.Query(ctx, sql, a.vals...)
	if err != nil {
		return nil, errs.Store("post.find_many", err)
	}
	defer rows.Close()

	out := make([]model.Post, 0, take)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, errs.Store("post.find_many", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Store("post.find_many", err)
	}
	return out, nil
}
