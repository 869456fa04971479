package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

var postCols = []string{
	"id", "title", "content", "slug", "published", "author_id", "created_at", "updated_at",
	"email", "name", "u_created_at", "u_updated_at", "tags",
}

func postRow(rows *pgxmock.Rows, id, author uuid.UUID, slug string, tags string) *pgxmock.Rows {
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return rows.AddRow(id, "Title", "Body", slug, true, author, now, now,
		"a@example.com", "Alice", now, now, []byte(tags))
}

func TestPostRepo_Create_WithTags(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()

	np := model.NewPost{
		ID:        uuid.Must(uuid.NewV4()),
		Title:     "Title",
		Content:   "Body",
		Slug:      "first-post",
		Published: true,
		AuthorID:  uuid.Must(uuid.NewV4()),
		Tags:      []string{"go", "sql"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO posts \(id, title, content, slug, published, author_id\)`).
		WithArgs(np.ID, np.Title, np.Content, np.Slug, np.Published, np.AuthorID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`INSERT INTO tags \(tag_name\)`).
		WithArgs("go").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectExec(`INSERT INTO post_tags \(post_id, tag_id\)`).
		WithArgs(np.ID, int64(1)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`INSERT INTO tags \(tag_name\)`).
		WithArgs("sql").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
	mock.ExpectExec(`INSERT INTO post_tags \(post_id, tag_id\)`).
		WithArgs(np.ID, int64(2)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(`WHERE p\.id = \$1`).
		WithArgs(np.ID).
		WillReturnRows(postRow(pgxmock.NewRows(postCols), np.ID, np.AuthorID, np.Slug,
			`[{"id":1,"tagName":"go"},{"id":2,"tagName":"sql"}]`))
	mock.ExpectCommit()

	p, err := r.Create(ctx, np)
	require.NoError(t, err)
	require.Equal(t, np.ID, p.ID)
	require.Equal(t, np.AuthorID, p.Author.ID)
	require.Equal(t, "Alice", p.Author.Name)
	require.Equal(t, []model.Tag{{ID: 1, Name: "go"}, {ID: 2, Name: "sql"}}, p.Tags)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_Create_DuplicateSlug(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)

	np := model.NewPost{ID: uuid.Must(uuid.NewV4()), Title: "T", Slug: "taken", AuthorID: uuid.Must(uuid.NewV4())}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO posts`).
		WithArgs(np.ID, np.Title, np.Content, np.Slug, np.Published, np.AuthorID).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "posts_slug_key"})
	mock.ExpectRollback()

	_, err := r.Create(context.Background(), np)
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
	require.EqualError(t, err, "posts_slug_key already exists")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_Create_UnknownAuthor(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)

	np := model.NewPost{ID: uuid.Must(uuid.NewV4()), Title: "T", Slug: "s", AuthorID: uuid.Must(uuid.NewV4())}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO posts`).
		WithArgs(np.ID, np.Title, np.Content, np.Slug, np.Published, np.AuthorID).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	_, err := r.Create(context.Background(), np)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPostRepo_Create_BeginFails(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)

	mock.ExpectBegin().WillReturnError(errors.New("boom"))
	_, err := r.Create(context.Background(), model.NewPost{ID: uuid.Must(uuid.NewV4())})
	require.ErrorIs(t, err, errs.ErrStore)
}

func TestPostRepo_GetBySlugOrID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	author := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(`WHERE p\.id::text = \$1 OR p\.slug = \$1`).
		WithArgs("hello-world").
		WillReturnRows(postRow(pgxmock.NewRows(postCols), id, author, "hello-world", `[]`))
	p, err := r.GetBySlugOrID(ctx, "hello-world")
	require.NoError(t, err)
	require.Equal(t, id, p.ID)
	require.NotNil(t, p.Tags)
	require.Empty(t, p.Tags)

	mock.ExpectQuery(`WHERE p\.id::text = \$1 OR p\.slug = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetBySlugOrID(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPostRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())
	author := uuid.Must(uuid.NewV4())
	title := "New title"
	upd := model.PostUpdate{Title: &title, Tags: []string{"go"}}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE posts`).
		WithArgs(id, upd.Title, upd.Content, upd.Slug, upd.Published).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(`INSERT INTO tags`).
		WithArgs("go").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(4)))
	mock.ExpectExec(`INSERT INTO post_tags`).
		WithArgs(id, int64(4)).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mock.ExpectQuery(`WHERE p\.id = \$1`).
		WithArgs(id).
		WillReturnRows(postRow(pgxmock.NewRows(postCols), id, author, "s", `[{"id":4,"tagName":"go"}]`))
	mock.ExpectCommit()

	p, err := r.Update(ctx, id, upd)
	require.NoError(t, err)
	require.Equal(t, []model.Tag{{ID: 4, Name: "go"}}, p.Tags)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE posts`).
		WithArgs(id, upd.Title, upd.Content, upd.Slug, upd.Published).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectRollback()

	_, err = r.Update(ctx, id, upd)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, id))

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, id), errs.ErrNotFound)
}

func TestPostRepo_CountAndFindMany_Search(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPostRepo(db)
	ctx := context.Background()
	author := uuid.Must(uuid.NewV4())
	q := model.PostQuery{Where: model.PostWhere{AuthorID: &author, Search: "50%_off"}}
	pattern := `%50\%\_off%`

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WithArgs(author, pattern).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	n, err := r.Count(ctx, q)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	id1, id2 := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	rows := pgxmock.NewRows(postCols)
	postRow(rows, id1, author, "a", `[]`)
	postRow(rows, id2, author, "b", `[{"id":1,"tagName":"go"}]`)
	mock.ExpectQuery(`ORDER BY p\.created_at ASC, p\.id ASC OFFSET \$3 LIMIT \$4`).
		WithArgs(author, pattern, 2, 2).
		WillReturnRows(rows)
	posts, err := r.FindMany(ctx, q, 2, 2)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, id1, posts[0].ID)
	require.Equal(t, id2, posts[1].ID)
	require.Len(t, posts[1].Tags, 1)

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnError(errors.New("boom"))
	_, err = r.Count(ctx, model.PostQuery{})
	require.ErrorIs(t, err, errs.ErrStore)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostWhere(t *testing.T) {
	t.Parallel()

	var a args
	require.Empty(t, postWhere(model.PostWhere{}, &a))
	require.Empty(t, a.vals)

	id := uuid.Must(uuid.NewV4())
	a = args{}
	require.Equal(t, " WHERE p.author_id = $1", postWhere(model.PostWhere{AuthorID: &id}, &a))
	require.Equal(t, []any{id}, a.vals)

	a = args{}
	w := postWhere(model.PostWhere{Search: "go"}, &a)
	require.Contains(t, w, "p.title LIKE $1")
	require.Contains(t, w, "t.tag_name LIKE $1")
	require.Contains(t, w, "u.name LIKE $1")
	require.Equal(t, []any{"%go%"}, a.vals)

	require.Equal(t, " ORDER BY p.created_at DESC, p.id DESC", postOrder(model.OrderCreatedDesc))
}
