package postgres

import (
	"context"

	"github.com/and161185/blog-api/internal/errs"
	"github.com/and161185/blog-api/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// userColumns is the full user row, password digest included. It never leaves
// the repository/service boundary.
const userColumns = `id, email, name, password, created_at, updated_at`

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user row and fills its timestamps.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, email, name, password)
VALUES ($1, $2, $3, $4)
RETURNING created_at, updated_at`
	err := r.db.Pool.QueryRow(ctx, q, u.ID, u.Email, u.Name, u.PasswordHash).Scan(&u.CreatedAt, &u.UpdatedAt)
	return mapWriteErr("user.create", err)
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	u, err := scanUser(r.db.Pool.QueryRow(ctx, q, id))
	if err != nil {
		return nil, mapReadErr("user.get_by_id", err)
	}
	return u, nil
}

// GetByEmail selects a user by exact email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	u, err := scanUser(r.db.Pool.QueryRow(ctx, q, email))
	if err != nil {
		return nil, mapReadErr("user.get_by_email", err)
	}
	return u, nil
}

// Update applies the non-nil fields of upd.
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, upd model.UserUpdate) (*model.User, error) {
	const q = `
UPDATE users
SET email = COALESCE($2, email),
    name = COALESCE($3, name),
    password = COALESCE($4, password),
    updated_at = now()
WHERE id = $1
RETURNING ` + userColumns
	u, err := scanUser(r.db.Pool.QueryRow(ctx, q, id, upd.Email, upd.Name, upd.PasswordHash))
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, mapWriteErr("user.update", err)
		}
		return nil, mapReadErr("user.update", err)
	}
	return u, nil
}

// Delete removes a user; posts go with it (ON DELETE CASCADE).
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM users WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return errs.Store("user.delete", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}
