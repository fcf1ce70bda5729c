package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/irodav/travel-listing-api/internal/model"
)

// UserRepo provides read access to user accounts. Accounts themselves
// belong to the external identity subsystem; the API only resolves
// references against them. Writes exist solely for the seeder.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a new UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user. A fresh UUID is assigned when the ID is
// empty and the generated id and creation timestamp are populated on
// the provided struct. Returns ErrUsernameExists on a username
// collision.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	const q = `INSERT INTO users (id, username, email, first_name, last_name, password_hash, is_staff)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.IsStaff)
	if err != nil {
		if isMySQLErr(err, mysqlErrDuplicateEntry) {
			return ErrUsernameExists
		}
		return err
	}
	const sel = `SELECT created_at FROM users WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, u.ID).Scan(&u.CreatedAt)
}

// GetByID returns the user with the given id, or ErrNotFound.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT id, username, email, first_name, last_name, password_hash, is_staff, created_at
	           FROM users WHERE id = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsStaff, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns the user with the given username, or
// ErrNotFound. Used by the seeder for create-if-absent semantics.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT id, username, email, first_name, last_name, password_hash, is_staff, created_at
	           FROM users WHERE username = ?`
	var u model.User
	err := r.db.QueryRowContext(ctx, q, username).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.IsStaff, &u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Exists reports whether a user with the given id exists. Write
// payloads referencing users are resolved through this check.
func (r *UserRepo) Exists(ctx context.Context, id string) (bool, error) {
	const q = `SELECT 1 FROM users WHERE id = ?`
	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteNonStaff removes every non-privileged user and, through
// cascades, everything they authored. Used by seed --clear.
func (r *UserRepo) DeleteNonStaff(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE is_staff = 0`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
