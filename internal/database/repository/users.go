package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// ErrDuplicateEmail is returned when inserting a user whose email already exists.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepo handles users.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Insert(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO users(id, name, email, phone, password_hash, is_service_provider, rating, review_count, profile_image, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.IsServiceProvider, u.Rating, u.ReviewCount, u.ProfileImage, u.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

// Upsert inserts or refreshes a user keyed by id. Used for fixed development identities.
func (r *UserRepo) Upsert(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO users(id, name, email, phone, password_hash, is_service_provider, rating, review_count, profile_image, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
	 name=excluded.name,
	 email=excluded.email,
	 phone=excluded.phone,
	 is_service_provider=excluded.is_service_provider,
	 rating=excluded.rating,
	 review_count=excluded.review_count,
	 profile_image=excluded.profile_image;
	`, u.ID, u.Name, u.Email, u.Phone, u.PasswordHash, u.IsServiceProvider, u.Rating, u.ReviewCount, u.ProfileImage, u.CreatedAt)
	return err
}

// ByEmail returns nil when no user matches.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, email, phone, password_hash, is_service_provider, rating, review_count, profile_image, created_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// Get returns nil when no user matches.
func (r *UserRepo) Get(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, email, phone, password_hash, is_service_provider, rating, review_count, profile_image, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// isUniqueViolation reports whether sqlite rejected a row for a unique index.
func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.IsServiceProvider, &u.Rating, &u.ReviewCount, &u.ProfileImage, &u.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
