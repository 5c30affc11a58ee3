package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/crucial707/trade-journal/internal/models"
	"github.com/jmoiron/sqlx"
)

// ==========================
// UserRepo
// ==========================
type UserRepo struct {
	DB      *sqlx.DB
	Timeout time.Duration
}

// ==========================
// Constructor
// ==========================
func NewUserRepo(db *sqlx.DB, timeout time.Duration) *UserRepo {
	return &UserRepo{DB: db, Timeout: timeout}
}

// ==========================
// Create User
// ==========================

// Create inserts a user and returns it with id set. A taken email yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	user := &models.User{
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	query := r.DB.Rebind(`
		INSERT INTO users (email, password_hash, created_at)
		VALUES (?, ?, ?)
		RETURNING id
	`)

	err := r.DB.QueryRowxContext(ctx, query, user.Email, user.PasswordHash, user.CreatedAt).
		Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// ==========================
// Get By Email And Password Hash
// ==========================

// GetByCredentials matches the exact stored pair. Both a wrong email and a
// wrong hash produce ErrNotFound.
func (r *UserRepo) GetByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error) {
	return r.getOne(ctx, `
		SELECT id, email, password_hash, created_at
		FROM users
		WHERE email = ? AND password_hash = ?
	`, email, passwordHash)
}

// ==========================
// Exists By Email
// ==========================
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowxContext(ctx,
		r.DB.Rebind(`SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`),
		email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	user := &models.User{}
	err := r.DB.GetContext(ctx, user, r.DB.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
