// Package service holds the business rules of the auth and journal slices.
// Each service depends only on the storage interfaces declared here.
package service

import (
	"context"
	"errors"

	"github.com/crucial707/trade-journal/internal/models"
)

var (
	// ErrEmailTaken is returned by Register when the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both an unknown email and a wrong hash.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEntryNotFound is returned when no journal entry has the requested id.
	ErrEntryNotFound = errors.New("journal entry not found")
)

// UserStore is the user accessor. Lookups that match nothing return
// repo.ErrNotFound; Create on a taken email returns repo.ErrDuplicate.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByCredentials(ctx context.Context, email, passwordHash string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// EntryStore is the journal entry accessor. GetByID and Update return
// repo.ErrNotFound for unknown ids. List methods order by entry time, newest first.
type EntryStore interface {
	Create(ctx context.Context, e *models.JournalEntry) error
	GetByID(ctx context.Context, id int64) (*models.JournalEntry, error)
	Update(ctx context.Context, e *models.JournalEntry) error
	Delete(ctx context.Context, id int64) (bool, error)
	ListByUserID(ctx context.Context, userID string) ([]models.JournalEntry, error)
	ListByUserIDAndSymbol(ctx context.Context, userID, symbol string) ([]models.JournalEntry, error)
	ListByUserIDBetween(ctx context.Context, userID string, start, end models.LocalTime) ([]models.JournalEntry, error)
	CountByUserID(ctx context.Context, userID string) (int64, error)
	TotalPnlByUserID(ctx context.Context, userID string) (*float64, error)
}
