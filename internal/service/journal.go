package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/crucial707/trade-journal/internal/metrics"
	"github.com/crucial707/trade-journal/internal/models"
	"github.com/crucial707/trade-journal/internal/repo"
	"github.com/rs/zerolog"
)

// JournalService implements CRUD and per-user aggregates over journal entries.
type JournalService struct {
	Entries EntryStore
	Log     zerolog.Logger

	// Now is the clock used for createdAt/updatedAt. Defaults to time.Now.
	Now func() time.Time
}

func NewJournalService(entries EntryStore, log zerolog.Logger) *JournalService {
	return &JournalService{
		Entries: entries,
		Log:     log.With().Str("component", "journal").Logger(),
		Now:     time.Now,
	}
}

func (s *JournalService) now() models.LocalTime {
	if s.Now == nil {
		return models.NewLocalTime(time.Now())
	}
	return models.NewLocalTime(s.Now())
}

// CreateEntry stores a new entry built from req. createdAt and updatedAt are equal.
func (s *JournalService) CreateEntry(ctx context.Context, req models.JournalEntryRequest) (*models.JournalEntry, error) {
	e := models.NewJournalEntry(req)
	now := s.now()
	e.CreatedAt = now
	e.UpdatedAt = now

	if err := s.Entries.Create(ctx, &e); err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	metrics.IncEntryMutation("create")
	s.Log.Debug().Int64("id", e.ID).Str("user_id", e.UserID).Str("symbol", e.Symbol).Msg("entry created")
	return &e, nil
}

func (s *JournalService) GetEntryByID(ctx context.Context, id int64) (*models.JournalEntry, error) {
	e, err := s.Entries.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

// UpdateEntry replaces every mutable field of entry id with req, including
// clearing optional fields req leaves out. updatedAt always moves forward.
func (s *JournalService) UpdateEntry(ctx context.Context, id int64, req models.JournalEntryRequest) (*models.JournalEntry, error) {
	e, err := s.GetEntryByID(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Apply(req)
	now := s.now()
	if !now.After(e.UpdatedAt.Time) {
		now = models.NewLocalTime(e.UpdatedAt.Add(time.Microsecond))
	}
	e.UpdatedAt = now

	err = s.Entries.Update(ctx, e)
	if errors.Is(err, repo.ErrNotFound) {
		// deleted between read and write
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update entry %d: %w", id, err)
	}
	metrics.IncEntryMutation("update")
	return e, nil
}

// DeleteEntry reports whether an entry existed and was removed.
func (s *JournalService) DeleteEntry(ctx context.Context, id int64) (bool, error) {
	deleted, err := s.Entries.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete entry %d: %w", id, err)
	}
	if deleted {
		metrics.IncEntryMutation("delete")
	}
	return deleted, nil
}

func (s *JournalService) AllEntriesByUserID(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	return s.Entries.ListByUserID(ctx, userID)
}

func (s *JournalService) EntriesByUserIDAndSymbol(ctx context.Context, userID, symbol string) ([]models.JournalEntry, error) {
	return s.Entries.ListByUserIDAndSymbol(ctx, userID, symbol)
}

// EntriesByUserIDAndDateRange returns entries with start <= entryTime <= end.
func (s *JournalService) EntriesByUserIDAndDateRange(ctx context.Context, userID string, start, end models.LocalTime) ([]models.JournalEntry, error) {
	return s.Entries.ListByUserIDBetween(ctx, userID, start, end)
}

func (s *JournalService) EntryCountByUserID(ctx context.Context, userID string) (int64, error) {
	return s.Entries.CountByUserID(ctx, userID)
}

// TotalPnlByUserID is nil, not zero, when the user has no entry with a pnl.
func (s *JournalService) TotalPnlByUserID(ctx context.Context, userID string) (*float64, error) {
	return s.Entries.TotalPnlByUserID(ctx, userID)
}
