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

// ========================
// REPOSITORY STRUCT
// ========================

// EntryRepo persists journal entries. Queries are written with ? placeholders
// and rebound for the pool's driver.
type EntryRepo struct {
	DB      *sqlx.DB
	Timeout time.Duration
}

func NewEntryRepo(db *sqlx.DB, timeout time.Duration) *EntryRepo {
	return &EntryRepo{DB: db, Timeout: timeout}
}

const entryColumns = `id, user_id, entry_time, symbol, entry_price, stop_loss, position_size,
		target, trailing_stop, exit_time, exit_price, pnl, setup, created_at, updated_at`

// ========================
// CREATE ENTRY
// ========================

// Create inserts e and sets e.ID. CreatedAt and UpdatedAt must already be set.
func (r *EntryRepo) Create(ctx context.Context, e *models.JournalEntry) error {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	query := r.DB.Rebind(`
		INSERT INTO journal_entries (user_id, entry_time, symbol, entry_price, stop_loss, position_size,
			target, trailing_stop, exit_time, exit_price, pnl, setup, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := r.DB.QueryRowxContext(ctx, query,
		e.UserID, e.EntryTime, e.Symbol, e.Entry, e.StopLoss, e.PositionSize,
		e.Target, e.TrailingStop, e.ExitTime, e.Exit, e.Pnl, e.Setup, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if err != nil {
		return fmt.Errorf("insert journal entry: %w", err)
	}
	return nil
}

// ========================
// GET ENTRY BY ID
// ========================

func (r *EntryRepo) GetByID(ctx context.Context, id int64) (*models.JournalEntry, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	var e models.JournalEntry
	err := r.DB.GetContext(ctx, &e,
		r.DB.Rebind(`SELECT `+entryColumns+` FROM journal_entries WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	return &e, nil
}

// ========================
// UPDATE ENTRY
// ========================

// Update writes every mutable column of e plus updated_at. created_at is never touched.
func (r *EntryRepo) Update(ctx context.Context, e *models.JournalEntry) error {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	query := r.DB.Rebind(`
		UPDATE journal_entries
		SET user_id = ?, entry_time = ?, symbol = ?, entry_price = ?, stop_loss = ?, position_size = ?,
			target = ?, trailing_stop = ?, exit_time = ?, exit_price = ?, pnl = ?, setup = ?, updated_at = ?
		WHERE id = ?`)

	res, err := r.DB.ExecContext(ctx, query,
		e.UserID, e.EntryTime, e.Symbol, e.Entry, e.StopLoss, e.PositionSize,
		e.Target, e.TrailingStop, e.ExitTime, e.Exit, e.Pnl, e.Setup, e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("update journal entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update journal entry: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ========================
// DELETE ENTRY BY ID
// ========================

// Delete reports whether a row was removed.
func (r *EntryRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`DELETE FROM journal_entries WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("delete journal entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete journal entry: %w", err)
	}
	return n > 0, nil
}

// ========================
// LIST BY USER
// ========================

// ListByUserID returns the user's entries, newest entry_time first.
func (r *EntryRepo) ListByUserID(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	return r.list(ctx, `WHERE user_id = ?`, userID)
}

func (r *EntryRepo) ListByUserIDAndSymbol(ctx context.Context, userID, symbol string) ([]models.JournalEntry, error) {
	return r.list(ctx, `WHERE user_id = ? AND symbol = ?`, userID, symbol)
}

// ListByUserIDBetween returns entries with start <= entry_time <= end.
func (r *EntryRepo) ListByUserIDBetween(ctx context.Context, userID string, start, end models.LocalTime) ([]models.JournalEntry, error) {
	return r.list(ctx, `WHERE user_id = ? AND entry_time >= ? AND entry_time <= ?`, userID, start, end)
}

func (r *EntryRepo) list(ctx context.Context, where string, args ...interface{}) ([]models.JournalEntry, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	query := `SELECT ` + entryColumns + ` FROM journal_entries ` + where + ` ORDER BY entry_time DESC, id DESC`

	entries := []models.JournalEntry{}
	if err := r.DB.SelectContext(ctx, &entries, r.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// ========================
// AGGREGATES
// ========================

func (r *EntryRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	var n int64
	err := r.DB.QueryRowxContext(ctx,
		r.DB.Rebind(`SELECT COUNT(*) FROM journal_entries WHERE user_id = ?`), userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return n, nil
}

// TotalPnlByUserID sums non-null pnl values. It returns nil when there is nothing to sum.
func (r *EntryRepo) TotalPnlByUserID(ctx context.Context, userID string) (*float64, error) {
	ctx, cancel := withTimeout(ctx, r.Timeout)
	defer cancel()

	var total sql.NullFloat64
	err := r.DB.QueryRowxContext(ctx,
		r.DB.Rebind(`SELECT SUM(pnl) FROM journal_entries WHERE user_id = ? AND pnl IS NOT NULL`), userID,
	).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("sum pnl: %w", err)
	}
	if !total.Valid {
		return nil, nil
	}
	return &total.Float64, nil
}
