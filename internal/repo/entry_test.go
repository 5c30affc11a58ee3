package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/trade-journal/internal/models"
)

var entryCols = []string{"id", "user_id", "entry_time", "symbol", "entry_price", "stop_loss", "position_size",
	"target", "trailing_stop", "exit_time", "exit_price", "pnl", "setup", "created_at", "updated_at"}

func entryRow(rows *sqlmock.Rows, id int64, symbol string, entryTime time.Time, pnl interface{}) *sqlmock.Rows {
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return rows.AddRow(id, "a@b.com", entryTime, symbol, 100.0, nil, 10.0,
		nil, nil, nil, nil, pnl, nil, created, created)
}

func TestEntryRepo_Create(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`INSERT INTO journal_entries \(user_id, entry_time, symbol`).
		WithArgs("a@b.com", sqlmock.AnyArg(), "AAPL", 100.0, nil, 10.0,
			nil, nil, nil, nil, nil, nil, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))

	now := models.NewLocalTime(time.Now())
	e := &models.JournalEntry{
		UserID:       "a@b.com",
		EntryTime:    models.NewLocalTime(time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)),
		Symbol:       "AAPL",
		Entry:        100,
		PositionSize: 10,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	repo := NewEntryRepo(db, time.Second)
	if err := repo.Create(context.Background(), e); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID != 42 {
		t.Errorf("ID: got %d, want 42", e.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEntryRepo_GetByID(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`(?s)SELECT id, user_id, entry_time.* FROM journal_entries WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(entryRow(sqlmock.NewRows(entryCols), 5, "AAPL", time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), 12.5))

	repo := NewEntryRepo(db, time.Second)
	e, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if e.ID != 5 || e.Symbol != "AAPL" || e.EntryTime.String() != "2024-01-01T09:30:00" {
		t.Errorf("unexpected entry: %+v", e)
	}
	if e.Pnl == nil || *e.Pnl != 12.5 {
		t.Errorf("Pnl: got %v", e.Pnl)
	}
	if e.StopLoss != nil || e.ExitTime != nil || e.Setup != nil {
		t.Errorf("optional fields should be nil: %+v", e)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEntryRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`FROM journal_entries WHERE id = \$1`).
		WithArgs(int64(999)).
		WillReturnError(sql.ErrNoRows)

	repo := NewEntryRepo(db, time.Second)
	if _, err := repo.GetByID(context.Background(), 999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEntryRepo_Update(t *testing.T) {
	db, mock := newMockDB(t)

	exit := 110.0
	mock.ExpectExec(`(?s)UPDATE journal_entries\s+SET user_id = \$1.*updated_at = \$13\s+WHERE id = \$14`).
		WithArgs("a@b.com", sqlmock.AnyArg(), "AAPL", 100.0, nil, 10.0,
			nil, nil, nil, exit, nil, nil, sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE journal_entries`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	e := &models.JournalEntry{ID: 7, UserID: "a@b.com", Symbol: "AAPL", Entry: 100, PositionSize: 10, Exit: &exit}

	repo := NewEntryRepo(db, time.Second)
	if err := repo.Update(context.Background(), e); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.Update(context.Background(), e); err != ErrNotFound {
		t.Errorf("second Update: expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEntryRepo_Delete(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(`DELETE FROM journal_entries WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM journal_entries WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewEntryRepo(db, time.Second)
	deleted, err := repo.Delete(context.Background(), 7)
	if err != nil || !deleted {
		t.Errorf("first Delete: got %v, %v", deleted, err)
	}
	deleted, err = repo.Delete(context.Background(), 7)
	if err != nil || deleted {
		t.Errorf("second Delete: got %v, %v", deleted, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEntryRepo_ListByUserID(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows(entryCols)
	entryRow(rows, 2, "MSFT", time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC), nil)
	entryRow(rows, 1, "AAPL", time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), nil)

	mock.ExpectQuery(`FROM journal_entries WHERE user_id = \$1 ORDER BY entry_time DESC, id DESC`).
		WithArgs("a@b.com").
		WillReturnRows(rows)

	repo := NewEntryRepo(db, time.Second)
	entries, err := repo.ListByUserID(context.Background(), "a@b.com")
	if err != nil {
		t.Fatalf("ListByUserID: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != 2 || entries[1].ID != 1 {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEntryRepo_ListEmptyIsNotNil(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`WHERE user_id = \$1 AND symbol = \$2 ORDER BY entry_time DESC`).
		WithArgs("a@b.com", "TSLA").
		WillReturnRows(sqlmock.NewRows(entryCols))

	repo := NewEntryRepo(db, time.Second)
	entries, err := repo.ListByUserIDAndSymbol(context.Background(), "a@b.com", "TSLA")
	if err != nil {
		t.Fatalf("ListByUserIDAndSymbol: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEntryRepo_ListByUserIDBetween(t *testing.T) {
	db, mock := newMockDB(t)

	start := models.NewLocalTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	end := models.NewLocalTime(time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC))

	mock.ExpectQuery(`WHERE user_id = \$1 AND entry_time >= \$2 AND entry_time <= \$3 ORDER BY entry_time DESC`).
		WithArgs("a@b.com", start.Time, end.Time).
		WillReturnRows(entryRow(sqlmock.NewRows(entryCols), 1, "AAPL", start.Time, nil))

	repo := NewEntryRepo(db, time.Second)
	entries, err := repo.ListByUserIDBetween(context.Background(), "a@b.com", start, end)
	if err != nil {
		t.Fatalf("ListByUserIDBetween: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("unexpected entries: %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEntryRepo_Aggregates(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM journal_entries WHERE user_id = \$1`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`SELECT SUM\(pnl\) FROM journal_entries WHERE user_id = \$1 AND pnl IS NOT NULL`).
		WithArgs("a@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(150.5))
	mock.ExpectQuery(`SELECT SUM\(pnl\)`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(nil))

	repo := NewEntryRepo(db, time.Second)
	n, err := repo.CountByUserID(context.Background(), "a@b.com")
	if err != nil || n != 3 {
		t.Errorf("CountByUserID: got %d, %v", n, err)
	}
	total, err := repo.TotalPnlByUserID(context.Background(), "a@b.com")
	if err != nil || total == nil || *total != 150.5 {
		t.Errorf("TotalPnlByUserID: got %v, %v", total, err)
	}
	total, err = repo.TotalPnlByUserID(context.Background(), "nobody")
	if err != nil || total != nil {
		t.Errorf("TotalPnlByUserID(nobody): got %v, %v", total, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
