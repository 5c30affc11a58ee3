package service

import (
	"context"
	"sort"
	"sync"

	"github.com/crucial707/trade-journal/internal/models"
	"github.com/crucial707/trade-journal/internal/repo"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byMail: map[string]models.User{}}
}

func (m *memUsers) Create(_ context.Context, email, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byMail[email]; ok {
		return nil, repo.ErrDuplicate
	}
	m.nextID++
	u := models.User{ID: m.nextID, Email: email, PasswordHash: passwordHash}
	m.byMail[email] = u
	return &u, nil
}

func (m *memUsers) GetByCredentials(_ context.Context, email, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byMail[email]
	if !ok || u.PasswordHash != passwordHash {
		return nil, repo.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byMail[email]
	return ok, nil
}

type memEntries struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.JournalEntry
}

func newMemEntries() *memEntries {
	return &memEntries{rows: map[int64]models.JournalEntry{}}
}

func (m *memEntries) Create(_ context.Context, e *models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	m.rows[e.ID] = *e
	return nil
}

func (m *memEntries) GetByID(_ context.Context, id int64) (*models.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &e, nil
}

func (m *memEntries) Update(_ context.Context, e *models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.rows[e.ID]
	if !ok {
		return repo.ErrNotFound
	}
	row := *e
	row.CreatedAt = prev.CreatedAt
	m.rows[e.ID] = row
	return nil
}

func (m *memEntries) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

func (m *memEntries) filter(keep func(models.JournalEntry) bool) []models.JournalEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.JournalEntry{}
	for _, e := range m.rows {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryTime.After(out[j].EntryTime.Time) })
	return out
}

func (m *memEntries) ListByUserID(_ context.Context, userID string) ([]models.JournalEntry, error) {
	return m.filter(func(e models.JournalEntry) bool { return e.UserID == userID }), nil
}

func (m *memEntries) ListByUserIDAndSymbol(_ context.Context, userID, symbol string) ([]models.JournalEntry, error) {
	return m.filter(func(e models.JournalEntry) bool { return e.UserID == userID && e.Symbol == symbol }), nil
}

func (m *memEntries) ListByUserIDBetween(_ context.Context, userID string, start, end models.LocalTime) ([]models.JournalEntry, error) {
	return m.filter(func(e models.JournalEntry) bool {
		return e.UserID == userID && !e.EntryTime.Before(start.Time) && !e.EntryTime.After(end.Time)
	}), nil
}

func (m *memEntries) CountByUserID(ctx context.Context, userID string) (int64, error) {
	list, _ := m.ListByUserID(ctx, userID)
	return int64(len(list)), nil
}

func (m *memEntries) TotalPnlByUserID(ctx context.Context, userID string) (*float64, error) {
	list, _ := m.ListByUserID(ctx, userID)
	var sum float64
	seen := false
	for _, e := range list {
		if e.Pnl != nil {
			sum += *e.Pnl
			seen = true
		}
	}
	if !seen {
		return nil, nil
	}
	return &sum, nil
}
