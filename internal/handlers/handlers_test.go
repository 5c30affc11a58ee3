package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/trade-journal/internal/repo"
	"github.com/crucial707/trade-journal/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return r
}

// newMockDB wraps sqlmock in a postgres-flavored sqlx pool so queries rebind to $n.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	auth := service.NewAuthService(repo.NewUserRepo(db, time.Second), zerolog.Nop())
	return &AuthHandler{Auth: auth, Google: service.PassThroughGoogleAuth{Log: zerolog.Nop()}, Log: zerolog.Nop()}, mock
}

func newJournalHandler(t *testing.T) (*JournalHandler, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	journal := service.NewJournalService(repo.NewEntryRepo(db, time.Second), zerolog.Nop())
	journal.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return &JournalHandler{Journal: journal, Log: zerolog.Nop()}, mock
}
