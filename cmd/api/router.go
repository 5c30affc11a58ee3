package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/crucial707/trade-journal/internal/config"
	"github.com/crucial707/trade-journal/internal/handlers"
	"github.com/crucial707/trade-journal/internal/middleware"
	"github.com/crucial707/trade-journal/internal/repo"
	"github.com/crucial707/trade-journal/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// newRouter wires repos, services and handlers onto a chi router.
func newRouter(db *sqlx.DB, cfg config.Config, log zerolog.Logger) http.Handler {
	users := repo.NewUserRepo(db, cfg.DBQueryTimeout)
	entries := repo.NewEntryRepo(db, cfg.DBQueryTimeout)

	authHandler := &handlers.AuthHandler{
		Auth:   service.NewAuthService(users, log),
		Google: service.PassThroughGoogleAuth{Log: log.With().Str("component", "google").Logger()},
		Log:    log,
	}
	journalHandler := &handlers.JournalHandler{
		Journal: service.NewJournalService(entries, log),
		Log:     log,
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer(log))
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSEnabled()))
	r.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

	// ==========================
	// Operational
	// ==========================
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			handlers.JSONError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ready")
	})
	r.Handle("/metrics", promhttp.Handler())

	// ==========================
	// Auth
	// ==========================
	// CORS is per slice: auth is open to any origin by default, the journal
	// only to the configured front end.
	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.AuthCORSAllowedOrigins))
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Get("/check-email", authHandler.CheckEmail)
		r.Post("/google-login", authHandler.GoogleLogin)
	})

	// ==========================
	// Journal
	// ==========================
	r.Route("/api/journal", func(r chi.Router) {
		r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
		r.Post("/", journalHandler.CreateEntry)
		r.Get("/health", journalHandler.Health)

		r.Route("/user/{userId}", func(r chi.Router) {
			r.Get("/", journalHandler.ListByUser)
			r.Get("/symbol/{symbol}", journalHandler.ListBySymbol)
			r.Get("/date-range", journalHandler.ListByDateRange)
			r.Get("/stats", journalHandler.Stats)
		})

		r.Get("/{id}", journalHandler.GetEntry)
		r.Put("/{id}", journalHandler.UpdateEntry)
		r.Delete("/{id}", journalHandler.DeleteEntry)
	})

	return r
}
