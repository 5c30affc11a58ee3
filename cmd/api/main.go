package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/trade-journal/internal/config"
	"github.com/crucial707/trade-journal/internal/db"
	"github.com/crucial707/trade-journal/internal/logging"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err := run(cfg, log); err != nil {
		log.Error().Err(err).Msg("journal api exited")
		os.Exit(1)
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database FIRST
	database, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()
	log.Info().Str("driver", cfg.DBDriver).Msg("connected to the database")

	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DBDriver, cfg.DatabaseURL()); err != nil {
			return err
		}
		log.Info().Msg("schema migrations applied")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(database, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server LAST
	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Bool("tls", cfg.TLSEnabled()).Str("env", cfg.Env).Msg("starting server")
		var err error
		if cfg.TLSEnabled() {
			err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = srv.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
