package db

import (
	"context"
	"fmt"
	"time"

	"github.com/crucial707/trade-journal/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Connect opens the pool for cfg.DBDriver, sizes it and verifies it with a ping.
// The caller owns the returned pool and must Close it on shutdown.
func Connect(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	dsn := DSN(cfg)

	db, err := sqlx.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == "sqlite3" {
		// One writer at a time; sqlite serializes anyway and this avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.DBDriver, err)
	}

	return db, nil
}

// DSN returns the driver-specific connection string. lib/pq takes the same
// escaped URL that golang-migrate does.
func DSN(cfg config.Config) string {
	if cfg.DBDriver == "sqlite3" {
		return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=on", cfg.SQLitePath)
	}
	return cfg.DatabaseURL()
}
