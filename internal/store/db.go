// Package store provides data access for the comment categorization pipeline:
// the activity comments and coach roster tables, the pre-write backup, and the
// category column prerequisite check.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// DBConfig holds connection settings for the backing Postgres database.
type DBConfig struct {
	URL              string
	ConnMaxLifetime  time.Duration
	MaxOpenConns     int
	MaxIdleConns     int
	StatementTimeout time.Duration
}

// NewDBConfig returns a config with pool defaults suited to a sequential
// batch job.
func NewDBConfig(url string) *DBConfig {
	return &DBConfig{
		URL:              url,
		ConnMaxLifetime:  10 * time.Minute,
		MaxOpenConns:     10,
		MaxIdleConns:     5,
		StatementTimeout: 300 * time.Second,
	}
}

// Connect opens and verifies a database connection. The statement timeout is
// set server-side so a single stuck query cannot hold the run forever.
func (cfg *DBConfig) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	timeout := fmt.Sprintf("SET statement_timeout = '%ds'", int(cfg.StatementTimeout.Seconds()))
	if _, err := db.ExecContext(ctx, timeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set statement timeout: %w", err)
	}

	return db, nil
}
