package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rhwb/cadence/internal/pipeline"
	"github.com/rhwb/cadence/internal/store"
)

// runTimeout bounds an entire pipeline run.
func runTimeout() time.Duration {
	return time.Duration(cfg.Pipeline.RunTimeoutMinutes) * time.Minute
}

// newRunner connects to the database and assembles a pipeline runner from the
// resolved configuration. The caller owns closing the returned DB.
func newRunner(ctx context.Context, out io.Writer) (*pipeline.Runner, *sqlx.DB, error) {
	if databaseURL == "" {
		return nil, nil, fmt.Errorf("database connection required: use --url, cadence.yaml, or DATABASE_URL")
	}

	dbCfg := store.NewDBConfig(databaseURL)
	dbCfg.MaxOpenConns = cfg.Database.MaxConnections
	dbCfg.StatementTimeout = time.Duration(cfg.Database.StatementTimeoutSeconds) * time.Second

	db, err := dbCfg.Connect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	comments := store.NewCommentStore(db, cfg.Tables.Comments)
	roster := store.NewRosterStore(db, cfg.Tables.Roster)
	extractor := store.NewExtractor(comments, roster)
	backup := store.NewBackupManager(db, cfg.Tables.Comments, cfg.Pipeline.BackupDir)

	runner := pipeline.NewRunner(extractor, comments, roster, backup, out)
	runner.BatchSize = cfg.Pipeline.BatchSize
	runner.SampleSize = cfg.Pipeline.SampleSize

	return runner, db, nil
}
