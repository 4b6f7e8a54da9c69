package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/rhwb/cadence/internal/logger"
)

// backupStamp formats timestamps embedded in backup artifact names.
const backupStamp = "20060102T150405"

// BackupInfo describes the single artifact a backup run produced: either a
// sibling table or a local JSON export.
type BackupInfo struct {
	Table string `json:"table,omitempty"`
	File  string `json:"file,omitempty"`
	Rows  int    `json:"rows,omitempty"`
}

func (b *BackupInfo) String() string {
	if b.Table != "" {
		return fmt.Sprintf("table %s", b.Table)
	}
	return fmt.Sprintf("file %s (%d records)", b.File, b.Rows)
}

// BackupManager snapshots the comments table before the updater writes to it.
// The updater performs in-place per-record updates with no rollback, so a
// failed backup is fatal to the run.
type BackupManager struct {
	db    *sqlx.DB
	table string
	dir   string
	now   func() time.Time
	log   *zap.Logger
}

// NewBackupManager creates a manager that snapshots the named table. Local
// export artifacts are written into dir.
func NewBackupManager(db *sqlx.DB, table, dir string) *BackupManager {
	return &BackupManager{
		db:    db,
		table: table,
		dir:   dir,
		now:   time.Now,
		log:   logger.Store(),
	}
}

// Backup captures a reversible copy of the table. The server-side table copy
// is attempted first; when it fails, every current row is exported to a local
// timestamped JSON file. Only total failure of both strategies is an error.
func (m *BackupManager) Backup(ctx context.Context) (*BackupInfo, error) {
	stamp := m.now().UTC().Format(backupStamp)

	target := fmt.Sprintf("%s_backup_%s", m.table, stamp)
	copySQL := fmt.Sprintf("CREATE TABLE %s AS TABLE %s",
		pq.QuoteIdentifier(target), pq.QuoteIdentifier(m.table))

	_, copyErr := m.db.ExecContext(ctx, copySQL)
	if copyErr == nil {
		m.log.Info("backup table created", zap.String("table", target))
		return &BackupInfo{Table: target}, nil
	}

	m.log.Warn("server-side table copy unavailable, exporting locally",
		zap.Error(copyErr))

	info, exportErr := m.export(ctx, stamp)
	if exportErr != nil {
		return nil, &Error{
			Op:    "backup",
			Table: m.table,
			Err:   fmt.Errorf("server-side copy failed (%v); local export failed: %w", copyErr, exportErr),
		}
	}

	m.log.Info("backup exported",
		zap.String("file", info.File),
		zap.Int("rows", info.Rows))
	return info, nil
}

// export serializes the full table to an indented JSON artifact.
func (m *BackupManager) export(ctx context.Context, stamp string) (*BackupInfo, error) {
	rows, err := m.db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %s", pq.QuoteIdentifier(m.table)))
	if err != nil {
		return nil, ParsePostgresError(err, "backup-export", m.table)
	}
	defer rows.Close()

	records := make([]map[string]interface{}, 0)
	for rows.Next() {
		record := map[string]interface{}{}
		if err := rows.MapScan(record); err != nil {
			return nil, ParsePostgresError(err, "backup-export", m.table)
		}
		for k, v := range record {
			if b, ok := v.([]byte); ok {
				record[k] = string(b)
			}
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, ParsePostgresError(err, "backup-export", m.table)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal backup data: %w", err)
	}

	path := filepath.Join(m.dir, fmt.Sprintf("backup_%s_%s.json", m.table, stamp))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write backup file: %w", err)
	}

	return &BackupInfo{File: path, Rows: len(records)}, nil
}
