package store

import (
	"context"
	"fmt"
)

// columnExistsQuery checks for a column in the current schema.
const columnExistsQuery = `
SELECT EXISTS (
    SELECT 1
    FROM information_schema.columns
    WHERE table_schema = current_schema()
      AND table_name = $1
      AND column_name = $2
)`

// CategoryColumnDDL is the manual statement the system owner must run when the
// category column is missing. The pipeline never issues DDL against the source
// table itself.
func CategoryColumnDDL(table string) string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN category VARCHAR(50);", table)
}

// EnsureCategoryColumn verifies the category column exists before any write.
// A missing column is fatal and the error carries the remedial DDL so the CLI
// can surface it.
func (s *CommentStore) EnsureCategoryColumn(ctx context.Context) error {
	var exists bool
	if err := s.db.GetContext(ctx, &exists, columnExistsQuery, s.table, "category"); err != nil {
		return ParsePostgresError(err, "ensure-column", s.table)
	}

	if !exists {
		return &Error{
			Op:    "ensure-column",
			Table: s.table,
			Err:   fmt.Errorf("%w: category; run manually: %s", ErrUndefinedColumn, CategoryColumnDDL(s.table)),
		}
	}

	return nil
}
