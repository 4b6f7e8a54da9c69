package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/rhwb/cadence/internal/logger"
)

// Comment is one coach-authored comment attached to a workout. WorkoutKey is
// not unique across comments: an activity can carry comments from several
// authors, so writes are keyed by (WorkoutKey, Text).
type Comment struct {
	WorkoutKey string `json:"workout_key"`
	Text       string `json:"comment_text"`
	Author     string `json:"comment_user"`
	Category   string `json:"category,omitempty"`
}

// commentRow is the nullable scan target. Rows are validated into Comment at
// the store boundary so NULLs never leak into the pipeline.
type commentRow struct {
	WorkoutKey sql.NullString `db:"workout_key"`
	Text       sql.NullString `db:"comment_text"`
	Author     sql.NullString `db:"comment_user"`
	Category   sql.NullString `db:"category"`
}

func (r commentRow) comment() Comment {
	return Comment{
		WorkoutKey: r.WorkoutKey.String,
		Text:       r.Text.String,
		Author:     r.Author.String,
		Category:   r.Category.String,
	}
}

// CommentStore reads and updates the activity comments table.
type CommentStore struct {
	db    *sqlx.DB
	table string
	log   *zap.Logger
}

// NewCommentStore creates a store over the named comments table.
func NewCommentStore(db *sqlx.DB, table string) *CommentStore {
	return &CommentStore{
		db:    db,
		table: table,
		log:   logger.Store(),
	}
}

// Table returns the backing table name.
func (s *CommentStore) Table() string {
	return s.table
}

// All returns every row's classification projection, NULLs mapped to zero
// values. No eligibility filtering is applied here.
func (s *CommentStore) All(ctx context.Context) ([]Comment, error) {
	query, args, err := squirrel.Select("workout_key", "comment_text", "comment_user", "category").
		From(s.table).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "list-comments", Table: s.table, Err: err}
	}

	var rows []commentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ParsePostgresError(err, "list-comments", s.table)
	}

	comments := make([]Comment, 0, len(rows))
	for _, r := range rows {
		comments = append(comments, r.comment())
	}
	return comments, nil
}

// UpdateCategory writes the computed category for rows matching the composite
// (workout_key, comment_text) predicate and reports how many rows matched.
// Zero rows means the predicate missed, more than one means the predicate was
// ambiguous; both are the caller's call to judge.
func (s *CommentStore) UpdateCategory(ctx context.Context, workoutKey, text, category string) (int64, error) {
	query, args, err := squirrel.Update(s.table).
		Set("category", category).
		Where(squirrel.Eq{"workout_key": workoutKey}).
		Where(squirrel.Eq{"comment_text": text}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, &Error{Op: "update-category", Table: s.table, Err: fmt.Errorf("failed to build update query: %w", err)}
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, ParsePostgresError(err, "update-category", s.table)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, &Error{Op: "update-category", Table: s.table, Err: fmt.Errorf("failed to get rows affected: %w", err)}
	}

	return rows, nil
}

// CategorizedLabels returns the category of every classified row, for
// recomputing the distribution independently of the in-memory result set.
func (s *CommentStore) CategorizedLabels(ctx context.Context) ([]string, error) {
	query, args, err := squirrel.Select("category").
		From(s.table).
		Where("category IS NOT NULL").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "verify", Table: s.table, Err: err}
	}

	var labels []string
	if err := s.db.SelectContext(ctx, &labels, query, args...); err != nil {
		return nil, ParsePostgresError(err, "verify", s.table)
	}
	return labels, nil
}
