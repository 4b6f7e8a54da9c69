package store

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// RosterStore reads the coach roster table. The roster is read-only input:
// the pipeline never mutates it.
type RosterStore struct {
	db    *sqlx.DB
	table string
}

// NewRosterStore creates a store over the named roster table.
func NewRosterStore(db *sqlx.DB, table string) *RosterStore {
	return &RosterStore{db: db, table: table}
}

// Table returns the backing table name.
func (s *RosterStore) Table() string {
	return s.table
}

// CoachEmails returns the set of recognized coach principals.
func (s *RosterStore) CoachEmails(ctx context.Context) (map[string]struct{}, error) {
	query, args, err := squirrel.Select("email_id").
		From(s.table).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "list-coaches", Table: s.table, Err: err}
	}

	var emails []sql.NullString
	if err := s.db.SelectContext(ctx, &emails, query, args...); err != nil {
		return nil, ParsePostgresError(err, "list-coaches", s.table)
	}

	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e.Valid && e.String != "" {
			set[e.String] = struct{}{}
		}
	}
	return set, nil
}
