package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/rhwb/cadence/internal/logger"
)

// Extractor produces the working set of comments eligible for classification:
// coach-authored, with non-empty trimmed text. The joined query is the primary
// strategy; when it fails (missing privileges, diverging schema on the roster
// side) extraction degrades to reading both tables and filtering client-side.
// Both paths apply the same predicate.
type Extractor struct {
	comments *CommentStore
	roster   *RosterStore
	log      *zap.Logger
}

// NewExtractor wires an extractor over the two collaborator stores.
func NewExtractor(comments *CommentStore, roster *RosterStore) *Extractor {
	return &Extractor{
		comments: comments,
		roster:   roster,
		log:      logger.Store(),
	}
}

// Extract returns all eligible comments. A failure of the surviving strategy
// is fatal: classification must never proceed on an incomplete working set.
func (e *Extractor) Extract(ctx context.Context) ([]Comment, error) {
	eligible, err := e.extractJoined(ctx)
	if err == nil {
		return eligible, nil
	}

	e.log.Warn("joined extraction unavailable, falling back to client-side filter",
		zap.Error(err))

	return e.extractClientSide(ctx)
}

// extractJoined pushes the coach filter into the database with an inner join
// against the roster.
func (e *Extractor) extractJoined(ctx context.Context) ([]Comment, error) {
	query, args, err := squirrel.Select("a.workout_key", "a.comment_text", "a.comment_user", "a.category").
		From(e.comments.table + " AS a").
		Join(fmt.Sprintf("%s AS b ON a.comment_user = b.email_id", e.roster.table)).
		Where("a.comment_text IS NOT NULL").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, &Error{Op: "extract", Table: e.comments.table, Err: err}
	}

	var rows []commentRow
	if err := e.comments.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ParsePostgresError(err, "extract", e.comments.table)
	}

	eligible := make([]Comment, 0, len(rows))
	for _, r := range rows {
		c, ok := validate(r.comment())
		if !ok {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible, nil
}

// extractClientSide reads both tables in full and applies the same predicate
// in process.
func (e *Extractor) extractClientSide(ctx context.Context) ([]Comment, error) {
	comments, err := e.comments.All(ctx)
	if err != nil {
		return nil, err
	}

	coaches, err := e.roster.CoachEmails(ctx)
	if err != nil {
		return nil, err
	}

	return FilterEligible(comments, coaches), nil
}

// FilterEligible applies the extraction predicate to raw comment rows: valid
// shape, non-empty trimmed text, author present in the coach set.
func FilterEligible(comments []Comment, coaches map[string]struct{}) []Comment {
	eligible := make([]Comment, 0, len(comments))
	for _, raw := range comments {
		c, ok := validate(raw)
		if !ok {
			continue
		}
		if _, isCoach := coaches[c.Author]; !isCoach {
			continue
		}
		eligible = append(eligible, c)
	}
	return eligible
}

// validate trims the comment text and rejects rows missing the fields the
// pipeline depends on.
func validate(c Comment) (Comment, bool) {
	c.Text = strings.TrimSpace(c.Text)
	if c.Text == "" || c.Author == "" || c.WorkoutKey == "" {
		return Comment{}, false
	}
	return c, true
}
