package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "postgres"), mock
}

func TestCommentStoreAll(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCommentStore(db, "rhwb_activities_comments")

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT workout_key, comment_text, comment_user, category FROM rhwb_activities_comments")).
		WillReturnRows(sqlmock.NewRows([]string{"workout_key", "comment_text", "comment_user", "category"}).
			AddRow("w1", "Nice work", "coach@club.org", "Acknowledgement").
			AddRow("w2", nil, "runner@club.org", nil))

	comments, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 2)

	assert.Equal(t, Comment{WorkoutKey: "w1", Text: "Nice work", Author: "coach@club.org", Category: "Acknowledgement"}, comments[0])
	assert.Equal(t, Comment{WorkoutKey: "w2", Author: "runner@club.org"}, comments[1])

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentStoreUpdateCategory(t *testing.T) {
	updateSQL := regexp.QuoteMeta(
		"UPDATE rhwb_activities_comments SET category = $1 WHERE workout_key = $2 AND comment_text = $3")

	t.Run("single row matched", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewCommentStore(db, "rhwb_activities_comments")

		mock.ExpectExec(updateSQL).
			WithArgs("Technical Feedback", "w1", "Watch your pace on the hills").
			WillReturnResult(sqlmock.NewResult(0, 1))

		rows, err := s.UpdateCategory(context.Background(), "w1", "Watch your pace on the hills", "Technical Feedback")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("predicate matched nothing", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewCommentStore(db, "rhwb_activities_comments")

		mock.ExpectExec(updateSQL).
			WithArgs("General", "w9", "gone").
			WillReturnResult(sqlmock.NewResult(0, 0))

		rows, err := s.UpdateCategory(context.Background(), "w9", "gone", "General")
		require.NoError(t, err)
		assert.Equal(t, int64(0), rows)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("store rejects the write", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewCommentStore(db, "rhwb_activities_comments")

		mock.ExpectExec(updateSQL).
			WithArgs("General", "w1", "text").
			WillReturnError(errors.New("permission denied"))

		_, err := s.UpdateCategory(context.Background(), "w1", "text", "General")
		require.Error(t, err)

		var storeErr *Error
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "update-category", storeErr.Op)
		assert.Equal(t, "rhwb_activities_comments", storeErr.Table)

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCommentStoreCategorizedLabels(t *testing.T) {
	db, mock := newMockDB(t)
	s := NewCommentStore(db, "rhwb_activities_comments")

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT category FROM rhwb_activities_comments WHERE category IS NOT NULL")).
		WillReturnRows(sqlmock.NewRows([]string{"category"}).
			AddRow("General").
			AddRow("Acknowledgement").
			AddRow("General"))

	labels, err := s.CategorizedLabels(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"General", "Acknowledgement", "General"}, labels)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureCategoryColumn(t *testing.T) {
	t.Run("column present", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewCommentStore(db, "rhwb_activities_comments")

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("rhwb_activities_comments", "category").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		require.NoError(t, s.EnsureCategoryColumn(context.Background()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("column missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		s := NewCommentStore(db, "rhwb_activities_comments")

		mock.ExpectQuery("SELECT EXISTS").
			WithArgs("rhwb_activities_comments", "category").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := s.EnsureCategoryColumn(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUndefinedColumn)
		assert.Contains(t, err.Error(), "ALTER TABLE rhwb_activities_comments ADD COLUMN category VARCHAR(50);")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
