package pipeline

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhwb/cadence/internal/classify"
)

func TestAudit(t *testing.T) {
	r, mock, out := newTestRunner(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT workout_key, comment_text, comment_user, category FROM rhwb_activities_comments")).
		WillReturnRows(sqlmock.NewRows([]string{"workout_key", "comment_text", "comment_user", "category"}).
			AddRow("w1", "Nice work", "coach@club.org", "Acknowledgement").
			AddRow("w2", "See you at practice tomorrow evening", "coach@club.org", nil).
			AddRow("w3", "Good job", "coach@club.org", nil).
			AddRow("w3", "Good job", "other.coach@club.org", nil).
			AddRow("w4", "I had fun!", "runner@club.org", nil))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT email_id FROM rhwb_coaches")).
		WillReturnRows(sqlmock.NewRows([]string{"email_id"}).
			AddRow("coach@club.org").
			AddRow("other.coach@club.org"))

	report, err := r.Audit(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalComments)
	assert.Equal(t, 2, report.TotalCoaches)
	assert.Equal(t, 4, report.Eligible, "runner-authored comment is excluded")
	assert.Equal(t, 1, report.Categorized)
	assert.Equal(t, 3, report.Uncategorized)

	require.Len(t, report.Samples, 3)
	assert.Equal(t, classify.General, report.Samples[0].Predicted)
	assert.Equal(t, classify.Acknowledgement, report.Samples[1].Predicted)

	require.Len(t, report.Duplicates, 1)
	assert.Equal(t, "w3", report.Duplicates[0].WorkoutKey)
	assert.Equal(t, 2, report.Duplicates[0].Count)

	output := out.String()
	assert.Contains(t, output, "CATEGORIZATION AUDIT")
	assert.Contains(t, output, "AMBIGUOUS UPDATE KEYS")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditSampleLimit(t *testing.T) {
	r, mock, _ := newTestRunner(t)

	rows := sqlmock.NewRows([]string{"workout_key", "comment_text", "comment_user", "category"})
	rows.AddRow("w1", "See you tomorrow", "coach@club.org", nil)
	rows.AddRow("w2", "Back on Monday then", "coach@club.org", nil)
	rows.AddRow("w3", "Until next week", "coach@club.org", nil)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT workout_key, comment_text, comment_user, category FROM rhwb_activities_comments")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT email_id FROM rhwb_coaches")).
		WillReturnRows(sqlmock.NewRows([]string{"email_id"}).AddRow("coach@club.org"))

	report, err := r.Audit(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, 3, report.Uncategorized)
	assert.Len(t, report.Samples, 2)

	require.NoError(t, mock.ExpectationsWereMet())
}
