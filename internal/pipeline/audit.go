package pipeline

import (
	"context"
	"fmt"
	"sort"

	"github.com/rhwb/cadence/internal/classify"
	"github.com/rhwb/cadence/internal/store"
)

// AuditSample is one uncategorized coach comment together with the category
// the cascade would assign to it.
type AuditSample struct {
	Comment   store.Comment
	Predicted classify.Category
}

// DuplicateKey is a (workout_key, comment_text) pair shared by more than one
// eligible row. The updater's predicate matches all of them at once, so these
// rows cannot be addressed individually.
type DuplicateKey struct {
	WorkoutKey string
	Text       string
	Count      int
}

// AuditReport summarizes the filtering funnel and the rows the updater cannot
// reach or cannot address unambiguously.
type AuditReport struct {
	TotalComments int
	TotalCoaches  int
	Eligible      int
	Categorized   int
	Uncategorized int
	Samples       []AuditSample
	Duplicates    []DuplicateKey
}

// Audit reads both tables in full and reports why rows are (or are not)
// reachable by a categorization run: the eligibility funnel, uncategorized
// coach comments with their predicted category, and ambiguous update keys.
func (r *Runner) Audit(ctx context.Context, sampleLimit int) (*AuditReport, error) {
	all, err := r.Comments.All(ctx)
	if err != nil {
		return nil, err
	}

	coaches, err := r.Roster.CoachEmails(ctx)
	if err != nil {
		return nil, err
	}

	eligible := store.FilterEligible(all, coaches)

	report := &AuditReport{
		TotalComments: len(all),
		TotalCoaches:  len(coaches),
		Eligible:      len(eligible),
	}

	seen := make(map[[2]string]int, len(eligible))
	for _, c := range eligible {
		seen[[2]string{c.WorkoutKey, c.Text}]++

		if c.Category != "" {
			report.Categorized++
			continue
		}
		report.Uncategorized++
		if len(report.Samples) < sampleLimit {
			report.Samples = append(report.Samples, AuditSample{
				Comment:   c,
				Predicted: classify.Classify(c.Text),
			})
		}
	}

	for key, count := range seen {
		if count > 1 {
			report.Duplicates = append(report.Duplicates, DuplicateKey{
				WorkoutKey: key[0],
				Text:       key[1],
				Count:      count,
			})
		}
	}
	sort.Slice(report.Duplicates, func(i, j int) bool {
		if report.Duplicates[i].Count != report.Duplicates[j].Count {
			return report.Duplicates[i].Count > report.Duplicates[j].Count
		}
		return report.Duplicates[i].WorkoutKey < report.Duplicates[j].WorkoutKey
	})

	r.writeAudit(report)
	return report, nil
}

func (r *Runner) writeAudit(report *AuditReport) {
	banner(r.Out, "CATEGORIZATION AUDIT")
	fmt.Fprintf(r.Out, "Total rows in %s: %d\n", r.Comments.Table(), report.TotalComments)
	fmt.Fprintf(r.Out, "Coach emails in %s: %d\n", r.Roster.Table(), report.TotalCoaches)
	fmt.Fprintf(r.Out, "Eligible coach comments: %d\n", report.Eligible)
	fmt.Fprintf(r.Out, "Categorized: %d\n", report.Categorized)
	fmt.Fprintf(r.Out, "Uncategorized: %d\n", report.Uncategorized)

	if len(report.Samples) > 0 {
		banner(r.Out, "UNCATEGORIZED COMMENTS (PREDICTED)")
		for i, s := range report.Samples {
			fmt.Fprintf(r.Out, "\n%d. %q\n", i+1, classify.Truncate(s.Comment.Text, 100))
			fmt.Fprintf(r.Out, "   Predicted category: %s\n", s.Predicted)
			fmt.Fprintf(r.Out, "   Workout key: %s\n", s.Comment.WorkoutKey)
			fmt.Fprintf(r.Out, "   Author: %s\n", s.Comment.Author)
		}
	}

	if len(report.Duplicates) > 0 {
		banner(r.Out, "AMBIGUOUS UPDATE KEYS")
		fmt.Fprintln(r.Out, "These (workout_key, comment_text) pairs match more than one row;")
		fmt.Fprintln(r.Out, "updates against them affect every matching row at once.")
		for _, d := range report.Duplicates {
			fmt.Fprintf(r.Out, "  %s (%d rows): %q\n", d.WorkoutKey, d.Count, classify.Truncate(d.Text, 60))
		}
	}
}
