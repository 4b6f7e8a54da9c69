// Package pipeline orchestrates the comment categorization run: schema check,
// backup, extraction, classification preview, batched updates, and the final
// verification pass. Stages execute strictly in order; the run is a sequential
// batch job, not a service.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rhwb/cadence/internal/classify"
	"github.com/rhwb/cadence/internal/logger"
	"github.com/rhwb/cadence/internal/store"
)

// Default throttling knobs. Batches exist purely to bound per-request blast
// radius; they are not transactional.
const (
	DefaultBatchSize  = 50
	DefaultSampleSize = 3
)

// Runner owns one pipeline run. Confirm, when set, gates the irreversible
// update stage on a human decision; nil means the run is pre-approved.
type Runner struct {
	Extractor  *store.Extractor
	Comments   *store.CommentStore
	Roster     *store.RosterStore
	Backup     *store.BackupManager
	BatchSize  int
	SampleSize int
	Out        io.Writer
	Confirm    func() (bool, error)

	runID string
	log   *zap.Logger
}

// NewRunner assembles a runner with defaulted knobs and a fresh run ID. The
// run ID tags every log line and ties the run to its backup artifact.
func NewRunner(extractor *store.Extractor, comments *store.CommentStore, roster *store.RosterStore, backup *store.BackupManager, out io.Writer) *Runner {
	runID := uuid.NewString()
	return &Runner{
		Extractor:  extractor,
		Comments:   comments,
		Roster:     roster,
		Backup:     backup,
		BatchSize:  DefaultBatchSize,
		SampleSize: DefaultSampleSize,
		Out:        out,
		runID:      runID,
		log:        logger.Pipeline().With(zap.String("run_id", runID)),
	}
}

// RunID returns the identifier assigned to this run.
func (r *Runner) RunID() string {
	return r.runID
}

// Summary is the authoritative account of a run. SuccessCount plus ErrorCount
// always equals the number of classified records fed to the updater.
type Summary struct {
	RunID        string
	Backup       *store.BackupInfo
	Extracted    int
	SuccessCount int
	ErrorCount   int
	Aborted      bool
	Intended     *classify.Distribution
	Verified     *classify.Distribution
}

// Run executes the full pipeline. Extraction, schema, and backup failures are
// fatal and abort before any write; individual update failures are counted and
// the run continues.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RunID: r.runID}

	banner(r.Out, "RHWB COMMENT CATEGORIZATION")
	fmt.Fprintf(r.Out, "Run ID: %s\n", r.runID)

	fmt.Fprintln(r.Out, "\nChecking category column...")
	if err := r.Comments.EnsureCategoryColumn(ctx); err != nil {
		return summary, err
	}
	fmt.Fprintln(r.Out, "Category column present.")

	fmt.Fprintf(r.Out, "\nCreating backup of %s...\n", r.Comments.Table())
	info, err := r.Backup.Backup(ctx)
	if err != nil {
		return summary, err
	}
	summary.Backup = info
	fmt.Fprintf(r.Out, "Backup created: %s\n", info)

	fmt.Fprintln(r.Out, "\nExtracting coach comments...")
	comments, err := r.Extractor.Extract(ctx)
	if err != nil {
		return summary, err
	}
	summary.Extracted = len(comments)
	fmt.Fprintf(r.Out, "Extracted %d coach comments.\n", len(comments))

	if len(comments) == 0 {
		fmt.Fprintln(r.Out, "No comments found to categorize.")
		return summary, nil
	}

	results := classify.ClassifyAll(comments)
	dist := classify.DistributionOf(results)
	summary.Intended = dist

	banner(r.Out, "CATEGORIZATION ANALYSIS")
	fmt.Fprintf(r.Out, "Total comments processed: %d\n\nCategory distribution:\n", dist.Total())
	writeDistribution(r.Out, dist)
	writeSamples(r.Out, results, r.SampleSize, dist)

	if r.Confirm != nil {
		banner(r.Out, "REVIEW REQUIRED")
		fmt.Fprintln(r.Out, "Review the categorization results above before the write proceeds.")
		ok, err := r.Confirm()
		if err != nil {
			return summary, fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			summary.Aborted = true
			fmt.Fprintln(r.Out, "Aborted before write. No changes made.")
			return summary, nil
		}
	}

	banner(r.Out, "DATABASE UPDATE")
	summary.SuccessCount, summary.ErrorCount = r.update(ctx, results)
	fmt.Fprintf(r.Out, "\nSuccessfully updated: %d comments\n", summary.SuccessCount)
	if summary.ErrorCount > 0 {
		fmt.Fprintf(r.Out, "Failed to update: %d comments\n", summary.ErrorCount)
	}

	banner(r.Out, "VERIFICATION")
	verified, err := r.Verify(ctx)
	if err != nil {
		return summary, err
	}
	summary.Verified = verified

	return summary, nil
}

// Preview extracts, classifies, and reports without touching the store.
func (r *Runner) Preview(ctx context.Context) (*classify.Distribution, error) {
	fmt.Fprintln(r.Out, "Extracting coach comments...")
	comments, err := r.Extractor.Extract(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(r.Out, "Extracted %d coach comments.\n", len(comments))

	results := classify.ClassifyAll(comments)
	dist := classify.DistributionOf(results)

	banner(r.Out, "CATEGORIZATION ANALYSIS (DRY RUN)")
	fmt.Fprintf(r.Out, "Total comments processed: %d\n\nCategory distribution:\n", dist.Total())
	writeDistribution(r.Out, dist)
	writeSamples(r.Out, results, r.SampleSize, dist)

	return dist, nil
}

// Verify re-reads the store and recomputes the category distribution
// independently of the in-memory result set, catching silent write failures
// the per-record error counting cannot see.
func (r *Runner) Verify(ctx context.Context) (*classify.Distribution, error) {
	labels, err := r.Comments.CategorizedLabels(ctx)
	if err != nil {
		return nil, err
	}

	dist := classify.DistributionOfLabels(labels)
	fmt.Fprintf(r.Out, "Total comments categorized: %d\n\nFinal category distribution:\n", dist.Total())
	writeDistribution(r.Out, dist)

	return dist, nil
}

// update writes each computed category back in fixed-size batches. Every
// record is attempted exactly once; failures and predicate misses are counted,
// never propagated. A predicate matching more than one row is a success but
// flagged, since (workout_key, comment_text) is not guaranteed unique.
func (r *Runner) update(ctx context.Context, results []classify.Result) (successCount, errorCount int) {
	batches := chunk(results, r.BatchSize)
	fmt.Fprintf(r.Out, "Processing %d batches of up to %d comments each...\n", len(batches), r.BatchSize)

	for i, batch := range batches {
		fmt.Fprintf(r.Out, "Processing batch %d/%d...\n", i+1, len(batches))

		for _, res := range batch {
			rows, err := r.Comments.UpdateCategory(ctx, res.Comment.WorkoutKey, res.Comment.Text, string(res.Category))
			if err != nil {
				errorCount++
				r.log.Error("update failed",
					zap.String("workout_key", res.Comment.WorkoutKey),
					zap.Error(err))
				continue
			}
			if rows == 0 {
				errorCount++
				r.log.Error("update matched no rows",
					zap.String("workout_key", res.Comment.WorkoutKey))
				continue
			}
			if rows > 1 {
				r.log.Warn("update matched multiple rows, predicate is ambiguous",
					zap.String("workout_key", res.Comment.WorkoutKey),
					zap.Int64("rows", rows))
			}
			successCount++
		}
	}

	return successCount, errorCount
}

func chunk(results []classify.Result, size int) [][]classify.Result {
	if size <= 0 {
		size = DefaultBatchSize
	}

	var batches [][]classify.Result
	for start := 0; start < len(results); start += size {
		end := start + size
		if end > len(results) {
			end = len(results)
		}
		batches = append(batches, results[start:end])
	}
	return batches
}
