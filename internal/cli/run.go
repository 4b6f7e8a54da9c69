package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rhwb/cadence/internal/store"
)

var (
	// Run flags
	autoApprove  bool
	runBatchSize int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full categorization pipeline",
	Long: `Back up the comments table, extract eligible coach comments, classify
them, and write the computed categories back in batches. A distribution
preview with sample comments is shown before the write; the write requires
confirmation unless --yes is given.

Individual record failures are counted and reported, not fatal. Extraction
and backup failures abort the run before any write.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&autoApprove, "yes", false, "skip the confirmation prompt")
	runCmd.Flags().IntVar(&runBatchSize, "batch-size", 0, "records per update batch (default from config)")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout())
	defer cancel()

	runner, db, err := newRunner(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer db.Close()

	if runBatchSize > 0 {
		runner.BatchSize = runBatchSize
	}

	if !autoApprove {
		runner.Confirm = func() (bool, error) {
			return promptYesNo(cmd.InOrStdin(), cmd.OutOrStdout())
		}
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, store.ErrUndefinedColumn) {
			cmd.Println("\nMANUAL ACTION REQUIRED:")
			cmd.Println("  1. Add the category column to the comments table:")
			cmd.Printf("     %s\n", store.CategoryColumnDDL(cfg.Tables.Comments))
			cmd.Println("  2. Re-run this command")
		}
		return err
	}

	if summary.Aborted {
		return nil
	}

	cmd.Println("\nComments categorization completed successfully.")
	return nil
}

func promptYesNo(in io.Reader, out io.Writer) (bool, error) {
	fmt.Fprint(out, "Do you want to proceed with updating the database? (y/N): ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
