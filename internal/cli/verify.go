package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Recompute the category distribution from the database",
	Long: `Re-read every categorized comment and print the category distribution
as stored. Useful after a run to confirm convergence independently of the
run's own counters.`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout())
	defer cancel()

	runner, db, err := newRunner(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = runner.Verify(ctx)
	return err
}
