package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Classify comments without writing anything",
	Long: `Extract eligible coach comments, run the classification cascade, and
print the resulting category distribution with sample comments. No backup is
taken and no row is updated.`,
	RunE: runPreview,
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout())
	defer cancel()

	runner, db, err := newRunner(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = runner.Preview(ctx)
	return err
}
