package cli

import (
	"context"

	"github.com/spf13/cobra"
)

var auditSampleLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Report unreachable and ambiguous comments",
	Long: `Analyze the comments table against the coach roster: how many rows
survive the eligibility filter, which coach comments are still uncategorized
(with the category the cascade would assign), and which (workout_key,
comment_text) pairs are shared by multiple rows and therefore cannot be
updated individually.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().IntVar(&auditSampleLimit, "limit", 10, "maximum uncategorized comments to display")
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout())
	defer cancel()

	runner, db, err := newRunner(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = runner.Audit(ctx, auditSampleLimit)
	return err
}
