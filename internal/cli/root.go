package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rhwb/cadence/internal/logger"
	"github.com/rhwb/cadence/pkg/cadence"
)

// Global configuration variables
var (
	configFile  string
	cfg         *Config
	databaseURL string
	debug       bool
	verbose     bool
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cadence",
		Short: "Cadence - RHWB Comment Categorization",
		Long: `Cadence categorizes coach comments on runner activities using a
deterministic rule cascade and writes the results back to the database.

Cadence provides:
- Rule-based classification of coach comments into five categories
- A pre-write table backup with a local export fallback
- Batched database updates with per-record error accounting
- Verification reports recomputed from the live table`,
		Version: cadence.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(debug); err != nil {
				return err
			}

			var err error
			cfg, err = LoadConfig(configFile)
			if err != nil {
				if verbose {
					cmd.Printf("Warning: failed to load config file: %v\n", err)
				}
				cfg = DefaultConfig()
			}

			if databaseURL == "" && cfg.Database.URL != "" {
				databaseURL = cfg.Database.URL
			}
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: cadence.yaml)")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "url", "", "database connection URL")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(versionCmd)

	return rootCmd
}
