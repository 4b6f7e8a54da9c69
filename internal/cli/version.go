package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rhwb/cadence/pkg/cadence"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Long:  "Display cadence version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(cadence.FullVersionInfo())
	},
}
