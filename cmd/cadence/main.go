package main

import (
	"fmt"
	"os"

	"github.com/rhwb/cadence/internal/cli"
	"github.com/rhwb/cadence/internal/logger"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func Execute() error {
	cmd := cli.NewRootCommand()
	return cmd.Execute()
}
