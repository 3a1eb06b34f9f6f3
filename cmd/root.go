package cmd

import (
	"errors"
	"fmt"
	"os"

	"link-verifier/core/logger"
	"link-verifier/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "link-verifier",
	Short: "YouTube link verifier",
	Long: `Link Verifier checks that the YouTube videos referenced by a CSV dataset
are still reachable and unchanged, and refreshes the stored title and
fingerprint of rows whose video metadata has moved on.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits with status 1 on failure.
func Execute() {
	err := RootCmd.Execute()
	if err == nil {
		return
	}
	// Mismatches in check-only mode are a result, not a failure.
	if errors.Is(err, reconcile.ErrMismatchesFound) {
		os.Exit(1)
	}

	// Console format with debug level gives ISO8601 timestamps for a CLI.
	cfg := &logger.Config{
		Level:  "debug",
		Format: "console",
	}

	l, logErr := logger.New(cfg)
	if logErr == nil {
		l.Error("command failed", zap.Error(err))
		_ = l.Sync()
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
