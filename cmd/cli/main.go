package main

import (
	"fmt"
	"os"

	"conflictdash/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Exit codes
const (
	ExitOK          = 0
	ExitFailure     = 1 // Dataset or internal failure.
	ExitInvalidArgs = 2 // Bad filter range or flag value.
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.HasCode(err, errors.CodeInvalidFilterRange), errors.HasCode(err, errors.CodeInvalidInput):
		return ExitInvalidArgs
	default:
		return ExitFailure
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "conflictdash-cli",
		Short:         "Query the monthly political violence dataset from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	opts.register(rootCmd)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.WithCode(errors.CodeInvalidInput, err)
	})

	rootCmd.AddCommand(
		newAboutCmd(opts),
		newQuarterlyCmd(opts),
		newAlertsCmd(opts),
		newTopCmd(opts),
		newPanelCmd(opts),
	)
	return rootCmd
}
