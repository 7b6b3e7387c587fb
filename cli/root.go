// Package cli is the thin cobra/viper glue over the core: it parses
// arguments, loads an AppConfig, wires the ports and progress
// renderer, and calls into orchestrator/validator/repository. None of
// the decisions here are part of the core's contract — the core is
// fully exercised and tested without this package.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	cfgFile          string
	environment      string
	packageDirectory string
	commandTimeout   time.Duration
	verbose          bool
	noColor          bool
)

// RootCmd is the top-level "selfie" command.
var RootCmd = &cobra.Command{
	Use:   "selfie",
	Short: "a declarative, environment-aware package orchestrator",
	Long: `selfie installs packages described in YAML files, resolving their
dependencies and running each package's check/install commands for the
active environment in dependency order.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.selfie.yaml or $HOME/.selfie.yaml)")
	RootCmd.PersistentFlags().StringVar(&environment, "environment", "", "active environment (e.g. macos, ubuntu)")
	RootCmd.PersistentFlags().StringVar(&packageDirectory, "package-directory", "", "directory containing package YAML files")
	RootCmd.PersistentFlags().DurationVar(&commandTimeout, "command-timeout", 0, "timeout for check/install commands")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print verbose diagnostic output")
	RootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable ANSI color in output")

	RootCmd.AddCommand(packageCmd)
	RootCmd.AddCommand(configCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the command tree and returns the process exit code:
// 0 on success, 2 for errors a command marks with newUsageError, and
// 1 for every other error. Cobra's own argument-count and flag-parsing
// errors are not marked and therefore exit with 1. The context passed to
// every subcommand is cancelled on SIGINT/SIGTERM, which propagates
// down through the orchestrator to the in-flight CommandRunner call
// per §5's cancellation contract.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		if _, ok := err.(usageError); ok {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

// usageError marks an error a command raises itself (an invalid
// package name, an existing package file, a failed package or config
// validation), distinct from a core error, so Execute can map it to
// exit code 2.
type usageError struct{ error }

func newUsageError(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}
