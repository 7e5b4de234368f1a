// Package cli implements the harbind command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/usestring/harbind/internal/config"
	"github.com/usestring/harbind/internal/logging"
)

// NewRootCmd builds the harbind command tree.
func NewRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "harbind",
		Short: "Infer session headers and value bindings from HAR recordings",
		Long: `harbind reads an HTTP Archive (HAR) recording and works out which
request headers persist for the whole session and which header values were
copied out of earlier responses. The result is a replay plan in which those
values are variables instead of literals.

Tuning and logging are configured through HARBIND_* and LOG_* environment
variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	root.AddCommand(
		newInferCmd(&logLevel),
		newServeCmd(&logLevel),
		newSchemaCmd(),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// setupLogging configures the default logger for a command. Output goes to
// errOut unless LOG_FILE is set.
func setupLogging(cfg *config.Config, level string, errOut io.Writer) (func() error, error) {
	logCfg := cfg.Logging()
	if level != "" {
		logCfg.Level = level
	}
	return logging.SetupWriter(logCfg, errOut)
}
