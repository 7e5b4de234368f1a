package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/usestring/harbind/internal/config"
	"github.com/usestring/harbind/internal/pipeline"
	"github.com/usestring/harbind/pkg/har"
)

type inferFlags struct {
	includeOptions       bool
	excludeCookieHeaders bool
	unsafe               bool
	noInfer              bool
	format               string
	output               string
}

func newInferCmd(logLevel *string) *cobra.Command {
	var f inferFlags

	cmd := &cobra.Command{
		Use:   "infer FILE",
		Short: "Print the session snapshots, bindings and replay plan of a HAR file",
		Example: `  # Report as JSON on stdout
  harbind infer session.har

  # YAML, keeping CORS preflights and dropping Cookie headers
  harbind infer session.har --include-options --exclude-cookie-headers --format yaml

  # Session headers only, written to a file
  harbind infer session.har --no-infer -o report.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			cleanup, err := setupLogging(cfg, *logLevel, cmd.ErrOrStderr())
			if err != nil {
				return fmt.Errorf("setting up logging: %w", err)
			}
			defer func() { _ = cleanup() }()

			return runInfer(cmd.OutOrStdout(), cfg, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.includeOptions, "include-options", false, "Keep OPTIONS (CORS preflight) requests")
	cmd.Flags().BoolVar(&f.excludeCookieHeaders, "exclude-cookie-headers", false, "Drop Cookie headers before inference")
	cmd.Flags().BoolVar(&f.unsafe, "unsafe", false, "Skip malformed entries instead of failing")
	cmd.Flags().BoolVar(&f.noInfer, "no-infer", false, "Skip origin inference; every header stays literal")
	cmd.Flags().StringVarP(&f.format, "format", "f", formatJSON, "Output format: json, yaml")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func runInfer(stdout io.Writer, cfg *config.Config, path string, f inferFlags) error {
	if err := validateFormat(f.format); err != nil {
		return err
	}

	requests, err := har.LoadFile(path, har.Options{
		IncludeOptions:       f.includeOptions,
		ExcludeCookieHeaders: f.excludeCookieHeaders,
		Unsafe:               f.unsafe,
	})
	if err != nil {
		return err
	}

	matcher, err := cfg.NewMatcher()
	if err != nil {
		return fmt.Errorf("creating matcher: %w", err)
	}

	opts := pipeline.DefaultOptions()
	opts.Source = path
	opts.NoInfer = f.noInfer
	opts.Matcher = matcher
	opts.Origin = cfg.OriginOptions()
	opts.Plan = cfg.PlanOptions()
	report := pipeline.Run(requests, opts)

	out := stdout
	if f.output != "" {
		file, err := os.Create(f.output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", f.output, err)
		}
		defer file.Close()
		out = file
	}
	return writeReport(out, report, f.format)
}
