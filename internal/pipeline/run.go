// Package pipeline runs session inference, origin inference and plan
// construction over the requests of one archive.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/usestring/harbind/internal/match"
	"github.com/usestring/harbind/internal/origin"
	"github.com/usestring/harbind/internal/plan"
	"github.com/usestring/harbind/internal/session"
	"github.com/usestring/harbind/pkg/types"
)

// Options configures a run.
type Options struct {
	Source  string // Archive path, echoed in the report
	NoInfer bool   // Skip origin inference; every header stays literal

	Matcher *match.Matcher // Shared so its memo table survives across runs; nil builds a fresh one
	Origin  origin.Options
	Plan    plan.Options
}

// DefaultOptions returns options with the standard tuning.
func DefaultOptions() Options {
	return Options{
		Origin: origin.DefaultOptions(),
		Plan:   plan.DefaultOptions(),
	}
}

// Run infers the session snapshots and bindings of requests and builds the
// replay plan. Inferrers are created per call, so repeated runs over the
// same requests yield equal reports.
func Run(requests []types.Request, opts Options) *types.Report {
	start := time.Now()

	snapshots := session.New().Infer(requests)

	var bindings [][]types.Binding
	if opts.NoInfer {
		bindings = make([][]types.Binding, len(requests))
		for i := range bindings {
			bindings[i] = []types.Binding{}
		}
	} else {
		m := opts.Matcher
		if m == nil {
			m = match.New(match.DefaultOptions(), nil)
		}
		bindings = origin.New(m, opts.Origin).Infer(requests, snapshots)
	}

	report := &types.Report{
		Source:       opts.Source,
		RequestCount: len(requests),
		Snapshots:    snapshots,
		Bindings:     bindings,
		Plan:         plan.Build(requests, snapshots, bindings, opts.Plan),
	}

	slog.Info("inference complete",
		slog.String("source", opts.Source),
		slog.Int("requests", report.RequestCount),
		slog.Int("bindings", report.BindingCount()),
		slog.Bool("no_infer", opts.NoInfer),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return report
}
