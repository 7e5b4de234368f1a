package tools

import (
	"context"

	"github.com/usestring/harbind/internal/config"
	"github.com/usestring/harbind/internal/match"
	"github.com/usestring/harbind/internal/pipeline"
	"github.com/usestring/harbind/pkg/har"
	"github.com/usestring/harbind/pkg/types"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config  *config.Config
	Store   *pipeline.Store
	Matcher *match.Matcher
}

// Load returns the requests of the archive at path, converting failures to
// coded errors.
func (d *Deps) Load(ctx context.Context, path string, opts har.Options) ([]types.Request, error) {
	if path == "" {
		return nil, ErrInvalidInput("path is required")
	}
	requests, err := d.Store.Load(ctx, path, opts)
	if err != nil {
		return nil, WrapLoadError(path, err)
	}
	return requests, nil
}

// RunOptions returns pipeline options using the configured thresholds and
// the shared matcher.
func (d *Deps) RunOptions(source string, noInfer bool) pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.Source = source
	opts.NoInfer = noInfer
	opts.Matcher = d.Matcher
	opts.Origin = d.Config.OriginOptions()
	opts.Plan = d.Config.PlanOptions()
	return opts
}
