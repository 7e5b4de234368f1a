package har

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/usestring/harbind/pkg/types"
)

// DefaultLoadWorkers bounds concurrent file loads in LoadFiles.
const DefaultLoadWorkers = 4

// LoadFile reads and parses a single HAR file.
func LoadFile(path string, opts Options) ([]types.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	requests, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return requests, nil
}

// Loader returns the requests of the archive at path.
type Loader func(ctx context.Context, path string) ([]types.Request, error)

// FileLoader returns a Loader that parses files with LoadFile.
func FileLoader(opts Options) Loader {
	return func(ctx context.Context, path string) ([]types.Request, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return LoadFile(path, opts)
	}
}

// LoadFiles runs load over paths concurrently, with at most workers in
// flight (DefaultLoadWorkers when workers <= 0). Results are returned in the
// order of paths. The first failure cancels the remaining loads.
func LoadFiles(ctx context.Context, paths []string, workers int, load Loader) ([][]types.Request, error) {
	if workers <= 0 {
		workers = DefaultLoadWorkers
	}

	results := make([][]types.Request, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			requests, err := load(ctx, path)
			if err != nil {
				return err
			}
			results[i] = requests
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
