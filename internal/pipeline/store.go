package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/singleflight"

	"github.com/usestring/harbind/internal/cache"
	"github.com/usestring/harbind/pkg/har"
	"github.com/usestring/harbind/pkg/types"
)

// Store loads archives from disk and keeps recently parsed ones in memory.
// An archive is reparsed when its size or modification time changes.
type Store struct {
	cache   *cache.ArchiveCache
	group   singleflight.Group
	workers int
}

// NewStore creates a Store holding up to maxItems parsed archives and
// loading at most workers archives at once in LoadMany.
func NewStore(maxItems, workers int) (*Store, error) {
	c, err := cache.NewArchiveCache(maxItems)
	if err != nil {
		return nil, fmt.Errorf("creating archive cache: %w", err)
	}
	if workers <= 0 {
		workers = har.DefaultLoadWorkers
	}
	return &Store{cache: c, workers: workers}, nil
}

// Load returns the requests of the archive at path. Concurrent loads of the
// same unchanged file share one parse.
func (s *Store) Load(ctx context.Context, path string, opts har.Options) ([]types.Request, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading %s: is a directory", path)
	}

	key := fmt.Sprintf("%s|%d|%d|%t|%t|%t", abs, info.Size(), info.ModTime().UnixNano(),
		opts.IncludeOptions, opts.ExcludeCookieHeaders, opts.Unsafe)
	if cached, ok := s.cache.Get(key); ok {
		slog.Debug("archive cache hit", slog.String("path", abs))
		return cached, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		requests, err := har.LoadFile(abs, opts)
		if err != nil {
			return nil, err
		}
		s.cache.Put(key, requests)
		return requests, nil
	})
	if err != nil {
		return nil, err
	}
	slog.Debug("archive loaded",
		slog.String("path", abs),
		slog.Int("requests", len(v.([]types.Request))),
		slog.Bool("shared", shared),
	)
	return v.([]types.Request), nil
}

// LoadMany loads several archives concurrently through the cache. Results
// follow the order of paths; the first failure cancels the remaining loads.
func (s *Store) LoadMany(ctx context.Context, paths []string, opts har.Options) ([][]types.Request, error) {
	return har.LoadFiles(ctx, paths, s.workers, func(ctx context.Context, path string) ([]types.Request, error) {
		return s.Load(ctx, path, opts)
	})
}

// Len returns the number of archives currently cached.
func (s *Store) Len() int {
	return s.cache.Len()
}
