package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harbind/internal/cache"
	"github.com/usestring/harbind/internal/match"
	"github.com/usestring/harbind/pkg/har"
	"github.com/usestring/harbind/pkg/types"
)

const token = "ZZZZZZZZZZZZZZZZ1234567890"

func sampleRequests() []types.Request {
	accept := "application/json"
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	reqs := []types.Request{
		{Method: "POST", URL: "https://api.example.com/login", Headers: map[string]string{"Accept": accept},
			ResponseStatus: 200, ResponseText: `{"token":"` + token + `"}`, ResponseMimeType: "application/json"},
		{Method: "GET", URL: "https://api.example.com/me", Headers: map[string]string{"Accept": accept, "Authorization": token},
			ResponseStatus: 200, ResponseText: `{"name":"bob"}`, ResponseMimeType: "application/json"},
		{Method: "GET", URL: "https://api.example.com/items", Headers: map[string]string{"Accept": accept, "Authorization": token},
			ResponseStatus: 200, ResponseText: `[]`, ResponseMimeType: "application/json"},
	}
	for i := range reqs {
		reqs[i].Timestamp = base.Add(time.Duration(i) * time.Second)
	}
	return reqs
}

func TestRun(t *testing.T) {
	report := Run(sampleRequests(), DefaultOptions())

	assert.Equal(t, 3, report.RequestCount)
	require.Len(t, report.Snapshots, 3)
	require.Len(t, report.Plan.Steps, 3)
	assert.Equal(t, 1, report.BindingCount())

	def := report.Plan.Steps[0].Definitions[0]
	assert.Equal(t, "Authorization_1", def.Name)
	assert.Equal(t, ".token", def.Source)
}

func TestRun_NoInfer(t *testing.T) {
	opts := DefaultOptions()
	opts.NoInfer = true
	report := Run(sampleRequests(), opts)

	assert.Equal(t, 0, report.BindingCount())
	assert.Equal(t, [][]types.Binding{{}, {}, {}}, report.Bindings)
	for _, step := range report.Plan.Steps {
		assert.Empty(t, step.Definitions)
	}
}

func TestRun_IdempotentWithSharedMatcher(t *testing.T) {
	mc, err := cache.NewMatchCache(types.MatchCacheSize, cache.PolicyLRU)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Matcher = match.New(match.DefaultOptions(), mc)

	first := Run(sampleRequests(), opts)
	second := Run(sampleRequests(), opts)
	assert.Equal(t, first, second)
	assert.Positive(t, mc.Len())
}

func TestRun_Empty(t *testing.T) {
	report := Run(nil, DefaultOptions())
	assert.Equal(t, 0, report.RequestCount)
	assert.Empty(t, report.Snapshots)
	assert.Empty(t, report.Plan.Steps)
}

func writeArchive(t *testing.T, dir, name string, urls ...string) string {
	t.Helper()
	entries := make([]har.Entry, len(urls))
	for i, u := range urls {
		entries[i] = har.Entry{
			StartedDateTime: time.Date(2024, 1, 1, 0, 0, i, 0, time.UTC).Format(time.RFC3339),
			Request:         har.Request{Method: "GET", URL: u, Headers: []har.NameValue{}},
			Response:        har.Response{Status: 200, Content: har.Content{MimeType: "text/plain"}},
		}
	}
	data, err := json.Marshal(har.HAR{Log: har.Log{Version: "1.2", Entries: entries}})
	require.NoError(t, err)

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestStore_LoadCachesUntilFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeArchive(t, dir, "a.har", "https://example.com/one")

	store, err := NewStore(4, 2)
	require.NoError(t, err)

	reqs, err := store.Load(context.Background(), path, har.Options{})
	require.NoError(t, err)
	assert.Len(t, reqs, 1)

	_, err = store.Load(context.Background(), path, har.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())

	writeArchive(t, dir, "a.har", "https://example.com/one", "https://example.com/two")
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	reqs, err = store.Load(context.Background(), path, har.Options{})
	require.NoError(t, err)
	assert.Len(t, reqs, 2)
	assert.Equal(t, 2, store.Len())
}

func TestStore_ConcurrentLoads(t *testing.T) {
	path := writeArchive(t, t.TempDir(), "a.har", "https://example.com/one")
	store, err := NewStore(4, 2)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reqs, err := store.Load(context.Background(), path, har.Options{})
			assert.NoError(t, err)
			assert.Len(t, reqs, 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, store.Len())
}

func TestStore_LoadMany(t *testing.T) {
	dir := t.TempDir()
	a := writeArchive(t, dir, "a.har", "https://example.com/one")
	b := writeArchive(t, dir, "b.har", "https://example.com/one", "https://example.com/two")

	store, err := NewStore(4, 2)
	require.NoError(t, err)

	results, err := store.LoadMany(context.Background(), []string{b, a}, har.Options{})
	require.NoError(t, err)
	assert.Len(t, results[0], 2)
	assert.Len(t, results[1], 1)

	_, err = store.LoadMany(context.Background(), []string{a, filepath.Join(dir, "missing.har")}, har.Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStore_Errors(t *testing.T) {
	store, err := NewStore(4, 0)
	require.NoError(t, err)

	_, err = store.Load(context.Background(), t.TempDir(), har.Options{})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Load(ctx, "whatever.har", har.Options{})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = NewStore(0, 1)
	assert.Error(t, err)
}
