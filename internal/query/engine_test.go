package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine()
	require.NoError(t, err)
	return e
}

func TestEngine_StringLeaves(t *testing.T) {
	engine := newEngine(t)

	data := []byte(`{"name": "John", "age": 30, "tags": ["a", "b"], "nested": {"id": "x"}}`)

	leaves, err := engine.StringLeaves(data)
	require.NoError(t, err)

	got := make(map[string]string)
	for _, l := range leaves {
		got[FormatPath(l.Path)] = l.Value
	}
	assert.Equal(t, map[string]string{
		".name":      "John",
		".tags[0]":   "a",
		".tags[1]":   "b",
		".nested.id": "x",
	}, got)
}

func TestEngine_StringLeaves_InvalidJSON(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.StringLeaves([]byte(`<html>`))
	assert.Error(t, err)
}

func TestEngine_FindSource(t *testing.T) {
	engine := newEngine(t)
	body := []byte(`{"data": {"session": {"token": "abcdefghijklmnopqrstuvwxyz"}}, "user": "bob"}`)
	const leaf = "abcdefghijklmnopqrstuvwxyz"

	tests := []struct {
		name     string
		value    string
		expected Source
		found    bool
	}{
		{name: "exact value", value: leaf, expected: Source{Path: ".data.session.token", Value: leaf}, found: true},
		{name: "prefixed value", value: "Bearer " + leaf,
			expected: Source{Path: ".data.session.token", Value: leaf, Prefix: "Bearer "}, found: true},
		{name: "wrapped value", value: "t=" + leaf + ";v=1",
			expected: Source{Path: ".data.session.token", Value: leaf, Prefix: "t=", Suffix: ";v=1"}, found: true},
		{name: "leaf too small a share", value: "bob-and-a-very-long-suffix", found: false},
		{name: "absent", value: "0123456789", found: false},
		{name: "empty", value: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, ok, err := engine.FindSource(body, tt.value, 0.5)
			require.NoError(t, err)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, src)
			if ok {
				assert.Equal(t, tt.value, src.Prefix+src.Value+src.Suffix)
			}
		})
	}
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		path     []any
		expected string
	}{
		{path: nil, expected: "."},
		{path: []any{"a", "b"}, expected: ".a.b"},
		{path: []any{0, "id"}, expected: ".[0].id"},
		{path: []any{"items", 2}, expected: ".items[2]"},
		{path: []any{"x-csrf-token"}, expected: `.["x-csrf-token"]`},
		{path: []any{"say \"hi\""}, expected: `.["say \"hi\""]`},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatPath(tt.path))
		})
	}
}
