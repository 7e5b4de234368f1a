package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harbind/internal/cache"
	"github.com/usestring/harbind/pkg/types"
)

func newCachedMatcher(t *testing.T) (*Matcher, *cache.MatchCache) {
	t.Helper()
	c, err := cache.NewMatchCache(types.MatchCacheSize, cache.PolicyLRU)
	require.NoError(t, err)
	return New(DefaultOptions(), c), c
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		text     string
		expected bool
	}{
		{
			name:     "short header never matches",
			header:   "short",
			text:     "short text body",
			expected: false,
		},
		{
			name:     "fifteen bytes is below threshold",
			header:   "abcdefghijklmno",
			text:     "abcdefghijklmno",
			expected: false,
		},
		{
			name:     "empty text",
			header:   "abcdefghijklmnopqrstuvwxyz0123",
			text:     "",
			expected: false,
		},
		{
			name:     "text too small relative to header",
			header:   "abcdefghijklmnopqrstuvwxyz0123",
			text:     "abcdefghijklmn",
			expected: false,
		},
		{
			name:     "shared run above half",
			header:   "abcdefghijklmnopqrstuvwxyz0123",
			text:     "xxxabcdefghijklmnopqrstuvwxyz0xxx",
			expected: true,
		},
		{
			name:     "exactly half is not enough",
			header:   "abcdefghijklmnopqrst",
			text:     "----abcdefghij----",
			expected: false,
		},
		{
			name:     "token embedded in json",
			header:   "ZZZZZZZZZZZZZZZZ1234567890",
			text:     `{"session":"ZZZZZZZZZZZZZZZZ1234567890"}`,
			expected: true,
		},
		{
			name:     "unrelated body",
			header:   "Bearer 9f8e7d6c5b4a39281706f5e4d3c2b1a0",
			text:     `{"status":"ok","items":[1,2,3],"next":null}`,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cached, _ := newCachedMatcher(t)
			uncached := New(DefaultOptions(), nil)

			assert.Equal(t, tt.expected, cached.Matches(tt.header, tt.text))
			assert.Equal(t, tt.expected, uncached.Matches(tt.header, tt.text))
			// Second call is served from the cache and must agree.
			assert.Equal(t, tt.expected, cached.Matches(tt.header, tt.text))
		})
	}
}

func TestMatches_ShortHeaderIgnoresText(t *testing.T) {
	m := New(DefaultOptions(), nil)
	for _, text := range []string{"", "a", "short", strings.Repeat("short", 100)} {
		assert.False(t, m.Matches("short", text))
	}
}

func TestMatches_OnlyComputedDecisionsAreCached(t *testing.T) {
	m, c := newCachedMatcher(t)

	m.Matches("short", "short text body")
	assert.Equal(t, 0, c.Len(), "length rules must short-circuit before the cache")

	m.Matches("abcdefghijklmnopqrstuvwxyz0123", "xxxabcdefghijklmnopqrstuvwxyz0xxx")
	assert.Equal(t, 1, c.Len())

	m.Reset()
	assert.Equal(t, 0, c.Len())
}

func TestMatches_CacheBoundedUnderLoad(t *testing.T) {
	m, c := newCachedMatcher(t)
	header := "abcdefghijklmnopqrstuvwxyz0123"
	for i := range 200 {
		m.Matches(header, strings.Repeat("-", i)+header)
	}
	assert.Equal(t, types.MatchCacheSize, c.Len())
}

func TestExplain(t *testing.T) {
	m := New(DefaultOptions(), nil)

	res := m.Explain("abcdefghijklmnopqrstuvwxyz0123", "xxxabcdefghijklmnopqrstuvwxyz0xxx")
	assert.True(t, res.Matched)
	assert.Equal(t, ReasonMatched, res.Reason)
	assert.Equal(t, 27, res.Overlap)
	assert.InDelta(t, 0.9, res.Fraction, 1e-9)

	res = m.Explain("short", "short text body")
	assert.False(t, res.Matched)
	assert.Equal(t, ReasonHeaderTooShort, res.Reason)

	res = m.Explain("abcdefghijklmnopqrstuvwxyz0123", "")
	assert.Equal(t, ReasonEmptyText, res.Reason)

	res = m.Explain("abcdefghijklmnopqrstuvwxyz0123", "abc")
	assert.Equal(t, ReasonTextTooShort, res.Reason)

	res = m.Explain("abcdefghijklmnopqrstuvwxyz0123", "0123456789012345")
	assert.False(t, res.Matched)
	assert.Equal(t, ReasonOverlapTooSmall, res.Reason)
}
