package stringalg

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// naiveLCS checks every pair of start positions.
func naiveLCS(a, b string) int {
	best := 0
	for i := range len(a) {
		for j := range len(b) {
			best = max(best, commonPrefix(a[i:], b[j:]))
		}
	}
	return best
}

func TestLongestCommonSubstring(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
	}{
		{name: "identical", a: "abcdef", b: "abcdef", expected: 6},
		{name: "disjoint", a: "aaaa", b: "bbbb", expected: 0},
		{name: "embedded", a: "abcdefghijklmnopqrstuvwxyz0123", b: "xxxabcdefghijklmnopqrstuvwxyz0xxx", expected: 27},
		{name: "single shared symbol", a: "x", b: "axb", expected: 1},
		{name: "same side repeats do not count", a: "aaaaaaaa", b: "ab", expected: 1},
		{name: "null bytes in input", a: "ab\x00cd", b: "zz\x00cdzz", expected: 3},
		{name: "non-ascii compared bytewise", a: "héllo", b: "jéllo", expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LongestCommonSubstring(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLongestCommonSubstring_EmptyOperand(t *testing.T) {
	_, err := LongestCommonSubstring("", "abc")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = LongestCommonSubstring("abc", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestLongestCommonSubstring_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(42, 1))
	for range 300 {
		a := randomString(r, r.IntN(25)+1, "abcd")
		b := randomString(r, r.IntN(25)+1, "abcd")

		ab, err := LongestCommonSubstring(a, b)
		require.NoError(t, err)
		ba, err := LongestCommonSubstring(b, a)
		require.NoError(t, err)
		aa, err := LongestCommonSubstring(a, a)
		require.NoError(t, err)

		assert.Equal(t, ab, ba, "symmetry for %q, %q", a, b)
		assert.Equal(t, len(a), aa, "self match for %q", a)
		assert.LessOrEqual(t, ab, min(len(a), len(b)))
		assert.Equal(t, naiveLCS(a, b), ab, "brute force for %q, %q", a, b)
	}
}

func TestLongestCommonSubstring_LongInput(t *testing.T) {
	token := "eyJhbGciOiJIUzI1NiJ9.payload.signature"
	body := `{"data":{"token":"` + token + `"},"pad":"` + strings.Repeat("x", 5000) + `"}`

	got, err := LongestCommonSubstring(token, body)
	require.NoError(t, err)
	assert.Equal(t, len(token), got)
}
