package stringalg

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned when an operand is unusable, e.g. empty.
var ErrInvalidInput = errors.New("invalid input")

// separator joins the two operands of LongestCommonSubstring. Bytes are
// widened to int16 so it lies outside every possible input symbol.
const separator int16 = -1

// LongestCommonSubstring returns the length of the longest contiguous byte
// run shared by a and b. Both operands must be non-empty.
func LongestCommonSubstring(a, b string) (int, error) {
	if a == "" || b == "" {
		return 0, fmt.Errorf("longest common substring of %d and %d bytes: %w", len(a), len(b), ErrInvalidInput)
	}

	s := make([]int16, 0, len(a)+len(b)+1)
	for i := 0; i < len(a); i++ {
		s = append(s, int16(a[i]))
	}
	s = append(s, separator)
	for i := 0; i < len(b); i++ {
		s = append(s, int16(b[i]))
	}

	sa := SuffixArray(s)
	lcp := LCP(s, sa)

	best := 0
	for r := 0; r+1 < len(sa); r++ {
		// Only neighbours on opposite sides of the separator share a
		// substring of both operands.
		if (sa[r] < len(a)) == (sa[r+1] < len(a)) {
			continue
		}
		best = max(best, lcp[sa[r]])
	}
	return best, nil
}
