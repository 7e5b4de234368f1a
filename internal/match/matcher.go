// Package match decides whether a header value was copied from a response body.
package match

import (
	"github.com/usestring/harbind/internal/cache"
	"github.com/usestring/harbind/pkg/stringalg"
	"github.com/usestring/harbind/pkg/types"
)

// Reason names the rule that decided a match.
type Reason string

const (
	ReasonHeaderTooShort  Reason = "header_too_short"
	ReasonEmptyText       Reason = "empty_text"
	ReasonTextTooShort    Reason = "text_too_short"
	ReasonOverlapTooSmall Reason = "overlap_too_small"
	ReasonMatched         Reason = "matched"
)

// Options holds the thresholds used by a Matcher.
type Options struct {
	SizeThreshold          int
	MatchFractionThreshold float64
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		SizeThreshold:          types.SizeThreshold,
		MatchFractionThreshold: types.MatchFractionThreshold,
	}
}

// Result explains a single match decision.
type Result struct {
	Matched  bool    `json:"matched"`
	Reason   Reason  `json:"reason"`
	Overlap  int     `json:"overlap"`
	Fraction float64 `json:"fraction"`
}

// Matcher compares header values against candidate response texts.
// It is safe for concurrent use; the memo table is internally locked.
type Matcher struct {
	opts  Options
	cache *cache.MatchCache
}

// New creates a Matcher. A nil cache disables memoization; results are
// identical either way.
func New(opts Options, c *cache.MatchCache) *Matcher {
	return &Matcher{opts: opts, cache: c}
}

// Matches reports whether header is explained by text: long enough, and
// more than the configured fraction of it appears contiguously in text.
func (m *Matcher) Matches(header, text string) bool {
	if _, ok := m.precheck(header, text); !ok {
		return false
	}

	key := cache.MatchKey{Header: header, Text: text}
	if m.cache != nil {
		if matched, ok := m.cache.Get(key); ok {
			return matched
		}
	}

	overlap := m.overlap(header, text)
	matched := m.fraction(overlap, header) > m.opts.MatchFractionThreshold
	if m.cache != nil {
		m.cache.Put(key, matched)
	}
	return matched
}

// Explain evaluates the same rules as Matches and reports how the decision
// was reached. It bypasses the cache.
func (m *Matcher) Explain(header, text string) Result {
	if reason, ok := m.precheck(header, text); !ok {
		return Result{Reason: reason}
	}

	overlap := m.overlap(header, text)
	res := Result{
		Overlap:  overlap,
		Fraction: m.fraction(overlap, header),
		Reason:   ReasonOverlapTooSmall,
	}
	if res.Fraction > m.opts.MatchFractionThreshold {
		res.Matched = true
		res.Reason = ReasonMatched
	}
	return res
}

// Reset drops all memoized decisions.
func (m *Matcher) Reset() {
	if m.cache != nil {
		m.cache.Purge()
	}
}

// precheck applies the cheap length rules, in order.
func (m *Matcher) precheck(header, text string) (Reason, bool) {
	if len(header) < m.opts.SizeThreshold || header == "" {
		return ReasonHeaderTooShort, false
	}
	if text == "" {
		return ReasonEmptyText, false
	}
	if float64(len(text))/float64(len(header)) < m.opts.MatchFractionThreshold {
		return ReasonTextTooShort, false
	}
	return "", true
}

func (m *Matcher) overlap(header, text string) int {
	n, err := stringalg.LongestCommonSubstring(header, text)
	if err != nil {
		// precheck guarantees both operands are non-empty.
		panic(err)
	}
	return n
}

func (m *Matcher) fraction(overlap int, header string) float64 {
	return float64(overlap) / float64(len(header))
}
