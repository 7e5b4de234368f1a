// Package origin infers which header values were copied from earlier responses.
package origin

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/usestring/harbind/pkg/types"
)

// Matcher decides whether a header value is explained by a response text.
type Matcher interface {
	Matches(header, text string) bool
}

// Options bounds the lookback window.
type Options struct {
	ResponseLookup int // Max responses kept in the window
	SizeThreshold  int // Min response length to enter the window
	MaxSize        int // Max response length to enter the window
}

// DefaultOptions returns the standard window bounds.
func DefaultOptions() Options {
	return Options{
		ResponseLookup: types.ResponseLookup,
		SizeThreshold:  types.SizeThreshold,
		MaxSize:        types.MaxSize,
	}
}

type attempt struct {
	name, value string
}

// Inferrer binds header values to the response that produced them.
// State is reset by every call to Infer.
type Inferrer struct {
	matcher Matcher
	opts    Options

	window    *window
	explained map[string]string // header value -> variable name
	attempted map[attempt]bool
	usedNames map[string]bool
}

// New creates an Inferrer using m to compare values against responses.
func New(m Matcher, opts Options) *Inferrer {
	return &Inferrer{matcher: m, opts: opts}
}

func (inf *Inferrer) reset() {
	inf.window = newWindow(inf.opts.ResponseLookup)
	inf.explained = make(map[string]string)
	inf.attempted = make(map[attempt]bool)
	inf.usedNames = make(map[string]bool)
}

// Infer returns, for every request index i, the bindings defined by
// response i. Headers named in snapshots[0] are intrinsic to every request
// and are never explained. With no snapshots every list is empty.
func (inf *Inferrer) Infer(requests []types.Request, snapshots []types.Snapshot) [][]types.Binding {
	inf.reset()

	bindings := make([][]types.Binding, len(requests))
	for i := range bindings {
		bindings[i] = []types.Binding{}
	}
	if len(snapshots) == 0 {
		return bindings
	}
	base := snapshots[0]

	for i, req := range requests {
		for _, name := range slices.Sorted(maps.Keys(req.Headers)) {
			value := req.Headers[name]
			if base.Has(name) {
				continue
			}
			if _, ok := inf.explained[value]; ok {
				continue
			}
			key := attempt{name: name, value: value}
			if inf.attempted[key] {
				continue
			}
			inf.attempted[key] = true

			respIndex, ok := inf.search(value)
			if !ok {
				continue
			}
			varName := inf.newVariableName(name)
			bindings[respIndex] = append(bindings[respIndex], types.Binding{
				Name:          varName,
				Value:         value,
				ResponseIndex: respIndex,
			})
			inf.explained[value] = varName

			slog.Debug("header bound to response",
				slog.String("variable", varName),
				slog.Int("request", i),
				slog.Int("response", respIndex),
			)
		}

		if n := len(req.ResponseText); n >= inf.opts.SizeThreshold && n <= inf.opts.MaxSize {
			inf.window.push(i, req.ResponseText)
		}
	}

	return bindings
}

// search scans the window oldest first so the lowest response index wins.
func (inf *Inferrer) search(value string) (int, bool) {
	for _, entry := range inf.window.entries() {
		if inf.matcher.Matches(value, entry.text) {
			return entry.index, true
		}
	}
	return 0, false
}

// newVariableName reserves the first unused name of the form base_N, N >= 1.
func (inf *Inferrer) newVariableName(base string) string {
	for n := 1; ; n++ {
		name := fmt.Sprintf("%s_%d", base, n)
		if !inf.usedNames[name] {
			inf.usedNames[name] = true
			return name
		}
	}
}
