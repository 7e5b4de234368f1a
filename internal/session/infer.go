// Package session infers which request headers persist across a recorded session.
package session

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/usestring/harbind/pkg/types"
)

// majority is the share a value must exceed to be considered the session value.
const majority = 0.5

type pairKey struct {
	name, value string
}

// Inferrer runs the session-header heuristic. Counters live on the value and
// are rebuilt by every call to Infer, so one Inferrer may be reused.
type Inferrer struct {
	nameCount map[string]int
	pairCount map[pairKey]int
}

// New creates an Inferrer.
func New() *Inferrer {
	return &Inferrer{}
}

// Infer returns one snapshot per request, in request order. Snapshot i is
// the session-header state to diff request i against.
//
// A header is promoted into the session once its current value is the
// majority value among the remaining requests and has been seen at least
// twice. A promoted header turns into a tombstone when its presence in the
// remaining requests falls below majority.
func (inf *Inferrer) Infer(requests []types.Request) []types.Snapshot {
	inf.nameCount = make(map[string]int)
	inf.pairCount = make(map[pairKey]int)

	n := len(requests)
	snapshots := make([]types.Snapshot, 0, n)
	if n == 0 {
		return snapshots
	}

	record := inf.promotions(requests)

	state := make(types.Snapshot)
	for i, req := range requests {
		for _, name := range record[i] {
			state[name] = types.Present(req.Headers[name])
		}
		for _, name := range state.Names() {
			if _, ok := req.Headers[name]; ok {
				inf.nameCount[name]--
				continue
			}
			remaining := float64(n - i)
			if float64(inf.nameCount[name])/remaining < majority && state[name].IsPresent() {
				slog.Debug("session header dropped",
					slog.String("header", name),
					slog.Int("request", i),
				)
				state[name] = types.Absent()
			}
		}
		snapshots = append(snapshots, state.Clone())
	}

	slog.Debug("session headers inferred",
		slog.Int("requests", n),
		slog.Int("tracked", len(state)),
	)
	return snapshots
}

// promotions scans requests tail to head, counting names and name/value
// pairs over the suffix [i, n), and returns the header names promoted at
// each index.
func (inf *Inferrer) promotions(requests []types.Request) [][]string {
	record := make([][]string, len(requests))
	for i := len(requests) - 1; i >= 0; i-- {
		headers := requests[i].Headers
		for _, name := range slices.Sorted(maps.Keys(headers)) {
			pair := pairKey{name: name, value: headers[name]}
			inf.nameCount[name]++
			inf.pairCount[pair]++
			if inf.pairCount[pair] > 1 && float64(inf.pairCount[pair])/float64(inf.nameCount[name]) > majority {
				record[i] = append(record[i], name)
			}
		}
	}
	return record
}
