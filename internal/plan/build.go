// Package plan turns inferred session snapshots and bindings into a replay
// plan: one step per request, with header values that came from earlier
// responses replaced by variable references.
package plan

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/harbind/internal/query"
	"github.com/usestring/harbind/pkg/contenttype"
	"github.com/usestring/harbind/pkg/types"
)

// Options controls plan construction.
type Options struct {
	// SourceFraction is the share of a bound value a JSON string must cover
	// to be reported as its source.
	SourceFraction float64
	// SkipSources disables the JSON source lookup.
	SkipSources bool
}

// DefaultOptions returns the standard plan options.
func DefaultOptions() Options {
	return Options{SourceFraction: types.MatchFractionThreshold}
}

var sharedEngine = sync.OnceValues(query.NewEngine)

type defRef struct {
	step, def int
}

type builder struct {
	opts   Options
	engine *query.Engine

	vars  map[string]string // value -> variable name
	usage map[string]*roaring.Bitmap
	defs  map[string]defRef
}

// Build assembles the replay plan. snapshots and bindings are indexed like
// requests; missing entries are treated as empty.
func Build(requests []types.Request, snapshots []types.Snapshot, bindings [][]types.Binding, opts Options) *types.Plan {
	b := &builder{
		opts:  opts,
		vars:  make(map[string]string),
		usage: make(map[string]*roaring.Bitmap),
		defs:  make(map[string]defRef),
	}
	if !opts.SkipSources {
		engine, err := sharedEngine()
		if err != nil {
			slog.Warn("jq engine unavailable, sources disabled", slog.String("error", err.Error()))
		}
		b.engine = engine
	}

	plan := &types.Plan{Steps: make([]types.Step, len(requests))}
	prev := types.Snapshot{}
	for i, req := range requests {
		snap := types.Snapshot{}
		if i < len(snapshots) && snapshots[i] != nil {
			snap = snapshots[i]
		}

		step := types.Step{
			Index:          i,
			Method:         req.Method,
			URL:            req.URL,
			Query:          req.Query,
			Cookies:        req.Cookies,
			PostData:       req.PostData,
			ResponseStatus: req.ResponseStatus,
			SessionChanges: b.sessionChanges(i, prev, snap),
			Headers:        b.headers(i, req.Headers, snap),
		}
		if i < len(bindings) {
			step.Definitions = b.definitions(i, req, bindings[i])
		}
		plan.Steps[i] = step
		prev = snap
	}

	for name, bm := range b.usage {
		ref, ok := b.defs[name]
		if !ok {
			continue
		}
		plan.Steps[ref.step].Definitions[ref.def].UsedBy = bm.ToArray()
	}
	return plan
}

// sessionChanges diffs consecutive snapshots. Names that turned Absent are
// removals; Absent names that were never present are omitted.
func (b *builder) sessionChanges(step int, prev, cur types.Snapshot) map[string]types.HeaderRef {
	changes := make(map[string]types.HeaderRef)
	for _, name := range cur.Names() {
		value, present := cur[name].Value()
		before, had := prev[name]
		beforeValue, beforePresent := before.Value()
		switch {
		case present && (!beforePresent || beforeValue != value):
			changes[name] = b.ref(step, value)
		case !present && had && beforePresent:
			changes[name] = types.HeaderRef{}
		}
	}
	for _, name := range prev.Names() {
		if _, ok := cur[name]; !ok && prev[name].IsPresent() {
			changes[name] = types.HeaderRef{}
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return changes
}

// headers lists the request headers that the session snapshot does not
// already supply, and removals for session headers the request lacked.
func (b *builder) headers(step int, headers map[string]string, snap types.Snapshot) map[string]types.HeaderRef {
	out := make(map[string]types.HeaderRef)
	for _, name := range slices.Sorted(maps.Keys(headers)) {
		value := headers[name]
		if sv, ok := snap[name].Value(); ok && sv == value {
			continue
		}
		out[name] = b.ref(step, value)
	}
	for _, name := range snap.Names() {
		if _, ok := headers[name]; !ok && snap[name].IsPresent() {
			out[name] = types.HeaderRef{}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (b *builder) ref(step int, value string) types.HeaderRef {
	name, ok := b.vars[value]
	if !ok {
		return types.HeaderRef{Literal: &value}
	}
	bm, ok := b.usage[name]
	if !ok {
		bm = roaring.New()
		b.usage[name] = bm
	}
	bm.Add(uint32(step))
	return types.HeaderRef{Variable: name}
}

// definitions registers the bindings of response step. They become
// available to later steps only.
func (b *builder) definitions(step int, req types.Request, bindings []types.Binding) []types.Definition {
	if len(bindings) == 0 {
		return nil
	}
	jsonBody := b.engine != nil && contenttype.IsJSONBody(req.ResponseMimeType, []byte(req.ResponseText))

	defs := make([]types.Definition, 0, len(bindings))
	for _, binding := range bindings {
		def := types.Definition{Name: binding.Name, Value: binding.Value}
		if jsonBody {
			src, ok, err := b.engine.FindSource([]byte(req.ResponseText), binding.Value, b.opts.SourceFraction)
			if err != nil {
				slog.Debug("response body is not valid JSON",
					slog.Int("step", step),
					slog.String("error", err.Error()),
				)
				jsonBody = false
			} else if ok {
				def.Source = src.Path
				def.SourceValue = src.Value
				def.SourcePrefix = src.Prefix
				def.SourceSuffix = src.Suffix
			}
		}
		b.defs[binding.Name] = defRef{step: step, def: len(defs)}
		b.vars[binding.Value] = binding.Name
		defs = append(defs, def)

		slog.Debug("variable defined",
			slog.Int("step", step),
			slog.String("name", def.Name),
			slog.String("source", def.Source),
		)
	}
	return defs
}
