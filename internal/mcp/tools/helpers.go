// Package tools contains MCP tool implementations for harbind.
package tools

import (
	"net/url"
	"slices"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/harbind/internal/pipeline"
	"github.com/usestring/harbind/pkg/har"
	"github.com/usestring/harbind/pkg/types"
)

// MIME type constant.
const MimeJSON = "application/json"

// printer formats hint numbers with thousands separators.
var printer = message.NewPrinter(language.English)

func harOptions(includeOptions, excludeCookieHeaders, unsafe bool) har.Options {
	return har.Options{
		IncludeOptions:       includeOptions,
		ExcludeCookieHeaders: excludeCookieHeaders,
		Unsafe:               unsafe,
	}
}

// SnapshotView is a session snapshot split into present and removed headers.
type SnapshotView struct {
	Index   int               `json:"index"`
	Headers map[string]string `json:"headers,omitempty"`
	Absent  []string          `json:"absent,omitzero"`
}

func toSnapshotView(i int, snap types.Snapshot) SnapshotView {
	view := SnapshotView{Index: i}
	for _, name := range snap.Names() {
		v, ok := snap[name].Value()
		if !ok {
			view.Absent = append(view.Absent, name)
			continue
		}
		if view.Headers == nil {
			view.Headers = make(map[string]string)
		}
		view.Headers[name] = v
	}
	return view
}

// baseHeaders lists the headers present in the first snapshot.
func baseHeaders(snapshots []types.Snapshot) []string {
	if len(snapshots) == 0 {
		return nil
	}
	var names []string
	for _, name := range snapshots[0].Names() {
		if snapshots[0][name].IsPresent() {
			names = append(names, name)
		}
	}
	return names
}

// hosts returns the distinct hosts contacted by requests, sorted.
func hosts(requests []types.Request) []string {
	seen := make(map[string]bool)
	var out []string
	for _, req := range requests {
		u, err := url.Parse(req.URL)
		if err != nil || u.Host == "" || seen[u.Host] {
			continue
		}
		seen[u.Host] = true
		out = append(out, u.Host)
	}
	slices.Sort(out)
	return out
}

func runReport(d *Deps, requests []types.Request, source string, noInfer bool) *types.Report {
	return pipeline.Run(requests, d.RunOptions(source, noInfer))
}
