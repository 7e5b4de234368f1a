package tools

import (
	"context"
	"maps"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harbind/internal/session"
)

// SessionHeadersInput is the input for harbind_session_headers.
type SessionHeadersInput struct {
	Path                 string `json:"path" jsonschema:"Path to a HAR file"`
	IncludeOptions       bool   `json:"include_options,omitempty" jsonschema:"Keep OPTIONS (CORS preflight) requests"`
	ExcludeCookieHeaders bool   `json:"exclude_cookie_headers,omitempty" jsonschema:"Drop Cookie headers before inference"`
	Unsafe               bool   `json:"unsafe,omitempty" jsonschema:"Skip malformed entries instead of failing"`
	OnlyChanges          bool   `json:"only_changes,omitempty" jsonschema:"Return only snapshots that differ from the previous one"`
}

// SessionHeadersOutput is the output for harbind_session_headers.
type SessionHeadersOutput struct {
	Source       string         `json:"source"`
	RequestCount int            `json:"request_count"`
	Snapshots    []SnapshotView `json:"snapshots,omitzero"`
	Hint         string         `json:"hint,omitempty"`
}

// ToolSessionHeaders returns the inferred session headers in effect at
// every request of an archive.
func ToolSessionHeaders(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SessionHeadersInput) (*sdkmcp.CallToolResult, SessionHeadersOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SessionHeadersInput) (*sdkmcp.CallToolResult, SessionHeadersOutput, error) {
		requests, err := d.Load(ctx, input.Path, harOptions(input.IncludeOptions, input.ExcludeCookieHeaders, input.Unsafe))
		if err != nil {
			return nil, SessionHeadersOutput{}, err
		}

		snapshots := session.New().Infer(requests)

		output := SessionHeadersOutput{
			Source:       input.Path,
			RequestCount: len(requests),
		}
		for i, snap := range snapshots {
			if input.OnlyChanges && i > 0 && maps.Equal(snap, snapshots[i-1]) {
				continue
			}
			output.Snapshots = append(output.Snapshots, toSnapshotView(i, snap))
		}

		output.Hint = printer.Sprintf("%d session headers at the first request. Use harbind_infer(path=%q) to see which values came from responses.",
			len(baseHeaders(snapshots)), input.Path)
		return nil, output, nil
	}
}
