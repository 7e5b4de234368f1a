package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const maxArchives = 20

// ArchivesInput is the input for harbind_archives.
type ArchivesInput struct {
	Paths                []string `json:"paths" jsonschema:"Paths to HAR files (max 20)"`
	IncludeOptions       bool     `json:"include_options,omitempty" jsonschema:"Keep OPTIONS (CORS preflight) requests"`
	ExcludeCookieHeaders bool     `json:"exclude_cookie_headers,omitempty" jsonschema:"Drop Cookie headers before inference"`
	Unsafe               bool     `json:"unsafe,omitempty" jsonschema:"Skip malformed entries instead of failing"`
}

// ArchiveSummary summarizes one archive.
type ArchiveSummary struct {
	Path           string   `json:"path"`
	RequestCount   int      `json:"request_count"`
	BindingCount   int      `json:"binding_count"`
	SessionHeaders []string `json:"session_headers,omitzero"`
	Hosts          []string `json:"hosts,omitzero"`
}

// ArchivesOutput is the output for harbind_archives.
type ArchivesOutput struct {
	Archives []ArchiveSummary `json:"archives,omitzero"`
	Hint     string           `json:"hint,omitempty"`
}

// ToolArchives loads several archives concurrently and summarizes each.
func ToolArchives(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ArchivesInput) (*sdkmcp.CallToolResult, ArchivesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ArchivesInput) (*sdkmcp.CallToolResult, ArchivesOutput, error) {
		if len(input.Paths) == 0 {
			return nil, ArchivesOutput{}, ErrInvalidInput("paths is required")
		}
		if len(input.Paths) > maxArchives {
			return nil, ArchivesOutput{}, ErrInvalidInput(printer.Sprintf("at most %d paths are accepted", maxArchives))
		}
		for _, p := range input.Paths {
			if p == "" {
				return nil, ArchivesOutput{}, ErrInvalidInput("paths must not contain empty entries")
			}
		}

		loaded, err := d.Store.LoadMany(ctx, input.Paths, harOptions(input.IncludeOptions, input.ExcludeCookieHeaders, input.Unsafe))
		if err != nil {
			return nil, ArchivesOutput{}, WrapLoadError("archives", err)
		}

		output := ArchivesOutput{Archives: make([]ArchiveSummary, len(loaded))}
		total := 0
		for i, requests := range loaded {
			report := runReport(d, requests, input.Paths[i], false)
			output.Archives[i] = ArchiveSummary{
				Path:           input.Paths[i],
				RequestCount:   report.RequestCount,
				BindingCount:   report.BindingCount(),
				SessionHeaders: baseHeaders(report.Snapshots),
				Hosts:          hosts(requests),
			}
			total += report.RequestCount
		}

		output.Hint = printer.Sprintf("%d archives, %d requests in total. Use harbind_infer(path=...) for the replay plan of one archive.",
			len(loaded), total)
		return nil, output, nil
	}
}
