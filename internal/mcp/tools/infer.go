package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harbind/pkg/types"
)

const (
	defaultMaxSteps = 50
	maxMaxSteps     = 500
)

// InferInput is the input for harbind_infer.
type InferInput struct {
	Path                 string `json:"path" jsonschema:"Path to a HAR file"`
	IncludeOptions       bool   `json:"include_options,omitempty" jsonschema:"Keep OPTIONS (CORS preflight) requests"`
	ExcludeCookieHeaders bool   `json:"exclude_cookie_headers,omitempty" jsonschema:"Drop Cookie headers before inference"`
	Unsafe               bool   `json:"unsafe,omitempty" jsonschema:"Skip malformed entries instead of failing"`
	NoInfer              bool   `json:"no_infer,omitempty" jsonschema:"Skip origin inference; every header stays literal"`
	Offset               int    `json:"offset,omitempty" jsonschema:"Index of the first plan step to return"`
	MaxSteps             int    `json:"max_steps,omitempty" jsonschema:"Max plan steps to return (default: 50, max: 500)"`
}

// VariableInfo describes a value bound by a response.
type VariableInfo struct {
	Name   string   `json:"name"`
	Step   int      `json:"step"`
	Source string   `json:"source,omitempty"`
	Prefix string   `json:"source_prefix,omitempty"`
	Suffix string   `json:"source_suffix,omitempty"`
	UsedBy []uint32 `json:"used_by,omitzero"`
}

// InferSummary summarizes an inference run.
type InferSummary struct {
	Source         string         `json:"source"`
	RequestCount   int            `json:"request_count"`
	BindingCount   int            `json:"binding_count"`
	SessionHeaders []string       `json:"session_headers,omitzero"`
	Variables      []VariableInfo `json:"variables,omitzero"`
}

// InferOutput is the output for harbind_infer.
type InferOutput struct {
	Summary   InferSummary `json:"summary"`
	Steps     []types.Step `json:"steps,omitzero"`
	Truncated bool         `json:"truncated,omitempty"`
	Hint      string       `json:"hint,omitempty"`
}

// ToolInfer runs session and origin inference over an archive and returns
// the replay plan.
func ToolInfer(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, InferOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferInput) (*sdkmcp.CallToolResult, InferOutput, error) {
		if input.Offset < 0 {
			return nil, InferOutput{}, ErrInvalidInput("offset must not be negative")
		}
		maxSteps := input.MaxSteps
		if maxSteps <= 0 {
			maxSteps = defaultMaxSteps
		}
		maxSteps = min(maxSteps, maxMaxSteps)

		requests, err := d.Load(ctx, input.Path, harOptions(input.IncludeOptions, input.ExcludeCookieHeaders, input.Unsafe))
		if err != nil {
			return nil, InferOutput{}, err
		}

		report := runReport(d, requests, input.Path, input.NoInfer)

		output := InferOutput{
			Summary: InferSummary{
				Source:         report.Source,
				RequestCount:   report.RequestCount,
				BindingCount:   report.BindingCount(),
				SessionHeaders: baseHeaders(report.Snapshots),
				Variables:      variables(report.Plan),
			},
		}

		steps := report.Plan.Steps
		start := min(input.Offset, len(steps))
		end := min(start+maxSteps, len(steps))
		if start < end {
			output.Steps = steps[start:end]
		}
		output.Truncated = end < len(steps)

		switch {
		case output.Truncated:
			output.Hint = printer.Sprintf("Showing steps %d-%d of %d. Call again with offset=%d for more.",
				start, end-1, len(steps), end)
		case output.Summary.BindingCount == 0 && !input.NoInfer:
			output.Hint = printer.Sprintf("No header values were traced to responses across %d requests. Use harbind_match to check a specific header against a response body.",
				report.RequestCount)
		default:
			output.Hint = printer.Sprintf("%d values bound across %d requests. Use harbind_session_headers for the per-request session state.",
				output.Summary.BindingCount, report.RequestCount)
		}

		return nil, output, nil
	}
}

func variables(plan *types.Plan) []VariableInfo {
	var out []VariableInfo
	for _, step := range plan.Steps {
		for _, def := range step.Definitions {
			out = append(out, VariableInfo{
				Name:   def.Name,
				Step:   step.Index,
				Source: def.Source,
				Prefix: def.SourcePrefix,
				Suffix: def.SourceSuffix,
				UsedBy: def.UsedBy,
			})
		}
	}
	return out
}
