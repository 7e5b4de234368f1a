package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// MatchInput is the input for harbind_match.
type MatchInput struct {
	Header string `json:"header" jsonschema:"Header value to look for"`
	Text   string `json:"text" jsonschema:"Response body to search"`
}

// MatchOutput is the output for harbind_match.
type MatchOutput struct {
	Matched      bool    `json:"matched"`
	Reason       string  `json:"reason"`
	Overlap      int     `json:"overlap"`
	Fraction     float64 `json:"fraction"`
	HeaderLength int     `json:"header_length"`
	TextLength   int     `json:"text_length"`
	Hint         string  `json:"hint,omitempty"`
}

// ToolMatch explains whether a header value would be traced to a response
// body, and which rule decided it.
func ToolMatch(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input MatchInput) (*sdkmcp.CallToolResult, MatchOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input MatchInput) (*sdkmcp.CallToolResult, MatchOutput, error) {
		if input.Header == "" {
			return nil, MatchOutput{}, ErrInvalidInput("header is required")
		}

		res := d.Matcher.Explain(input.Header, input.Text)
		output := MatchOutput{
			Matched:      res.Matched,
			Reason:       string(res.Reason),
			Overlap:      res.Overlap,
			Fraction:     res.Fraction,
			HeaderLength: len(input.Header),
			TextLength:   len(input.Text),
		}
		if !res.Matched {
			output.Hint = printer.Sprintf("Headers need at least %d bytes and more than %v of their bytes in one contiguous run of the body.",
				d.Config.SizeThreshold, d.Config.MatchFractionThreshold)
		}
		return nil, output, nil
	}
}
