package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleReplaySession implements the session replay workflow.
func HandleReplaySession(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var path, header string
		if args := req.Params.Arguments; args != nil {
			path = args["path"]
			header = args["header"]
		}
		if path == "" {
			return nil, fmt.Errorf("path argument is required")
		}

		var sb strings.Builder

		sb.WriteString("# Replay a Recorded Session\n\n")
		sb.WriteString("You are reconstructing the request sequence captured in a HAR file so it can be replayed by a client. ")
		sb.WriteString("Your goal is to tell apart headers that stay fixed for the whole session from values the client copied out of earlier responses.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Session headers** - See which headers persist and when they change\n")
		sb.WriteString("   - Use only_changes=true; most requests share the previous snapshot\n")
		sb.WriteString("   - Headers in the first snapshot are sent on every request and never traced to a response\n\n")
		sb.WriteString("2. **Replay plan** - Get the bound values and per-step header differences\n")
		sb.WriteString("   - `summary.variables` lists every value traced to a response, with its jq `source` path when the body is JSON\n")
		sb.WriteString("   - `used_by` lists the steps that send the value\n\n")
		sb.WriteString("3. **Check doubtful headers** - Ask why a value was or was not traced\n")
		fmt.Fprintf(&sb, "   - Values shorter than %d bytes are never traced\n", cfg.SizeThreshold)
		fmt.Fprintf(&sb, "   - Only the %d most recent eligible responses before a request are searched\n\n", cfg.ResponseLookup)

		sb.WriteString("## Suggested Tools\n\n")
		sb.WriteString("```\n")
		fmt.Fprintf(&sb, "harbind_session_headers(path=%q, only_changes=true)\n", path)
		fmt.Fprintf(&sb, "harbind_infer(path=%q)\n", path)
		if header != "" {
			fmt.Fprintf(&sb, "# Focus: find the steps whose headers or session_changes mention %s, then\n", header)
			fmt.Fprintf(&sb, "harbind_match(header=\"<%s value>\", text=\"<candidate response body>\")\n", header)
		} else {
			sb.WriteString("harbind_match(header=\"<value>\", text=\"<candidate response body>\")\n")
		}
		sb.WriteString("```\n\n")

		sb.WriteString("## Expected Output Format\n\n")
		sb.WriteString("1. **Session headers**: the fixed header set and the steps where it changes\n")
		sb.WriteString("2. **Variables**: name, producing step, jq source path, consuming steps\n")
		sb.WriteString("3. **Replay sequence**: one line per step with method, URL and the variables it sends\n\n")

		sb.WriteString("## If Things Go Wrong\n\n")
		sb.WriteString("- **PARSE_ERROR?** Retry with unsafe=true to skip malformed entries\n")
		sb.WriteString("- **Too many steps?** Page with offset and max_steps\n")
		sb.WriteString("- **Cookie noise?** Retry with exclude_cookie_headers=true\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for replaying a recorded HAR session",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
