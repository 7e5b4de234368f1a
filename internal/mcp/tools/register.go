package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: harbind_infer
	AddTool(srv, &sdkmcp.Tool{
		Name:        "harbind_infer",
		Description: "Infer the replay plan of a HAR file. Returns {summary: {request_count, binding_count, session_headers, variables: [{name, step, source, source_prefix, source_suffix, used_by}]}, steps: [{index, method, url, session_changes, headers, definitions}], truncated, hint}. Header values copied from an earlier response appear as {variable: NAME}; other values as {literal: VALUE}; an empty object removes the header. A variable with a source is source_prefix + (jq path source in that step's JSON response) + source_suffix. Page long plans with offset and max_steps.",
	}, ToolInfer(d))

	// Tool 2: harbind_session_headers
	AddTool(srv, &sdkmcp.Tool{
		Name:        "harbind_session_headers",
		Description: "Infer which headers persist across the session recorded in a HAR file. Returns one snapshot per request with the present headers and the names that were removed from the session. Set only_changes=true to skip snapshots equal to the previous one.",
	}, ToolSessionHeaders(d))

	// Tool 3: harbind_match
	AddTool(srv, &sdkmcp.Tool{
		Name:        "harbind_match",
		Description: "Explain whether a header value would be traced to a response body. Returns matched, the deciding reason (header_too_short, empty_text, text_too_short, overlap_too_small, matched), the longest common substring length and its fraction of the header.",
	}, ToolMatch(d))

	// Tool 4: harbind_archives
	AddTool(srv, &sdkmcp.Tool{
		Name:        "harbind_archives",
		Description: "Load several HAR files concurrently and summarize each: request count, bound values, session headers at the first request and contacted hosts. Use harbind_infer on one archive for its full plan.",
	}, ToolArchives(d))
}
