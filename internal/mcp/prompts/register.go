package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "replay_session",
		Description: "RECOMMENDED: Turn a recorded HAR session into a replayable request sequence. Start here - walks through session headers, bound values and the replay plan without fetching raw bodies.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "path",
				Description: "Path to the HAR file",
				Required:    true,
			},
			{
				Name:        "header",
				Description: "A header to focus on (e.g., 'Authorization', 'X-CSRF-Token')",
				Required:    false,
			},
		},
	}, HandleReplaySession(cfg))
}
