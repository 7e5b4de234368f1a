// Package prompts contains MCP prompt implementations for harbind.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	ResponseLookup int
	SizeThreshold  int
}
