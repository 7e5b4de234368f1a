package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harbind/internal/mcp/tools"
	"github.com/usestring/harbind/internal/schema"
)

// Resource URI scheme: harbind://
// Supported URIs:
//   harbind://schema/report

// registerResources registers static resources and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         schema.ReportID,
		Name:        "Report Schema",
		Description: "JSON Schema of the inference report printed by `harbind infer --format json`. Tools already return the same shapes; fetch this only to validate or generate code for saved reports.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceReportSchema)
}

func (s *Server) handleResourceReportSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	if req.Params.URI != schema.ReportID {
		return nil, tools.ErrNotFound("resource", req.Params.URI)
	}
	data, err := schema.ReportSchema()
	if err != nil {
		return nil, fmt.Errorf("building report schema: %w", err)
	}
	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
