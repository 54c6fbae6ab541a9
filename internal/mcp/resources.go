package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsongraph-mcp/internal/mcp/tools"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
	"github.com/usestring/jsongraph-mcp/pkg/types"
)

// Resource URI scheme: jsongraph://
// Supported URIs:
//   jsongraph://schema/default
//   jsongraph://graphs/{path}

const (
	uriScheme        = "jsongraph://"
	defaultSchemaURI = uriScheme + "schema/default"
)

// registerResources registers resources and templates with their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         defaultSchemaURI,
		Name:        "Default JSON Graph Schema",
		Description: "The schema documents are validated against when no schema is given. Fetched once and cached.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceDefaultSchema)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "graphs/{path}",
		Name:        "Graphs in a Document",
		Description: "Every graph of a JSON or YAML container file, uncompacted, in extraction order. High context cost - jsongraph_extract_graphs returns summaries and compacted graphs. Path is URL-escaped.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceGraphs)
}

func (s *Server) handleResourceDefaultSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	doc, err := s.deps.Validator.ProvideSchema(ctx, jsongraph.Source{})
	if err != nil {
		return nil, tools.WrapError(err)
	}
	return toResourceResult(req.Params.URI, doc)
}

func (s *Server) handleResourceGraphs(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	graphs, err := s.deps.Validator.Graphs(ctx, jsongraph.FromPath(params["path"]), jsongraph.ExtractOptions{})
	if err != nil {
		return nil, tools.WrapError(err)
	}

	summaries := make([]types.GraphSummary, 0)
	index := 0
	for g := range graphs {
		summary := types.SummarizeGraph(index, g)
		summary.Graph = g
		summaries = append(summaries, summary)
		index++
	}

	content := map[string]any{
		"path":   params["path"],
		"total":  len(summaries),
		"graphs": summaries,
	}
	return toResourceResult(req.Params.URI, content)
}

// Helper functions

// parseResourceURI extracts parameters from a jsongraph:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected " + uriScheme)
	}

	resourceType, rest, _ := strings.Cut(strings.TrimPrefix(uri, uriScheme), "/")
	params := make(map[string]string)

	switch resourceType {
	case "schema":
		if rest != "default" {
			return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown schema resource: %s", rest))
		}

	case "graphs":
		if rest == "" {
			return nil, tools.ErrInvalidInput("graphs URI requires a document path")
		}
		path, err := url.PathUnescape(rest)
		if err != nil {
			return nil, tools.ErrInvalidInput(fmt.Sprintf("invalid document path: %v", err))
		}
		params["path"] = path

	case "":
		return nil, tools.ErrInvalidInput("empty resource path")

	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", resourceType))
	}

	return params, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
