package tools

import (
	"context"
	"fmt"
	"iter"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsongraph-mcp/pkg/jsoncompact"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
	"github.com/usestring/jsongraph-mcp/pkg/types"
)

// ExtractGraphsInput is the input for jsongraph_extract_graphs.
type ExtractGraphsInput struct {
	Document     any    `json:"document,omitempty" jsonschema:"JSON Graph container, inline as an object or as JSON text. Either document or document_path is required."`
	DocumentPath string `json:"document_path,omitempty" jsonschema:"Path to a JSON or YAML graph container"`
	Validate     bool   `json:"validate,omitempty" jsonschema:"Validate the container before extracting (default: false)"`
	Schema       any    `json:"schema,omitempty" jsonschema:"Schema used when validate is set (default: the JSON Graph schema)"`
	SchemaPath   string `json:"schema_path,omitempty" jsonschema:"Path to a schema file used when validate is set"`
	SchemaURL    string `json:"schema_url,omitempty" jsonschema:"URL of a schema used when validate is set"`
	Offset       int    `json:"offset,omitempty" jsonschema:"Skip this many graphs (default: 0)"`
	Limit        int    `json:"limit,omitempty" jsonschema:"Max graphs to return (default: 100)"`
	SummaryOnly  bool   `json:"summary_only,omitempty" jsonschema:"Return counts and labels without the graph bodies (default: false)"`
	Full         bool   `json:"full,omitempty" jsonschema:"Return graph bodies uncompacted (default: false, large arrays, maps and strings are trimmed)"`
}

// ExtractGraphsOutput is the output for jsongraph_extract_graphs.
type ExtractGraphsOutput struct {
	Total     int                  `json:"total"` // Graphs in the container
	Returned  int                  `json:"returned"`
	Graphs    []types.GraphSummary `json:"graphs,omitzero"`
	Truncated bool                 `json:"truncated,omitempty"` // More graphs follow Offset+Returned
	Validated bool                 `json:"validated"`
	Hint      string               `json:"hint,omitempty"`
}

// ToolExtractGraphs lists the graphs of a container in extraction order:
// the "graph" value first, then each element of "graphs".
func ToolExtractGraphs(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExtractGraphsInput) (*sdkmcp.CallToolResult, ExtractGraphsOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ExtractGraphsInput) (*sdkmcp.CallToolResult, ExtractGraphsOutput, error) {
		if input.Offset < 0 {
			return nil, ExtractGraphsOutput{}, ErrInvalidInput("offset must not be negative")
		}

		graphs, err := d.extract(ctx, input.Document, input.DocumentPath, input.Validate, input.Schema, input.SchemaPath, input.SchemaURL)
		if err != nil {
			return nil, ExtractGraphsOutput{}, err
		}

		limit := clampLimit(input.Limit, d.Config.DefaultQueryLimit, 0)
		var compact *jsoncompact.Options
		if !input.Full {
			compact = d.Config.CompactOptions()
		}

		output := ExtractGraphsOutput{
			Graphs:    make([]types.GraphSummary, 0),
			Validated: input.Validate,
		}

		index := 0
		for graph := range graphs {
			if index >= input.Offset && len(output.Graphs) < limit {
				summary := types.SummarizeGraph(index, graph)
				if !input.SummaryOnly {
					summary.Graph = graph
					if compact != nil {
						summary.Graph = jsoncompact.CompactValue(graph, compact)
					}
				}
				output.Graphs = append(output.Graphs, summary)
			}
			index++
		}

		output.Total = index
		output.Returned = len(output.Graphs)
		output.Truncated = input.Offset+output.Returned < output.Total

		switch {
		case output.Total == 0:
			output.Hint = "Container has no graphs: neither \"graph\" nor \"graphs\" is present."
		case output.Truncated:
			output.Hint = fmt.Sprintf("Showing %d of %d graphs. Pass offset=%d for the next page.",
				output.Returned, output.Total, input.Offset+output.Returned)
		case !input.Full && !input.SummaryOnly:
			output.Hint = "Graph bodies are compacted. Set full=true for complete graphs, or use jsongraph_query_graphs to pull specific values."
		}
		return nil, output, nil
	}
}

// extract resolves a container and returns its graphs, validating first
// when asked. Errors are already coded.
func (d *Deps) extract(ctx context.Context, doc any, path string, validate bool, schema any, schemaPath, schemaURL string) (iter.Seq[any], error) {
	src, err := DocumentSource(doc, path)
	if err != nil {
		return nil, err
	}

	opts := jsongraph.ExtractOptions{Validate: validate}
	if validate {
		opts.Schema, err = d.SchemaSource(ctx, schema, schemaPath, schemaURL)
		if err != nil {
			return nil, WrapError(err)
		}
	}

	graphs, err := d.Validator.Graphs(ctx, src, opts)
	if err != nil {
		return nil, WrapError(err)
	}
	return graphs, nil
}
