package tools

import (
	"context"
	"slices"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsongraph-mcp/internal/query"
	"github.com/usestring/jsongraph-mcp/pkg/types"
)

// QueryGraphsInput is the input for jsongraph_query_graphs.
type QueryGraphsInput struct {
	Document     any    `json:"document,omitempty" jsonschema:"JSON Graph container, inline as an object or as JSON text. Either document or document_path is required."`
	DocumentPath string `json:"document_path,omitempty" jsonschema:"Path to a JSON or YAML graph container"`
	Expression   string `json:"expression" jsonschema:"required,JQ expression run against each graph in turn, e.g. '.nodes | keys' or '.edges[] | select(.relation == \"owns\")'"`
	Validate     bool   `json:"validate,omitempty" jsonschema:"Validate the container before querying (default: false)"`
	Schema       any    `json:"schema,omitempty" jsonschema:"Schema used when validate is set (default: the JSON Graph schema)"`
	SchemaPath   string `json:"schema_path,omitempty" jsonschema:"Path to a schema file used when validate is set"`
	SchemaURL    string `json:"schema_url,omitempty" jsonschema:"URL of a schema used when validate is set"`
	Deduplicate  bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values (default: false)"`
	MaxResults   int    `json:"max_results,omitempty" jsonschema:"Max values to return (default: 1000)"`
}

// defaultMaxResults is used when a query does not set max_results.
const defaultMaxResults = 1000

// ToolQueryGraphs runs a JQ expression against every graph of a container.
func ToolQueryGraphs(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryGraphsInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryGraphsInput) (*sdkmcp.CallToolResult, types.QueryResponse, error) {
		if input.Expression == "" {
			return nil, types.QueryResponse{}, ErrInvalidInput("expression is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, types.QueryResponse{}, ErrInvalidInput(err.Error())
		}

		seq, err := d.extract(ctx, input.Document, input.DocumentPath, input.Validate, input.Schema, input.SchemaPath, input.SchemaURL)
		if err != nil {
			return nil, types.QueryResponse{}, err
		}
		graphs := slices.Collect(seq)

		maxResults := clampLimit(input.MaxResults, defaultMaxResults, d.Config.MaxQueryResults)
		result, err := d.Query.QueryGraphs(graphs, nil, input.Expression, query.Options{
			Deduplicate: input.Deduplicate,
			MaxResults:  maxResults,
		})
		if err != nil {
			return nil, types.QueryResponse{}, ErrInvalidInput(err.Error())
		}

		output := types.QueryResponse{
			Summary: types.QuerySummary{
				GraphsProcessed: len(graphs),
				GraphsMatched:   len(result.MatchedIndices),
				TotalValues:     result.RawCount,
				Deduplicated:    input.Deduplicate,
				Truncated:       result.Truncated,
			},
			Values:      result.Values,
			LabelCounts: result.LabelCounts,
			Errors:      result.Errors,
		}
		if input.Deduplicate {
			output.Summary.UniqueValues = len(result.Values)
		}
		output.Hints = queryHints(output)

		return nil, output, nil
	}
}

func queryHints(out types.QueryResponse) []string {
	var hints []string
	switch {
	case out.Summary.GraphsProcessed == 0:
		hints = append(hints, "Container has no graphs: neither \"graph\" nor \"graphs\" is present.")
	case len(out.Values) == 0 && len(out.Errors) == 0:
		hints = append(hints, "Expression produced no values. Try '.nodes | keys' or '.edges[0]' to explore the structure, or jsongraph_extract_graphs for an overview.")
	case len(out.Values) == 0:
		hints = append(hints, "Every graph failed the expression. Check the errors for the failing path.")
	}
	if out.Summary.Truncated {
		hints = append(hints, "Results were truncated at max_results. Narrow the expression or raise max_results.")
	}
	if !out.Summary.Deduplicated && out.Summary.TotalValues > 1 {
		hints = append(hints, "Set deduplicate=true to collapse repeated values.")
	}
	return hints
}
