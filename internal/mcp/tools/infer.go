package tools

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsongraph-mcp/pkg/infer"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
	"github.com/usestring/jsongraph-mcp/pkg/types"
)

// InferSchemaInput is the input for jsongraph_infer_schema.
type InferSchemaInput struct {
	Documents     []any    `json:"documents,omitempty" jsonschema:"JSON Graph containers to sample, inline as objects or as JSON text"`
	DocumentPaths []string `json:"document_paths,omitempty" jsonschema:"Paths of JSON or YAML graph containers to sample. Either documents or document_paths is required."`
	Container     bool     `json:"container,omitempty" jsonschema:"Wrap the graph schema so it validates whole containers with graph or graphs keys (default: false, the schema describes a single graph)"`
	Optional      bool     `json:"optional,omitempty" jsonschema:"Do not mark any property as required (default: false, properties present in every sample are required)"`
	Closed        bool     `json:"closed,omitempty" jsonschema:"Set additionalProperties to false on inferred objects (default: false)"`
	MapProperties []string `json:"map_properties,omitempty" jsonschema:"Object properties keyed by identifier whose values share one schema (default: [nodes])"`
	FieldStats    bool     `json:"field_stats,omitempty" jsonschema:"Also return per-property frequency, examples and enum candidates (default: false)"`
}

// ToolInferSchema infers a Draft-4 schema from the graphs of sample containers.
func ToolInferSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, types.InferSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, types.InferSchemaOutput, error) {
		requested := len(input.Documents) + len(input.DocumentPaths)
		if requested == 0 {
			return nil, types.InferSchemaOutput{}, ErrInvalidInput("either documents or document_paths is required")
		}

		output := types.InferSchemaOutput{
			Summary: types.InferSchemaSummary{DocumentsRequested: requested},
		}

		var sources []jsongraph.Source
		for _, doc := range input.Documents {
			src, err := DocumentSource(doc, "")
			if err != nil {
				return nil, types.InferSchemaOutput{}, err
			}
			sources = append(sources, src)
		}
		for _, path := range input.DocumentPaths {
			sources = append(sources, jsongraph.FromPath(path))
		}

		var samples []any
		for _, src := range sources {
			doc, err := jsongraph.Resolve(src)
			if err != nil {
				d.logger().Debug("infer sample skipped",
					slog.String("source", src.String()),
					slog.String("error", err.Error()),
				)
				output.Summary.DocumentsSkipped++
				continue
			}
			graphs, err := jsongraph.Extract(doc)
			if err != nil {
				d.logger().Debug("infer sample skipped",
					slog.String("source", src.String()),
					slog.String("error", err.Error()),
				)
				output.Summary.DocumentsSkipped++
				continue
			}
			output.Summary.DocumentsProcessed++
			for g := range graphs {
				samples = append(samples, g)
			}
		}

		if len(samples) == 0 {
			return nil, types.InferSchemaOutput{}, ErrInvalidInput(fmt.Sprintf(
				"no graphs found in %d document(s); %d could not be read", requested, output.Summary.DocumentsSkipped))
		}

		opts := infer.DefaultOptions()
		opts.StrictRequired = !input.Optional
		if input.Closed {
			closed := false
			opts.AdditionalProperties = &closed
		}
		if len(input.MapProperties) > 0 {
			opts.MapProperties = input.MapProperties
		}

		inferred, err := infer.FromSamples(opts, samples...)
		if err != nil {
			return nil, types.InferSchemaOutput{}, WrapError(err)
		}

		schema := inferred.Schema
		if input.Container {
			schema = infer.Container(schema)
		}
		doc, err := types.ToAny(schema)
		if err != nil {
			return nil, types.InferSchemaOutput{}, WrapError(err)
		}

		check, err := d.Validator.CheckSchema(ctx, jsongraph.FromValue(doc))
		if err != nil {
			return nil, types.InferSchemaOutput{}, WrapError(err)
		}

		output.Schema = doc
		if input.FieldStats {
			output.Fields = infer.FieldStats(inferred.Schema, samples)
		}
		output.Summary.GraphsSampled = inferred.SampleCount
		output.Summary.AllMatch = inferred.AllMatch
		output.Summary.SchemaValid = check.Valid

		if input.Container {
			output.Hint = "Pass the schema to jsongraph_validate or jsongraph_validate_files to check other containers."
		} else {
			output.Hint = "The schema describes one graph. Set container=true to validate whole documents with it."
		}
		return nil, output, nil
	}
}
