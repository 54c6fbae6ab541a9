package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsongraph-mcp/internal/batch"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// defaultMaxViolations is how many violations a tool returns unless asked.
const defaultMaxViolations = 50

// CheckSchemaInput is the input for jsongraph_check_schema.
type CheckSchemaInput struct {
	Schema     any    `json:"schema,omitempty" jsonschema:"Schema to check, inline as an object or as JSON text. Omit all schema fields to check the default JSON Graph schema."`
	SchemaPath string `json:"schema_path,omitempty" jsonschema:"Path to a JSON or YAML schema file"`
	SchemaURL  string `json:"schema_url,omitempty" jsonschema:"URL to fetch the schema from"`
}

// CheckSchemaOutput is the output for jsongraph_check_schema.
type CheckSchemaOutput struct {
	Valid      bool                  `json:"valid"`
	Schema     string                `json:"schema"` // Which schema was checked
	Violations []jsongraph.Violation `json:"violations,omitzero"`
	Hint       string                `json:"hint,omitempty"`
}

// ToolCheckSchema checks a schema against the Draft-4 meta-schema.
func ToolCheckSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CheckSchemaInput) (*sdkmcp.CallToolResult, CheckSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CheckSchemaInput) (*sdkmcp.CallToolResult, CheckSchemaOutput, error) {
		src, err := d.SchemaSource(ctx, input.Schema, input.SchemaPath, input.SchemaURL)
		if err != nil {
			return nil, CheckSchemaOutput{}, WrapError(err)
		}

		result, err := d.Validator.CheckSchema(ctx, src)
		if err != nil {
			return nil, CheckSchemaOutput{}, WrapError(err)
		}

		output := CheckSchemaOutput{
			Valid:      result.Valid,
			Schema:     d.DescribeSchema(src, input.SchemaURL),
			Violations: result.Violations,
		}
		if result.Valid {
			output.Hint = "Schema is valid Draft-4. Pass it to jsongraph_validate to check graph documents against it."
		} else {
			output.Hint = "Fix the listed violations; instance_path points into the schema document."
		}
		return nil, output, nil
	}
}

// ValidateInput is the input for jsongraph_validate.
type ValidateInput struct {
	Document      any    `json:"document,omitempty" jsonschema:"JSON Graph document, inline as an object or as JSON text. Either document or document_path is required."`
	DocumentPath  string `json:"document_path,omitempty" jsonschema:"Path to a JSON or YAML graph document"`
	Schema        any    `json:"schema,omitempty" jsonschema:"Schema to validate against, inline or as JSON text (default: the JSON Graph schema)"`
	SchemaPath    string `json:"schema_path,omitempty" jsonschema:"Path to a schema file"`
	SchemaURL     string `json:"schema_url,omitempty" jsonschema:"URL to fetch the schema from"`
	MaxViolations int    `json:"max_violations,omitempty" jsonschema:"Max violations to return (default: 50)"`
}

// ValidateOutput is the output for jsongraph_validate.
type ValidateOutput struct {
	Valid          bool                  `json:"valid"`
	Schema         string                `json:"schema"`
	GraphCount     int                   `json:"graph_count"` // Graphs found under "graph" and "graphs"
	ViolationCount int                   `json:"violation_count"`
	Violations     []jsongraph.Violation `json:"violations,omitzero"`
	Truncated      bool                  `json:"truncated,omitempty"`
	Hint           string                `json:"hint,omitempty"`
}

// ToolValidate validates one graph document and reports every violation.
func ToolValidate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
		doc, err := resolveDocument(input.Document, input.DocumentPath)
		if err != nil {
			return nil, ValidateOutput{}, WrapError(err)
		}

		schema, err := d.SchemaSource(ctx, input.Schema, input.SchemaPath, input.SchemaURL)
		if err != nil {
			return nil, ValidateOutput{}, WrapError(err)
		}

		result, err := d.Validator.Validate(ctx, jsongraph.FromValue(doc), schema)
		if err != nil {
			return nil, ValidateOutput{}, WrapError(err)
		}

		violations, truncated := firstViolations(result, clampLimit(input.MaxViolations, defaultMaxViolations, 0))
		output := ValidateOutput{
			Valid:          result.Valid,
			Schema:         d.DescribeSchema(schema, input.SchemaURL),
			GraphCount:     jsongraph.Count(doc),
			ViolationCount: len(result.Violations),
			Violations:     violations,
			Truncated:      truncated,
		}

		switch {
		case !result.Valid:
			output.Hint = "Each violation names the JSON pointer of the offending value. Fix them and validate again."
		case output.GraphCount == 0:
			output.Hint = "Document validates but holds no graphs: neither \"graph\" nor \"graphs\" is present."
		default:
			output.Hint = "Use jsongraph_extract_graphs or jsongraph_query_graphs to explore the graphs."
		}
		return nil, output, nil
	}
}

// ValidateFilesInput is the input for jsongraph_validate_files.
type ValidateFilesInput struct {
	Paths         []string `json:"paths" jsonschema:"Files, directories or glob patterns to validate. Directories are searched for .json, .yaml and .yml files."`
	Schema        any      `json:"schema,omitempty" jsonschema:"Schema to validate against, inline or as JSON text (default: the JSON Graph schema)"`
	SchemaPath    string   `json:"schema_path,omitempty" jsonschema:"Path to a schema file"`
	SchemaURL     string   `json:"schema_url,omitempty" jsonschema:"URL to fetch the schema from"`
	MaxViolations int      `json:"max_violations,omitempty" jsonschema:"Max violations to return per file (default: 50)"`
}

// FileValidation is the outcome for one file.
type FileValidation struct {
	Path           string                `json:"path"`
	Valid          bool                  `json:"valid"`
	GraphCount     int                   `json:"graph_count"`
	ViolationCount int                   `json:"violation_count"`
	Violations     []jsongraph.Violation `json:"violations,omitzero"`
	Error          string                `json:"error,omitempty"` // Why the file could not be validated
}

// ValidateFilesSummary aggregates a batch.
type ValidateFilesSummary struct {
	Files      int   `json:"files"`
	Valid      int   `json:"valid"`
	Invalid    int   `json:"invalid"`
	Failed     int   `json:"failed"`
	DurationMs int64 `json:"duration_ms"`
	Truncated  bool  `json:"truncated,omitempty"` // More files matched than were validated
}

// ValidateFilesOutput is the output for jsongraph_validate_files.
type ValidateFilesOutput struct {
	Summary ValidateFilesSummary `json:"summary"`
	Schema  string               `json:"schema"`
	Files   []FileValidation     `json:"files,omitzero"`
	Hint    string               `json:"hint,omitempty"`
}

// ToolValidateFiles validates many documents concurrently against one schema.
func ToolValidateFiles(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateFilesInput) (*sdkmcp.CallToolResult, ValidateFilesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateFilesInput) (*sdkmcp.CallToolResult, ValidateFilesOutput, error) {
		if len(input.Paths) == 0 {
			return nil, ValidateFilesOutput{}, ErrInvalidInput("paths is required")
		}

		paths, err := batch.CollectFiles(input.Paths)
		if err != nil {
			return nil, ValidateFilesOutput{}, ErrInvalidInput(err.Error())
		}
		if len(paths) == 0 {
			return nil, ValidateFilesOutput{}, ErrInvalidInput("no files matched the given paths")
		}

		truncated := false
		if limit := d.Config.MaxBatchFiles; limit > 0 && len(paths) > limit {
			paths = paths[:limit]
			truncated = true
		}

		schema, err := d.SchemaSource(ctx, input.Schema, input.SchemaPath, input.SchemaURL)
		if err != nil {
			return nil, ValidateFilesOutput{}, WrapError(err)
		}

		// Per-file failures are reported in the output, not as a tool error.
		report, err := d.Batch.ValidateFiles(ctx, paths, schema)
		if report == nil {
			return nil, ValidateFilesOutput{}, WrapError(err)
		}

		maxViolations := clampLimit(input.MaxViolations, defaultMaxViolations, 0)
		output := ValidateFilesOutput{
			Summary: ValidateFilesSummary{
				Files:      len(report.Files),
				Valid:      report.Valid,
				Invalid:    report.Invalid,
				Failed:     report.Failed,
				DurationMs: report.DurationMs,
				Truncated:  truncated,
			},
			Schema: d.DescribeSchema(schema, input.SchemaURL),
			Files:  make([]FileValidation, 0, len(report.Files)),
		}

		for _, f := range report.Files {
			fv := FileValidation{Path: f.Path, GraphCount: f.Graphs, Error: f.Error}
			if f.Result != nil {
				fv.Valid = f.Result.Valid
				fv.ViolationCount = len(f.Result.Violations)
				fv.Violations, _ = firstViolations(f.Result, maxViolations)
			}
			output.Files = append(output.Files, fv)
		}

		switch {
		case report.AllValid():
			output.Hint = fmt.Sprintf("All %d file(s) validate.", len(report.Files))
		case report.Failed > 0:
			output.Hint = "Files with an error could not be read or parsed; check the path and that the file is JSON or YAML."
		default:
			output.Hint = "Run jsongraph_validate on a single file to see all of its violations."
		}
		return nil, output, nil
	}
}
