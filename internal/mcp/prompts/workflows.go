package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleValidateGraph walks through validating one document and fixing it.
func HandleValidateGraph(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		documentPath := argument(req, "document_path")
		if documentPath == "" {
			return nil, fmt.Errorf("document_path is required")
		}
		schemaPath := argument(req, "schema_path")

		schemaArg := ""
		schemaName := fmt.Sprintf("the JSON Graph schema (%s)", cfg.DefaultSchema)
		if schemaPath != "" {
			schemaArg = fmt.Sprintf(", schema_path: %q", schemaPath)
			schemaName = fmt.Sprintf("`%s`", schemaPath)
		}

		var sb strings.Builder

		sb.WriteString("# Validate a JSON Graph Document\n\n")
		fmt.Fprintf(&sb, "Validate `%s` against %s, explain what is wrong, and propose the smallest edits that make it conform.\n\n", documentPath, schemaName)

		sb.WriteString("## Steps\n\n")
		if schemaPath != "" {
			fmt.Fprintf(&sb, "1. `jsongraph_check_schema(schema_path: %q)`: stop and report if the schema itself is not valid Draft-4.\n", schemaPath)
		} else {
			sb.WriteString("1. The default schema is trusted; skip the schema check.\n")
		}
		fmt.Fprintf(&sb, "2. `jsongraph_validate(document_path: %q%s)`\n", documentPath, schemaArg)
		sb.WriteString("3. If `valid` is true, report the graph count and stop.\n")
		sb.WriteString("4. Otherwise group the violations by `instance_path`. For each group:\n")
		sb.WriteString("   - quote the offending value using `jsongraph_query_graphs` with a JQ path built from the pointer\n")
		sb.WriteString("   - name the constraint from `keyword`\n")
		sb.WriteString("   - propose a concrete fix\n")
		sb.WriteString("5. If `truncated` is true, raise `max_violations` and repeat step 2 before summarizing.\n")

		sb.WriteString("\n## Common Causes\n")
		sb.WriteString("- Edges missing `source` or `target`\n")
		sb.WriteString("- `directed` given as a string instead of a boolean\n")
		sb.WriteString("- `nodes` written as an array where the schema expects an object keyed by node id\n")
		sb.WriteString("- Extra top-level keys next to `graph`/`graphs` when the schema forbids additional properties\n")

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for validating and fixing a JSON Graph document",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

// HandleDesignSchema walks through inferring and applying a schema.
func HandleDesignSchema(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var samples []string
		for s := range strings.SplitSeq(argument(req, "samples"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				samples = append(samples, fmt.Sprintf("%q", s))
			}
		}
		if len(samples) == 0 {
			return nil, fmt.Errorf("samples is required")
		}
		target := argument(req, "target")

		var sb strings.Builder

		sb.WriteString("# Design a Schema for a Family of Graphs\n\n")
		sb.WriteString("Derive a Draft-4 schema that captures what the sample graphs have in common, tighten it by hand, and check other documents against it.\n\n")

		sb.WriteString("## Steps\n\n")
		fmt.Fprintf(&sb, "1. `jsongraph_extract_graphs(document_path: ..., summary_only: true)` for each of %s to see labels and sizes.\n", strings.Join(samples, ", "))
		fmt.Fprintf(&sb, "2. `jsongraph_infer_schema(document_paths: [%s], container: true)`\n", strings.Join(samples, ", "))
		sb.WriteString("3. Review the schema:\n")
		sb.WriteString("   - `required` lists only properties present in every sampled graph; check that is intended\n")
		sb.WriteString("   - `summary.all_match: false` means the samples differ in shape; look at the `anyOf` branches\n")
		sb.WriteString("   - add `enum` for fields like `relation` or `type` if the values are a closed set\n")
		sb.WriteString("4. `jsongraph_check_schema(schema: <edited schema>)` after every edit.\n")
		if target != "" {
			fmt.Fprintf(&sb, "5. `jsongraph_validate_files(paths: [%q], schema: <edited schema>)` and report which files fail and why.\n", target)
		} else {
			sb.WriteString("5. Validate each sample again with `jsongraph_validate(schema: <edited schema>)` to confirm nothing regressed.\n")
		}

		sb.WriteString("\n## Notes\n")
		sb.WriteString("- Node maps (`nodes`) are described by a single `additionalProperties` schema, so node ids never become property names\n")
		fmt.Fprintf(&sb, "- Batch validation is capped at %d files per call\n", cfg.MaxBatchFiles)

		return &sdkmcp.GetPromptResult{
			Description: "Workflow for inferring and applying a graph schema",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}

func argument(req *sdkmcp.GetPromptRequest, name string) string {
	if req == nil || req.Params == nil || req.Params.Arguments == nil {
		return ""
	}
	return strings.TrimSpace(req.Params.Arguments[name])
}
