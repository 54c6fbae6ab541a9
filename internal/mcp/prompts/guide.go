package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleGuide serves the tool usage guide.
func HandleGuide(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# JSON Graph Tool Guide\n\n")

		// --- Documents ---
		sb.WriteString("## Passing Documents\n\n")
		sb.WriteString("| Input | Parameter | Example |\n")
		sb.WriteString("|-------|-----------|--------|\n")
		sb.WriteString("| File on disk (JSON or YAML) | `document_path` | `document_path: \"graphs/cars.json\"` |\n")
		sb.WriteString("| Inline object | `document` | `document: {\"graph\": {\"nodes\": {}}}` |\n")
		sb.WriteString("| JSON text | `document` | `document: \"{\\\"graph\\\": {}}\"` |\n")
		sb.WriteString("\nPrefer `document_path` for anything larger than a few nodes: the document never enters the conversation.\n")

		// --- Schemas ---
		sb.WriteString("\n## Schemas\n")
		fmt.Fprintf(&sb, "- With no schema fields, tools use the JSON Graph schema from `%s`\n", cfg.DefaultSchema)
		sb.WriteString("- `schema`, `schema_path` and `schema_url` select another schema; give at most one\n")
		sb.WriteString("- Schemas are always treated as Draft-4, whatever `$schema` they declare\n")
		sb.WriteString("- Fetched schemas are cached; the default schema is also available as the `jsongraph://schema/default` resource\n")

		// --- Tools ---
		sb.WriteString("\n## Which Tool\n\n")
		sb.WriteString("| Goal | Tool |\n")
		sb.WriteString("|------|------|\n")
		sb.WriteString("| Is my schema itself valid? | `jsongraph_check_schema` |\n")
		sb.WriteString("| Does one document conform, and where not? | `jsongraph_validate` |\n")
		fmt.Fprintf(&sb, "| Check a directory of documents (up to %d files) | `jsongraph_validate_files` |\n", cfg.MaxBatchFiles)
		sb.WriteString("| What graphs does a container hold? | `jsongraph_extract_graphs` |\n")
		sb.WriteString("| Pull specific values out of every graph | `jsongraph_query_graphs` |\n")
		sb.WriteString("| Write a schema for graphs like these | `jsongraph_infer_schema` |\n")

		// --- Reading violations ---
		sb.WriteString("\n## Reading Violations\n")
		sb.WriteString("- Every violation is reported, not just the first\n")
		sb.WriteString("- `instance_path` is a JSON pointer into the document: `/graphs/1/edges/0` is the first edge of the second graph\n")
		sb.WriteString("- `keyword` names the failing constraint, e.g. `required` or `properties/label/type`\n")

		// --- Extraction ---
		sb.WriteString("\n## Extraction Order\n")
		sb.WriteString("A container may hold a single `graph`, a `graphs` array, or both. Graphs are returned with the `graph` value first, then each element of `graphs`; `index` in every result follows that order.\n")

		// --- Tips ---
		sb.WriteString("\n## Tips\n")
		sb.WriteString("- **Start small**: `jsongraph_extract_graphs(summary_only: true)` gives labels and node/edge counts without the bodies\n")
		sb.WriteString("- **Compact by default**: large node maps and edge lists are trimmed with a `...` marker; set `full: true` only when needed\n")
		sb.WriteString("- **Query per graph**: JQ expressions see one graph at a time, e.g. `.nodes | keys` or `.edges[] | select(.relation == \"owns\")`\n")
		sb.WriteString("- **Profile before constraining**: `jsongraph_infer_schema(field_stats: true)` shows how often each property appears and which strings look like enums\n")
		sb.WriteString("- **Validate before trusting**: set `validate: true` on extract or query to refuse non-conforming containers\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide to the JSON Graph tools",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
