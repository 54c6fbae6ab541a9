package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: jsongraph_check_schema
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsongraph_check_schema",
		Description: "Check that a schema is itself a valid Draft-4 JSON Schema. Returns {valid, schema, violations: [{instance_path, keyword, message}], hint}. With no schema fields, checks the default JSON Graph schema. Run this before validating against a hand-written schema.",
	}, ToolCheckSchema(d))

	// Tool 2: jsongraph_validate
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsongraph_validate",
		Description: "Validate one JSON Graph document and report every violation, not just the first. Returns {valid, graph_count, violation_count, violations: [{instance_path, keyword, schema_location, message}], hint}. Validates against the JSON Graph schema unless schema, schema_path or schema_url is given. Use validate_files for many files on disk.",
	}, ToolValidate(d))

	// Tool 3: jsongraph_extract_graphs
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsongraph_extract_graphs",
		Description: "List the graphs of a JSON Graph container: the single \"graph\" first, then each element of \"graphs\". Returns {total, returned, graphs: [{index, id, label, directed, node_count, edge_count, graph}], truncated, hint}. Graph bodies are compacted by default; set full=true for complete graphs or summary_only=true for counts only. Set validate=true to reject non-conforming containers.",
	}, ToolExtractGraphs(d))

	// Tool 4: jsongraph_query_graphs
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsongraph_query_graphs",
		Description: "Run a JQ expression against each graph of a container and combine the results. Returns {summary, values, label_counts, errors, hints}. Each graph is the expression's input, so '.nodes | keys' lists node ids and '.edges[] | .relation' lists edge relations. Use extract_graphs first to see the structure.",
	}, ToolQueryGraphs(d))

	// Tool 5: jsongraph_validate_files
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsongraph_validate_files",
		Description: "Validate many JSON Graph files concurrently against one schema. Accepts files, directories (searched for .json, .yaml and .yml) and glob patterns. Returns {summary: {files, valid, invalid, failed}, files: [{path, valid, graph_count, violations, error}], hint}. Unreadable files are reported per file rather than failing the call.",
	}, ToolValidateFiles(d))

	// Tool 6: jsongraph_infer_schema
	AddTool(srv, &sdkmcp.Tool{
		Name:        "jsongraph_infer_schema",
		Description: "Infer a Draft-4 JSON Schema from the graphs of sample containers. Node maps are described by one schema for every node. Returns {schema, summary: {graphs_sampled, all_match, schema_valid}, hint}. Set container=true to get a schema for whole documents that can be passed back to validate or validate_files.",
	}, ToolInferSchema(d))
}
