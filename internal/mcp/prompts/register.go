package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "jsongraph_guide",
		Description: "RECOMMENDED: Start here. Explains which jsongraph tool to use for validating, exploring and querying JSON Graph documents, and how to keep responses small.",
	}, HandleGuide(cfg))

	// Prompt 2: Validate and fix a graph document
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "validate_json_graph",
		Description: "Validate a JSON Graph document, explain every violation and propose fixes.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "document_path",
				Description: "Path of the JSON or YAML graph document to validate",
				Required:    true,
			},
			{
				Name:        "schema_path",
				Description: "Path of a schema to validate against instead of the JSON Graph schema",
				Required:    false,
			},
		},
	}, HandleValidateGraph(cfg))

	// Prompt 3: Derive a schema for a family of graphs
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "design_graph_schema",
		Description: "Infer a schema from sample graph documents, refine it, and check a directory of graphs against it.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "samples",
				Description: "Comma-separated paths of sample graph documents",
				Required:    true,
			},
			{
				Name:        "target",
				Description: "File, directory or glob of graphs to check against the new schema",
				Required:    false,
			},
		},
	}, HandleDesignSchema(cfg))
}
