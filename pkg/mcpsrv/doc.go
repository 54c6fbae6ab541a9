// Package mcpsrv provides an extensible MCP server for JSON Graph documents.
//
// This package exposes a high-level API for creating and running an MCP server
// with the builtin jsongraph tools, prompts, and resources: schema checks,
// validation that reports every violation, graph extraction, JQ queries over
// graphs, batch validation of files, and schema inference. Users can extend
// the server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server with configuration from the environment:
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    Path string `json:"path"`
//	}
//
//	type MyOutput struct {
//	    Count int `json:"count"`
//	}
//
//	func myHandler(ctx context.Context, req *mcp.CallToolRequest, input MyInput) (*mcp.CallToolResult, MyOutput, error) {
//	    return nil, MyOutput{Count: 42}, nil
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler),
//	)
//
// Tools that need the validator or the schema cache use [WithDepsTool].
//
// # Configuration
//
// Pin the default schema to a local file and configure logging:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithSchemaFile("schemas/json-graph-schema_v1.json"),
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/jsongraph-mcp.log"),
//	)
package mcpsrv
