package mcpsrv

import (
	"context"
	"net/http"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsongraph-mcp/internal/config"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	config     *config.Config
	httpClient *http.Client
	fetcher    jsongraph.SchemaFetcher

	// Logging overrides
	logLevel string
	logFile  string

	// Extension toggles
	disableBuiltinTools   bool
	disableBuiltinPrompts bool

	// Custom tools, prompts and resources, registered in option order once
	// Deps exist.
	extensions []func(*mcp.Server, *Deps)
}

func (cfg *serverConfig) extend(fn func(*mcp.Server, *Deps)) {
	cfg.extensions = append(cfg.extensions, fn)
}

// Option configures the server.
type Option func(*serverConfig)

// WithLogLevel sets the log level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(cfg *serverConfig) {
		cfg.logLevel = level
	}
}

// WithLogFile sets the log file path.
// If empty, logs are written to stderr only.
func WithLogFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.logFile = path
	}
}

// WithHTTPClient sets the HTTP client used to fetch schemas, including the
// default schema and any schema_url given to a tool. The default client
// uses HTTP_CLIENT_TIMEOUT_MS.
func WithHTTPClient(c *http.Client) Option {
	return func(cfg *serverConfig) {
		cfg.httpClient = c
	}
}

// WithSchemaURL sets the URL of the default schema.
func WithSchemaURL(url string) Option {
	return func(cfg *serverConfig) {
		cfg.config.SchemaURL = url
		cfg.config.SchemaFile = ""
	}
}

// WithSchemaFile pins the default schema to a local JSON or YAML file,
// so no network access is needed.
func WithSchemaFile(path string) Option {
	return func(cfg *serverConfig) {
		cfg.config.SchemaFile = path
	}
}

// WithSchemaFetcher replaces the source of the default schema, for example
// with a schema embedded in the binary. Fetched documents are still cached.
func WithSchemaFetcher(f jsongraph.SchemaFetcher) Option {
	return func(cfg *serverConfig) {
		cfg.fetcher = f
	}
}

// WithValidateWorkers sets how many files jsongraph_validate_files checks
// concurrently.
func WithValidateWorkers(n int) Option {
	return func(cfg *serverConfig) {
		cfg.config.ValidateWorkers = n
	}
}

// WithoutBuiltinTools disables all builtin jsongraph tools and resources.
// Use this if you want to register only your own tools.
func WithoutBuiltinTools() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinTools = true
	}
}

// WithoutBuiltinPrompts disables all builtin jsongraph prompts.
// Use this if you want to register only your own prompts.
func WithoutBuiltinPrompts() Option {
	return func(cfg *serverConfig) {
		cfg.disableBuiltinPrompts = true
	}
}

// WithTool registers a custom tool. Output types are checked the same way as
// the builtin tools: slices and maps in Out need omitempty or omitzero.
//
//	type LabelsInput struct {
//	    Path string `json:"path" jsonschema:"required,Graph container path"`
//	}
//
//	type LabelsOutput struct {
//	    Labels []string `json:"labels,omitzero"`
//	}
//
//	mcpsrv.WithTool(&mcp.Tool{Name: "graph_labels", Description: "List graph labels"}, labelsHandler)
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.extend(func(srv *mcp.Server, _ *Deps) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool built from the server's Deps, for
// tools that need the validator, the schema cache or the query engine.
//
//	mcpsrv.WithDepsTool(
//	    &mcp.Tool{Name: "count_graphs", Description: "Count graphs in a container"},
//	    func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	        return func(ctx context.Context, _ *mcp.CallToolRequest, in CountInput) (*mcp.CallToolResult, CountOutput, error) {
//	            doc, err := jsongraph.Resolve(jsongraph.FromPath(in.Path))
//	            if err != nil {
//	                return nil, CountOutput{}, err
//	            }
//	            return nil, CountOutput{Count: jsongraph.Count(doc)}, nil
//	        }
//	    },
//	)
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(cfg *serverConfig) {
		cfg.extend(func(srv *mcp.Server, deps *Deps) {
			AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt registers a custom prompt.
func WithPrompt(prompt *mcp.Prompt, handler mcp.PromptHandler) Option {
	return func(cfg *serverConfig) {
		cfg.extend(func(srv *mcp.Server, _ *Deps) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResource registers a custom resource with a fixed URI.
func WithResource(resource *mcp.Resource, handler mcp.ResourceHandler) Option {
	return func(cfg *serverConfig) {
		cfg.extend(func(srv *mcp.Server, _ *Deps) {
			srv.AddResource(resource, handler)
		})
	}
}

// WithResourceTemplate registers a custom resource template, e.g.
// "mygraphs://{name}". Templates under jsongraph:// are reserved for the
// builtin resources.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler mcp.ResourceHandler) Option {
	return func(cfg *serverConfig) {
		cfg.extend(func(srv *mcp.Server, _ *Deps) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
