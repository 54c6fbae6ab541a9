package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsongraph-mcp/internal/mcp/prompts"
	"github.com/usestring/jsongraph-mcp/internal/mcp/tools"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// Version is reported to clients during initialization.
const Version = "0.1.0"

// Server exposes a jsongraph.Validator over MCP.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	tools      bool
	prompts    bool
	extensions []func(*sdkmcp.Server)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBuiltinTools registers the jsongraph tools and the jsongraph:// resources.
func WithBuiltinTools() ServerOption {
	return func(s *Server) { s.tools = true }
}

// WithBuiltinPrompts registers the jsongraph prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) { s.prompts = true }
}

// WithCustomRegistration runs fn against the underlying MCP server after the
// builtins are registered, so extensions may add or replace capabilities.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.extensions = append(s.extensions, fn)
	}
}

// NewServer builds a Server around deps.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	switch {
	case deps == nil:
		return nil, errors.New("deps is required")
	case deps.Validator == nil:
		return nil, errors.New("deps.Validator is required")
	case deps.Config == nil:
		return nil, errors.New("deps.Config is required")
	}

	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}

	defaultSchema := deps.DescribeSchema(jsongraph.Source{}, "")
	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "jsongraph-mcp", Version: Version},
		&sdkmcp.ServerOptions{Instructions: s.instructions(defaultSchema)},
	)
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware(deps.Logger))

	if s.tools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if s.prompts {
		prompts.Register(s.mcpServer, &prompts.Config{
			DefaultSchema: defaultSchema,
			MaxBatchFiles: deps.Config.MaxBatchFiles,
		})
	}
	for _, fn := range s.extensions {
		fn(s.mcpServer)
	}

	return s, nil
}

// instructions is the server description sent to clients on initialize.
func (s *Server) instructions(defaultSchema string) string {
	var sb strings.Builder
	sb.WriteString("Validates JSON Graph Format documents and the Draft-4 schemas that describe them. ")
	sb.WriteString("Validation reports every violation with a JSON pointer into the document. ")
	fmt.Fprintf(&sb, "Without an explicit schema, documents are checked against %s.", defaultSchema)
	if s.prompts {
		sb.WriteString(" Read the jsongraph_guide prompt before the first tool call.")
	}
	return sb.String()
}

// Run serves MCP over stdio until ctx is cancelled or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// Connect serves a single session over t without blocking.
func (s *Server) Connect(ctx context.Context, t sdkmcp.Transport) (*sdkmcp.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
