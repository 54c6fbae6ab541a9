package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/jsongraph-mcp/internal/batch"
	"github.com/usestring/jsongraph-mcp/internal/cache"
	"github.com/usestring/jsongraph-mcp/internal/config"
	"github.com/usestring/jsongraph-mcp/internal/logging"
	"github.com/usestring/jsongraph-mcp/internal/mcp"
	"github.com/usestring/jsongraph-mcp/internal/mcp/tools"
	"github.com/usestring/jsongraph-mcp/internal/query"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// Server is the jsongraph MCP server with its extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logger     *slog.Logger
	logCleanup func() error
}

// NewServer creates a new MCP server with the builtin jsongraph tools.
//
// Configuration is read from the environment and can be overridden with
// functional options. The default schema is fetched lazily on first use.
func NewServer(opts ...Option) (*Server, error) {
	cfg := &serverConfig{
		config: config.Load(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.config.Validate(); err != nil {
		return nil, err
	}

	logCleanup, err := setupLogging(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	logger := slog.Default()

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.config.HTTPClientTimeout}
	}

	schemas, err := cache.NewSchemaCache(cfg.config.SchemaCacheMaxItem, cfg.config.SchemaCacheTTL)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create schema cache: %w", err)
	}
	key, source := defaultSchemaSource(cfg, httpClient, logger)
	defaultSchema := cache.NewCachingFetcher(key, source, schemas, logger)

	validator := jsongraph.New(
		jsongraph.WithSchemaFetcher(defaultSchema),
		jsongraph.WithLogger(logger),
	)
	queryEngine := query.NewEngine()
	runner := batch.NewRunner(validator, cfg.config.ValidateWorkers, logger)

	toolDeps := &tools.Deps{
		Validator:  validator,
		Default:    defaultSchema,
		Schemas:    schemas,
		Query:      queryEngine,
		Batch:      runner,
		Config:     cfg.config,
		HTTPClient: httpClient,
		Logger:     logger,
	}

	// The public Deps mirror the internal ones for custom tools.
	deps := &Deps{
		Validator:     validator,
		DefaultSchema: defaultSchema,
		Schemas:       schemas,
		Query:         queryEngine,
		Batch:         runner,
		Config:        cfg.config,
	}

	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	for _, fn := range cfg.extensions {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logger:     logger,
		logCleanup: logCleanup,
	}, nil
}

// defaultSchemaSource picks where the default schema comes from, in order:
// WithSchemaFetcher, a pinned file, the configured URL. The key names the
// cache entry and is what tools report as the default schema.
func defaultSchemaSource(cfg *serverConfig, httpClient *http.Client, logger *slog.Logger) (string, jsongraph.SchemaFetcher) {
	switch {
	case cfg.fetcher != nil:
		return "custom:default", cfg.fetcher
	case cfg.config.SchemaFile != "":
		return cfg.config.SchemaFile, jsongraph.FetcherFromSource(jsongraph.FromPath(cfg.config.SchemaFile))
	}
	return cfg.config.SchemaURL, jsongraph.NewHTTPFetcher(
		jsongraph.WithURL(cfg.config.SchemaURL),
		jsongraph.WithHTTPClient(httpClient),
		jsongraph.WithFetchLogger(logger),
	)
}

// setupLogging installs the global logger from config and option overrides.
func setupLogging(cfg *serverConfig) (func() error, error) {
	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	return logging.Setup(logCfg)
}

// Run starts the MCP server with stdio transport.
// It also warms the default schema cache in the background.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go s.warmDefaultSchema(ctx)
	return s.internal.Run(ctx)
}

// warmDefaultSchema fetches the default schema so the first validation does
// not pay for it. Failures are logged and retried on first use.
func (s *Server) warmDefaultSchema(ctx context.Context) {
	if _, err := s.deps.DefaultSchema.FetchSchema(ctx); err != nil {
		s.logger.Warn("default schema not available yet",
			slog.String("schema", s.deps.DefaultSchema.Key()),
			slog.String("error", err.Error()),
		)
	}
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}
