package mcpsrv

import (
	"github.com/usestring/jsongraph-mcp/internal/batch"
	"github.com/usestring/jsongraph-mcp/internal/cache"
	"github.com/usestring/jsongraph-mcp/internal/config"
	"github.com/usestring/jsongraph-mcp/internal/query"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Validator     *jsongraph.Validator
	DefaultSchema *cache.CachingFetcher
	Schemas       *cache.SchemaCache
	Query         *query.Engine
	Batch         *batch.Runner
	Config        *config.Config
}
