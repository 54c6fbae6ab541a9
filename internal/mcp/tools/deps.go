package tools

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/usestring/jsongraph-mcp/internal/batch"
	"github.com/usestring/jsongraph-mcp/internal/cache"
	"github.com/usestring/jsongraph-mcp/internal/config"
	"github.com/usestring/jsongraph-mcp/internal/query"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Validator  *jsongraph.Validator
	Default    *cache.CachingFetcher // fetcher behind Validator's default schema
	Schemas    *cache.SchemaCache    // shared by every schema URL a tool fetches
	Query      *query.Engine
	Batch      *batch.Runner
	Config     *config.Config
	HTTPClient *http.Client
	Logger     *slog.Logger
}

func (d *Deps) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// DocumentSource turns the document fields of a tool input into a Source.
// A string document is parsed as JSON text; anything else is used as is.
func DocumentSource(doc any, path string) (jsongraph.Source, error) {
	switch {
	case doc != nil && path != "":
		return jsongraph.Source{}, ErrInvalidInput("document and document_path are mutually exclusive")
	case path != "":
		return jsongraph.FromPath(path), nil
	case doc == nil:
		return jsongraph.Source{}, ErrInvalidInput("either document or document_path is required")
	}
	if text, ok := doc.(string); ok {
		return jsongraph.FromText(text), nil
	}
	return jsongraph.FromValue(doc), nil
}

// SchemaSource turns the schema fields of a tool input into a Source. All
// fields empty selects the default schema and returns the zero Source.
// A schema URL is fetched through the shared schema cache.
func (d *Deps) SchemaSource(ctx context.Context, schema any, path, url string) (jsongraph.Source, error) {
	given := 0
	for _, set := range []bool{schema != nil, path != "", url != ""} {
		if set {
			given++
		}
	}
	if given > 1 {
		return jsongraph.Source{}, ErrInvalidInput("schema, schema_path and schema_url are mutually exclusive")
	}

	switch {
	case path != "":
		return jsongraph.FromPath(path), nil
	case url != "":
		doc, err := d.schemaFetcher(url).FetchSchema(ctx)
		if err != nil {
			return jsongraph.Source{}, err
		}
		return jsongraph.FromValue(doc), nil
	case schema != nil:
		if text, ok := schema.(string); ok {
			return jsongraph.FromText(text), nil
		}
		return jsongraph.FromValue(schema), nil
	}
	return jsongraph.Source{}, nil
}

// DescribeSchema names the schema a tool used, for outputs and hints.
func (d *Deps) DescribeSchema(src jsongraph.Source, url string) string {
	switch {
	case url != "":
		return url
	case !src.IsZero():
		return src.String()
	case d.Default != nil:
		return d.Default.Key()
	}
	return jsongraph.DefaultSchemaURL
}

func (d *Deps) schemaFetcher(url string) jsongraph.SchemaFetcher {
	if d.Default != nil && d.Default.Key() == url {
		return d.Default
	}

	next := jsongraph.NewHTTPFetcher(
		jsongraph.WithURL(url),
		jsongraph.WithHTTPClient(d.HTTPClient),
		jsongraph.WithFetchLogger(d.logger()),
	)
	if d.Schemas == nil {
		return next
	}
	return cache.NewCachingFetcher(url, next, d.Schemas, d.logger())
}

// resolveDocument parses a document once so it can be counted, validated
// and extracted without reading a path twice.
func resolveDocument(doc any, path string) (any, error) {
	src, err := DocumentSource(doc, path)
	if err != nil {
		return nil, err
	}
	resolved, err := jsongraph.Resolve(src)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return resolved, nil
}
