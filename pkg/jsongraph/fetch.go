package jsongraph

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// DefaultSchemaURL is the published Draft-4 JSON Graph Format schema.
const DefaultSchemaURL = "https://raw.githubusercontent.com/jsongraph/json-graph-specification/master/json-graph-schema_v1.json"

// SchemaFetcher supplies the schema used when a caller gives none.
type SchemaFetcher interface {
	FetchSchema(ctx context.Context) (any, error)
}

// SchemaFetcherFunc adapts a function to SchemaFetcher.
type SchemaFetcherFunc func(ctx context.Context) (any, error)

// FetchSchema calls f(ctx).
func (f SchemaFetcherFunc) FetchSchema(ctx context.Context) (any, error) {
	return f(ctx)
}

// FetcherFromSource returns a SchemaFetcher that resolves src on every call,
// pinning the default schema to a local file or an in-memory document.
// Stream sources can only be read once.
func FetcherFromSource(src Source) SchemaFetcher {
	return SchemaFetcherFunc(func(ctx context.Context) (any, error) {
		return Resolve(src)
	})
}

// HTTPFetcher fetches the schema with a single plain GET: no custom headers,
// no authentication and no retry.
type HTTPFetcher struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithURL sets the schema URL.
func WithURL(url string) FetcherOption {
	return func(f *HTTPFetcher) {
		f.url = url
	}
}

// WithHTTPClient sets a custom HTTP client. Timeouts are the client's.
// A nil client keeps http.DefaultClient.
func WithHTTPClient(httpClient *http.Client) FetcherOption {
	return func(f *HTTPFetcher) {
		if httpClient != nil {
			f.httpClient = httpClient
		}
	}
}

// WithFetchLogger sets the logger used for request tracing.
func WithFetchLogger(l *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		f.logger = l
	}
}

// NewHTTPFetcher creates a fetcher for DefaultSchemaURL using http.DefaultClient.
func NewHTTPFetcher(opts ...FetcherOption) *HTTPFetcher {
	f := &HTTPFetcher{
		url:        DefaultSchemaURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// URL returns the schema location.
func (f *HTTPFetcher) URL() string {
	return f.url
}

// FetchSchema performs the GET and parses the body as JSON. Transport
// failures, non-2xx responses and unparsable bodies are *FetchError.
func (f *HTTPFetcher) FetchSchema(ctx context.Context) (any, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: fmt.Errorf("creating request: %w", err)}
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.logger.Debug("schema fetch failed",
			slog.String("url", f.url),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &FetchError{URL: f.url, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Debug("schema fetch returned error",
			slog.String("url", f.url),
			slog.Int("status", resp.StatusCode),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, &FetchError{URL: f.url, StatusCode: resp.StatusCode}
	}

	doc, err := jsonschema.UnmarshalJSON(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: f.url, Err: fmt.Errorf("decoding response: %w", err)}
	}

	f.logger.Debug("schema fetch completed",
		slog.String("url", f.url),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return doc, nil
}
