package jsongraph

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// draft4MetaURL locates the Draft-4 meta-schema; the compiler serves it from
// its embedded copy, so no network access is involved.
const draft4MetaURL = "http://json-schema.org/draft-04/schema"

// schemaResourceURL is the name a resolved schema is registered under.
const schemaResourceURL = "jsongraph-schema.json"

// Validator checks schemas, validates graph documents and extracts graphs.
// It holds no per-call state and is safe for concurrent use.
type Validator struct {
	fetcher SchemaFetcher
	logger  *slog.Logger
	verbose io.Writer
}

// Option configures a Validator.
type Option func(*Validator)

// WithSchemaFetcher sets the source of the default schema.
func WithSchemaFetcher(f SchemaFetcher) Option {
	return func(v *Validator) {
		v.fetcher = f
	}
}

// WithLogger sets the logger that receives one record per violation.
func WithLogger(l *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = l
	}
}

// WithVerbose enables human-readable pass/fail lines written to w.
func WithVerbose(w io.Writer) Option {
	return func(v *Validator) {
		v.verbose = w
	}
}

// New creates a Validator. Without WithSchemaFetcher the default schema is
// fetched from DefaultSchemaURL.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	if v.fetcher == nil {
		v.fetcher = NewHTTPFetcher(WithFetchLogger(v.logger))
	}
	return v
}

// ProvideSchema returns the schema document for src, fetching the default
// schema when src is unspecified.
func (v *Validator) ProvideSchema(ctx context.Context, src Source) (any, error) {
	if src.IsZero() {
		return v.fetcher.FetchSchema(ctx)
	}
	return Resolve(src)
}

// draft4Meta is the compiled Draft-4 meta-schema. It is immutable once built.
var draft4Meta = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.NewCompiler().Compile(draft4MetaURL)
})

// CheckSchema reports whether the schema is itself a well-formed Draft-4
// JSON Schema. An invalid schema is a normal result; errors are reserved for
// sources that cannot be resolved or fetched.
func (v *Validator) CheckSchema(ctx context.Context, schema Source) (*Result, error) {
	doc, err := v.ProvideSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	meta, err := draft4Meta()
	if err != nil {
		return nil, fmt.Errorf("compiling draft-04 meta-schema: %w", err)
	}

	result, err := resultFromError(meta.Validate(doc))
	if err != nil {
		return nil, fmt.Errorf("checking schema: %w", err)
	}

	v.report("schema", result)
	return result, nil
}

// Validate validates a graph document against a schema, collecting every
// violation rather than stopping at the first. An unspecified schema means
// the default schema.
func (v *Validator) Validate(ctx context.Context, graph, schema Source) (*Result, error) {
	doc, err := Resolve(graph)
	if err != nil {
		return nil, err
	}
	return v.validateDocument(ctx, doc, schema)
}

func (v *Validator) validateDocument(ctx context.Context, doc any, schema Source) (*Result, error) {
	schemaDoc, err := v.ProvideSchema(ctx, schema)
	if err != nil {
		return nil, err
	}

	compiled, err := compileSchema(schemaDoc)
	if err != nil {
		return nil, err
	}

	result, err := resultFromError(compiled.Validate(doc))
	if err != nil {
		return nil, fmt.Errorf("validating document: %w", err)
	}

	for _, violation := range result.Violations {
		v.logger.Warn("json graph violation",
			slog.String("instance_path", violation.InstancePath),
			slog.String("keyword", violation.Keyword),
			slog.String("message", violation.Message),
			slog.Any("details", violation.Details),
		)
	}

	v.report("json graph", result)
	return result, nil
}

// compileSchema compiles a schema document with Draft-4 semantics.
func compileSchema(doc any) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.DefaultDraft(jsonschema.Draft4)

	if err := c.AddResource(schemaResourceURL, forceDraft4(doc)); err != nil {
		return nil, &SchemaCompileError{Err: fmt.Errorf("adding schema resource: %w", err)}
	}

	compiled, err := c.Compile(schemaResourceURL)
	if err != nil {
		return nil, &SchemaCompileError{Err: err}
	}
	return compiled, nil
}

// forceDraft4 returns doc with a top-level "$schema" naming another dialect
// replaced by Draft-4. The caller's map is never modified.
func forceDraft4(doc any) any {
	m, ok := doc.(map[string]any)
	if !ok {
		return doc
	}
	if declared, ok := m["$schema"].(string); !ok || isDraft4URL(declared) {
		return doc
	}
	clone := make(map[string]any, len(m))
	for k, val := range m {
		clone[k] = val
	}
	clone["$schema"] = draft4MetaURL + "#"
	return clone
}

func isDraft4URL(u string) bool {
	switch u {
	case draft4MetaURL, draft4MetaURL + "#", "https://json-schema.org/draft-04/schema", "https://json-schema.org/draft-04/schema#":
		return true
	}
	return false
}

func (v *Validator) report(subject string, r *Result) {
	if v.verbose == nil {
		return
	}
	fmt.Fprintf(v.verbose, "    %s\n", summary(subject, r))
	for _, violation := range r.Violations {
		fmt.Fprintf(v.verbose, "      - %s\n", violation)
		for _, d := range violation.Details {
			fmt.Fprintf(v.verbose, "          %s\n", d)
		}
	}
}
