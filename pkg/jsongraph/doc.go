// Package jsongraph validates and extracts JSON Graph Format documents.
//
// A JSON Graph Format (JGF) container is a JSON object holding a single graph
// under "graph", a list of graphs under "graphs", or both. This package checks
// schemas against the Draft-4 meta-schema, validates graph documents against
// a schema while collecting every violation, and hands out the graphs a
// container holds.
//
// # Quick Start
//
// Validate a file against the published JGF schema:
//
//	v := jsongraph.New()
//	result, err := v.Validate(ctx, jsongraph.FromPath("graph.json"), jsongraph.Source{})
//	if err != nil {
//	    return err // the document or schema could not be obtained
//	}
//	if !result.Valid {
//	    for _, msg := range result.Messages() {
//	        fmt.Println(msg)
//	    }
//	}
//
// # Sources
//
// Documents and schemas are passed as a Source. The constructors make the
// input kind explicit:
//
//	jsongraph.FromValue(map[string]any{"graph": map[string]any{}})
//	jsongraph.FromReader(os.Stdin)
//	jsongraph.FromPath("graphs.json")
//	jsongraph.FromText(`{"graphs": []}`)
//
// Detect classifies an untyped value for callers that accept "anything". The
// zero Source means "unspecified"; for a schema argument that selects the
// default schema.
//
// # The Default Schema
//
// Without an explicit schema the Validator fetches DefaultSchemaURL with one
// plain GET on every call. Replace the fetcher to use another URL, a custom
// HTTP client, or a local copy:
//
//	v := jsongraph.New(
//	    jsongraph.WithSchemaFetcher(jsongraph.FetcherFromSource(jsongraph.FromPath("schema.json"))),
//	)
//
// Schemas are always compiled with Draft-4 semantics.
//
// # Errors
//
// Failures to obtain a document are returned as errors; a document that does
// not conform is a normal *Result with Valid set to false. Errors can be
// matched with errors.Is against ErrResolution, ErrSchemaFetch,
// ErrSchemaCompile, ErrContainer and ErrNotConforming, or inspected with
// errors.As for the typed errors carrying details.
//
// # Extraction
//
// Graphs returns a sequence over the container's graphs, "graph" first:
//
//	seq, err := v.Graphs(ctx, jsongraph.FromPath("graphs.json"), jsongraph.ExtractOptions{Validate: true})
//	if err != nil {
//	    return err
//	}
//	for g := range seq {
//	    ...
//	}
//
// With Validate set, a non-conforming container produces a
// *ValidationFailedError before any graph is yielded.
package jsongraph
