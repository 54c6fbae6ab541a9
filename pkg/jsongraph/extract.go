package jsongraph

import (
	"context"
	"encoding/json"
	"iter"
)

// Container keys defined by the JSON Graph Format.
const (
	KeyGraph  = "graph"
	KeyGraphs = "graphs"
)

// ExtractOptions controls Graphs.
type ExtractOptions struct {
	// Validate validates the whole container before anything is yielded.
	Validate bool
	// Schema used when Validate is set; unspecified means the default schema.
	Schema Source
}

// Graphs resolves a container and returns the graph documents it holds.
//
// Resolution and optional validation happen before Graphs returns; a
// container that fails validation yields a *ValidationFailedError and no
// sequence. The returned sequence hands out the container's own values
// without copying and may be ranged over more than once.
func (v *Validator) Graphs(ctx context.Context, container Source, opts ExtractOptions) (iter.Seq[any], error) {
	doc, err := Resolve(container)
	if err != nil {
		return nil, err
	}

	if opts.Validate {
		result, err := v.validateDocument(ctx, doc, opts.Schema)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			return nil, &ValidationFailedError{Result: result}
		}
	}

	return Extract(doc)
}

// Extract applies the container policy to a resolved document: the value
// under "graph" comes first, followed by every element of "graphs" in order.
// A container with neither key, or one that is not an object, yields nothing.
// A "graphs" value that is not an array is a *ContainerError.
func Extract(doc any) (iter.Seq[any], error) {
	m, ok := doc.(map[string]any)
	if !ok {
		return func(func(any) bool) {}, nil
	}

	single, hasSingle := m[KeyGraph]

	var plural []any
	if raw, ok := m[KeyGraphs]; ok {
		arr, isArray := raw.([]any)
		if !isArray {
			return nil, &ContainerError{Key: KeyGraphs, Got: jsonTypeName(raw)}
		}
		plural = arr
	}

	return func(yield func(any) bool) {
		if hasSingle && !yield(single) {
			return
		}
		for _, g := range plural {
			if !yield(g) {
				return
			}
		}
	}, nil
}

// Count reports how many graphs a resolved container holds under the
// extraction policy, without iterating.
func Count(doc any) int {
	m, ok := doc.(map[string]any)
	if !ok {
		return 0
	}
	n := 0
	if _, ok := m[KeyGraph]; ok {
		n++
	}
	if arr, ok := m[KeyGraphs].([]any); ok {
		n += len(arr)
	}
	return n
}

func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case float64, json.Number, int, int64:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return "unknown"
	}
}
