// Package jsoncompact shrinks JSON documents for display by trimming long
// arrays, large objects and long strings.
//
// Graph documents are dominated by their node maps and edge lists; compaction
// keeps the shape of a graph visible while bounding the size of tool output.
package jsoncompact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Options controls JSON compaction behavior.
type Options struct {
	MaxArrayItems int // Trim arrays to N items (0 = no limit)
	MaxMapEntries int // Keep the first N keys of an object, in key order (0 = no limit)
	MaxStringLen  int // Truncate strings longer than N chars (0 = no limit)
	MaxDepth      int // Max recursion depth (0 = unlimited)

	// KeepKeys are object members that are always retained and do not count
	// against MaxMapEntries. Their values are still compacted.
	KeepKeys []string
}

// GraphKeys are the structural members of graphs, nodes and edges.
var GraphKeys = []string{
	"id", "label", "directed", "type", "metadata",
	"nodes", "edges", "hyperedges",
	"source", "target", "relation",
	"graph", "graphs",
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 5
	DefaultMaxMapEntries = 20
	DefaultMaxStringLen  = 500
	DefaultMaxDepth      = 0 // unlimited
)

// MoreKey is the key added to a trimmed object.
const MoreKey = "..."

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxMapEntries: DefaultMaxMapEntries,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
		KeepKeys:      GraphKeys,
	}
}

// Compact compresses JSON bytes. Numbers keep their original text.
// Returns error if input is not valid JSON.
// If opts is nil, DefaultOptions() is used.
func Compact(data []byte, opts *Options) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return json.Marshal(CompactValue(v, opts))
}

// CompactValue compresses a parsed JSON value. The input is not modified.
// If opts is nil, DefaultOptions() is used.
func CompactValue(v any, opts *Options) any {
	if opts == nil {
		opts = DefaultOptions()
	}
	return compactRecursive(v, opts, 0)
}

func compactRecursive(v any, opts *Options, depth int) any {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return "[max depth]"
	}

	switch val := v.(type) {
	case []any:
		return compactArray(val, opts, depth)
	case map[string]any:
		return compactObject(val, opts, depth)
	case string:
		return compactString(val, opts)
	default:
		return v
	}
}

func compactString(s string, opts *Options) string {
	if opts.MaxStringLen <= 0 || len(s) <= opts.MaxStringLen {
		return s
	}
	remaining := len(s) - opts.MaxStringLen
	return s[:opts.MaxStringLen] + fmt.Sprintf("... (%d more chars)", remaining)
}

func compactArray(arr []any, opts *Options, depth int) []any {
	if len(arr) == 0 {
		return arr
	}

	keep := len(arr)
	if opts.MaxArrayItems > 0 && keep > opts.MaxArrayItems {
		keep = opts.MaxArrayItems
	}

	result := make([]any, keep, keep+1)
	for i := range keep {
		result[i] = compactRecursive(arr[i], opts, depth+1)
	}
	if remaining := len(arr) - keep; remaining > 0 {
		result = append(result, fmt.Sprintf("... (%d more items)", remaining))
	}
	return result
}

func compactObject(obj map[string]any, opts *Options, depth int) map[string]any {
	result := make(map[string]any, min(len(obj), opts.MaxMapEntries+len(opts.KeepKeys)+1))

	var rest []string
	for k, v := range obj {
		if slices.Contains(opts.KeepKeys, k) {
			result[k] = compactRecursive(v, opts, depth+1)
			continue
		}
		rest = append(rest, k)
	}

	if opts.MaxMapEntries > 0 && len(rest) > opts.MaxMapEntries {
		slices.Sort(rest)
		result[MoreKey] = fmt.Sprintf("(%d more entries)", len(rest)-opts.MaxMapEntries)
		rest = rest[:opts.MaxMapEntries]
	}
	for _, k := range rest {
		result[k] = compactRecursive(obj[k], opts, depth+1)
	}
	return result
}
