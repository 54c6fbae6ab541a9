// Package types provides shared types for jsongraph-mcp.
// These types are used across multiple packages and are designed for external consumption.
package types

import (
	"encoding/json"
	"fmt"
)

// ToAny round-trips a typed value through JSON to produce an untyped any.
// Use this when a tool output field must be any (instead of json.RawMessage)
// to satisfy the MCP SDK's schema validation.
func ToAny(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GraphSummary is a compact description of one extracted graph.
type GraphSummary struct {
	Index     int    `json:"index"`               // Position in extraction order
	ID        string `json:"id,omitempty"`        // Graph "id", when present
	Label     string `json:"label,omitempty"`     // Graph "label", when present
	Type      string `json:"type,omitempty"`      // Graph "type", when present
	Directed  *bool  `json:"directed,omitempty"`  // Graph "directed", when present
	NodeCount int    `json:"node_count"`          // Entries in "nodes"
	EdgeCount int    `json:"edge_count"`          // Elements of "edges"
	Graph     any    `json:"graph,omitempty"`     // The graph itself, possibly compacted
	Kind      string `json:"kind,omitempty"`      // JSON type when the graph is not an object
}

// SummarizeGraph describes a graph without copying it. Unknown or mistyped
// fields are left empty rather than reported.
func SummarizeGraph(index int, graph any) GraphSummary {
	s := GraphSummary{Index: index}

	m, ok := graph.(map[string]any)
	if !ok {
		s.Kind = jsonKind(graph)
		return s
	}

	s.ID, _ = m["id"].(string)
	s.Label, _ = m["label"].(string)
	s.Type, _ = m["type"].(string)
	if d, ok := m["directed"].(bool); ok {
		s.Directed = &d
	}

	switch nodes := m["nodes"].(type) {
	case map[string]any:
		s.NodeCount = len(nodes)
	case []any:
		s.NodeCount = len(nodes)
	}
	if edges, ok := m["edges"].([]any); ok {
		s.EdgeCount = len(edges)
	}

	return s
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
