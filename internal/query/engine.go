// Package query provides JQ-based querying over extracted graph documents.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/itchyny/gojq"
)

// Engine executes JQ queries against graph documents.
type Engine struct{}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Options controls a query run.
type Options struct {
	Deduplicate bool // Drop repeated values across all graphs
	MaxResults  int  // Stop after N values (0 = no limit)
}

// QueryResult contains the results of a JQ query.
type QueryResult struct {
	Values         []any          `json:"values"`                    // Extracted values
	Errors         []string       `json:"errors,omitempty"`          // Per-graph errors (e.g., type mismatch)
	RawCount       int            `json:"raw_count"`                 // Count before deduplication
	MatchedIndices []int          `json:"matched_indices,omitempty"` // Indices of graphs that produced values
	LabelCounts    map[string]int `json:"label_counts,omitempty"`    // Value count per graph label
	Truncated      bool           `json:"truncated,omitempty"`       // MaxResults was reached
}

// Compile parses and compiles a JQ expression.
func (e *Engine) Compile(expression string) (*gojq.Code, error) {
	query, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}
	return code, nil
}

// ValidateExpression checks if a JQ expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.Compile(expression)
	return err
}

// QueryGraphs runs a JQ expression against each graph in turn and combines
// the results. Labels identify each graph in error messages; a missing label
// falls back to GraphLabel.
func (e *Engine) QueryGraphs(graphs []any, labels []string, expression string, opts Options) (*QueryResult, error) {
	code, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}

	result := &QueryResult{
		Values:      make([]any, 0),
		Errors:      make([]string, 0),
		LabelCounts: make(map[string]int),
	}

	seen := make(map[string]bool)
	seenErrors := make(map[string]bool) // Deduplicate similar errors

	for i, graph := range graphs {
		if result.Truncated {
			break
		}

		label := GraphLabel(i, graph)
		if i < len(labels) && labels[i] != "" {
			label = labels[i]
		}

		matched := false
		iter := code.Run(toQueryValue(graph))
		for {
			if opts.MaxResults > 0 && len(result.Values) >= opts.MaxResults {
				result.Truncated = true
				break
			}

			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				errMsg := formatJQError(label, err)
				if !seenErrors[errMsg] {
					result.Errors = append(result.Errors, errMsg)
					seenErrors[errMsg] = true
				}
				continue
			}

			// Skip nil values
			if v == nil {
				continue
			}

			result.RawCount++
			result.LabelCounts[label]++
			matched = true

			if opts.Deduplicate {
				key := valueKey(v)
				if seen[key] {
					continue
				}
				seen[key] = true
			}

			result.Values = append(result.Values, v)
		}

		if matched {
			result.MatchedIndices = append(result.MatchedIndices, i)
		}
	}

	return result, nil
}

// GraphLabel names a graph for messages: its "id", then its "label", then
// its position.
func GraphLabel(index int, graph any) string {
	if m, ok := graph.(map[string]any); ok {
		if id, ok := m["id"].(string); ok && id != "" {
			return id
		}
		if label, ok := m["label"].(string); ok && label != "" {
			return label
		}
	}
	return fmt.Sprintf("graph[%d]", index)
}

// toQueryValue converts decoded JSON into the value types gojq accepts.
// json.Number becomes int, float64 or *big.Int.
func toQueryValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		return numberValue(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, e := range val {
			out[k] = toQueryValue(e)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = toQueryValue(e)
		}
		return out
	default:
		return v
	}
}

func numberValue(n json.Number) any {
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i)
	}
	if !strings.ContainsAny(n.String(), ".eE") {
		if bi, ok := new(big.Int).SetString(n.String(), 10); ok {
			return bi
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

// formatJQError creates a helpful error message for JQ execution errors.
// It adds contextual hints to help users fix common issues.
//
// Runtime JQ errors (like "cannot iterate over: null") are plain errors
// without typed wrappers in gojq, so hints are chosen by string matching.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this graph)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}

// valueKey creates a string key for deduplication.
func valueKey(v any) string {
	switch val := v.(type) {
	case string:
		return "s:" + val
	case int, float64:
		return fmt.Sprintf("n:%v", val)
	case bool:
		return fmt.Sprintf("b:%v", val)
	case nil:
		return "null"
	default:
		// For complex types, marshal to JSON
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("?:%v", val)
		}
		return "j:" + string(b)
	}
}
