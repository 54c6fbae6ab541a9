package infer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
)

// FieldStat describes one property of the sampled graphs.
type FieldStat struct {
	Path          string   `json:"path"`                  // Dotted path, e.g. "nodes.*.label" or "edges[].relation"
	Type          string   `json:"type"`                  // Inferred type, "a|b" for unions
	Frequency     float64  `json:"frequency"`             // Fraction of parent values carrying the field (0.0-1.0)
	Required      bool     `json:"required"`              // Present in every parent value and never null
	Nullable      bool     `json:"nullable,omitempty"`    // Null at least once
	DistinctCount int      `json:"distinct_count"`        // Distinct non-null values observed
	Examples      []any    `json:"examples,omitempty"`    // Up to 3 scalar example values
	EnumValues    []string `json:"enum_values,omitempty"` // All distinct values of a low-cardinality string field
}

const (
	statsMaxDepth     = 5
	maxExamples       = 3
	minSamplesForEnum = 5
	maxEnumValues     = 10
)

// FieldStats walks an inferred schema alongside the samples it came from
// and returns one row per property, parents before children. Identifier-keyed
// maps such as "nodes" are described once, with "*" standing for the key.
func FieldStats(schema *jsonschema.Schema, samples []any) []FieldStat {
	if schema == nil || len(samples) == 0 {
		return nil
	}
	var stats []FieldStat
	walkFields(schema, "", samples, 0, &stats)
	return stats
}

func walkFields(schema *jsonschema.Schema, path string, values []any, depth int, stats *[]FieldStat) {
	if depth > statsMaxDepth {
		*stats = append(*stats, FieldStat{Path: path + " (depth limit)", Type: "..."})
		return
	}

	if isMapSchema(schema) {
		walkChild(schema.AdditionalProperties, join(path, "*"), mapValues(values), depth, stats)
		return
	}
	if schema.Properties == nil {
		return
	}

	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		fieldPath := join(path, pair.Key)
		*stats = append(*stats, fieldStat(fieldPath, pair.Value, pair.Key, values))
		walkChild(pair.Value, fieldPath, fieldValues(pair.Key, values), depth, stats)
	}
}

// walkChild descends into object and array schemas.
func walkChild(schema *jsonschema.Schema, path string, values []any, depth int, stats *[]FieldStat) {
	switch {
	case schema == nil || len(values) == 0:
	case schema.Type == "object":
		walkFields(schema, path, values, depth+1, stats)
	case schema.Type == "array" && schema.Items != nil && schema.Items.Type == "object":
		walkFields(schema.Items, path+"[]", arrayItems(values), depth+1, stats)
	}
}

func fieldStat(path string, schema *jsonschema.Schema, name string, values []any) FieldStat {
	stat := FieldStat{Path: path, Type: typeName(schema)}

	parents, present, nulls := 0, 0, 0
	distinct := make(map[string]bool)
	var strs []string

	for _, v := range values {
		obj, ok := v.(map[string]any)
		if !ok {
			continue
		}
		parents++

		val, exists := obj[name]
		if !exists {
			continue
		}
		present++
		if val == nil {
			nulls++
			continue
		}

		key := fmt.Sprintf("%v", val)
		if distinct[key] {
			continue
		}
		distinct[key] = true

		switch val := val.(type) {
		case map[string]any, []any:
			// described by child rows
		case string:
			strs = append(strs, val)
			if len(stat.Examples) < maxExamples {
				stat.Examples = append(stat.Examples, val)
			}
		default:
			if len(stat.Examples) < maxExamples {
				stat.Examples = append(stat.Examples, val)
			}
		}
	}

	if parents > 0 {
		stat.Frequency = float64(present) / float64(parents)
	}
	stat.Required = parents > 0 && present == parents && nulls == 0
	stat.Nullable = nulls > 0
	stat.DistinctCount = len(distinct)

	if stat.Type == "string" && present-nulls >= minSamplesForEnum && len(strs) <= maxEnumValues && len(strs) < present-nulls {
		sort.Strings(strs)
		stat.EnumValues = strs
	}
	return stat
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func fieldValues(name string, values []any) []any {
	var out []any
	for _, v := range values {
		if obj, ok := v.(map[string]any); ok && obj[name] != nil {
			out = append(out, obj[name])
		}
	}
	return out
}

func mapValues(values []any) []any {
	var out []any
	for _, v := range values {
		if obj, ok := v.(map[string]any); ok {
			for _, item := range obj {
				if item != nil {
					out = append(out, item)
				}
			}
		}
	}
	return out
}

func arrayItems(values []any) []any {
	var out []any
	for _, v := range values {
		if arr, ok := v.([]any); ok {
			for _, item := range arr {
				if item != nil {
					out = append(out, item)
				}
			}
		}
	}
	return out
}

// typeName returns the schema type, joining anyOf branches with "|".
func typeName(schema *jsonschema.Schema) string {
	if schema.Type != "" {
		return schema.Type
	}
	if len(schema.AnyOf) > 0 {
		names := make([]string, 0, len(schema.AnyOf))
		for _, s := range schema.AnyOf {
			if s.Type != "" {
				names = append(names, s.Type)
			}
		}
		return strings.Join(names, "|")
	}
	return "unknown"
}
