// Package infer derives a Draft-4 JSON Schema from sample graph documents.
//
// The inferred schema can be checked with jsongraph.Validator.CheckSchema and
// used directly as the schema argument of Validate, which makes it a quick
// way to pin down the shape of a family of graphs.
package infer

import (
	"encoding/json"
	"errors"
	"math"
	"slices"
	"sort"

	"github.com/invopop/jsonschema"
)

// Draft4 is the $schema value written into inferred schemas.
const Draft4 = "http://json-schema.org/draft-04/schema#"

// ErrNoSamples is returned when there is nothing to infer from.
var ErrNoSamples = errors.New("no samples to infer from")

// InferredSchema contains a JSON Schema inferred from sample data along with metadata.
type InferredSchema struct {
	Schema      *jsonschema.Schema `json:"schema"`       // JSON Schema (Draft 4)
	SampleCount int                `json:"sample_count"` // Number of samples used
	AllMatch    bool               `json:"all_match"`    // True if all samples had identical schema
}

// Options controls schema inference behavior.
type Options struct {
	// StrictRequired marks properties as required only if present in ALL samples.
	// When false no fields are marked as required.
	StrictRequired bool
	// AdditionalProperties sets additionalProperties in object schemas.
	// Default: nil (not set)
	AdditionalProperties *bool
	// MarkNullableAsOptional treats fields that can be null as optional.
	MarkNullableAsOptional bool
	// MapProperties names object-valued properties that are keyed by
	// identifier rather than by field name, like the "nodes" map of a graph.
	// Their values are merged into a single additionalProperties schema.
	MapProperties []string
}

// DefaultOptions returns the default inference options.
func DefaultOptions() *Options {
	return &Options{
		StrictRequired:         true,
		MarkNullableAsOptional: true,
		MapProperties:          []string{"nodes"},
	}
}

// FromSamples generates a merged JSON Schema from already-parsed samples,
// typically the graphs extracted from one or more containers.
func FromSamples(opts *Options, samples ...any) (*InferredSchema, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	inf := &inferrer{opts: opts}

	schemas := make([]*jsonschema.Schema, 0, len(samples))
	for _, sample := range samples {
		schemas = append(schemas, inf.fromValue(sample))
	}

	allMatch := true
	if len(schemas) > 1 {
		first, _ := json.Marshal(schemas[0])
		for _, s := range schemas[1:] {
			other, _ := json.Marshal(s)
			if string(first) != string(other) {
				allMatch = false
				break
			}
		}
	}

	merged := mergeSchemas(schemas)

	if opts.StrictRequired && merged.Type == "object" {
		computeRequiredFields(merged, samples, opts.MarkNullableAsOptional)
	}

	if opts.AdditionalProperties != nil {
		applyAdditionalProperties(merged, *opts.AdditionalProperties)
	}

	merged.Version = Draft4

	return &InferredSchema{
		Schema:      merged,
		SampleCount: len(schemas),
		AllMatch:    allMatch,
	}, nil
}

// FromValue generates a JSON Schema for a single parsed value using the
// default options, without required fields or a $schema declaration.
func FromValue(v any) *jsonschema.Schema {
	inf := &inferrer{opts: DefaultOptions()}
	return inf.fromValue(v)
}

// Container wraps an inferred graph schema into a schema for whole JSON
// Graph documents, allowing either a single "graph" or a "graphs" array.
func Container(graph *jsonschema.Schema) *jsonschema.Schema {
	inner := *graph
	inner.Version = ""

	props := jsonschema.NewProperties()
	props.Set("graph", &inner)
	props.Set("graphs", &jsonschema.Schema{Type: "array", Items: &inner})

	return &jsonschema.Schema{
		Version:    Draft4,
		Type:       "object",
		Properties: props,
	}
}

type inferrer struct {
	opts *Options
}

func (inf *inferrer) fromValue(v any) *jsonschema.Schema {
	if v == nil {
		return &jsonschema.Schema{Type: "null"}
	}

	switch val := v.(type) {
	case bool:
		return &jsonschema.Schema{Type: "boolean"}

	case json.Number:
		if _, err := val.Int64(); err == nil {
			return &jsonschema.Schema{Type: "integer"}
		}
		if f, err := val.Float64(); err == nil && isWhole(f) {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}

	case float64:
		if isWhole(val) {
			return &jsonschema.Schema{Type: "integer"}
		}
		return &jsonschema.Schema{Type: "number"}

	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return &jsonschema.Schema{Type: "integer"}

	case string:
		return &jsonschema.Schema{Type: "string"}

	case []any:
		return inf.arraySchema(val)

	case map[string]any:
		return inf.objectSchema(val)

	default:
		// Unknown type, return empty schema (matches anything)
		return &jsonschema.Schema{}
	}
}

func isWhole(f float64) bool {
	return math.Trunc(f) == f && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func (inf *inferrer) arraySchema(arr []any) *jsonschema.Schema {
	schema := &jsonschema.Schema{Type: "array"}

	if len(arr) == 0 {
		return schema
	}

	itemSchemas := make([]*jsonschema.Schema, 0, len(arr))
	for _, item := range arr {
		itemSchemas = append(itemSchemas, inf.fromValue(item))
	}

	schema.Items = mergeSchemas(itemSchemas)
	return schema
}

func (inf *inferrer) objectSchema(obj map[string]any) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: jsonschema.NewProperties(),
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if m, ok := obj[k].(map[string]any); ok && slices.Contains(inf.opts.MapProperties, k) {
			schema.Properties.Set(k, inf.mapSchema(m))
			continue
		}
		schema.Properties.Set(k, inf.fromValue(obj[k]))
	}

	return schema
}

// mapSchema describes an identifier-keyed object by the merged schema of its
// values.
func (inf *inferrer) mapSchema(m map[string]any) *jsonschema.Schema {
	schema := &jsonschema.Schema{Type: "object"}
	if len(m) == 0 {
		return schema
	}

	values := make([]*jsonschema.Schema, 0, len(m))
	for _, v := range m {
		values = append(values, inf.fromValue(v))
	}
	schema.AdditionalProperties = mergeSchemas(values)
	return schema
}

func isMapSchema(s *jsonschema.Schema) bool {
	return s.Type == "object" && s.Properties == nil && s.AdditionalProperties != nil
}

func mergeSchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 0 {
		return &jsonschema.Schema{}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	types := make(map[string]bool)
	var objectSchemas []*jsonschema.Schema
	var arraySchemas []*jsonschema.Schema

	for _, s := range schemas {
		if s.Type == "" {
			continue
		}
		types[s.Type] = true

		if s.Type == "object" {
			objectSchemas = append(objectSchemas, s)
		}
		if s.Type == "array" {
			arraySchemas = append(arraySchemas, s)
		}
	}

	// All same type - merge appropriately
	if len(types) == 1 {
		for t := range types {
			switch t {
			case "object":
				return mergeObjectSchemas(objectSchemas)
			case "array":
				return mergeArraySchemas(arraySchemas)
			default:
				return schemas[0]
			}
		}
	}

	typeList := make([]string, 0, len(types))
	for t := range types {
		typeList = append(typeList, t)
	}
	sort.Strings(typeList)

	// integer is a subset of number
	if len(typeList) == 2 && typeList[0] == "integer" && typeList[1] == "number" {
		return &jsonschema.Schema{Type: "number"}
	}

	anyOf := make([]*jsonschema.Schema, 0, len(typeList))
	if len(objectSchemas) > 0 {
		anyOf = append(anyOf, mergeObjectSchemas(objectSchemas))
	}
	if len(arraySchemas) > 0 {
		anyOf = append(anyOf, mergeArraySchemas(arraySchemas))
	}
	for _, t := range typeList {
		if t != "object" && t != "array" {
			anyOf = append(anyOf, &jsonschema.Schema{Type: t})
		}
	}

	if len(anyOf) == 1 {
		return anyOf[0]
	}
	return &jsonschema.Schema{AnyOf: anyOf}
}

func mergeObjectSchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 0 {
		return &jsonschema.Schema{Type: "object"}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	allProperties := make(map[string][]*jsonschema.Schema)
	var valueSchemas []*jsonschema.Schema
	mapOnly := true
	for _, s := range schemas {
		if s.AdditionalProperties != nil {
			valueSchemas = append(valueSchemas, s.AdditionalProperties)
		}
		if s.Properties == nil {
			continue
		}
		mapOnly = false
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			allProperties[pair.Key] = append(allProperties[pair.Key], pair.Value)
		}
	}

	merged := &jsonschema.Schema{Type: "object"}
	if len(valueSchemas) > 0 {
		merged.AdditionalProperties = mergeSchemas(valueSchemas)
	}
	if mapOnly {
		return merged
	}

	merged.Properties = jsonschema.NewProperties()
	keys := make([]string, 0, len(allProperties))
	for k := range allProperties {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		merged.Properties.Set(k, mergeSchemas(allProperties[k]))
	}

	return merged
}

func mergeArraySchemas(schemas []*jsonschema.Schema) *jsonschema.Schema {
	if len(schemas) == 0 {
		return &jsonschema.Schema{Type: "array"}
	}
	if len(schemas) == 1 {
		return schemas[0]
	}

	itemSchemas := make([]*jsonschema.Schema, 0, len(schemas))
	for _, s := range schemas {
		if s.Items != nil {
			itemSchemas = append(itemSchemas, s.Items)
		}
	}

	merged := &jsonschema.Schema{Type: "array"}
	if len(itemSchemas) > 0 {
		merged.Items = mergeSchemas(itemSchemas)
	}
	return merged
}

// computeRequiredFields marks the properties present in ALL samples as
// required. With markNullableAsOptional, fields that are ever null stay
// optional.
func computeRequiredFields(schema *jsonschema.Schema, samples []any, markNullableAsOptional bool) {
	if schema.Type != "object" {
		return
	}

	if isMapSchema(schema) {
		// Every value of an identifier-keyed map is a sample of the value schema.
		var values []any
		for _, sample := range samples {
			if obj, ok := sample.(map[string]any); ok {
				for _, v := range obj {
					if v != nil {
						values = append(values, v)
					}
				}
			}
		}
		if len(values) > 0 {
			computeRequiredFields(schema.AdditionalProperties, values, markNullableAsOptional)
		}
		return
	}

	if schema.Properties == nil {
		return
	}

	propCounts := make(map[string]int)
	propNullable := make(map[string]bool)
	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		propCounts[pair.Key] = 0
	}

	for _, sample := range samples {
		obj, ok := sample.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range obj {
			if _, exists := propCounts[key]; exists {
				propCounts[key]++
				if value == nil {
					propNullable[key] = true
				}
			}
		}
	}

	required := make([]string, 0)
	for key, count := range propCounts {
		if count != len(samples) {
			continue
		}
		if markNullableAsOptional && propNullable[key] {
			continue
		}
		required = append(required, key)
	}
	sort.Strings(required)

	if len(required) > 0 {
		schema.Required = required
	}

	for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
		propSchema := pair.Value
		switch {
		case propSchema.Type == "object":
			var nested []any
			for _, sample := range samples {
				if obj, ok := sample.(map[string]any); ok {
					if v, exists := obj[pair.Key]; exists && v != nil {
						nested = append(nested, v)
					}
				}
			}
			if len(nested) > 0 {
				computeRequiredFields(propSchema, nested, markNullableAsOptional)
			}
		case propSchema.Type == "array" && propSchema.Items != nil && propSchema.Items.Type == "object":
			var nested []any
			for _, sample := range samples {
				obj, ok := sample.(map[string]any)
				if !ok {
					continue
				}
				if items, ok := obj[pair.Key].([]any); ok {
					for _, item := range items {
						if item != nil {
							nested = append(nested, item)
						}
					}
				}
			}
			if len(nested) > 0 {
				computeRequiredFields(propSchema.Items, nested, markNullableAsOptional)
			}
		}
	}
}

// applyAdditionalProperties recursively sets additionalProperties on all
// object schemas except identifier-keyed maps, whose value schema is kept.
func applyAdditionalProperties(schema *jsonschema.Schema, allowed bool) {
	if schema == nil {
		return
	}

	if schema.Type == "object" {
		if isMapSchema(schema) {
			applyAdditionalProperties(schema.AdditionalProperties, allowed)
		} else {
			if allowed {
				schema.AdditionalProperties = jsonschema.TrueSchema
			} else {
				schema.AdditionalProperties = jsonschema.FalseSchema
			}
			if schema.Properties != nil {
				for pair := schema.Properties.Oldest(); pair != nil; pair = pair.Next() {
					applyAdditionalProperties(pair.Value, allowed)
				}
			}
		}
	}

	if schema.Type == "array" && schema.Items != nil {
		applyAdditionalProperties(schema.Items, allowed)
	}

	for _, s := range schema.AnyOf {
		applyAdditionalProperties(s, allowed)
	}
}
