package tools

import (
	"encoding/json"
	"fmt"
	"iter"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that the zero value of its output
// type satisfies the output schema the SDK will infer for it.
//
// Panics when the check fails, so a bad output type is caught at startup.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	if err := CheckOutputSchema[Out](); err != nil {
		panic(fmt.Sprintf("AddTool %q: %v", t.Name, err))
	}
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema reports output types that marshal to JSON their own
// inferred schema rejects. Two mistakes are caught:
//
//   - a slice field without omitzero or omitempty, whose nil zero value
//     marshals as null where the schema requires an array;
//   - a json.RawMessage field, which the schema describes as an array of
//     bytes although it marshals as arbitrary JSON. Use any and types.ToAny.
//
// The untyped any output always passes. Inference failures are left for the
// SDK to report.
func CheckOutputSchema[T any]() error {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := rawMessagePaths(rt, "", map[reflect.Type]bool{}); len(paths) > 0 {
		return fmt.Errorf("output type %s has json.RawMessage at %s; use any and convert with types.ToAny",
			rt, strings.Join(paths, ", "))
	}

	schema, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return nil
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return nil
	}
	var zero map[string]any
	if err := json.Unmarshal(data, &zero); err != nil {
		return nil
	}

	if err := resolved.Validate(&zero); err != nil {
		return fmt.Errorf("zero value of output type %s fails its schema: %w (JSON: %s); add omitzero to slice fields or initialize them",
			rt, err, data)
	}
	return nil
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessagePaths lists the dotted paths of json.RawMessage values reachable
// from t. Slice elements are written as [] and map values as [value].
func rawMessagePaths(t reflect.Type, path string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{path}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	join := func(elem string) string {
		if path == "" {
			return elem
		}
		return path + "." + elem
	}

	var out []string
	switch t.Kind() {
	case reflect.Struct:
		for f := range fields(t) {
			out = append(out, rawMessagePaths(f.Type, join(f.Name), visiting)...)
		}
	case reflect.Slice, reflect.Array:
		out = rawMessagePaths(t.Elem(), join("[]"), visiting)
	case reflect.Map:
		out = rawMessagePaths(t.Elem(), join("[value]"), visiting)
	}
	return out
}

// fields yields the exported fields of a struct type.
func fields(t reflect.Type) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() && !yield(f) {
				return
			}
		}
	}
}
