package jsongraph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// errNoSource is the cause recorded for an unspecified Source.
var errNoSource = errors.New("no source given")

// Resolve turns a Source into a parsed JSON document.
//
// Structured values are returned unchanged when they are already JSON-native
// throughout and normalized through a JSON round trip otherwise. Streams, files and text
// are decoded with number precision preserved as json.Number; trailing data
// after the document is rejected. Every failure is a *ResolutionError, so a
// nil error always means the returned value is the document, even when that
// document is null, false, 0 or empty.
func Resolve(src Source) (any, error) {
	switch src.kind {
	case KindValue:
		return resolveValue(src)
	case KindReader:
		if src.reader == nil {
			return nil, resolutionError(src, errors.New("nil reader"))
		}
		doc, err := jsonschema.UnmarshalJSON(src.reader)
		if err != nil {
			return nil, resolutionError(src, err)
		}
		return doc, nil
	case KindPath:
		return resolvePath(src)
	case KindText:
		if strings.TrimSpace(src.text) == "" {
			return nil, resolutionError(src, errors.New("empty document"))
		}
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(src.text))
		if err != nil {
			return nil, resolutionError(src, err)
		}
		return doc, nil
	default:
		return nil, resolutionError(src, errNoSource)
	}
}

func resolutionError(src Source, err error) *ResolutionError {
	return &ResolutionError{Kind: src.kind, Source: src.String(), Err: err}
}

func resolveValue(src Source) (any, error) {
	if isJSONNative(src.value) {
		return src.value, nil
	}
	doc, err := normalize(src.value)
	if err != nil {
		return nil, resolutionError(src, err)
	}
	return doc, nil
}

func resolvePath(src Source) (any, error) {
	info, err := os.Stat(src.path)
	if err != nil {
		return nil, resolutionError(src, err)
	}
	if !info.Mode().IsRegular() {
		return nil, resolutionError(src, errors.New("not a regular file"))
	}

	data, err := os.ReadFile(src.path)
	if err != nil {
		return nil, resolutionError(src, err)
	}

	if ext := strings.ToLower(filepath.Ext(src.path)); ext == ".yaml" || ext == ".yml" {
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, resolutionError(src, fmt.Errorf("decoding YAML: %w", err))
		}
		doc, err := normalize(v)
		if err != nil {
			return nil, resolutionError(src, err)
		}
		return doc, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, resolutionError(src, err)
	}
	return doc, nil
}

// isJSONNative reports whether v, and everything nested in it, only uses the
// types a JSON decoder produces.
func isJSONNative(v any) bool {
	switch t := v.(type) {
	case nil, bool, string, json.Number:
		return true
	case map[string]any:
		for _, e := range t {
			if !isJSONNative(e) {
				return false
			}
		}
		return true
	case []any:
		for _, e := range t {
			if !isJSONNative(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// normalize converts an arbitrary Go value into JSON-native types.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("converting to JSON: %w", err)
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(data))
}
