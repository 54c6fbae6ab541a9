package jsongraph

import (
	"fmt"
	"io"
	"os"
)

// SourceKind identifies how a Source carries its document.
type SourceKind int

// Source kinds, in the order Detect checks them.
const (
	KindNone SourceKind = iota
	KindValue
	KindReader
	KindPath
	KindText
)

func (k SourceKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindReader:
		return "reader"
	case KindPath:
		return "path"
	case KindText:
		return "text"
	default:
		return "none"
	}
}

// Source is an explicitly tagged input document: an in-memory value, an open
// stream, a filesystem path or raw JSON text. The zero Source is unspecified.
type Source struct {
	kind   SourceKind
	value  any
	reader io.Reader
	path   string
	text   string
}

// FromValue wraps an already-structured document. Any value is accepted,
// including nil (JSON null) and other falsy values.
func FromValue(v any) Source {
	return Source{kind: KindValue, value: v}
}

// FromReader wraps a stream whose full contents are a JSON document.
// The stream is consumed on resolution and is not closed.
func FromReader(r io.Reader) Source {
	return Source{kind: KindReader, reader: r}
}

// FromPath wraps the path of a JSON (or .yaml/.yml) file.
func FromPath(path string) Source {
	return Source{kind: KindPath, path: path}
}

// FromText wraps literal JSON text.
func FromText(text string) Source {
	return Source{kind: KindText, text: text}
}

// FromBytes wraps literal JSON bytes.
func FromBytes(b []byte) Source {
	return Source{kind: KindText, text: string(b)}
}

// Detect classifies an untyped input the way loosely typed callers expect:
// a Source is returned as is, an io.Reader becomes a stream, a string naming
// an existing regular file becomes a path, any other string or byte slice is
// literal text, and everything else is a structured value.
//
// Prefer the explicit constructors; a string that is both valid JSON and the
// name of a file in the working directory resolves as a path here.
func Detect(v any) Source {
	switch t := v.(type) {
	case Source:
		return t
	case io.Reader:
		return FromReader(t)
	case []byte:
		return FromBytes(t)
	case string:
		if isRegularFile(t) {
			return FromPath(t)
		}
		return FromText(t)
	default:
		return FromValue(v)
	}
}

// Kind reports how the source carries its document.
func (s Source) Kind() SourceKind {
	return s.kind
}

// IsZero reports whether the source is unspecified.
func (s Source) IsZero() bool {
	return s.kind == KindNone
}

// String describes the source for logs and error messages without
// reproducing the document.
func (s Source) String() string {
	switch s.kind {
	case KindValue:
		return fmt.Sprintf("value of type %T", s.value)
	case KindReader:
		return fmt.Sprintf("stream %T", s.reader)
	case KindPath:
		return fmt.Sprintf("file %q", s.path)
	case KindText:
		return fmt.Sprintf("text (%d bytes)", len(s.text))
	default:
		return "unspecified source"
	}
}

func isRegularFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
