package jsongraph

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic checking via errors.Is().
var (
	// ErrResolution indicates a source could not be read or parsed as JSON.
	ErrResolution = errors.New("resolution error")

	// ErrSchemaFetch indicates the default schema could not be fetched.
	ErrSchemaFetch = errors.New("schema fetch error")

	// ErrSchemaCompile indicates a schema could not be compiled for validation.
	ErrSchemaCompile = errors.New("schema compile error")

	// ErrContainer indicates a graph container of the wrong shape.
	ErrContainer = errors.New("invalid graph container")

	// ErrNotConforming indicates validation was requested before extraction
	// and the container did not validate.
	ErrNotConforming = errors.New("json graph does not validate")
)

// ResolutionError reports a source that could not be turned into a document.
type ResolutionError struct {
	Kind   SourceKind
	Source string // description of the source, never its contents
	Err    error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrResolution, e.Source)
	}
	return fmt.Sprintf("%s: %s: %v", ErrResolution, e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Err}
}

// FetchError reports a failed fetch of the default schema.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned status code %d", ErrSchemaFetch, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", ErrSchemaFetch, e.URL, e.Err)
}

func (e *FetchError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrSchemaFetch}
	}
	return []error{ErrSchemaFetch, e.Err}
}

// SchemaCompileError reports a schema that the validator could not compile.
type SchemaCompileError struct {
	Err error
}

func (e *SchemaCompileError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSchemaCompile, e.Err)
}

func (e *SchemaCompileError) Unwrap() []error {
	return []error{ErrSchemaCompile, e.Err}
}

// ContainerError reports a container whose graph keys have the wrong type.
type ContainerError struct {
	Key string
	Got string // JSON type found under Key
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("%s: %q must be an array, got %s", ErrContainer, e.Key, e.Got)
}

func (e *ContainerError) Unwrap() error { return ErrContainer }

// ValidationFailedError is raised by extraction when validation was requested
// and the container does not conform. Result holds the collected violations.
type ValidationFailedError struct {
	Result *Result
}

func (e *ValidationFailedError) Error() string {
	n := 0
	if e.Result != nil {
		n = len(e.Result.Violations)
	}
	return fmt.Sprintf("%s: %d violation(s)", ErrNotConforming, n)
}

func (e *ValidationFailedError) Unwrap() error { return ErrNotConforming }
