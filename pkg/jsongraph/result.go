package jsongraph

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Violation is a single mismatch between a document and a schema constraint.
type Violation struct {
	InstancePath   string `json:"instance_path"`             // JSON pointer into the document, "" for the root
	Keyword        string `json:"keyword,omitempty"`         // failing keyword path, e.g. "properties/label/type"
	SchemaLocation string `json:"schema_location,omitempty"` // URL of the subschema that failed
	Message        string `json:"message"`

	// Details holds the branch failures of an anyOf, oneOf or not keyword.
	Details []string `json:"details,omitempty"`
}

func (v Violation) String() string {
	if v.InstancePath == "" {
		return v.Message
	}
	return v.InstancePath + ": " + v.Message
}

// Result is the outcome of a validation. Valid is true iff Violations is empty.
type Result struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations,omitempty"`
}

func newResult(violations []Violation) *Result {
	return &Result{Valid: len(violations) == 0, Violations: violations}
}

// Messages returns the violations formatted one per string, in order.
func (r *Result) Messages() []string {
	out := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		out = append(out, v.String())
	}
	return out
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// resultFromError converts the error returned by Schema.Validate into a
// Result. Errors other than *jsonschema.ValidationError are returned as is.
//
// Violations are ordered by instance location, then keyword, so repeated
// validations of the same pair report the same sequence.
func resultFromError(err error) (*Result, error) {
	if err == nil {
		return newResult(nil), nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}
	var violations []Violation
	collectViolations(verr, &violations)
	if len(violations) == 0 {
		// A failed validation always reports at least one violation.
		violations = append(violations, Violation{
			InstancePath: instancePointer(verr.InstanceLocation),
			Message:      verr.Error(),
		})
	}
	slices.SortStableFunc(violations, compareViolations)
	return newResult(violations), nil
}

// collectViolations walks the error tree and appends one Violation per failed
// keyword. Combinators are reported once, with their branches as details.
func collectViolations(err *jsonschema.ValidationError, out *[]Violation) {
	if keyword, ok := combinator(err.ErrorKind); ok {
		v := newViolation(err)
		v.Keyword = keyword
		var branches []Violation
		for _, cause := range err.Causes {
			collectLeaves(cause, &branches)
		}
		slices.SortStableFunc(branches, compareViolations)
		for _, b := range branches {
			v.Details = append(v.Details, b.String())
		}
		*out = append(*out, v)
		return
	}
	if len(err.Causes) == 0 {
		if err.ErrorKind != nil {
			*out = append(*out, newViolation(err))
		}
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, out)
	}
}

// collectLeaves flattens a combinator branch into its leaf failures.
func collectLeaves(err *jsonschema.ValidationError, out *[]Violation) {
	if len(err.Causes) == 0 {
		if err.ErrorKind != nil {
			*out = append(*out, newViolation(err))
		}
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, out)
	}
}

func newViolation(err *jsonschema.ValidationError) Violation {
	return Violation{
		InstancePath:   instancePointer(err.InstanceLocation),
		Keyword:        strings.Join(err.ErrorKind.KeywordPath(), "/"),
		SchemaLocation: err.SchemaURL,
		Message:        err.ErrorKind.LocalizedString(printer),
	}
}

func combinator(k jsonschema.ErrorKind) (string, bool) {
	switch k.(type) {
	case *kind.AnyOf:
		return "anyOf", true
	case *kind.OneOf:
		return "oneOf", true
	case *kind.Not:
		return "not", true
	}
	return "", false
}

func compareViolations(a, b Violation) int {
	return cmp.Or(
		comparePointers(a.InstancePath, b.InstancePath),
		strings.Compare(a.Keyword, b.Keyword),
		strings.Compare(a.SchemaLocation, b.SchemaLocation),
		strings.Compare(a.Message, b.Message),
	)
}

// comparePointers orders JSON pointers token by token, comparing array
// indexes numerically.
func comparePointers(a, b string) int {
	if a == b {
		return 0
	}
	at, bt := strings.Split(a, "/"), strings.Split(b, "/")
	for i := range min(len(at), len(bt)) {
		if at[i] == bt[i] {
			continue
		}
		an, aerr := strconv.Atoi(at[i])
		bn, berr := strconv.Atoi(bt[i])
		if aerr == nil && berr == nil {
			return cmp.Compare(an, bn)
		}
		return strings.Compare(at[i], bt[i])
	}
	return cmp.Compare(len(at), len(bt))
}

// instancePointer renders an instance location as a JSON pointer.
func instancePointer(tokens []string) string {
	if len(tokens) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, tok := range tokens {
		sb.WriteByte('/')
		tok = strings.ReplaceAll(tok, "~", "~0")
		tok = strings.ReplaceAll(tok, "/", "~1")
		sb.WriteString(tok)
	}
	return sb.String()
}

// summary is the one-line verbose rendering of a result.
func summary(subject string, r *Result) string {
	if r.Valid {
		return fmt.Sprintf("%s validates", subject)
	}
	return fmt.Sprintf("%s does not validate (%d violation(s))", subject, len(r.Violations))
}
