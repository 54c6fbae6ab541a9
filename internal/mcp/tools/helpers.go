// Package tools contains MCP tool implementations for JSON Graph documents.
package tools

import (
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// MIME type constant.
const MimeJSON = "application/json"

// clampLimit returns requested, or def when requested is not positive,
// capped at ceiling when ceiling is positive.
func clampLimit(requested, def, ceiling int) int {
	n := requested
	if n <= 0 {
		n = def
	}
	if ceiling > 0 && n > ceiling {
		n = ceiling
	}
	return n
}

// firstViolations returns at most n violations and whether any were dropped.
func firstViolations(r *jsongraph.Result, n int) ([]jsongraph.Violation, bool) {
	if r == nil {
		return nil, false
	}
	if n > 0 && len(r.Violations) > n {
		return r.Violations[:n], true
	}
	return r.Violations, false
}
