// Package prompts contains MCP prompt implementations for JSON Graph work.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	DefaultSchema string // Where the default schema comes from, a URL or a file
	MaxBatchFiles int
}
