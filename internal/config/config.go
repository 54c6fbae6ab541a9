// Package config provides configuration loading from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/usestring/jsongraph-mcp/pkg/jsoncompact"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

// Tool output limit defaults
const (
	DefaultQueryLimitValue = 100
)

// Processing safety cap defaults
const (
	MaxQueryResultsValue = 10000
	MaxBatchFilesValue   = 1000
)

// Config holds all configuration for the MCP server and the CLI.
type Config struct {
	SchemaURL          string        // JSONGRAPH_SCHEMA_URL, default jsongraph.DefaultSchemaURL
	SchemaFile         string        // JSONGRAPH_SCHEMA_FILE, default "" (fetch SchemaURL)
	HTTPClientTimeout  time.Duration // HTTP_CLIENT_TIMEOUT_MS, default 10000ms (10s)
	SchemaCacheMaxItem int           // SCHEMA_CACHE_MAX_ITEMS, default 8
	SchemaCacheTTL     time.Duration // SCHEMA_CACHE_TTL_MS, default 0 (no expiry)
	ValidateWorkers    int           // VALIDATE_WORKERS, default 8

	// Compaction defaults (for AI-optimized responses)
	CompactMaxArrayItems int // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxMapEntries int // COMPACT_MAX_MAP_ENTRIES
	CompactMaxStringLen  int // COMPACT_MAX_STRING_LEN
	CompactMaxDepth      int // COMPACT_MAX_DEPTH

	// Tool output limits
	DefaultQueryLimit int // DEFAULT_QUERY_LIMIT

	// Processing safety caps
	MaxQueryResults int // MAX_QUERY_RESULTS, default 10000
	MaxBatchFiles   int // MAX_BATCH_FILES, default 1000

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		SchemaURL:          getEnvString("JSONGRAPH_SCHEMA_URL", jsongraph.DefaultSchemaURL),
		SchemaFile:         getEnvString("JSONGRAPH_SCHEMA_FILE", ""),
		HTTPClientTimeout:  getEnvDurationMs("HTTP_CLIENT_TIMEOUT_MS", 10000),
		SchemaCacheMaxItem: getEnvInt("SCHEMA_CACHE_MAX_ITEMS", 8),
		SchemaCacheTTL:     getEnvDurationMs("SCHEMA_CACHE_TTL_MS", 0),
		ValidateWorkers:    getEnvInt("VALIDATE_WORKERS", 8),

		// Compaction defaults (from jsoncompact package)
		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", jsoncompact.DefaultMaxArrayItems),
		CompactMaxMapEntries: getEnvInt("COMPACT_MAX_MAP_ENTRIES", jsoncompact.DefaultMaxMapEntries),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", jsoncompact.DefaultMaxStringLen),
		CompactMaxDepth:      getEnvInt("COMPACT_MAX_DEPTH", jsoncompact.DefaultMaxDepth),

		DefaultQueryLimit: getEnvInt("DEFAULT_QUERY_LIMIT", DefaultQueryLimitValue),

		MaxQueryResults: getEnvInt("MAX_QUERY_RESULTS", MaxQueryResultsValue),
		MaxBatchFiles:   getEnvInt("MAX_BATCH_FILES", MaxBatchFilesValue),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

// CompactOptions returns the configured compaction limits.
func (c *Config) CompactOptions() *jsoncompact.Options {
	return &jsoncompact.Options{
		MaxArrayItems: c.CompactMaxArrayItems,
		MaxMapEntries: c.CompactMaxMapEntries,
		MaxStringLen:  c.CompactMaxStringLen,
		MaxDepth:      c.CompactMaxDepth,
		KeepKeys:      jsoncompact.GraphKeys,
	}
}

// Validate reports every setting that cannot be used. Zero compaction limits
// mean "no limit" and are accepted.
func (c *Config) Validate() error {
	var merr *multierror.Error
	positive := func(name string, v int) {
		if v <= 0 {
			merr = multierror.Append(merr, fmt.Errorf("%s must be positive, got %d", name, v))
		}
	}
	nonNegative := func(name string, v int) {
		if v < 0 {
			merr = multierror.Append(merr, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}

	if c.SchemaURL == "" && c.SchemaFile == "" {
		merr = multierror.Append(merr, fmt.Errorf("one of JSONGRAPH_SCHEMA_URL or JSONGRAPH_SCHEMA_FILE is required"))
	}
	positive("SCHEMA_CACHE_MAX_ITEMS", c.SchemaCacheMaxItem)
	positive("VALIDATE_WORKERS", c.ValidateWorkers)
	positive("MAX_QUERY_RESULTS", c.MaxQueryResults)
	positive("MAX_BATCH_FILES", c.MaxBatchFiles)
	nonNegative("HTTP_CLIENT_TIMEOUT_MS", int(c.HTTPClientTimeout/time.Millisecond))
	nonNegative("SCHEMA_CACHE_TTL_MS", int(c.SchemaCacheTTL/time.Millisecond))
	nonNegative("COMPACT_MAX_ARRAY_ITEMS", c.CompactMaxArrayItems)
	nonNegative("COMPACT_MAX_MAP_ENTRIES", c.CompactMaxMapEntries)
	nonNegative("COMPACT_MAX_STRING_LEN", c.CompactMaxStringLen)
	nonNegative("COMPACT_MAX_DEPTH", c.CompactMaxDepth)

	if err := merr.ErrorOrNil(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationMs(key string, defaultMs int) time.Duration {
	ms := getEnvInt(key, defaultMs)
	return time.Duration(ms) * time.Millisecond
}
