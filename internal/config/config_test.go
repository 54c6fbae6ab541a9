package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsongraph-mcp/pkg/jsoncompact"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, jsongraph.DefaultSchemaURL, cfg.SchemaURL)
	assert.Empty(t, cfg.SchemaFile)
	assert.Equal(t, 10*time.Second, cfg.HTTPClientTimeout)
	assert.Equal(t, 8, cfg.SchemaCacheMaxItem)
	assert.Zero(t, cfg.SchemaCacheTTL)
	assert.Equal(t, 8, cfg.ValidateWorkers)
	assert.Equal(t, DefaultQueryLimitValue, cfg.DefaultQueryLimit)
	assert.Equal(t, MaxQueryResultsValue, cfg.MaxQueryResults)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JSONGRAPH_SCHEMA_URL", "http://localhost:9000/schema.json")
	t.Setenv("JSONGRAPH_SCHEMA_FILE", "/tmp/schema.json")
	t.Setenv("HTTP_CLIENT_TIMEOUT_MS", "2500")
	t.Setenv("VALIDATE_WORKERS", "3")
	t.Setenv("COMPACT_MAX_MAP_ENTRIES", "7")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()

	assert.Equal(t, "http://localhost:9000/schema.json", cfg.SchemaURL)
	assert.Equal(t, "/tmp/schema.json", cfg.SchemaFile)
	assert.Equal(t, 2500*time.Millisecond, cfg.HTTPClientTimeout)
	assert.Equal(t, 3, cfg.ValidateWorkers)
	assert.Equal(t, 7, cfg.CompactMaxMapEntries)
	assert.False(t, cfg.LogCompress)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("VALIDATE_WORKERS", "many")
	t.Setenv("LOG_COMPRESS", "maybe")

	cfg := Load()

	assert.Equal(t, 8, cfg.ValidateWorkers)
	assert.True(t, cfg.LogCompress)
}

func TestCompactOptions(t *testing.T) {
	cfg := Load()

	opts := cfg.CompactOptions()
	assert.Equal(t, jsoncompact.DefaultMaxArrayItems, opts.MaxArrayItems)
	assert.Equal(t, jsoncompact.DefaultMaxMapEntries, opts.MaxMapEntries)
	assert.Equal(t, jsoncompact.DefaultMaxStringLen, opts.MaxStringLen)
	assert.Equal(t, jsoncompact.DefaultMaxDepth, opts.MaxDepth)
	assert.Equal(t, jsoncompact.GraphKeys, opts.KeepKeys)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr []string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "zero compaction means unlimited", mutate: func(c *Config) { c.CompactMaxMapEntries = 0 }},
		{
			name:    "no schema source",
			mutate:  func(c *Config) { c.SchemaURL = "" },
			wantErr: []string{"JSONGRAPH_SCHEMA_URL"},
		},
		{
			name: "every bad value is reported",
			mutate: func(c *Config) {
				c.SchemaCacheMaxItem = 0
				c.ValidateWorkers = -1
				c.CompactMaxArrayItems = -2
			},
			wantErr: []string{"SCHEMA_CACHE_MAX_ITEMS", "VALIDATE_WORKERS", "COMPACT_MAX_ARRAY_ITEMS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, want := range tt.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}
