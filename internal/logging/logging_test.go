package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_WriterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(Config{Level: "warn", Writer: &buf})
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("json graph violation", slog.String("instance_path", "/graph"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "instance_path=/graph")
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	require.NoError(t, err)

	logger.Info("validated", slog.Int("files", 2))
	assert.Contains(t, buf.String(), `"files":2`)
}

func TestNew_RotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "jsongraph.log")
	cfg := DefaultConfig()
	cfg.FilePath = path

	logger, cleanup, err := New(cfg)
	require.NoError(t, err)

	logger.Info("schema fetch completed")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "schema fetch completed")
}
