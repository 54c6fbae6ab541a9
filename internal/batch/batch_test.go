package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

const labelSchema = `{
	"$schema": "http://json-schema.org/draft-04/schema#",
	"type": "object",
	"properties": {
		"graph": {"$ref": "#/definitions/graph"},
		"graphs": {"type": "array", "items": {"$ref": "#/definitions/graph"}}
	},
	"definitions": {
		"graph": {"type": "object", "properties": {"label": {"type": "string"}}}
	}
}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newValidator() *jsongraph.Validator {
	return jsongraph.New(
		jsongraph.WithLogger(quietLogger()),
		jsongraph.WithSchemaFetcher(jsongraph.FetcherFromSource(jsongraph.FromText(labelSchema))),
	)
}

func TestValidateFiles_Mixed(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "good.json", `{"graphs": [{"label": "a"}, {"label": "b"}]}`),
		writeFile(t, dir, "bad.json", `{"graph": {"label": 1}}`),
		writeFile(t, dir, "broken.json", `{"graph": `),
		filepath.Join(dir, "missing.json"),
	}

	runner := NewRunner(newValidator(), 2, quietLogger())
	report, err := runner.ValidateFiles(context.Background(), paths, jsongraph.Source{})
	require.NotNil(t, report)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.ErrorIs(t, err, jsongraph.ErrResolution)

	assert.Equal(t, 1, report.Valid)
	assert.Equal(t, 1, report.Invalid)
	assert.Equal(t, 2, report.Failed)
	assert.False(t, report.AllValid())

	require.Len(t, report.Files, 4)
	assert.Equal(t, paths[0], report.Files[0].Path)
	assert.Equal(t, 2, report.Files[0].Graphs)
	assert.True(t, report.Files[0].Result.Valid)
	assert.Len(t, report.Files[1].Result.Violations, 1)
	assert.Nil(t, report.Files[2].Result)
	assert.NotEmpty(t, report.Files[2].Error)
	assert.Error(t, report.Files[3].Err())
}

func TestValidateFiles_AllValid(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.json", `{"graph": {"label": "a"}}`),
		writeFile(t, dir, "b.yaml", "graph:\n  label: b\n"),
	}

	report, err := NewRunner(newValidator(), 4, quietLogger()).ValidateFiles(context.Background(), paths, jsongraph.Source{})
	require.NoError(t, err)
	assert.True(t, report.AllValid())
	assert.Equal(t, 2, report.Valid)
}

func TestValidateFiles_ReaderSchemaReadOnce(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"1.json", "2.json", "3.json"} {
		paths = append(paths, writeFile(t, dir, name, `{"graph": {"label": "x"}}`))
	}

	schema := jsongraph.FromReader(strings.NewReader(`{"type": "object", "required": ["graph"]}`))
	report, err := NewRunner(newValidator(), 3, quietLogger()).ValidateFiles(context.Background(), paths, schema)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Valid)
}

func TestValidateFiles_BadSchema(t *testing.T) {
	_, err := NewRunner(newValidator(), 1, quietLogger()).ValidateFiles(context.Background(), []string{"x.json"}, jsongraph.FromText("{"))
	assert.ErrorIs(t, err, jsongraph.ErrResolution)
}

func TestValidateFiles_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.json", `{}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewRunner(newValidator(), 1, quietLogger()).ValidateFiles(ctx, []string{path}, jsongraph.Source{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, report.Failed)
}

func TestValidateFiles_UsesWorkers(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.json", "b.json", "c.json", "d.json"} {
		paths = append(paths, writeFile(t, dir, name, `{}`))
	}

	var calls atomic.Int32
	v := validatorFunc(func(ctx context.Context, graph, schema jsongraph.Source) (*jsongraph.Result, error) {
		calls.Add(1)
		return &jsongraph.Result{Valid: true}, nil
	})

	report, err := NewRunner(v, 0, nil).ValidateFiles(context.Background(), paths, jsongraph.Source{})
	require.NoError(t, err)
	assert.Equal(t, int32(4), calls.Load())
	assert.Equal(t, 4, report.Valid)
}

func TestCollectFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "graphs/a.json", `{}`)
	b := writeFile(t, dir, "graphs/nested/b.YAML", `{}`)
	writeFile(t, dir, "graphs/readme.txt", "ignored")
	c := writeFile(t, dir, "c.json", `{}`)

	files, err := CollectFiles([]string{
		filepath.Join(dir, "graphs"),
		filepath.Join(dir, "*.json"),
		c,
		filepath.Join(dir, "missing.json"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{c, a, b, filepath.Join(dir, "missing.json")}, files)
}

func TestCollectFiles_BadPattern(t *testing.T) {
	_, err := CollectFiles([]string{"[unterminated"})
	assert.Error(t, err)
}

type validatorFunc func(ctx context.Context, graph, schema jsongraph.Source) (*jsongraph.Result, error)

func (f validatorFunc) Validate(ctx context.Context, graph, schema jsongraph.Source) (*jsongraph.Result, error) {
	return f(ctx, graph, schema)
}
