package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsongraph-mcp/internal/config"
)

var testdata = filepath.Join("..", "..", "pkg", "jsongraph", "testdata")

func fixture(name string) string {
	return filepath.Join(testdata, name)
}

type run struct {
	code   int
	out    string
	errOut string
}

func newTestCLI() (*CLI, *bytes.Buffer, *bytes.Buffer) {
	color.NoColor = true
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	c := NewCLI(out, errOut, &config.Config{
		SchemaFile:         fixture("jgf-schema.json"),
		HTTPClientTimeout:  time.Second,
		SchemaCacheMaxItem: 4,
		ValidateWorkers:    2,
		MaxQueryResults:    100,
	})
	return c, out, errOut
}

func execute(t *testing.T, c *CLI, args ...string) run {
	t.Helper()
	out, errOut := c.Out.(*bytes.Buffer), c.ErrOut.(*bytes.Buffer)
	code := Execute(context.Background(), c, args)
	return run{code: code, out: out.String(), errOut: errOut.String()}
}

func TestCheckSchema(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantOut  string
	}{
		{name: "default schema", args: []string{"check-schema"}, wantOut: "PASS"},
		{name: "valid file", args: []string{"check-schema", fixture("jgf-schema.json")}, wantOut: "PASS"},
		{name: "invalid file", args: []string{"check-schema", fixture("invalid-schema.json")}, wantCode: 1, wantOut: "FAIL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestCLI()
			r := execute(t, c, tt.args...)
			assert.Equal(t, tt.wantCode, r.code, r.errOut)
			assert.Contains(t, r.out, tt.wantOut)
		})
	}
}

func TestCheckSchema_JSON(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "check-schema", fixture("invalid-schema.json"), "-o", "json")
	require.Equal(t, 1, r.code)

	var out resultOutput
	require.NoError(t, json.Unmarshal([]byte(r.out), &out))
	assert.False(t, out.Valid)
	assert.NotEmpty(t, out.Violations)
	assert.Equal(t, fixture("invalid-schema.json"), out.Schema)
}

func TestCheckSchema_URL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"type": "object", "required": ["graph"]}`))
	}))
	defer ts.Close()

	c, _, _ := newTestCLI()
	c.HTTPClient = ts.Client()
	r := execute(t, c, "check-schema", ts.URL)
	assert.Equal(t, 0, r.code, r.errOut)
	assert.Contains(t, r.out, "PASS "+ts.URL)
}

func TestValidate_Text(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "validate", fixture("single-graph.json"), fixture("invalid-graph.json"), fixture("missing.json"))

	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.out, "PASS "+fixture("single-graph.json")+" [1 graphs]")
	assert.Contains(t, r.out, "FAIL "+fixture("invalid-graph.json"))
	assert.Contains(t, r.out, "/graph/label")
	assert.Contains(t, r.out, "ERROR "+fixture("missing.json"))
	assert.Contains(t, r.out, "1 valid, 1 invalid, 1 failed")
}

func TestValidate_AllValid(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "validate", fixture("single-graph.json"), fixture("single-graph.yaml"), fixture("multi-graph.json"))
	assert.Equal(t, 0, r.code, r.out)
	assert.Contains(t, r.out, "3 valid, 0 invalid, 0 failed")
}

func TestValidate_JSON(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "validate", "-o", "json", fixture("multi-graph.json"), fixture("invalid-graph.json"))
	require.Equal(t, 1, r.code)

	var out struct {
		Schema string `json:"schema"`
		Files  []struct {
			Path   string `json:"path"`
			Graphs int    `json:"graphs"`
			Result struct {
				Valid      bool  `json:"valid"`
				Violations []any `json:"violations"`
			} `json:"result"`
		} `json:"files"`
		Valid   int `json:"valid"`
		Invalid int `json:"invalid"`
	}
	require.NoError(t, json.Unmarshal([]byte(r.out), &out))
	assert.Equal(t, fixture("jgf-schema.json"), out.Schema)
	require.Len(t, out.Files, 2)
	assert.Equal(t, 2, out.Files[0].Graphs)
	assert.True(t, out.Files[0].Result.Valid)
	assert.Len(t, out.Files[1].Result.Violations, 3)
	assert.Equal(t, 1, out.Valid)
	assert.Equal(t, 1, out.Invalid)
}

func TestValidate_Directory(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(fixture("single-graph.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))

	c, _, _ := newTestCLI()
	r := execute(t, c, "validate", dir, "--schema", fixture("jgf-schema.json"))
	assert.Equal(t, 0, r.code, r.out)
	assert.Contains(t, r.out, "2 valid, 0 invalid, 0 failed")
	assert.NotContains(t, r.out, "notes.txt")
}

func TestValidate_RequiresArgs(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "validate")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "Error:")
}

func TestGraphs(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "graphs", fixture("multi-graph.json"))
	require.Equal(t, 0, r.code, r.errOut)

	lines := strings.Split(strings.TrimSpace(r.out), "\n")
	assert.Equal(t, []string{
		"#0 first 2 nodes, 1 edges",
		"#1 second (undirected) 1 nodes, 0 edges",
	}, lines)
}

func TestGraphs_Stdin(t *testing.T) {
	c, _, _ := newTestCLI()
	c.In = strings.NewReader(`{"graph": {"label": "A"}, "graphs": [{"label": "B"}]}`)
	r := execute(t, c, "graphs", "-", "-o", "json")
	require.Equal(t, 0, r.code, r.errOut)

	var graphs []map[string]any
	require.NoError(t, json.Unmarshal([]byte(r.out), &graphs))
	require.Len(t, graphs, 2)
	assert.Equal(t, "A", graphs[0]["label"])
	assert.Equal(t, "B", graphs[1]["label"])
}

func TestGraphs_Empty(t *testing.T) {
	c, _, _ := newTestCLI()
	c.In = strings.NewReader(`{}`)
	r := execute(t, c, "graphs", "-")
	assert.Equal(t, 0, r.code)
	assert.Contains(t, r.out, "no graphs")
}

func TestGraphs_ValidateFails(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "graphs", fixture("invalid-graph.json"), "--validate")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.out, "FAIL")
	assert.NotContains(t, r.out, "#0")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestGraphs_ValidateFailsWriteError(t *testing.T) {
	errOut := new(bytes.Buffer)
	c, _, _ := newTestCLI()
	c.Out, c.ErrOut = failingWriter{}, errOut

	code := Execute(context.Background(), c, []string{"graphs", fixture("invalid-graph.json"), "--validate", "-o", "json"})
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), "Error:")
	assert.Contains(t, errOut.String(), "disk full")
}

func TestValidate_CombinatorDetails(t *testing.T) {
	dir := t.TempDir()
	schema := filepath.Join(dir, "schema.json")
	doc := filepath.Join(dir, "graph.json")
	require.NoError(t, os.WriteFile(schema, []byte(`{"properties": {"graph": {"properties": {"directed": {"anyOf": [{"type": "boolean"}, {"type": "null"}]}}}}}`), 0o644))
	require.NoError(t, os.WriteFile(doc, []byte(`{"graph": {"directed": "yes"}}`), 0o644))

	c, _, _ := newTestCLI()
	r := execute(t, c, "validate", doc, "--schema", schema)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.out, "(1 violations)")
	assert.Contains(t, r.out, "/graph/directed")
	assert.Contains(t, r.out, "want boolean")
	assert.Contains(t, r.out, "want null")
}

func TestGraphs_Query(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "graphs", fixture("multi-graph.json"), "--validate", "--query", ".label")
	require.Equal(t, 0, r.code, r.errOut)
	assert.Equal(t, "\"first\"\n\"second\"\n", r.out)
}

func TestGraphs_BadQuery(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "graphs", fixture("multi-graph.json"), "--query", ".[")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "Error:")
}

func TestGraphs_Unresolvable(t *testing.T) {
	c, _, _ := newTestCLI()
	c.In = strings.NewReader(`{"graph": `)
	r := execute(t, c, "graphs", "-")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "Error:")
}

func TestInvalidOutputFormat(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "check-schema", "-o", "yaml")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "invalid output format")
}

func TestVerbose(t *testing.T) {
	c, _, _ := newTestCLI()
	r := execute(t, c, "validate", "-v", fixture("invalid-graph.json"))
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.errOut, "does not validate (3 violation(s))")
}
