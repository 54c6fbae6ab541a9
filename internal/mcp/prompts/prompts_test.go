package prompts

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = &Config{DefaultSchema: "https://example.com/jgf.json", MaxBatchFiles: 50}

func request(args map[string]string) *sdkmcp.GetPromptRequest {
	return &sdkmcp.GetPromptRequest{Params: &sdkmcp.GetPromptParams{Arguments: args}}
}

func text(t *testing.T, res *sdkmcp.GetPromptResult) string {
	t.Helper()
	require.Len(t, res.Messages, 1)
	content, ok := res.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	return content.Text
}

func TestHandleGuide(t *testing.T) {
	res, err := HandleGuide(testConfig)(context.Background(), request(nil))
	require.NoError(t, err)

	body := text(t, res)
	assert.Contains(t, body, "https://example.com/jgf.json")
	assert.Contains(t, body, "up to 50 files")
	for _, tool := range []string{"jsongraph_check_schema", "jsongraph_validate", "jsongraph_extract_graphs", "jsongraph_query_graphs", "jsongraph_infer_schema"} {
		assert.Contains(t, body, tool)
	}
}

func TestHandleValidateGraph(t *testing.T) {
	tests := []struct {
		name        string
		args        map[string]string
		wantErr     bool
		contains    []string
		notContains []string
	}{
		{
			name:        "default schema",
			args:        map[string]string{"document_path": "cars.json"},
			contains:    []string{`jsongraph_validate(document_path: "cars.json")`, "https://example.com/jgf.json"},
			notContains: []string{"jsongraph_check_schema"},
		},
		{
			name:     "custom schema",
			args:     map[string]string{"document_path": "cars.json", "schema_path": "mine.json"},
			contains: []string{`jsongraph_check_schema(schema_path: "mine.json")`, `schema_path: "mine.json")`},
		},
		{
			name:    "missing document",
			args:    map[string]string{"document_path": "  "},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := HandleValidateGraph(testConfig)(context.Background(), request(tt.args))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			body := text(t, res)
			for _, s := range tt.contains {
				assert.Contains(t, body, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, body, s)
			}
		})
	}
}

func TestHandleDesignSchema(t *testing.T) {
	res, err := HandleDesignSchema(testConfig)(context.Background(), request(map[string]string{
		"samples": "a.json, b.yaml,,",
		"target":  "graphs/",
	}))
	require.NoError(t, err)

	body := text(t, res)
	assert.Contains(t, body, `document_paths: ["a.json", "b.yaml"]`)
	assert.Contains(t, body, `jsongraph_validate_files(paths: ["graphs/"]`)

	_, err = HandleDesignSchema(testConfig)(context.Background(), request(map[string]string{"samples": " , "}))
	assert.Error(t, err)

	_, err = HandleDesignSchema(testConfig)(context.Background(), nil)
	assert.Error(t, err)
}
