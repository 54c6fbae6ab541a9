package mcp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/jsongraph-mcp/internal/batch"
	"github.com/usestring/jsongraph-mcp/internal/config"
	"github.com/usestring/jsongraph-mcp/internal/mcp/tools"
	"github.com/usestring/jsongraph-mcp/internal/query"
	"github.com/usestring/jsongraph-mcp/pkg/jsongraph"
)

var testdata = filepath.Join("..", "..", "pkg", "jsongraph", "testdata")

func connect(t *testing.T, opts ...ServerOption) *sdkmcp.ClientSession {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := jsongraph.New(
		jsongraph.WithSchemaFetcher(jsongraph.FetcherFromSource(jsongraph.FromPath(filepath.Join(testdata, "jgf-schema.json")))),
		jsongraph.WithLogger(logger),
	)
	deps := &tools.Deps{
		Validator: v,
		Query:     query.NewEngine(),
		Batch:     batch.NewRunner(v, 1, logger),
		Config:    &config.Config{DefaultQueryLimit: 10, MaxBatchFiles: 10},
		Logger:    logger,
	}

	srv, err := NewServer(deps, opts...)
	require.NoError(t, err)

	ctx := context.Background()
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	ss, err := srv.Connect(ctx, serverTransport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return cs
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestServer_Instructions(t *testing.T) {
	cs := connect(t, WithBuiltinPrompts())

	res := cs.InitializeResult()
	require.NotNil(t, res)
	assert.Equal(t, "jsongraph-mcp", res.ServerInfo.Name)
	assert.Contains(t, res.Instructions, "Draft-4")
	assert.Contains(t, res.Instructions, "jsongraph_guide")
}

func TestServer_ListsBuiltins(t *testing.T) {
	cs := connect(t, WithBuiltinTools(), WithBuiltinPrompts())
	ctx := context.Background()

	toolList, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range toolList.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"jsongraph_check_schema",
		"jsongraph_validate",
		"jsongraph_extract_graphs",
		"jsongraph_query_graphs",
		"jsongraph_validate_files",
		"jsongraph_infer_schema",
	}, names)

	promptList, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, promptList.Prompts, 3)
}

func TestServer_CallValidate(t *testing.T) {
	cs := connect(t, WithBuiltinTools())

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "jsongraph_validate",
		Arguments: map[string]any{"document_path": filepath.Join(testdata, "invalid-graph.json")},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out tools.ValidateOutput
	require.NoError(t, json.Unmarshal(data, &out))
	assert.False(t, out.Valid)
	assert.Equal(t, 3, out.ViolationCount)
}

func TestServer_ToolErrorIsReported(t *testing.T) {
	cs := connect(t, WithBuiltinTools())

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "jsongraph_validate",
		Arguments: map[string]any{"document_path": filepath.Join(testdata, "missing.json")},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestServer_Resources(t *testing.T) {
	cs := connect(t, WithBuiltinTools())
	ctx := context.Background()

	res, err := cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: defaultSchemaURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "JSON Graph Schema")

	uri := uriScheme + "graphs/" + url.PathEscape(filepath.Join(testdata, "multi-graph.json"))
	res, err = cs.ReadResource(ctx, &sdkmcp.ReadResourceParams{URI: uri})
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"second"`)
}

func TestServer_CustomRegistration(t *testing.T) {
	called := false
	cs := connect(t, WithCustomRegistration(func(s *sdkmcp.Server) {
		called = true
		s.AddPrompt(&sdkmcp.Prompt{Name: "custom"}, func(context.Context, *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
			return &sdkmcp.GetPromptResult{}, nil
		})
	}))
	assert.True(t, called)

	promptList, err := cs.ListPrompts(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, promptList.Prompts, 1)
	assert.Equal(t, "custom", promptList.Prompts[0].Name)
}

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		uri      string
		wantPath string
		wantErr  bool
	}{
		{uri: "jsongraph://schema/default"},
		{uri: "jsongraph://graphs/data%2Fcars.json", wantPath: "data/cars.json"},
		{uri: "jsongraph://graphs/", wantErr: true},
		{uri: "jsongraph://schema/other", wantErr: true},
		{uri: "jsongraph://nodes/x", wantErr: true},
		{uri: "jsongraph://", wantErr: true},
		{uri: "http://example.com", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			params, err := parseResourceURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, params["path"])
		})
	}
}
