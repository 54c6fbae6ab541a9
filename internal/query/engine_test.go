package query

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGraphs() []any {
	return []any{
		map[string]any{
			"id":    "g1",
			"label": "first",
			"nodes": map[string]any{"a": map[string]any{"label": "A"}, "b": map[string]any{"label": "B"}},
			"edges": []any{map[string]any{"source": "a", "target": "b", "metadata": map[string]any{"weight": json.Number("2")}}},
		},
		map[string]any{
			"label": "second",
			"nodes": map[string]any{"a": map[string]any{"label": "A"}, "c": map[string]any{"label": "C"}},
		},
	}
}

func TestEngine_QueryGraphs_Simple(t *testing.T) {
	engine := NewEngine()

	result, err := engine.QueryGraphs(sampleGraphs(), nil, ".label", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"first", "second"}, result.Values)
	assert.Equal(t, 2, result.RawCount)
	assert.Equal(t, []int{0, 1}, result.MatchedIndices)
	assert.Equal(t, map[string]int{"g1": 1, "second": 1}, result.LabelCounts)
}

func TestEngine_QueryGraphs_Deduplicate(t *testing.T) {
	engine := NewEngine()

	result, err := engine.QueryGraphs(sampleGraphs(), nil, ".nodes[].label", Options{Deduplicate: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []any{"A", "B", "C"}, result.Values)
	assert.Equal(t, 4, result.RawCount)
}

func TestEngine_QueryGraphs_MaxResults(t *testing.T) {
	engine := NewEngine()

	result, err := engine.QueryGraphs(sampleGraphs(), nil, ".nodes | keys[]", Options{MaxResults: 3})
	require.NoError(t, err)
	assert.Equal(t, []any{"a", "b", "a"}, result.Values)
	assert.True(t, result.Truncated)
}

func TestEngine_QueryGraphs_Numbers(t *testing.T) {
	engine := NewEngine()

	result, err := engine.QueryGraphs(sampleGraphs(), nil, ".edges[]?.metadata.weight * 2", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{4}, result.Values)
}

func TestEngine_QueryGraphs_RuntimeErrors(t *testing.T) {
	engine := NewEngine()

	result, err := engine.QueryGraphs(sampleGraphs(), []string{"left", ""}, ".edges[].source", Options{})
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, result.Values)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "second: ")
	assert.Contains(t, result.Errors[0], "the path may not exist in this graph")
	assert.Equal(t, map[string]int{"left": 1}, result.LabelCounts)
}

func TestEngine_QueryGraphs_InvalidExpression(t *testing.T) {
	engine := NewEngine()

	_, err := engine.QueryGraphs(sampleGraphs(), nil, ".nodes[", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")
}

func TestEngine_ValidateExpression(t *testing.T) {
	engine := NewEngine()

	assert.NoError(t, engine.ValidateExpression(".edges | length"))
	assert.Error(t, engine.ValidateExpression("}{"))
	assert.Error(t, engine.ValidateExpression("undefined_function(1)"))
}

func TestGraphLabel(t *testing.T) {
	assert.Equal(t, "g1", GraphLabel(0, map[string]any{"id": "g1", "label": "x"}))
	assert.Equal(t, "x", GraphLabel(0, map[string]any{"label": "x"}))
	assert.Equal(t, "graph[3]", GraphLabel(3, map[string]any{}))
	assert.Equal(t, "graph[1]", GraphLabel(1, "not a graph"))
}

func TestToQueryValue(t *testing.T) {
	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)

	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int", json.Number("42"), 42},
		{"float", json.Number("1.5"), 1.5},
		{"exponent", json.Number("1e3"), 1000.0},
		{"big int", json.Number("123456789012345678901234567890"), huge},
		{"nested", []any{map[string]any{"n": json.Number("1")}}, []any{map[string]any{"n": 1}}},
		{"string", "x", "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, toQueryValue(tt.in))
		})
	}
}
