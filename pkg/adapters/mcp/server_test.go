package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/svgo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestOptimizeTool(t *testing.T) {
	s := NewServer(nil)

	res, err := s.handleOptimize(context.Background(), callRequest("optimize_svg", map[string]any{
		"svg":    `<svg><ellipse rx="5" ry="5"/></svg>`,
		"pretty": false,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var out OptimizeResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, `<svg><circle r="5"/></svg>`, out.Data)
	assert.Equal(t, 35, out.OriginalSize)
	assert.Equal(t, len(out.Data), out.OptimizedSize)
}

func TestOptimizeTool_Arguments(t *testing.T) {
	s := NewServer(nil, svgo.WithPretty(false))

	res, err := s.handleOptimize(context.Background(), callRequest("optimize_svg", map[string]any{
		"svg":       `<svg><rect width="10.25" fill="rgb(255,0,0)"/></svg>`,
		"precision": float64(1),
		"plugins":   "cleanupNumericValues, ",
	}))
	require.NoError(t, err)

	var out OptimizeResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &out))
	assert.Equal(t, `<svg><rect width="10.3" fill="rgb(255,0,0)"/></svg>`, out.Data)
}

func TestOptimizeTool_Errors(t *testing.T) {
	s := NewServer(nil)

	tests := []struct {
		name string
		args map[string]any
	}{
		{"missing svg", map[string]any{}},
		{"malformed svg", map[string]any{"svg": `<svg><g></svg>`}},
		{"unknown plugin", map[string]any{"svg": `<svg/>`, "plugins": "nope"}},
		{"precision out of range", map[string]any{"svg": `<svg/>`, "precision": float64(42)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleOptimize(context.Background(), callRequest("optimize_svg", tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
		})
	}
}

func TestListPluginsTool(t *testing.T) {
	s := NewServer(nil)

	res, err := s.handleListPlugins(context.Background(), callRequest("list_plugins", nil))
	require.NoError(t, err)

	var infos []PluginInfo
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &infos))
	require.Len(t, infos, 7)
	assert.Equal(t, "cleanupAttrs", infos[0].Name)
	assert.True(t, infos[0].Default)
}

func TestPluginsResource(t *testing.T) {
	s := NewServer(nil)

	contents, err := s.readPlugins(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, PluginsURI, text.URI)
	assert.Contains(t, text.Text, `"collapseGroups"`)
}

func TestToolsAreRegistered(t *testing.T) {
	s := NewServer(nil)

	resp := s.MCPServer().HandleMessage(context.Background(), json.RawMessage(
		`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`,
	))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	var names []string
	for _, tool := range decoded.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"optimize_svg", "list_plugins"}, names)
}
