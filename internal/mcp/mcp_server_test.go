package mcp_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/timeline/internal/contract"
	mcp_internal "github.com/huangsam/timeline/internal/mcp"
	"github.com/huangsam/timeline/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `[
	{"bucket_start": "2024-01-01T00:00:00Z", "commit_count": 10, "file_change_count": 5},
	{"bucket_start": "2024-01-02T00:00:00Z", "commit_count": 20, "file_change_count": 10}
]`

func newBaseConfig(t *testing.T, content string) *contract.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "buckets.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return &contract.Config{
		SourcePath:   path,
		Granularity:  schema.DayGranularity,
		Mode:         schema.ComplexityBars,
		Viewport:     schema.Viewport{Width: 400, Height: 240, Padding: 20},
		Zoom:         schema.DefaultZoom,
		Precision:    1,
		CacheBackend: schema.NoneBackend,
	}
}

func callTool(t *testing.T, cfg *contract.Config, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	s := mcp_internal.NewMCPServer(cfg, nil)
	tool := s.GetTool(name)
	require.NotNil(t, tool, "Tool %s should exist", name)

	res, err := tool.Handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	})
	require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
	require.NotNil(t, res)
	return res
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func TestGetTimeline(t *testing.T) {
	res := callTool(t, newBaseConfig(t, fixture), "get_timeline", map[string]any{"mode": "raw"})
	require.False(t, res.IsError, resultText(t, res))

	var frame schema.Frame
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &frame))
	assert.Equal(t, 2, frame.BucketCount)
	assert.Equal(t, schema.RawBars, frame.Mode)
	assert.Equal(t, 30, frame.Stats.TotalCommits)
	assert.NotEmpty(t, frame.Primitives)
}

func TestGetTimelineWeekly(t *testing.T) {
	res := callTool(t, newBaseConfig(t, fixture), "get_timeline", map[string]any{"granularity": "week"})
	require.False(t, res.IsError, resultText(t, res))

	var frame schema.Frame
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &frame))
	assert.Equal(t, 1, frame.BucketCount)
	assert.Equal(t, schema.WeekGranularity, frame.Granularity)
}

func TestSelectRange(t *testing.T) {
	res := callTool(t, newBaseConfig(t, fixture), "select_range", map[string]any{"low": 100.0, "high": 10.0})
	require.False(t, res.IsError, resultText(t, res))

	var result schema.SelectionResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &result))
	assert.Equal(t, schema.SelectionRange{Low: 10, High: 100}, result.Selection)
	require.NotNil(t, result.Bounds)
	assert.Equal(t, 0, result.Bounds.StartIndex)
	assert.Equal(t, 1, result.Bounds.EndIndex)
	assert.True(t, result.Notified)
}

func TestResolvePoint(t *testing.T) {
	res := callTool(t, newBaseConfig(t, fixture), "resolve_point", map[string]any{"x": 300.0})
	require.False(t, res.IsError, resultText(t, res))

	var point schema.PointResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &point))
	assert.Equal(t, 1, point.Index)
	assert.Equal(t, 20, point.Bucket.CommitCount)
}

func TestResolvePointEmptyDataset(t *testing.T) {
	res := callTool(t, newBaseConfig(t, "[]"), "resolve_point", map[string]any{"x": 100.0})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "empty dataset")
}

func TestGetComplexity(t *testing.T) {
	res := callTool(t, newBaseConfig(t, fixture), "get_complexity", map[string]any{"limit": 1.0})
	require.False(t, res.IsError, resultText(t, res))

	var points []schema.PointResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &points))
	require.Len(t, points, 1)
	assert.Equal(t, 20, points[0].Bucket.CommitCount)
	assert.Equal(t, schema.LowTier, points[0].Tier)
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
		cfg  func(*contract.Config)
		want string
	}{
		{"invalid granularity", "get_timeline", map[string]any{"granularity": "month"}, nil, "invalid granularity"},
		{"invalid mode", "get_timeline", map[string]any{"mode": "loud"}, nil, "invalid mode"},
		{"unsupported source", "get_complexity", map[string]any{"source": "buckets.txt"}, nil, "unsupported source extension"},
		{"missing source", "select_range", map[string]any{"low": 0.0, "high": 50.0}, func(c *contract.Config) { c.SourcePath = "" }, "a bucket source is required"},
		{"unreadable source", "get_timeline", map[string]any{"source": "/nonexistent/buckets.json"}, nil, "timeline failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newBaseConfig(t, fixture)
			if tt.cfg != nil {
				tt.cfg(cfg)
			}
			res := callTool(t, cfg, tt.tool, tt.args)
			assert.True(t, res.IsError, "The response should indicate an error state")
			assert.Contains(t, resultText(t, res), tt.want)
		})
	}
}
