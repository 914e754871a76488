// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the timeline MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Timeline Activity Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_timeline ---
	s.AddTool(mcp.NewTool("get_timeline",
		mcp.WithDescription("Compute a timeline frame (bars, labels and draw primitives) for a bucket source."),
		mcp.WithString("source", mcp.Description("Path to a bucket fixture (json, yaml, csv or parquet). Defaults to the configured source.")),
		mcp.WithString("granularity", mcp.Description("Bucket granularity. Defaults to 'day'."), mcp.Enum("day", "week")),
		mcp.WithString("mode", mcp.Description("Bar height mode. Defaults to 'complexity'."), mcp.Enum("complexity", "raw")),
		mcp.WithNumber("limit", mcp.Description("Keep only the latest N buckets.")),
	), h.handleGetTimeline)

	// --- 2. Tool: select_range ---
	s.AddTool(mcp.NewTool("select_range",
		mcp.WithDescription("Commit a percentage selection over the timeline and resolve it to bucket bounds."),
		mcp.WithNumber("low", mcp.Description("Lower bound in percent of the width (0-100)."), mcp.Required()),
		mcp.WithNumber("high", mcp.Description("Upper bound in percent of the width (0-100)."), mcp.Required()),
		mcp.WithString("source", mcp.Description("Path to a bucket fixture.")),
		mcp.WithString("granularity", mcp.Description("Bucket granularity."), mcp.Enum("day", "week")),
	), h.handleSelectRange)

	// --- 3. Tool: resolve_point ---
	s.AddTool(mcp.NewTool("resolve_point",
		mcp.WithDescription("Resolve a horizontal pointer position to the bucket under it."),
		mcp.WithNumber("x", mcp.Description("Pointer x coordinate on the rendering surface, padding included."), mcp.Required()),
		mcp.WithString("source", mcp.Description("Path to a bucket fixture.")),
		mcp.WithString("granularity", mcp.Description("Bucket granularity."), mcp.Enum("day", "week")),
	), h.handleResolvePoint)

	// --- 4. Tool: get_complexity ---
	s.AddTool(mcp.NewTool("get_complexity",
		mcp.WithDescription("List the cumulative complexity score and tier of every bucket."),
		mcp.WithString("source", mcp.Description("Path to a bucket fixture.")),
		mcp.WithString("granularity", mcp.Description("Bucket granularity."), mcp.Enum("day", "week")),
		mcp.WithNumber("limit", mcp.Description("Keep only the latest N buckets.")),
	), h.handleGetComplexity)

	return s
}

// StartMCPServer starts the timeline MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
