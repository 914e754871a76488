package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/huangsam/timeline/core"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/internal/source"
	"github.com/huangsam/timeline/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// prepare clones the base config, applies the common overrides and opens the source.
func (h *toolHandler) prepare(request mcp.CallToolRequest) (*contract.Config, *source.FileSource, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("source", ""); p != "" {
		cfg.SourcePath = p
	}
	if g := request.GetString("granularity", ""); g != "" {
		cfg.Granularity = schema.Granularity(strings.ToLower(g))
		if _, ok := schema.ValidGranularities[cfg.Granularity]; !ok {
			return nil, nil, fmt.Errorf("invalid granularity '%s'. must be day, week", g)
		}
	}
	if m := request.GetString("mode", ""); m != "" {
		cfg.Mode = schema.BarMode(strings.ToLower(m))
		if _, ok := schema.ValidBarModes[cfg.Mode]; !ok {
			return nil, nil, fmt.Errorf("invalid mode '%s'. must be complexity, raw", m)
		}
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.Limit = min(l, contract.MaxLimit)
	}
	if cfg.SourcePath == "" {
		return nil, nil, fmt.Errorf("a bucket source is required")
	}
	src, err := source.Open(cfg.SourcePath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, src, nil
}

func (h *toolHandler) handleGetTimeline(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	frame, _, err := core.GetFrameResults(core.WithSuppressHeader(ctx), cfg, src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("timeline failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(frame, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSelectRange(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.Low = request.GetFloat("low", schema.MinPercent)
	cfg.High = request.GetFloat("high", schema.MaxPercent)

	result, _, err := core.GetSelectionResults(core.WithSuppressHeader(ctx), cfg, src, h.mgr, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("selection failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleResolvePoint(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	cfg.PointX = request.GetFloat("x", 0)

	point, ok, _, err := core.GetPointResults(core.WithSuppressHeader(ctx), cfg, src, h.mgr, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("point resolution failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("cannot resolve x=%g: %v", cfg.PointX, schema.ErrEmptyDataset)), nil
	}

	jsonData, _ := json.MarshalIndent(point, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetComplexity(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, src, err := h.prepare(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	points, err := core.GetComplexityResults(core.WithSuppressHeader(ctx), cfg, src, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("complexity failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(points, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
