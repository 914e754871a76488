package core

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
)

// logRunHeader prints a concise, 2-line header for text runs.
func logRunHeader(ctx context.Context, cfg *contract.Config) {
	if shouldSuppressHeader(ctx) || cfg.Output != schema.TextOut {
		return
	}
	fmt.Printf("🔎 Source: %s (Granularity: %s, Mode: %s)\n", filepath.Base(cfg.SourcePath), cfg.Granularity, cfg.Mode)
	fmt.Printf("📅 Range: %s → %s\n", formatBound(cfg.StartTime.IsZero(), cfg.StartTime.Format(contract.DateTimeFormat)),
		formatBound(cfg.EndTime.IsZero(), cfg.EndTime.Format(contract.DateTimeFormat)))
}

func formatBound(unbounded bool, s string) string {
	if unbounded {
		return "*"
	}
	return s
}
