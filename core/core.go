// Package core has the timeline engine: state container, loading and the
// entry points used by the CLI and the MCP server.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/timeline/core/algo"
	"github.com/huangsam/timeline/core/geom"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/internal/outwriter"
	"github.com/huangsam/timeline/internal/source"
	"github.com/huangsam/timeline/schema"
)

// writer prints every command result in the configured output format.
var writer = outwriter.NewOutWriter()

// ExecutorFunc defines the function signature for executing the CLI commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// LoadTimeline fetches buckets for cfg from src and applies them to a new Timeline.
func LoadTimeline(ctx context.Context, cfg *contract.Config, src contract.BucketSource, mgr contract.CacheManager, opts ...Option) (*Timeline, error) {
	loader := NewLoader(src)
	base := []Option{
		WithLoader(loader),
		WithCache(mgr),
		WithGranularity(cfg.Granularity),
		WithMode(cfg.Mode),
		WithZoom(cfg.Zoom),
	}
	t := NewTimeline(append(base, opts...)...)

	gen, result, err := loader.Load(ctx, RequestFromConfig(cfg))
	if err != nil {
		return nil, err
	}
	if _, err := t.Apply(gen, result); err != nil {
		return nil, err
	}
	return t, nil
}

// GetFrameResults loads the source and computes a frame.
func GetFrameResults(ctx context.Context, cfg *contract.Config, src contract.BucketSource, mgr contract.CacheManager) (schema.Frame, time.Duration, error) {
	start := time.Now()
	t, err := LoadTimeline(ctx, cfg, src, mgr)
	if err != nil {
		return schema.Frame{}, 0, err
	}
	return t.Frame(cfg.Viewport), time.Since(start), nil
}

// GetSelectionResults commits the configured selection. Every notification
// of the range observer is forwarded to onSelect, which may be nil.
func GetSelectionResults(ctx context.Context, cfg *contract.Config, src contract.BucketSource, mgr contract.CacheManager, onSelect contract.RangeObserver) (schema.SelectionResult, time.Duration, error) {
	start := time.Now()
	var opts []Option
	if onSelect != nil {
		opts = append(opts, WithRangeObserver(onSelect))
	}
	t, err := LoadTimeline(ctx, cfg, src, mgr, opts...)
	if err != nil {
		return schema.SelectionResult{}, 0, err
	}
	return t.SelectRange(cfg.Low, cfg.High), time.Since(start), nil
}

// GetPointResults resolves the configured pointer x coordinate to a bucket.
func GetPointResults(ctx context.Context, cfg *contract.Config, src contract.BucketSource, mgr contract.CacheManager, onPoint contract.PointObserver) (schema.PointResult, bool, time.Duration, error) {
	start := time.Now()
	var opts []Option
	if onPoint != nil {
		opts = append(opts, WithPointObserver(onPoint))
	}
	t, err := LoadTimeline(ctx, cfg, src, mgr, opts...)
	if err != nil {
		return schema.PointResult{}, false, 0, err
	}
	point, ok := t.ClickAt(cfg.PointX, cfg.Viewport)
	return point, ok, time.Since(start), nil
}

// GetPlaybackResults applies the zoom script, starts playback and records one
// tick per step until the steps run out or playback stops at the last bucket.
func GetPlaybackResults(ctx context.Context, cfg *contract.Config, src contract.BucketSource, mgr contract.CacheManager) ([]schema.PlaybackTick, time.Duration, error) {
	start := time.Now()
	t, err := LoadTimeline(ctx, cfg, src, mgr)
	if err != nil {
		return nil, 0, err
	}
	return RunPlayback(t, cfg.ZoomIns, cfg.ZoomOuts, cfg.Steps, cfg.Step), time.Since(start), nil
}

// RunPlayback drives a timeline through a scripted playback.
func RunPlayback(t *Timeline, zoomIns, zoomOuts, steps, step int) []schema.PlaybackTick {
	for range zoomIns {
		t.ZoomIn()
	}
	for range zoomOuts {
		t.ZoomOut()
	}
	if t.Len() == 0 {
		return []schema.PlaybackTick{}
	}
	if step == 0 {
		step = 1
	}
	steps = max(steps, 0)

	ticks := make([]schema.PlaybackTick, 0, min(steps, t.Len())+1)
	ticks = append(ticks, tickAt(t, 0))
	if !t.Playback().IsPlaying {
		t.TogglePlay()
	}
	for i := 1; i <= steps && t.Playback().IsPlaying; i++ {
		t.Tick(step)
		ticks = append(ticks, tickAt(t, i))
	}
	return ticks
}

func tickAt(t *Timeline, i int) schema.PlaybackTick {
	state := t.Playback()
	tick := schema.PlaybackTick{Tick: i, State: state}
	if point, err := t.Point(state.CurrentIndex); err == nil {
		tick.Bucket = point.Bucket
		tick.Label = point.Label
		tick.Complexity = point.Complexity
		tick.Tier = point.Tier
	}
	return tick
}

// GetComplexityResults returns the per-bucket complexity with tiers.
func GetComplexityResults(ctx context.Context, cfg *contract.Config, src contract.BucketSource, mgr contract.CacheManager) ([]schema.PointResult, error) {
	t, err := LoadTimeline(ctx, cfg, src, mgr)
	if err != nil {
		return nil, err
	}
	series := t.Series()
	out := make([]schema.PointResult, 0, series.Len())
	for i, b := range series.Buckets {
		score := series.Scores[i]
		out = append(out, schema.PointResult{
			Index:      i,
			Bucket:     b,
			Complexity: score,
			Tier:       algo.TierFor(algo.Intensity(score)),
			Label:      geom.Label(b.BucketStart, t.Store().Granularity()),
		})
	}
	return out, nil
}

// ExecuteRender loads the source, computes a frame and writes it with the configured surface.
func ExecuteRender(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	src, err := source.Open(cfg.SourcePath)
	if err != nil {
		return err
	}
	logRunHeader(ctx, cfg)
	frame, duration, err := GetFrameResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return writer.WriteFrame(frame, cfg, duration)
}

// ExecuteSelect commits the configured selection and reports the covered buckets.
func ExecuteSelect(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	src, err := source.Open(cfg.SourcePath)
	if err != nil {
		return err
	}
	logRunHeader(ctx, cfg)
	result, duration, err := GetSelectionResults(ctx, cfg, src, mgr, nil)
	if err != nil {
		return err
	}
	return writer.WriteSelection(result, cfg, duration)
}

// ExecutePoint resolves the configured pointer position to a bucket.
func ExecutePoint(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	src, err := source.Open(cfg.SourcePath)
	if err != nil {
		return err
	}
	logRunHeader(ctx, cfg)
	point, ok, duration, err := GetPointResults(ctx, cfg, src, mgr, nil)
	if err != nil {
		return err
	}
	if !ok {
		contract.LogWarn(fmt.Sprintf("Cannot resolve x=%g", cfg.PointX), schema.ErrEmptyDataset)
		return nil
	}
	return writer.WritePoint(point, cfg, duration)
}

// ExecutePlay runs the scripted playback and prints one summary per tick.
func ExecutePlay(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	src, err := source.Open(cfg.SourcePath)
	if err != nil {
		return err
	}
	logRunHeader(ctx, cfg)
	ticks, duration, err := GetPlaybackResults(ctx, cfg, src, mgr)
	if err != nil {
		return err
	}
	return writer.WritePlayback(ticks, cfg, duration)
}
