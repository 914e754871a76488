package geom

import (
	"github.com/huangsam/timeline/core/agg"
	"github.com/huangsam/timeline/core/algo"
	"github.com/huangsam/timeline/schema"
)

// gridLines is the number of horizontal grid lines, including the baseline.
const gridLines = 5

// FrameInput is everything one compute pass needs. Series may be left empty,
// in which case it is derived from Buckets.
type FrameInput struct {
	Buckets     []schema.TimeBucket
	Series      Series
	Granularity schema.Granularity
	Mode        schema.BarMode
	Viewport    schema.Viewport
	Selection   schema.SelectionRange
	Playback    schema.ZoomPlaybackState
	QueryTimeMs int
}

// Layout holds the derived chart area of a viewport.
type Layout struct {
	Left        float64
	Top         float64
	Width       float64 // effective width, scaled by zoom
	Height      float64
	Baseline    float64
	BucketCount int
}

// NewLayout derives the chart area. The zoom factor stretches the horizontal axis.
func NewLayout(vp schema.Viewport, zoom float64, n int) Layout {
	if zoom <= 0 {
		zoom = schema.DefaultZoom
	}
	height := max(0, vp.Height-2*vp.Padding)
	return Layout{
		Left:        vp.Padding,
		Top:         vp.Padding,
		Width:       max(0, vp.Width*zoom),
		Height:      height,
		Baseline:    vp.Padding + height,
		BucketCount: n,
	}
}

// IndexAt resolves an x coordinate to a bucket index within the layout.
func (l Layout) IndexAt(x float64) int {
	return XToIndex(x, l.BucketCount, l.Width, l.Left)
}

// BuildFrame lays out grid lines, bars, axis labels, the selection overlay and
// the playhead. It performs no I/O and never fails; out-of-range indices are clamped.
func BuildFrame(in FrameInput) schema.Frame {
	n := len(in.Buckets)
	series := in.Series
	if series.Len() != n || len(series.Scores) != n {
		series = NewSeries(in.Buckets)
	}
	mode := in.Mode
	if mode == "" {
		mode = schema.ComplexityBars
	}
	layout := NewLayout(in.Viewport, in.Playback.ZoomFactor, n)

	playback := in.Playback
	playback.CurrentIndex = clampIndex(playback.CurrentIndex, n)

	frame := schema.Frame{
		Viewport:    in.Viewport,
		Mode:        mode,
		Granularity: in.Granularity,
		BucketCount: n,
		Selection:   in.Selection,
		Playback:    playback,
		Stats:       buildStats(in.Buckets, series, in.QueryTimeMs),
		Bars:        make([]schema.BarSummary, 0, n),
	}

	frame.Primitives = append(frame.Primitives, gridPrimitives(layout)...)
	if n == 0 {
		return frame
	}

	labels := make(map[int]string)
	for _, l := range Labels(in.Buckets, in.Granularity) {
		labels[l.Index] = l.Text
	}

	barWidth := BarWidth(n, layout.Width)
	for i, b := range in.Buckets {
		height, _ := BarHeight(mode, i, series, layout.Height)
		score := series.Scores[i]
		tier := algo.TierFor(algo.Intensity(score))
		x := IndexToX(i, n, layout.Width, layout.Left)

		frame.Primitives = append(frame.Primitives, schema.Primitive{
			Kind:   schema.RectPrimitive,
			X:      x,
			Y:      layout.Baseline - height,
			Width:  barWidth,
			Height: height,
			Tier:   tier,
			Index:  i,
			Role:   schema.BarRole,
		})
		frame.Bars = append(frame.Bars, schema.BarSummary{
			Index:      i,
			Bucket:     b,
			Complexity: score,
			Tier:       tier,
			Height:     height,
			Label:      labels[i],
		})
	}

	for _, l := range Labels(in.Buckets, in.Granularity) {
		frame.Primitives = append(frame.Primitives, schema.Primitive{
			Kind:  schema.LabelPrimitive,
			X:     IndexToX(l.Index, n, layout.Width, layout.Left) + barWidth/2,
			Y:     layout.Baseline + in.Viewport.Padding/2,
			Text:  l.Text,
			Index: l.Index,
			Role:  schema.AxisLabelRole,
		})
	}

	if !in.Selection.IsEmpty() && !in.Selection.IsFull() {
		low := PercentToX(in.Selection.Low, layout.Width, layout.Left)
		high := PercentToX(in.Selection.High, layout.Width, layout.Left)
		frame.Primitives = append(frame.Primitives, schema.Primitive{
			Kind:   schema.RectPrimitive,
			X:      low,
			Y:      layout.Top,
			Width:  high - low,
			Height: layout.Height,
			Index:  -1,
			Role:   schema.SelectionRole,
		})
	}

	head := IndexToX(playback.CurrentIndex, n, layout.Width, layout.Left) + barWidth/2
	frame.Primitives = append(frame.Primitives, schema.Primitive{
		Kind:  schema.LinePrimitive,
		X:     head,
		Y:     layout.Top,
		X2:    head,
		Y2:    layout.Baseline,
		Index: playback.CurrentIndex,
		Role:  schema.PlayheadRole,
	})

	return frame
}

func gridPrimitives(layout Layout) []schema.Primitive {
	lines := make([]schema.Primitive, 0, gridLines)
	for k := range gridLines {
		y := layout.Top + layout.Height*float64(k)/float64(gridLines-1)
		lines = append(lines, schema.Primitive{
			Kind:  schema.LinePrimitive,
			X:     layout.Left,
			Y:     y,
			X2:    layout.Left + layout.Width,
			Y2:    y,
			Index: -1,
			Role:  schema.GridRole,
		})
	}
	return lines
}

func buildStats(buckets []schema.TimeBucket, series Series, queryTimeMs int) schema.FrameStats {
	commits, files := agg.Totals(buckets)
	stats := schema.FrameStats{
		TotalCommits:     commits,
		TotalFileChanges: files,
		MaxCommitCount:   series.MaxCommits,
		QueryTimeMs:      queryTimeMs,
	}
	if len(series.Scores) > 0 {
		stats.FinalComplexity = series.Scores[len(series.Scores)-1]
	}
	return stats
}
