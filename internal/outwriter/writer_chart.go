package outwriter

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
)

const (
	chartWidth  = "100%"
	chartHeight = "420px"
)

// buildFrameChart creates an interactive bar chart of the frame. Each bar is
// colored by its tier and sized by the active bar mode.
func buildFrameChart(frame schema.Frame) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "timeline",
			Width:     chartWidth,
			Height:    chartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Commit activity",
			Subtitle: fmt.Sprintf("%d %s buckets, %s bars", frame.BucketCount, frame.Granularity, frame.Mode),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)

	// Axis text and bar colors come from the draw primitives; values from the bar summaries.
	labels := axisLabels(frame)
	rects := barPrimitives(frame)
	data := make([]opts.BarData, len(frame.Bars))
	for i, b := range frame.Bars {
		var value any = b.Complexity
		if frame.Mode == schema.RawBars {
			value = b.Bucket.CommitCount
		}
		tier := b.Tier
		if i < len(rects) {
			tier = rects[i].Tier
		}
		data[i] = opts.BarData{
			Name:      b.Bucket.BucketStart.Format(time.DateOnly),
			Value:     value,
			ItemStyle: &opts.ItemStyle{Color: contract.TierHexColor(tier)},
		}
	}
	if len(labels) < len(data) {
		labels = append(labels, make([]string, len(data)-len(labels))...)
	}

	seriesName := "Complexity"
	if frame.Mode == schema.RawBars {
		seriesName = "Commits"
	}
	bar.SetXAxis(labels).AddSeries(seriesName, data)
	return bar
}

// writeFrameChart renders the frame chart as a standalone HTML page.
func writeFrameChart(w io.Writer, frame schema.Frame) error {
	return buildFrameChart(frame).Render(w)
}
