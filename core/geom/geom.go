// Package geom maps between bucket indices and chart coordinates and lays out
// draw primitives for a rendering surface.
package geom

import (
	"math"

	"github.com/huangsam/timeline/schema"
)

const (
	// barFill is the share of a slot occupied by a bar; the rest is gutter.
	barFill = 0.8

	// indexEpsilon absorbs float error so that XToIndex(IndexToX(i)) == i.
	indexEpsilon = 1e-9
)

// SlotWidth returns the horizontal space allotted to one bucket.
func SlotWidth(n int, width float64) float64 {
	if n <= 0 || width <= 0 {
		return 0
	}
	return width / float64(n)
}

// IndexToX returns the left edge of the bar at index.
func IndexToX(index, n int, width, padding float64) float64 {
	return padding + SlotWidth(n, width)*float64(index)
}

// BarWidth returns the bar width, 80% of the slot.
func BarWidth(n int, width float64) float64 {
	return SlotWidth(n, width) * barFill
}

// XToPercent converts an x coordinate into a clamped percentage of the chart width.
func XToPercent(x, width, padding float64) float64 {
	if width <= 0 {
		return schema.MinPercent
	}
	return clamp((x-padding)/width*100, schema.MinPercent, schema.MaxPercent)
}

// XToIndex is the inverse of IndexToX, clamped to [0, n-1]. It returns 0 when
// there are no buckets or the width is not positive.
func XToIndex(x float64, n int, width, padding float64) int {
	if n <= 0 || width <= 0 {
		return 0
	}
	percent := XToPercent(x, width, padding)
	index := int(math.Floor(percent/100*float64(n) + indexEpsilon))
	return clampIndex(index, n)
}

// PercentToX converts a percentage of the chart width back to an x coordinate.
func PercentToX(percent, width, padding float64) float64 {
	return padding + clamp(percent, schema.MinPercent, schema.MaxPercent)/100*width
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func clampIndex(index, n int) int {
	if n <= 0 {
		return 0
	}
	return max(0, min(index, n-1))
}
