// Package control holds the selection and playback/zoom state machines.
package control

import (
	"math"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
)

// ToBucketBounds maps a selection to inclusive bucket indices using
// floor(percent/100 * (n-1)), clamped to [0, n-1]. It returns ok=false when
// there are no buckets.
func ToBucketBounds(r schema.SelectionRange, n int) (start, end int, ok bool) {
	if n <= 0 {
		return 0, 0, false
	}
	last := float64(n - 1)
	start = clampIndex(int(math.Floor(clampPercent(r.Low)/100*last)), n)
	end = clampIndex(int(math.Floor(clampPercent(r.High)/100*last)), n)
	return start, end, true
}

// RangeSelector owns the selection interval and notifies an observer on
// committed, non-degenerate changes.
type RangeSelector struct {
	selection schema.SelectionRange
	observer  contract.RangeObserver
}

// NewRangeSelector starts with no selection. The observer may be nil.
func NewRangeSelector(observer contract.RangeObserver) *RangeSelector {
	return &RangeSelector{selection: schema.NoSelection, observer: observer}
}

// Selection returns the current interval.
func (r *RangeSelector) Selection() schema.SelectionRange {
	return r.selection
}

// SetRange clamps both ends to [0, 100] and orders them. A degenerate interval
// resets to the sentinel and is not committed. Otherwise, when buckets exist,
// the observer receives the timestamps of the start and end buckets and the
// resolved bounds are returned.
func (r *RangeSelector) SetRange(low, high float64, store BucketTimes) (schema.SelectionRange, *schema.BucketBounds) {
	low, high = clampPercent(low), clampPercent(high)
	if low > high {
		low, high = high, low
	}
	if low == high {
		r.selection = schema.NoSelection
		return r.selection, nil
	}

	r.selection = schema.SelectionRange{Low: low, High: high}
	if store == nil {
		return r.selection, nil
	}
	bounds, ok := Bounds(r.selection, store)
	if !ok {
		return r.selection, nil
	}
	if r.observer != nil {
		r.observer.OnTimeRangeSelect(bounds.From, bounds.To)
	}
	return r.selection, &bounds
}

// Reset returns to the sentinel without notifying.
func (r *RangeSelector) Reset() {
	r.selection = schema.NoSelection
}

// Bounds resolves a selection against bucket timestamps.
func Bounds(sel schema.SelectionRange, store BucketTimes) (schema.BucketBounds, bool) {
	start, end, ok := ToBucketBounds(sel, store.Len())
	if !ok {
		return schema.BucketBounds{}, false
	}
	from, err := store.Timestamp(start)
	if err != nil {
		return schema.BucketBounds{}, false
	}
	to, err := store.Timestamp(end)
	if err != nil {
		return schema.BucketBounds{}, false
	}
	return schema.BucketBounds{StartIndex: start, EndIndex: end, From: from, To: to}, true
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return schema.MinPercent
	}
	return math.Max(schema.MinPercent, math.Min(schema.MaxPercent, v))
}

func clampIndex(index, n int) int {
	return max(0, min(index, n-1))
}
