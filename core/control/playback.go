package control

import (
	"math"

	"github.com/huangsam/timeline/schema"
)

// Playback holds zoom and play state. It is independent of bucket data and
// survives re-fetches; only CurrentIndex is clamped against the bucket count.
type Playback struct {
	state schema.ZoomPlaybackState
}

// NewPlayback starts paused at index 0 with zoom 1.0.
func NewPlayback() *Playback {
	return &Playback{state: schema.DefaultPlayback()}
}

// NewPlaybackAt starts with the given zoom, clamped to the allowed range.
func NewPlaybackAt(zoom float64) *Playback {
	p := NewPlayback()
	p.state.ZoomFactor = clampZoom(zoom)
	return p
}

// State returns a copy of the current state.
func (p *Playback) State() schema.ZoomPlaybackState {
	return p.state
}

// TogglePlay flips between playing and paused.
func (p *Playback) TogglePlay() bool {
	p.state.IsPlaying = !p.state.IsPlaying
	return p.state.IsPlaying
}

// ZoomIn multiplies the zoom by 1.5, capped at 5.0.
func (p *Playback) ZoomIn() float64 {
	p.state.ZoomFactor = math.Min(p.state.ZoomFactor*schema.ZoomStep, schema.MaxZoom)
	return p.state.ZoomFactor
}

// ZoomOut divides the zoom by 1.5, floored at 0.5.
func (p *Playback) ZoomOut() float64 {
	p.state.ZoomFactor = math.Max(p.state.ZoomFactor/schema.ZoomStep, schema.MinZoom)
	return p.state.ZoomFactor
}

// Advance moves the current index by step within [0, n-1]. Reaching the last
// bucket while playing pauses playback. With no buckets it does nothing.
func (p *Playback) Advance(step, n int) int {
	if n <= 0 {
		return p.state.CurrentIndex
	}
	// Any step beyond n lands on an edge; bounding it keeps the sum from overflowing.
	step = max(-n, min(n, step))
	p.state.CurrentIndex = clampIndex(p.state.CurrentIndex+step, n)
	if p.state.IsPlaying && p.state.CurrentIndex == n-1 && step > 0 {
		p.state.IsPlaying = false
	}
	return p.state.CurrentIndex
}

// Seek jumps to index, clamped to [0, n-1].
func (p *Playback) Seek(index, n int) int {
	if n <= 0 {
		return p.state.CurrentIndex
	}
	p.state.CurrentIndex = clampIndex(index, n)
	return p.state.CurrentIndex
}

// Clamp pulls the current index back into range after a re-fetch shrinks the data.
func (p *Playback) Clamp(n int) {
	if n <= 0 {
		p.state.CurrentIndex = 0
		return
	}
	p.state.CurrentIndex = clampIndex(p.state.CurrentIndex, n)
}

func clampZoom(z float64) float64 {
	if math.IsNaN(z) || z == 0 {
		return schema.DefaultZoom
	}
	return math.Max(schema.MinZoom, math.Min(schema.MaxZoom, z))
}
