package schema

// Selection bounds in percent.
const (
	MinPercent = 0.0
	MaxPercent = 100.0
)

// Zoom bounds and step.
const (
	MinZoom     = 0.5
	MaxZoom     = 5.0
	ZoomStep    = 1.5
	DefaultZoom = 1.0
)

// SelectionRange is a normalized percentage interval with Low <= High.
type SelectionRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// NoSelection is the canonical "nothing selected" sentinel.
var NoSelection = SelectionRange{Low: MinPercent, High: MaxPercent}

// IsEmpty reports whether the range is degenerate.
func (r SelectionRange) IsEmpty() bool {
	return r.Low == r.High
}

// IsFull reports whether the range equals the no-selection sentinel.
func (r SelectionRange) IsFull() bool {
	return r == NoSelection
}

// ZoomPlaybackState is independent of bucket data and survives re-fetches.
type ZoomPlaybackState struct {
	ZoomFactor   float64 `json:"zoom_factor"`
	IsPlaying    bool    `json:"is_playing"`
	CurrentIndex int     `json:"current_index"`
}

// DefaultPlayback returns the initial zoom and playback state.
func DefaultPlayback() ZoomPlaybackState {
	return ZoomPlaybackState{ZoomFactor: DefaultZoom}
}
