package schema

// Viewport describes the chart area in rendering-surface units.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// Primitive is a single draw instruction for a rendering surface.
// Rects use X/Y/Width/Height, lines use X/Y/X2/Y2, labels use X/Y/Text.
type Primitive struct {
	Kind   PrimitiveKind `json:"kind"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Width  float64       `json:"width,omitempty"`
	Height float64       `json:"height,omitempty"`
	X2     float64       `json:"x2,omitempty"`
	Y2     float64       `json:"y2,omitempty"`
	Tier   Tier          `json:"tier,omitempty"`
	Text   string        `json:"text,omitempty"`
	Index  int           `json:"index"` // Bucket index, -1 for chrome
	Role   string        `json:"role,omitempty"`
}

// Primitive roles for non-bar primitives.
const (
	GridRole      = "grid"
	BarRole       = "bar"
	AxisLabelRole = "axis-label"
	SelectionRole = "selection"
	PlayheadRole  = "playhead"
)

// FrameStats summarizes the data behind a frame.
type FrameStats struct {
	TotalCommits     int     `json:"total_commits"`
	TotalFileChanges int     `json:"total_file_changes"`
	MaxCommitCount   int     `json:"max_commit_count"`
	FinalComplexity  float64 `json:"final_complexity"`
	QueryTimeMs      int     `json:"query_time_ms"`
}

// Frame is the output of one pure compute pass.
type Frame struct {
	Viewport    Viewport          `json:"viewport"`
	Mode        BarMode           `json:"mode"`
	Granularity Granularity       `json:"granularity"`
	BucketCount int               `json:"bucket_count"`
	Selection   SelectionRange    `json:"selection"`
	Playback    ZoomPlaybackState `json:"playback"`
	Stats       FrameStats        `json:"stats"`
	Bars        []BarSummary      `json:"bars"`
	Primitives  []Primitive       `json:"primitives"`
}

// BarSummary is the per-bucket view of a frame, convenient for tabular surfaces.
type BarSummary struct {
	Index      int        `json:"index"`
	Bucket     TimeBucket `json:"bucket"`
	Complexity float64    `json:"complexity"`
	Tier       Tier       `json:"tier"`
	Height     float64    `json:"height"`
	Label      string     `json:"label,omitempty"`
}
