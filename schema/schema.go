// Package schema has the models, enums and errors shared by every part of timeline.
package schema

import "time"

// TimeBucket is a fixed-width interval of repository activity.
// Buckets are immutable once fetched; a new fetch replaces the whole sequence.
type TimeBucket struct {
	BucketStart     time.Time   `json:"bucket_start" yaml:"bucket_start"`
	CommitCount     int         `json:"commit_count" yaml:"commit_count"`
	FileChangeCount int         `json:"file_change_count" yaml:"file_change_count"`
	Granularity     Granularity `json:"granularity" yaml:"granularity"`
}

// PerformanceStats is reported by the data source alongside the buckets.
type PerformanceStats struct {
	QueryTimeMs int `json:"query_time_ms"`
}

// BucketsResult is the payload of a single fetch.
type BucketsResult struct {
	Buckets     []TimeBucket     `json:"buckets"`
	Performance PerformanceStats `json:"performance"`
}

// CumulativeAggregate holds inclusive running sums, one entry per bucket.
type CumulativeAggregate struct {
	Commits     []int `json:"commits"`
	FileChanges []int `json:"file_changes"`
}

// Len returns the number of indices covered by the aggregate.
func (a CumulativeAggregate) Len() int {
	return len(a.Commits)
}

// BucketBounds is a selection resolved to inclusive bucket indices and their timestamps.
type BucketBounds struct {
	StartIndex int       `json:"start_index"`
	EndIndex   int       `json:"end_index"`
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
}

// PointResult describes the bucket targeted by a pointer position.
type PointResult struct {
	Index      int        `json:"index"`
	Bucket     TimeBucket `json:"bucket"`
	Complexity float64    `json:"complexity"`
	Tier       Tier       `json:"tier"`
	Label      string     `json:"label"`
}

// SelectionResult reports a committed selection and the buckets it covers.
// Bounds is nil when the selection is empty or there are no buckets.
type SelectionResult struct {
	Requested SelectionRange `json:"requested"`
	Selection SelectionRange `json:"selection"`
	Bounds    *BucketBounds  `json:"bounds,omitempty"`
	Notified  bool           `json:"notified"`
}

// PlaybackTick is one step of a scripted playback run.
type PlaybackTick struct {
	Tick       int               `json:"tick"`
	State      ZoomPlaybackState `json:"state"`
	Bucket     TimeBucket        `json:"bucket"`
	Label      string            `json:"label"`
	Complexity float64           `json:"complexity"`
	Tier       Tier              `json:"tier"`
}
