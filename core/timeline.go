package core

import (
	"fmt"

	"github.com/huangsam/timeline/core/agg"
	"github.com/huangsam/timeline/core/algo"
	"github.com/huangsam/timeline/core/control"
	"github.com/huangsam/timeline/core/geom"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
)

// Timeline is the state container of the engine: the current bucket snapshot
// with its derived series, the selection and the zoom/playback state.
// Transitions are synchronous and it is not safe for concurrent use; callers
// serialize access and rely on generations to drop superseded results.
type Timeline struct {
	loader      *Loader
	cache       contract.CacheManager
	point       contract.PointObserver
	store       *agg.Store
	series      geom.Series
	granularity schema.Granularity
	mode        schema.BarMode
	queryTimeMs int
	applied     uint64
	selector    *control.RangeSelector
	playback    *control.Playback
}

// Option configures a Timeline.
type Option func(*Timeline)

// WithLoader ties the stale-result guard to a loader's latest generation.
func WithLoader(l *Loader) Option {
	return func(t *Timeline) { t.loader = l }
}

// WithCache enables the aggregate cache.
func WithCache(mgr contract.CacheManager) Option {
	return func(t *Timeline) { t.cache = mgr }
}

// WithRangeObserver registers the selection callback.
func WithRangeObserver(o contract.RangeObserver) Option {
	return func(t *Timeline) { t.selector = control.NewRangeSelector(o) }
}

// WithPointObserver registers the click callback.
func WithPointObserver(o contract.PointObserver) Option {
	return func(t *Timeline) { t.point = o }
}

// WithMode sets the initial bar mode.
func WithMode(mode schema.BarMode) Option {
	return func(t *Timeline) { t.mode = mode }
}

// WithGranularity sets the initial granularity.
func WithGranularity(g schema.Granularity) Option {
	return func(t *Timeline) { t.granularity = g }
}

// WithZoom sets the initial zoom factor.
func WithZoom(zoom float64) Option {
	return func(t *Timeline) { t.playback = control.NewPlaybackAt(zoom) }
}

// NewTimeline creates an empty timeline.
func NewTimeline(opts ...Option) *Timeline {
	t := &Timeline{
		granularity: schema.DayGranularity,
		mode:        schema.ComplexityBars,
		selector:    control.NewRangeSelector(nil),
		playback:    control.NewPlayback(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.store = agg.EmptyStore(t.granularity)
	t.series = geom.NewSeries(nil)
	return t
}

// Apply replaces the snapshot with a fetched result. Results from a superseded
// generation are ignored and Apply returns false. Zoom and selection persist;
// the playhead is clamped to the new bucket count.
func (t *Timeline) Apply(gen uint64, result schema.BucketsResult) (bool, error) {
	if t.loader != nil && !t.loader.IsCurrent(gen) {
		return false, nil
	}
	if gen < t.applied {
		return false, nil
	}

	store, err := agg.NewStore(result.Buckets, t.granularity)
	if err != nil {
		return false, fmt.Errorf("invalid buckets: %w", err)
	}

	t.applied = gen
	t.store = store
	t.granularity = store.Granularity()
	t.series = CachedSeries(store, t.cache)
	t.queryTimeMs = result.Performance.QueryTimeMs
	t.playback.Clamp(store.Len())
	return true, nil
}

// SetGranularity switches granularity. The current snapshot stays until the
// next Apply; callers request a new fetch afterwards.
func (t *Timeline) SetGranularity(g schema.Granularity) error {
	if _, ok := schema.ValidGranularities[g]; !ok {
		return fmt.Errorf("invalid granularity %q", g)
	}
	t.granularity = g
	return nil
}

// SetMode switches between complexity and raw bars.
func (t *Timeline) SetMode(mode schema.BarMode) error {
	if _, ok := schema.ValidBarModes[mode]; !ok {
		return fmt.Errorf("invalid bar mode %q", mode)
	}
	t.mode = mode
	return nil
}

// SelectRange commits a selection. With no buckets it does nothing.
func (t *Timeline) SelectRange(low, high float64) schema.SelectionResult {
	result := schema.SelectionResult{
		Requested: schema.SelectionRange{Low: low, High: high},
		Selection: t.selector.Selection(),
	}
	if t.Len() == 0 {
		return result
	}
	result.Selection, result.Bounds = t.selector.SetRange(low, high, t.store)
	result.Notified = result.Bounds != nil
	return result
}

// ClearSelection returns to the no-selection sentinel without notifying.
func (t *Timeline) ClearSelection() {
	t.selector.Reset()
}

// Selection returns the current selection.
func (t *Timeline) Selection() schema.SelectionRange {
	return t.selector.Selection()
}

// SelectedBounds resolves the current selection against the snapshot.
func (t *Timeline) SelectedBounds() (schema.BucketBounds, bool) {
	return control.Bounds(t.selector.Selection(), t.store)
}

// ClickAt resolves a pointer x coordinate to a bucket and notifies the point
// observer. It returns false when there are no buckets.
func (t *Timeline) ClickAt(x float64, vp schema.Viewport) (schema.PointResult, bool) {
	n := t.Len()
	if n == 0 {
		return schema.PointResult{}, false
	}
	layout := geom.NewLayout(vp, t.playback.State().ZoomFactor, n)
	point, err := t.Point(layout.IndexAt(x))
	if err != nil {
		return schema.PointResult{}, false
	}
	if t.point != nil {
		t.point.OnCommitSelect(point.Bucket.BucketStart)
	}
	return point, true
}

// Point describes the bucket at index.
func (t *Timeline) Point(index int) (schema.PointResult, error) {
	bucket, err := t.store.At(index)
	if err != nil {
		return schema.PointResult{}, err
	}
	score, err := algo.Estimate(t.series.Aggregate, index)
	if err != nil {
		return schema.PointResult{}, err
	}
	return schema.PointResult{
		Index:      index,
		Bucket:     bucket,
		Complexity: score,
		Tier:       algo.TierFor(algo.Intensity(score)),
		Label:      geom.Label(bucket.BucketStart, t.store.Granularity()),
	}, nil
}

// TogglePlay flips the play state.
func (t *Timeline) TogglePlay() bool {
	return t.playback.TogglePlay()
}

// ZoomIn zooms in one step. With no buckets it does nothing.
func (t *Timeline) ZoomIn() float64 {
	if t.Len() == 0 {
		return t.playback.State().ZoomFactor
	}
	return t.playback.ZoomIn()
}

// ZoomOut zooms out one step. With no buckets it does nothing.
func (t *Timeline) ZoomOut() float64 {
	if t.Len() == 0 {
		return t.playback.State().ZoomFactor
	}
	return t.playback.ZoomOut()
}

// Tick advances the playhead by step while playing and returns the new index.
// It is what an external animation loop calls at its own cadence.
func (t *Timeline) Tick(step int) int {
	if !t.playback.State().IsPlaying {
		return t.playback.State().CurrentIndex
	}
	return t.playback.Advance(step, t.Len())
}

// Seek moves the playhead regardless of the play state.
func (t *Timeline) Seek(index int) int {
	return t.playback.Seek(index, t.Len())
}

// Frame runs the pure compute stage for the viewport.
func (t *Timeline) Frame(vp schema.Viewport) schema.Frame {
	return geom.BuildFrame(geom.FrameInput{
		Buckets:     t.series.Buckets,
		Series:      t.series,
		Granularity: t.store.Granularity(),
		Mode:        t.mode,
		Viewport:    vp,
		Selection:   t.selector.Selection(),
		Playback:    t.playback.State(),
		QueryTimeMs: t.queryTimeMs,
	})
}

// Len returns the number of buckets in the snapshot.
func (t *Timeline) Len() int {
	return t.store.Len()
}

// Store returns the current snapshot.
func (t *Timeline) Store() *agg.Store {
	return t.store
}

// Series returns the derived quantities of the current snapshot.
func (t *Timeline) Series() geom.Series {
	return t.series
}

// Playback returns the zoom and playback state.
func (t *Timeline) Playback() schema.ZoomPlaybackState {
	return t.playback.State()
}

// Mode returns the bar mode.
func (t *Timeline) Mode() schema.BarMode {
	return t.mode
}

// Granularity returns the requested granularity.
func (t *Timeline) Granularity() schema.Granularity {
	return t.granularity
}

// QueryTimeMs returns the source timing of the applied result.
func (t *Timeline) QueryTimeMs() int {
	return t.queryTimeMs
}
