// Package source provides fixture-backed implementations of contract.BucketSource.
package source

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/timeline/core/agg"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
)

// FileSource serves buckets from a fixture file. The file is read on every
// fetch so that edits are picked up by the watcher.
type FileSource struct {
	path   string
	reader readerFunc
}

var _ contract.BucketSource = &FileSource{}

// Open returns a FileSource for path, picking the reader from its extension.
func Open(path string) (*FileSource, error) {
	return NewFileSource(path)
}

// NewFileSource creates a FileSource for a supported fixture file.
func NewFileSource(path string) (*FileSource, error) {
	ext := strings.ToLower(filepath.Ext(path))
	reader, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported source extension %q", ext)
	}
	return &FileSource{path: path, reader: reader}, nil
}

// Path returns the fixture path.
func (s *FileSource) Path() string {
	return s.path
}

// FetchCommitBuckets reads the fixture and applies the requested window.
func (s *FileSource) FetchCommitBuckets(ctx context.Context, granularity schema.Granularity, from, to time.Time, limit int) (schema.BucketsResult, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return schema.BucketsResult{}, &schema.FetchError{Granularity: granularity, Err: err}
	}
	raw, err := s.reader(s.path)
	if err != nil {
		return schema.BucketsResult{}, &schema.FetchError{Granularity: granularity, Err: err}
	}
	buckets, err := Select(raw.Buckets, granularity, from, to, limit)
	if err != nil {
		return schema.BucketsResult{}, &schema.FetchError{Granularity: granularity, Err: err}
	}
	perf := raw.Performance
	if perf.QueryTimeMs == 0 {
		perf.QueryTimeMs = int(time.Since(start).Milliseconds())
	}
	return schema.BucketsResult{Buckets: buckets, Performance: perf}, nil
}

// StaticSource serves buckets held in memory. It is safe for concurrent use.
type StaticSource struct {
	mu          sync.RWMutex
	buckets     []schema.TimeBucket
	queryTimeMs int
}

var _ contract.BucketSource = &StaticSource{}

// NewStaticSource creates a StaticSource with a copy of buckets.
func NewStaticSource(buckets []schema.TimeBucket, queryTimeMs int) *StaticSource {
	s := &StaticSource{queryTimeMs: queryTimeMs}
	s.Replace(buckets)
	return s
}

// Replace swaps the served buckets.
func (s *StaticSource) Replace(buckets []schema.TimeBucket) {
	cp := make([]schema.TimeBucket, len(buckets))
	copy(cp, buckets)
	s.mu.Lock()
	s.buckets = cp
	s.mu.Unlock()
}

// FetchCommitBuckets applies the requested window to the in-memory buckets.
func (s *StaticSource) FetchCommitBuckets(ctx context.Context, granularity schema.Granularity, from, to time.Time, limit int) (schema.BucketsResult, error) {
	if err := ctx.Err(); err != nil {
		return schema.BucketsResult{}, &schema.FetchError{Granularity: granularity, Err: err}
	}
	s.mu.RLock()
	buckets, err := Select(s.buckets, granularity, from, to, limit)
	queryTimeMs := s.queryTimeMs
	s.mu.RUnlock()
	if err != nil {
		return schema.BucketsResult{}, &schema.FetchError{Granularity: granularity, Err: err}
	}
	return schema.BucketsResult{
		Buckets:     buckets,
		Performance: schema.PerformanceStats{QueryTimeMs: queryTimeMs},
	}, nil
}

// Select rolls buckets into granularity, keeps those starting in [from, to)
// and trims to the latest limit buckets. Zero bounds and a zero limit are unbounded.
// Buckets without a granularity are treated as day buckets.
func Select(buckets []schema.TimeBucket, granularity schema.Granularity, from, to time.Time, limit int) ([]schema.TimeBucket, error) {
	if granularity == "" {
		granularity = schema.DayGranularity
	}
	if _, ok := schema.ValidGranularities[granularity]; !ok {
		return nil, fmt.Errorf("invalid granularity %q", granularity)
	}
	if limit < 0 {
		return nil, fmt.Errorf("limit must be non-negative, got %d", limit)
	}

	normalized := make([]schema.TimeBucket, len(buckets))
	for i, b := range buckets {
		if b.CommitCount < 0 || b.FileChangeCount < 0 {
			return nil, fmt.Errorf("bucket %d has negative counts", i)
		}
		if b.Granularity == "" {
			b.Granularity = schema.DayGranularity
		}
		normalized[i] = b
	}

	rolled, err := agg.RollUp(normalized, granularity)
	if err != nil {
		return nil, err
	}

	out := make([]schema.TimeBucket, 0, len(rolled))
	for _, b := range rolled {
		if !from.IsZero() && b.BucketStart.Before(from) {
			continue
		}
		if !to.IsZero() && !b.BucketStart.Before(to) {
			continue
		}
		out = append(out, b)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
