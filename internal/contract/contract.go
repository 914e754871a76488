// Package contract provides interfaces and shared utilities for timeline's internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/timeline/schema"
)

// BucketSource supplies commit buckets for a granularity and optional time window.
// A zero from or to leaves that side unbounded; from is inclusive and to is exclusive.
// A positive limit keeps only the latest buckets. Failures are reported as *schema.FetchError.
type BucketSource interface {
	FetchCommitBuckets(ctx context.Context, granularity schema.Granularity, from, to time.Time, limit int) (schema.BucketsResult, error)
}

// RangeObserver is notified when a non-degenerate selection is committed.
type RangeObserver interface {
	OnTimeRangeSelect(from, to time.Time)
}

// PointObserver is notified when a pointer position resolves to a single bucket.
type PointObserver interface {
	OnCommitSelect(ts time.Time)
}

// RangeObserverFunc adapts a function to RangeObserver.
type RangeObserverFunc func(from, to time.Time)

// OnTimeRangeSelect calls f(from, to).
func (f RangeObserverFunc) OnTimeRangeSelect(from, to time.Time) { f(from, to) }

// PointObserverFunc adapts a function to PointObserver.
type PointObserverFunc func(ts time.Time)

// OnCommitSelect calls f(ts).
func (f PointObserverFunc) OnCommitSelect(ts time.Time) { f(ts) }

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetAggregateStore() CacheStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Clear() error
	Close() error
}
