// Package agg has the bucket store and aggregation logic for commit activity.
package agg

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"time"

	"github.com/huangsam/timeline/schema"
)

// Store is an immutable, timestamp-ordered snapshot of buckets for one render cycle.
// It is replaced wholesale on every fetch and never mutated in place.
type Store struct {
	buckets     []schema.TimeBucket
	granularity schema.Granularity
}

// NewStore validates and snapshots the given buckets. The input slice is copied
// and sorted ascending by BucketStart. An empty input yields an empty store whose
// granularity is the fallback value.
func NewStore(buckets []schema.TimeBucket, fallback schema.Granularity) (*Store, error) {
	snapshot := make([]schema.TimeBucket, len(buckets))
	copy(snapshot, buckets)

	granularity := fallback
	for i, b := range snapshot {
		if b.CommitCount < 0 || b.FileChangeCount < 0 {
			return nil, fmt.Errorf("bucket %d has negative counts (commits=%d, files=%d)", i, b.CommitCount, b.FileChangeCount)
		}
		if b.Granularity == "" {
			snapshot[i].Granularity = fallback
			b.Granularity = fallback
		}
		if i == 0 {
			granularity = b.Granularity
			continue
		}
		if b.Granularity != granularity {
			return nil, fmt.Errorf("mixed granularity: bucket %d is %q, expected %q", i, b.Granularity, granularity)
		}
	}

	sort.SliceStable(snapshot, func(i, j int) bool {
		return snapshot[i].BucketStart.Before(snapshot[j].BucketStart)
	})

	return &Store{buckets: snapshot, granularity: granularity}, nil
}

// EmptyStore returns a store without buckets.
func EmptyStore(granularity schema.Granularity) *Store {
	return &Store{granularity: granularity}
}

// Len returns the number of buckets.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.buckets)
}

// Granularity returns the uniform granularity of the snapshot.
func (s *Store) Granularity() schema.Granularity {
	if s == nil {
		return ""
	}
	return s.granularity
}

// At returns the bucket at index i.
func (s *Store) At(i int) (schema.TimeBucket, error) {
	if i < 0 || i >= s.Len() {
		return schema.TimeBucket{}, &schema.IndexError{Index: i, Len: s.Len()}
	}
	return s.buckets[i], nil
}

// Timestamp returns the start of the bucket at index i.
func (s *Store) Timestamp(i int) (time.Time, error) {
	b, err := s.At(i)
	if err != nil {
		return time.Time{}, err
	}
	return b.BucketStart, nil
}

// Buckets returns a copy of the snapshot.
func (s *Store) Buckets() []schema.TimeBucket {
	out := make([]schema.TimeBucket, s.Len())
	if s != nil {
		copy(out, s.buckets)
	}
	return out
}

// Identity returns a content hash of the snapshot. Two stores with the same
// buckets and granularity share an identity.
func (s *Store) Identity() string {
	h := sha256.New()
	h.Write([]byte(s.granularity))
	var buf [8]byte
	for _, b := range s.buckets {
		binary.BigEndian.PutUint64(buf[:], uint64(b.BucketStart.UnixNano()))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], uint64(b.CommitCount))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], uint64(b.FileChangeCount))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Aggregate computes inclusive running sums of commits and file changes in a
// single forward pass. The output has the same length as the input.
func Aggregate(buckets []schema.TimeBucket) schema.CumulativeAggregate {
	out := schema.CumulativeAggregate{
		Commits:     make([]int, len(buckets)),
		FileChanges: make([]int, len(buckets)),
	}
	commits, files := 0, 0
	for i, b := range buckets {
		commits += b.CommitCount
		files += b.FileChangeCount
		out.Commits[i] = commits
		out.FileChanges[i] = files
	}
	return out
}

// MaxCommitCount returns the largest per-bucket commit count, or 0 when empty.
func MaxCommitCount(buckets []schema.TimeBucket) int {
	maxCount := 0
	for _, b := range buckets {
		maxCount = max(maxCount, b.CommitCount)
	}
	return maxCount
}

// Totals returns the sum of commits and file changes across the buckets.
func Totals(buckets []schema.TimeBucket) (commits int, files int) {
	for _, b := range buckets {
		commits += b.CommitCount
		files += b.FileChangeCount
	}
	return commits, files
}

// WeekStart truncates t to 00:00 UTC of the Monday of its week.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// RollUp merges buckets into the target granularity. Day buckets roll up into
// Monday-aligned weeks; buckets already at the target granularity keep their
// start. Rolling week buckets down into days is rejected.
func RollUp(buckets []schema.TimeBucket, target schema.Granularity) ([]schema.TimeBucket, error) {
	if len(buckets) == 0 {
		return []schema.TimeBucket{}, nil
	}

	byStart := make(map[int64]*schema.TimeBucket)
	for _, b := range buckets {
		if b.Granularity == schema.WeekGranularity && target == schema.DayGranularity {
			return nil, fmt.Errorf("cannot split %s buckets into %s buckets", b.Granularity, target)
		}
		start := b.BucketStart
		if b.Granularity != target {
			start = WeekStart(start)
		}
		key := start.UnixNano()
		merged, ok := byStart[key]
		if !ok {
			merged = &schema.TimeBucket{BucketStart: start, Granularity: target}
			byStart[key] = merged
		}
		merged.CommitCount += b.CommitCount
		merged.FileChangeCount += b.FileChangeCount
	}

	out := make([]schema.TimeBucket, 0, len(byStart))
	for _, b := range byStart {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].BucketStart.Before(out[j].BucketStart)
	})
	return out, nil
}
