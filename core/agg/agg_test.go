package agg

import (
	"errors"
	"testing"
	"time"

	"github.com/huangsam/timeline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func weekBuckets(counts ...[2]int) []schema.TimeBucket {
	start := day(2024, time.January, 1) // Monday
	out := make([]schema.TimeBucket, len(counts))
	for i, c := range counts {
		out[i] = schema.TimeBucket{
			BucketStart:     start.AddDate(0, 0, 7*i),
			CommitCount:     c[0],
			FileChangeCount: c[1],
			Granularity:     schema.WeekGranularity,
		}
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		buckets []schema.TimeBucket
		commits []int
		files   []int
	}{
		{
			name:    "empty input",
			buckets: nil,
			commits: []int{},
			files:   []int{},
		},
		{
			name:    "single bucket",
			buckets: weekBuckets([2]int{4, 9}),
			commits: []int{4},
			files:   []int{9},
		},
		{
			name:    "running sums",
			buckets: weekBuckets([2]int{10, 5}, [2]int{20, 10}, [2]int{5, 2}),
			commits: []int{10, 30, 35},
			files:   []int{5, 15, 17},
		},
		{
			name:    "zero buckets keep sums flat",
			buckets: weekBuckets([2]int{3, 1}, [2]int{0, 0}, [2]int{0, 0}),
			commits: []int{3, 3, 3},
			files:   []int{1, 1, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Aggregate(tt.buckets)
			assert.Equal(t, tt.commits, result.Commits)
			assert.Equal(t, tt.files, result.FileChanges)
			assert.Equal(t, len(tt.buckets), result.Len())
		})
	}
}

func TestAggregateMonotonic(t *testing.T) {
	buckets := weekBuckets([2]int{1, 0}, [2]int{0, 7}, [2]int{12, 3}, [2]int{0, 0}, [2]int{8, 8})
	result := Aggregate(buckets)
	for i := 1; i < result.Len(); i++ {
		assert.GreaterOrEqual(t, result.Commits[i], result.Commits[i-1])
		assert.GreaterOrEqual(t, result.FileChanges[i], result.FileChanges[i-1])
	}
	total, _ := Totals(buckets)
	assert.Equal(t, total, result.Commits[len(buckets)-1])
}

func TestMaxCommitCount(t *testing.T) {
	assert.Equal(t, 0, MaxCommitCount(nil))
	assert.Equal(t, 0, MaxCommitCount(weekBuckets([2]int{0, 3}, [2]int{0, 1})))
	assert.Equal(t, 20, MaxCommitCount(weekBuckets([2]int{10, 5}, [2]int{20, 10}, [2]int{5, 2})))
}

func TestNewStore(t *testing.T) {
	t.Run("sorts a copy", func(t *testing.T) {
		input := weekBuckets([2]int{1, 1}, [2]int{2, 2}, [2]int{3, 3})
		input[0], input[2] = input[2], input[0]

		store, err := NewStore(input, schema.WeekGranularity)
		require.NoError(t, err)
		assert.Equal(t, 3, store.Len())

		first, err := store.At(0)
		require.NoError(t, err)
		assert.Equal(t, 1, first.CommitCount)
		assert.Equal(t, 3, input[0].CommitCount, "input must not be reordered")
	})

	t.Run("fills missing granularity", func(t *testing.T) {
		store, err := NewStore([]schema.TimeBucket{{BucketStart: day(2024, 1, 1), CommitCount: 1}}, schema.DayGranularity)
		require.NoError(t, err)
		assert.Equal(t, schema.DayGranularity, store.Granularity())
		b, _ := store.At(0)
		assert.Equal(t, schema.DayGranularity, b.Granularity)
	})

	t.Run("rejects mixed granularity", func(t *testing.T) {
		input := weekBuckets([2]int{1, 1}, [2]int{2, 2})
		input[1].Granularity = schema.DayGranularity
		_, err := NewStore(input, schema.WeekGranularity)
		assert.ErrorContains(t, err, "mixed granularity")
	})

	t.Run("rejects negative counts", func(t *testing.T) {
		_, err := NewStore(weekBuckets([2]int{-1, 0}), schema.WeekGranularity)
		assert.ErrorContains(t, err, "negative counts")
	})

	t.Run("empty input", func(t *testing.T) {
		store, err := NewStore(nil, schema.WeekGranularity)
		require.NoError(t, err)
		assert.Equal(t, 0, store.Len())
		assert.Equal(t, schema.WeekGranularity, store.Granularity())
		assert.Empty(t, store.Buckets())
	})
}

func TestStoreAt(t *testing.T) {
	store, err := NewStore(weekBuckets([2]int{1, 1}, [2]int{2, 2}), schema.WeekGranularity)
	require.NoError(t, err)

	ts, err := store.Timestamp(1)
	require.NoError(t, err)
	assert.Equal(t, day(2024, time.January, 8), ts)

	for _, idx := range []int{-1, 2, 100} {
		_, err := store.At(idx)
		assert.True(t, errors.Is(err, schema.ErrIndexOutOfRange), "index %d", idx)

		var indexErr *schema.IndexError
		require.ErrorAs(t, err, &indexErr)
		assert.Equal(t, idx, indexErr.Index)
		assert.Equal(t, 2, indexErr.Len)
	}

	var nilStore *Store
	assert.Equal(t, 0, nilStore.Len())
}

func TestStoreBucketsIsolated(t *testing.T) {
	store, err := NewStore(weekBuckets([2]int{1, 1}), schema.WeekGranularity)
	require.NoError(t, err)

	out := store.Buckets()
	out[0].CommitCount = 99
	b, _ := store.At(0)
	assert.Equal(t, 1, b.CommitCount)
}

func TestStoreIdentity(t *testing.T) {
	a, _ := NewStore(weekBuckets([2]int{1, 2}, [2]int{3, 4}), schema.WeekGranularity)
	b, _ := NewStore(weekBuckets([2]int{1, 2}, [2]int{3, 4}), schema.WeekGranularity)
	c, _ := NewStore(weekBuckets([2]int{1, 2}, [2]int{3, 5}), schema.WeekGranularity)

	assert.Equal(t, a.Identity(), b.Identity())
	assert.NotEqual(t, a.Identity(), c.Identity())
	assert.Len(t, a.Identity(), 64)
	assert.NotEqual(t, EmptyStore(schema.DayGranularity).Identity(), EmptyStore(schema.WeekGranularity).Identity())
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in       time.Time
		expected time.Time
	}{
		{day(2024, time.January, 1), day(2024, time.January, 1)},                                       // Monday
		{day(2024, time.January, 7), day(2024, time.January, 1)},                                       // Sunday
		{time.Date(2024, time.January, 10, 15, 30, 0, 0, time.UTC), day(2024, time.January, 8)},        // Wednesday afternoon
		{day(2024, time.March, 1), day(2024, time.February, 26)},                                       // crosses a month
		{time.Date(2024, time.January, 1, 23, 0, 0, 0, time.FixedZone("X", -5*3600)), day(2024, 1, 1)}, // normalized to UTC
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, WeekStart(tt.in), tt.in.String())
	}
}

func TestRollUp(t *testing.T) {
	days := []schema.TimeBucket{
		{BucketStart: day(2024, 1, 1), CommitCount: 1, FileChangeCount: 2, Granularity: schema.DayGranularity},
		{BucketStart: day(2024, 1, 3), CommitCount: 2, FileChangeCount: 1, Granularity: schema.DayGranularity},
		{BucketStart: day(2024, 1, 9), CommitCount: 4, FileChangeCount: 4, Granularity: schema.DayGranularity},
	}

	weeks, err := RollUp(days, schema.WeekGranularity)
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, day(2024, 1, 1), weeks[0].BucketStart)
	assert.Equal(t, 3, weeks[0].CommitCount)
	assert.Equal(t, 3, weeks[0].FileChangeCount)
	assert.Equal(t, schema.WeekGranularity, weeks[0].Granularity)
	assert.Equal(t, day(2024, 1, 8), weeks[1].BucketStart)
	assert.Equal(t, 4, weeks[1].CommitCount)

	same, err := RollUp(days, schema.DayGranularity)
	require.NoError(t, err)
	assert.Equal(t, days, same)

	_, err = RollUp(weeks, schema.DayGranularity)
	assert.Error(t, err)

	empty, err := RollUp(nil, schema.WeekGranularity)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// TestRollUpKeepsStarts checks that buckets already at the target granularity
// are not realigned.
func TestRollUpKeepsStarts(t *testing.T) {
	sundays := []schema.TimeBucket{
		{BucketStart: day(2024, time.March, 3), CommitCount: 2, Granularity: schema.WeekGranularity},
		{BucketStart: day(2024, time.March, 10), CommitCount: 5, Granularity: schema.WeekGranularity},
	}
	weeks, err := RollUp(sundays, schema.WeekGranularity)
	require.NoError(t, err)
	assert.Equal(t, sundays, weeks)

	local := time.FixedZone("PST", -8*3600)
	evening := []schema.TimeBucket{
		{BucketStart: time.Date(2024, time.March, 4, 0, 0, 0, 0, local), CommitCount: 1, Granularity: schema.DayGranularity},
	}
	days, err := RollUp(evening, schema.DayGranularity)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.True(t, days[0].BucketStart.Equal(evening[0].BucketStart))
}

func TestRollUpEmpty(t *testing.T) {
	empty, err := RollUp(nil, schema.WeekGranularity)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
