package geom

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/timeline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeBuckets(g schema.Granularity, counts ...[2]int) []schema.TimeBucket {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	step := 1
	if g == schema.WeekGranularity {
		step = 7
	}
	out := make([]schema.TimeBucket, len(counts))
	for i, c := range counts {
		out[i] = schema.TimeBucket{
			BucketStart:     start.AddDate(0, 0, step*i),
			CommitCount:     c[0],
			FileChangeCount: c[1],
			Granularity:     g,
		}
	}
	return out
}

func TestBarHeight(t *testing.T) {
	series := NewSeries(makeBuckets(schema.DayGranularity, [2]int{10, 5}, [2]int{20, 10}, [2]int{5, 2}))

	h, err := BarHeight(schema.ComplexityBars, 1, series, 200)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(3.75)/100*200, h, 1e-9)

	h, err = BarHeight(schema.RawBars, 1, series, 200)
	require.NoError(t, err)
	assert.Equal(t, 200.0, h)

	h, err = BarHeight(schema.RawBars, 2, series, 200)
	require.NoError(t, err)
	assert.Equal(t, 50.0, h)

	_, err = BarHeight(schema.RawBars, 3, series, 200)
	assert.ErrorIs(t, err, schema.ErrIndexOutOfRange)

	h, err = BarHeight(schema.ComplexityBars, 0, series, -1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, h)
}

func TestBarHeightAllZero(t *testing.T) {
	series := NewSeries(makeBuckets(schema.DayGranularity, [2]int{0, 0}, [2]int{0, 3}))
	for i := range series.Len() {
		h, err := BarHeight(schema.RawBars, i, series, 300)
		require.NoError(t, err)
		assert.Equal(t, 0.0, h)
		assert.False(t, math.IsNaN(h) || math.IsInf(h, 0))
	}
}
