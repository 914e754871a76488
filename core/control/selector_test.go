package control

import (
	"testing"
	"time"

	"github.com/huangsam/timeline/core/agg"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var origin = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func newStore(t *testing.T, n int) *agg.Store {
	t.Helper()
	buckets := make([]schema.TimeBucket, n)
	for i := range buckets {
		buckets[i] = schema.TimeBucket{
			BucketStart: origin.AddDate(0, 0, 7*i),
			CommitCount: i + 1,
			Granularity: schema.WeekGranularity,
		}
	}
	store, err := agg.NewStore(buckets, schema.WeekGranularity)
	require.NoError(t, err)
	return store
}

func TestToBucketBounds(t *testing.T) {
	tests := []struct {
		name       string
		sel        schema.SelectionRange
		n          int
		start, end int
		ok         bool
	}{
		{"full range", schema.NoSelection, 11, 0, 10, true},
		{"middle", schema.SelectionRange{Low: 25, High: 75}, 11, 2, 7, true},
		{"floors", schema.SelectionRange{Low: 33, High: 66}, 4, 0, 1, true},
		{"out of range clamps", schema.SelectionRange{Low: -50, High: 400}, 5, 0, 4, true},
		{"single bucket", schema.SelectionRange{Low: 10, High: 90}, 1, 0, 0, true},
		{"no buckets", schema.SelectionRange{Low: 10, High: 90}, 0, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := ToBucketBounds(tt.sel, tt.n)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.start, start)
			assert.Equal(t, tt.end, end)
		})
	}
}

func TestSetRangeClamps(t *testing.T) {
	selector := NewRangeSelector(nil)
	sel, bounds := selector.SetRange(-10, 150, newStore(t, 3))
	assert.Equal(t, schema.SelectionRange{Low: 0, High: 100}, sel)
	require.NotNil(t, bounds)
	assert.Equal(t, 0, bounds.StartIndex)
	assert.Equal(t, 2, bounds.EndIndex)
}

func TestSetRangeOrdersPair(t *testing.T) {
	selector := NewRangeSelector(nil)
	sel, bounds := selector.SetRange(80, 20, nil)
	assert.Equal(t, schema.SelectionRange{Low: 20, High: 80}, sel)
	assert.Nil(t, bounds)
	assert.Equal(t, sel, selector.Selection())
}

func TestSetRangeNotifies(t *testing.T) {
	observer := &contract.MockRangeObserver{}
	observer.On("OnTimeRangeSelect", origin.AddDate(0, 0, 14), origin.AddDate(0, 0, 49)).Once()

	selector := NewRangeSelector(observer)
	sel, bounds := selector.SetRange(25, 75, newStore(t, 11))
	require.NotNil(t, bounds)

	assert.Equal(t, schema.SelectionRange{Low: 25, High: 75}, sel)
	observer.AssertExpectations(t)
}

func TestSetRangeDegenerate(t *testing.T) {
	observer := &contract.MockRangeObserver{}
	selector := NewRangeSelector(observer)

	selector.SetRange(10, 60, nil)
	sel, bounds := selector.SetRange(40, 40, newStore(t, 5))
	assert.Nil(t, bounds)

	assert.Equal(t, schema.NoSelection, sel)
	observer.AssertNotCalled(t, "OnTimeRangeSelect", mock.Anything, mock.Anything)
}

func TestSetRangeEmptyDataset(t *testing.T) {
	observer := &contract.MockRangeObserver{}
	selector := NewRangeSelector(observer)

	_, bounds := selector.SetRange(10, 90, newStore(t, 0))
	assert.Nil(t, bounds)
	observer.AssertNotCalled(t, "OnTimeRangeSelect", mock.Anything, mock.Anything)
}

func TestSetRangeObserverFunc(t *testing.T) {
	var calls int
	var gotFrom, gotTo time.Time
	selector := NewRangeSelector(contract.RangeObserverFunc(func(from, to time.Time) {
		calls++
		gotFrom, gotTo = from, to
	}))

	selector.SetRange(0, 100, newStore(t, 3))
	assert.Equal(t, 1, calls)
	assert.Equal(t, origin, gotFrom)
	assert.Equal(t, origin.AddDate(0, 0, 14), gotTo)

	selector.Reset()
	assert.Equal(t, schema.NoSelection, selector.Selection())
	assert.Equal(t, 1, calls)
}

func TestBounds(t *testing.T) {
	bounds, ok := Bounds(schema.SelectionRange{Low: 50, High: 100}, newStore(t, 5))
	require.True(t, ok)
	assert.Equal(t, 2, bounds.StartIndex)
	assert.Equal(t, 4, bounds.EndIndex)
	assert.Equal(t, origin.AddDate(0, 0, 14), bounds.From)
	assert.Equal(t, origin.AddDate(0, 0, 28), bounds.To)

	_, ok = Bounds(schema.NoSelection, newStore(t, 0))
	assert.False(t, ok)
}
