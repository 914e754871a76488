package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var dayRequest = FetchRequest{Granularity: schema.DayGranularity}

func TestLoaderLoad(t *testing.T) {
	src := &contract.MockBucketSource{}
	src.On("FetchCommitBuckets", mock.Anything, schema.DayGranularity, time.Time{}, time.Time{}, 0).
		Return(resultOf(fourDays(), 12), nil).Once()

	loader := NewLoader(src)
	state, err := loader.State()
	assert.Equal(t, schema.IdleState, state)
	assert.NoError(t, err)

	gen, result, err := loader.Load(context.Background(), dayRequest)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gen)
	assert.Len(t, result.Buckets, 4)
	assert.Equal(t, 12, result.Performance.QueryTimeMs)

	state, err = loader.State()
	assert.Equal(t, schema.ReadyState, state)
	assert.NoError(t, err)
	src.AssertExpectations(t)
}

func TestLoaderFetchError(t *testing.T) {
	src := &contract.MockBucketSource{}
	src.On("FetchCommitBuckets", mock.Anything, schema.DayGranularity, time.Time{}, time.Time{}, 0).
		Return(schema.BucketsResult{}, errors.New("connection refused"))

	loader := NewLoader(src)
	_, _, err := loader.Load(context.Background(), dayRequest)
	require.Error(t, err)

	var fetchErr *schema.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, schema.DayGranularity, fetchErr.Granularity)
	assert.ErrorContains(t, err, "connection refused")

	state, stateErr := loader.State()
	assert.Equal(t, schema.ErrorState, state)
	assert.Equal(t, err, stateErr)
}

// TestLoaderFetchErrorNotRewrapped keeps the granularity reported by the source.
func TestLoaderFetchErrorNotRewrapped(t *testing.T) {
	srcErr := &schema.FetchError{Granularity: schema.WeekGranularity, Err: errors.New("timeout")}
	src := &contract.MockBucketSource{}
	src.On("FetchCommitBuckets", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(schema.BucketsResult{}, srcErr)

	_, _, err := NewLoader(src).Load(context.Background(), dayRequest)
	assert.Same(t, srcErr, err)
}

// TestLoaderStaleGeneration checks that only the latest generation moves the state.
func TestLoaderStaleGeneration(t *testing.T) {
	src := &contract.MockBucketSource{}
	src.On("FetchCommitBuckets", mock.Anything, schema.WeekGranularity, mock.Anything, mock.Anything, mock.Anything).
		Return(schema.BucketsResult{}, errors.New("boom"))
	src.On("FetchCommitBuckets", mock.Anything, schema.DayGranularity, mock.Anything, mock.Anything, mock.Anything).
		Return(resultOf(fourDays(), 3), nil)

	loader := NewLoader(src)
	older := loader.Begin()
	newer := loader.Begin()
	assert.False(t, loader.IsCurrent(older))
	assert.True(t, loader.IsCurrent(newer))
	assert.Equal(t, newer, loader.Latest())

	_, err := loader.Fetch(context.Background(), older, FetchRequest{Granularity: schema.WeekGranularity})
	require.Error(t, err)
	state, stateErr := loader.State()
	assert.Equal(t, schema.LoadingState, state)
	assert.NoError(t, stateErr)

	_, err = loader.Fetch(context.Background(), newer, dayRequest)
	require.NoError(t, err)
	state, _ = loader.State()
	assert.Equal(t, schema.ReadyState, state)
}

func TestRequestFromConfig(t *testing.T) {
	cfg := &contract.Config{
		Granularity: schema.WeekGranularity,
		StartTime:   day(1),
		EndTime:     day(20),
		Limit:       5,
	}
	assert.Equal(t, FetchRequest{
		Granularity: schema.WeekGranularity,
		From:        day(1),
		To:          day(20),
		Limit:       5,
	}, RequestFromConfig(cfg))
}
