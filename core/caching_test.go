package core

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/timeline/core/agg"
	"github.com/huangsam/timeline/core/geom"
	"github.com/huangsam/timeline/internal/iocache"
	"github.com/huangsam/timeline/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *agg.Store {
	t.Helper()
	store, err := agg.NewStore(fourDays(), schema.DayGranularity)
	require.NoError(t, err)
	return store
}

// cachedPayload builds a cache value whose scores differ from the computed ones,
// so that a hit is distinguishable from a recomputation.
func cachedPayload(t *testing.T, n int) []byte {
	t.Helper()
	cached := cachedSeries{
		Commits:     make([]int, n),
		FileChanges: make([]int, n),
		Scores:      make([]float64, n),
		MaxCommits:  99,
	}
	for i := range n {
		cached.Scores[i] = 42
	}
	data, err := json.Marshal(cached)
	require.NoError(t, err)
	return encodePayload(data)
}

func TestEncodePayload(t *testing.T) {
	t.Run("small values stay raw", func(t *testing.T) {
		value := encodePayload([]byte(`{"a":1}`))
		assert.Equal(t, rawEncoding, value[0])
		out, err := decodePayload(value)
		require.NoError(t, err)
		assert.Equal(t, `{"a":1}`, string(out))
	})

	t.Run("repetitive values compress", func(t *testing.T) {
		data := bytes.Repeat([]byte("commit,"), 1024)
		value := encodePayload(data)
		assert.Equal(t, lz4Encoding, value[0])
		assert.Less(t, len(value), len(data))
		out, err := decodePayload(value)
		require.NoError(t, err)
		assert.Equal(t, data, out)
	})
}

func TestDecodePayloadErrors(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		want  string
	}{
		{"too short", []byte{0, 1}, "too short"},
		{"unknown encoding", []byte{7, 0, 0, 0, 0}, "unknown cache payload encoding"},
		{"size mismatch", []byte{0, 3, 0, 0, 0, 'a'}, "size mismatch"},
		{"oversized lz4 header", []byte{1, 0xff, 0xff, 0xff, 0xff, 'a'}, "out of bounds"},
		{"lz4 ratio too high", []byte{1, 0x00, 0x10, 0x00, 0x00, 'a', 'b'}, "out of bounds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodePayload(tt.value)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestGenerateCacheKey(t *testing.T) {
	first := generateCacheKey(testStore(t))
	assert.Len(t, first, 64)
	assert.Equal(t, first, generateCacheKey(testStore(t)))

	other, err := agg.NewStore(fourDays()[:3], schema.DayGranularity)
	require.NoError(t, err)
	assert.NotEqual(t, first, generateCacheKey(other))
}

func TestCachedSeriesWithoutCache(t *testing.T) {
	store := testStore(t)
	assert.Equal(t, geom.NewSeries(store.Buckets()), CachedSeries(store, nil))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(nil)
	assert.Equal(t, geom.NewSeries(store.Buckets()), CachedSeries(store, mgr))
	mgr.AssertExpectations(t)
}

func TestCachedSeriesMissStores(t *testing.T) {
	store := testStore(t)
	key := generateCacheKey(store)

	cache := &iocache.MockCacheStore{}
	cache.On("Get", key).Return(nil, 0, int64(0), iocache.ErrCacheMiss)
	var stored []byte
	cache.On("Set", key, mock.Anything, currentCacheVersion, mock.AnythingOfType("int64")).
		Run(func(args mock.Arguments) { stored = args.Get(1).([]byte) }).
		Return(nil).Once()
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(cache)

	series := CachedSeries(store, mgr)
	assert.Equal(t, geom.NewSeries(store.Buckets()), series)
	cache.AssertExpectations(t)

	raw, err := decodePayload(stored)
	require.NoError(t, err)
	var cached cachedSeries
	require.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, []int{10, 30, 60, 100}, cached.Commits)
	assert.Equal(t, 40, cached.MaxCommits)
}

func TestCachedSeriesHit(t *testing.T) {
	store := testStore(t)
	key := generateCacheKey(store)

	cache := &iocache.MockCacheStore{}
	cache.On("Get", key).Return(cachedPayload(t, 4), currentCacheVersion, time.Now().Unix(), nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetAggregateStore").Return(cache)

	series := CachedSeries(store, mgr)
	assert.Equal(t, []float64{42, 42, 42, 42}, series.Scores)
	assert.Equal(t, 99, series.MaxCommits)
	assert.Equal(t, store.Buckets(), series.Buckets)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestCachedSeriesRejectsEntries covers the entries that must be recomputed.
func TestCachedSeriesRejectsEntries(t *testing.T) {
	now := time.Now().Unix()
	tests := []struct {
		name    string
		value   func(t *testing.T) []byte
		version int
		ts      int64
	}{
		{"expired", func(t *testing.T) []byte { return cachedPayload(t, 4) }, currentCacheVersion, now - int64(8*24*time.Hour/time.Second)},
		{"old version", func(t *testing.T) []byte { return cachedPayload(t, 4) }, currentCacheVersion + 1, now},
		{"length mismatch", func(t *testing.T) []byte { return cachedPayload(t, 3) }, currentCacheVersion, now},
		{"corrupt payload", func(*testing.T) []byte { return []byte{9, 9} }, currentCacheVersion, now},
		{"bad json", func(*testing.T) []byte { return encodePayload([]byte("{")) }, currentCacheVersion, now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testStore(t)
			cache := &iocache.MockCacheStore{}
			cache.On("Get", mock.Anything).Return(tt.value(t), tt.version, tt.ts, nil)
			cache.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil).Once()
			mgr := &iocache.MockCacheManager{}
			mgr.On("GetAggregateStore").Return(cache)

			series := CachedSeries(store, mgr)
			assert.Equal(t, geom.NewSeries(store.Buckets()), series)
			cache.AssertExpectations(t)
		})
	}
}
