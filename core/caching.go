package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/timeline/core/agg"
	"github.com/huangsam/timeline/core/geom"
	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
	"github.com/pierrec/lz4/v4"
)

// currentCacheVersion defines the version of the cached aggregate payload
const currentCacheVersion = 1

// cacheTTL is how long a cached aggregate stays fresh.
const cacheTTL = 7 * 24 * time.Hour

// Payload encodings, stored in the first byte of a cache value.
const (
	rawEncoding byte = 0
	lz4Encoding byte = 1
)

// maxPayloadSize caps the decoded size of a cache value.
const maxPayloadSize = 64 << 20

// maxLZ4Ratio bounds how far an lz4 block can expand.
const maxLZ4Ratio = 255

// cachedSeries is the persisted form of a series. Buckets are not stored; they
// are part of the key.
type cachedSeries struct {
	Commits     []int     `json:"commits"`
	FileChanges []int     `json:"file_changes"`
	Scores      []float64 `json:"scores"`
	MaxCommits  int       `json:"max_commits"`
}

// CachedSeries returns the aggregate, scores and max commit count for a store,
// reading them from the aggregate cache when a fresh entry exists and writing
// them back on a miss. A nil manager computes directly.
func CachedSeries(store *agg.Store, mgr contract.CacheManager) geom.Series {
	buckets := store.Buckets()
	if mgr == nil {
		return geom.NewSeries(buckets)
	}
	cache := mgr.GetAggregateStore()
	if cache == nil {
		return geom.NewSeries(buckets)
	}

	key := generateCacheKey(store)
	if series, ok := checkCacheHit(cache, key, buckets); ok {
		return series
	}
	return computeAndStore(cache, key, buckets)
}

// checkCacheHit attempts to retrieve and validate a cached series
func checkCacheHit(cache contract.CacheStore, key string, buckets []schema.TimeBucket) (geom.Series, bool) {
	data, version, ts, err := cache.Get(key)
	if err != nil || version != currentCacheVersion {
		return geom.Series{}, false
	}
	if time.Since(time.Unix(ts, 0)) > cacheTTL {
		return geom.Series{}, false
	}

	raw, err := decodePayload(data)
	if err != nil {
		return geom.Series{}, false
	}
	var cached cachedSeries
	if err := json.Unmarshal(raw, &cached); err != nil {
		return geom.Series{}, false
	}
	n := len(buckets)
	if len(cached.Commits) != n || len(cached.FileChanges) != n || len(cached.Scores) != n {
		return geom.Series{}, false
	}

	series := geom.Series{Buckets: buckets, Scores: cached.Scores, MaxCommits: cached.MaxCommits}
	series.Aggregate.Commits = cached.Commits
	series.Aggregate.FileChanges = cached.FileChanges
	return series, true
}

// computeAndStore computes the series and stores it in cache
func computeAndStore(cache contract.CacheStore, key string, buckets []schema.TimeBucket) geom.Series {
	series := geom.NewSeries(buckets)
	data, err := json.Marshal(cachedSeries{
		Commits:     series.Aggregate.Commits,
		FileChanges: series.Aggregate.FileChanges,
		Scores:      series.Scores,
		MaxCommits:  series.MaxCommits,
	})
	if err == nil {
		_ = cache.Set(key, encodePayload(data), currentCacheVersion, time.Now().Unix())
	}
	return series
}

// generateCacheKey derives the key from the snapshot identity and granularity.
func generateCacheKey(store *agg.Store) string {
	key := fmt.Sprintf("%s:%s", store.Identity(), store.Granularity())
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}

// encodePayload prefixes the value with its encoding and length and compresses
// it with LZ4 when that makes it smaller.
func encodePayload(data []byte) []byte {
	header := make([]byte, 5, 5+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(header[1:], uint32(len(data)))

	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	written, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil || written == 0 || written >= len(data) {
		header[0] = rawEncoding
		return append(header, data...)
	}
	header[0] = lz4Encoding
	return append(header, compressed[:written]...)
}

// decodePayload reverses encodePayload.
func decodePayload(value []byte) ([]byte, error) {
	if len(value) < 5 {
		return nil, errors.New("cache payload too short")
	}
	size := int(binary.LittleEndian.Uint32(value[1:5]))
	body := value[5:]

	switch value[0] {
	case rawEncoding:
		if len(body) != size {
			return nil, fmt.Errorf("cache payload size mismatch: %d != %d", len(body), size)
		}
		return body, nil
	case lz4Encoding:
		if size > maxPayloadSize || size > maxLZ4Ratio*len(body) {
			return nil, fmt.Errorf("cache payload size %d out of bounds for %d compressed bytes", size, len(body))
		}
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, fmt.Errorf("decompress cache payload: %w", err)
		}
		if n != size {
			return nil, fmt.Errorf("cache payload size mismatch: %d != %d", n, size)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown cache payload encoding %d", value[0])
	}
}
