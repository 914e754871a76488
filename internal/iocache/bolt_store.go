package iocache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/huangsam/timeline/internal/contract"
	"github.com/huangsam/timeline/schema"
	bolt "go.etcd.io/bbolt"
)

// boltHeaderSize is the version and timestamp prefix of every bolt value.
const boltHeaderSize = 12

// BoltStore keeps cache entries in a single bbolt bucket. Each value is the
// big-endian version (4 bytes) and timestamp (8 bytes) followed by the payload.
type BoltStore struct {
	db     *bolt.DB
	bucket []byte
	path   string
}

var _ contract.CacheStore = &BoltStore{} // Compile-time check

// NewBoltStore opens (or creates) the bolt file at path. An empty path uses the default location.
func NewBoltStore(bucket, path string) (*BoltStore, error) {
	if err := validateTableName(bucket); err != nil {
		return nil, err
	}
	if path == "" {
		path = contract.GetBoltFilePath()
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt cache at %q: %w. Ensure the file is not locked by another process", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	return &BoltStore{db: db, bucket: []byte(bucket), path: path}, nil
}

// Get retrieves a value by key from the store.
func (bs *BoltStore) Get(key string) ([]byte, int, int64, error) {
	var value []byte
	var version int
	var ts int64
	err := bs.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bs.bucket).Get([]byte(key))
		if raw == nil {
			return ErrCacheMiss
		}
		if len(raw) < boltHeaderSize {
			return errors.New("corrupt bolt cache entry")
		}
		version = int(binary.BigEndian.Uint32(raw[0:4]))
		ts = int64(binary.BigEndian.Uint64(raw[4:12]))
		// Values are only valid inside the transaction
		value = append([]byte(nil), raw[boltHeaderSize:]...)
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (bs *BoltStore) Set(key string, value []byte, version int, timestamp int64) error {
	if version < 0 || version > math.MaxUint32 {
		return fmt.Errorf("cache version %d out of range", version)
	}
	raw := make([]byte, boltHeaderSize+len(value))
	binary.BigEndian.PutUint32(raw[0:4], uint32(version))
	binary.BigEndian.PutUint64(raw[4:12], uint64(timestamp))
	copy(raw[boltHeaderSize:], value)
	return bs.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bs.bucket).Put([]byte(key), raw)
	})
}

// Clear removes every entry but keeps the bucket.
func (bs *BoltStore) Clear() error {
	return bs.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bs.bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bs.bucket)
		return err
	})
}

// GetStatus returns status information about the cache store.
func (bs *BoltStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{Backend: string(schema.BoltBackend), Connected: true}
	var oldest, last int64 = math.MaxInt64, 0
	err := bs.db.View(func(tx *bolt.Tx) error {
		status.TableSizeBytes = tx.Size()
		return tx.Bucket(bs.bucket).ForEach(func(_, v []byte) error {
			if len(v) < boltHeaderSize {
				return nil
			}
			status.TotalEntries++
			ts := int64(binary.BigEndian.Uint64(v[4:12]))
			oldest = min(oldest, ts)
			last = max(last, ts)
			return nil
		})
	})
	if err != nil {
		return status, fmt.Errorf("failed to scan bolt cache: %w", err)
	}
	if status.TotalEntries > 0 {
		status.LastEntryTime = time.Unix(last, 0)
		status.OldestEntryTime = time.Unix(oldest, 0)
	}
	return status, nil
}

// Close closes the bolt file.
func (bs *BoltStore) Close() error {
	return bs.db.Close()
}
