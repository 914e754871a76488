// Package iocache is for caching computed aggregates.
package iocache

import (
	"sync"

	"github.com/huangsam/timeline/internal/contract"
)

// CacheStoreManager manages the CacheStore instances.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	aggregate    contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager wraps an existing store, mainly for tests and embedding.
func NewCacheStoreManager(aggregate contract.CacheStore) *CacheStoreManager {
	return &CacheStoreManager{aggregate: aggregate}
}

// GetAggregateStore returns the aggregate CacheStore.
func (mgr *CacheStoreManager) GetAggregateStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.aggregate
}
