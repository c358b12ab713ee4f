// Package iocache is for durable storage of snapshots and runs.
package iocache

import (
	"sync"

	"github.com/starscope/starscope/internal/contract"
)

// StoreManager manages the snapshot cache and run store instances.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	snapshots    contract.CacheStore
	runs         contract.RunStore
}

var _ contract.CacheManager = &StoreManager{} // Compile-time check

// GetSnapshotStore returns the snapshot CacheStore.
func (mgr *StoreManager) GetSnapshotStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.snapshots
}

// GetRunStore returns the RunStore.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}
