package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
)

// currentCacheVersion defines the version of the snapshot cache schema
const currentCacheVersion = 1

// snapshotTTL bounds how long a cached snapshot is trusted. Star totals
// move fast, so stale entries are worse than a re-fetch.
const snapshotTTL = 24 * time.Hour

// cachedFetchSnapshot fetches a snapshot through the cache when one is
// configured, falling back to a direct provider call otherwise.
func cachedFetchSnapshot(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager, identifier string) (*schema.RepoSnapshot, error) {
	store := mgr.GetSnapshotStore()
	if store == nil {
		// Fallback to direct fetch
		return provider.FetchSnapshot(ctx, identifier)
	}

	key := generateCacheKey(cfg, identifier)

	// Check for cache hit
	if snap := checkCacheHit(store, key); snap != nil {
		return snap, nil
	}

	// Cache miss: fetch and store
	return fetchAndStore(ctx, provider, store, key, identifier)
}

// checkCacheHit attempts to retrieve and validate a cached snapshot
func checkCacheHit(store contract.CacheStore, key string) *schema.RepoSnapshot {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version == currentCacheVersion {
		entryTimestamp := time.Unix(ts, 0)
		if time.Since(entryTimestamp) <= snapshotTTL {
			var snap schema.RepoSnapshot
			if err := json.Unmarshal(data, &snap); err == nil {
				return &snap // Cache hit
			}
		}
	}

	return nil // Cache miss (stale or version mismatch)
}

// fetchAndStore fetches the snapshot and stores it in cache
func fetchAndStore(ctx context.Context, provider contract.Provider, store contract.CacheStore, key, identifier string) (*schema.RepoSnapshot, error) {
	snap, err := provider.FetchSnapshot(ctx, identifier)
	if err != nil {
		return nil, err
	}

	// Store in cache
	if data, err := json.Marshal(snap); err == nil {
		_ = store.Set(key, data, currentCacheVersion, time.Now().Unix())
	}

	return snap, nil
}

// generateCacheKey creates a unique key based on fetch parameters. The
// reference instant is truncated to the day so repeated invocations
// within a day share entries.
func generateCacheKey(cfg *contract.Config, identifier string) string {
	asOfDay := cfg.AsOf.UTC().Truncate(24 * time.Hour)

	key := fmt.Sprintf("%s:%d:%d",
		identifier,
		asOfDay.Unix(),
		cfg.MaxPages,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
