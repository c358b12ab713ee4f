package core

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/internal/ghclient"
	"github.com/starscope/starscope/internal/iocache"
	"github.com/starscope/starscope/schema"
)

func cachingTestConfig() *contract.Config {
	return &contract.Config{
		Identifiers: []string{"golang/go"},
		AsOf:        time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC),
		MaxPages:    40,
	}
}

func cachingTestSnapshot() *schema.RepoSnapshot {
	return &schema.RepoSnapshot{
		Identifier: "golang/go",
		CreatedAt:  time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		Stars:      42,
	}
}

func TestCachedFetchSnapshotNilStore(t *testing.T) {
	cfg := cachingTestConfig()
	snap := cachingTestSnapshot()

	provider := &ghclient.MockProvider{}
	provider.On("FetchSnapshot", mock.Anything, "golang/go").Return(snap, nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(nil)

	got, err := cachedFetchSnapshot(context.Background(), cfg, provider, mgr, "golang/go")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	provider.AssertExpectations(t)
}

func TestCachedFetchSnapshotHit(t *testing.T) {
	cfg := cachingTestConfig()
	snap := cachingTestSnapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return(data, currentCacheVersion, time.Now().Unix(), nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(store)

	// A hit must not reach the provider: no expectations registered.
	provider := &ghclient.MockProvider{}

	got, err := cachedFetchSnapshot(context.Background(), cfg, provider, mgr, "golang/go")
	require.NoError(t, err)
	assert.Equal(t, snap.Stars, got.Stars)
	assert.Equal(t, snap.Identifier, got.Identifier)
	provider.AssertNotCalled(t, "FetchSnapshot", mock.Anything, mock.Anything)
}

func TestCachedFetchSnapshotMissStoresResult(t *testing.T) {
	cfg := cachingTestConfig()
	snap := cachingTestSnapshot()

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte(nil), 0, int64(0), assert.AnError)
	store.On("Set", mock.Anything, mock.Anything, currentCacheVersion, mock.Anything).Return(nil)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(store)

	provider := &ghclient.MockProvider{}
	provider.On("FetchSnapshot", mock.Anything, "golang/go").Return(snap, nil)

	got, err := cachedFetchSnapshot(context.Background(), cfg, provider, mgr, "golang/go")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
	store.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestCheckCacheHitRejectsStaleAndMismatched(t *testing.T) {
	snap := cachingTestSnapshot()
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	tests := []struct {
		name      string
		data      []byte
		version   int
		timestamp int64
	}{
		{
			name:      "version mismatch",
			data:      data,
			version:   currentCacheVersion + 1,
			timestamp: time.Now().Unix(),
		},
		{
			name:      "entry older than TTL",
			data:      data,
			version:   currentCacheVersion,
			timestamp: time.Now().Add(-snapshotTTL - time.Hour).Unix(),
		},
		{
			name:      "corrupt payload",
			data:      []byte("{not json"),
			version:   currentCacheVersion,
			timestamp: time.Now().Unix(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &iocache.MockCacheStore{}
			store.On("Get", mock.Anything).Return(tt.data, tt.version, tt.timestamp, nil)
			assert.Nil(t, checkCacheHit(store, "some-key"))
		})
	}
}

func TestCachedFetchSnapshotSetFailureIsNotFatal(t *testing.T) {
	cfg := cachingTestConfig()
	snap := cachingTestSnapshot()

	store := &iocache.MockCacheStore{}
	store.On("Get", mock.Anything).Return([]byte(nil), 0, int64(0), assert.AnError)
	store.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetSnapshotStore").Return(store)

	provider := &ghclient.MockProvider{}
	provider.On("FetchSnapshot", mock.Anything, "golang/go").Return(snap, nil)

	got, err := cachedFetchSnapshot(context.Background(), cfg, provider, mgr, "golang/go")
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestGenerateCacheKey(t *testing.T) {
	base := cachingTestConfig()

	t.Run("stable within a day", func(t *testing.T) {
		morning := base.Clone()
		morning.AsOf = time.Date(2024, 3, 15, 1, 0, 0, 0, time.UTC)
		evening := base.Clone()
		evening.AsOf = time.Date(2024, 3, 15, 23, 0, 0, 0, time.UTC)

		assert.Equal(t, generateCacheKey(morning, "golang/go"), generateCacheKey(evening, "golang/go"))
	})

	t.Run("differs across days", func(t *testing.T) {
		nextDay := base.Clone()
		nextDay.AsOf = base.AsOf.Add(24 * time.Hour)
		assert.NotEqual(t, generateCacheKey(base, "golang/go"), generateCacheKey(nextDay, "golang/go"))
	})

	t.Run("differs per identifier", func(t *testing.T) {
		assert.NotEqual(t, generateCacheKey(base, "golang/go"), generateCacheKey(base, "rust-lang/rust"))
	})

	t.Run("differs per page budget", func(t *testing.T) {
		deeper := base.Clone()
		deeper.MaxPages = base.MaxPages * 2
		assert.NotEqual(t, generateCacheKey(base, "golang/go"), generateCacheKey(deeper, "golang/go"))
	})
}
