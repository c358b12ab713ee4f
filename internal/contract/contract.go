// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/starscope/starscope/schema"
)

// Sentinel errors for provider failures. Callers branch on these to decide
// whether a repository failure is retryable or terminal.
var (
	// ErrRepoNotFound means the repository does not exist or is not visible
	// with the current credentials.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrRateLimited means the provider refused the request because the API
	// quota is exhausted.
	ErrRateLimited = errors.New("rate limited by provider")
)

// Provider defines the operations needed to take a snapshot of a repository.
// This allows the reconstruction logic to be tested without a live API.
type Provider interface {
	// FetchSnapshot returns the repository's identity, current star total
	// and whatever star and activity events could be enumerated.
	FetchSnapshot(ctx context.Context, identifier string) (*schema.RepoSnapshot, error)
}

// CacheManager defines the interface for managing storage backends.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetSnapshotStore() CacheStore
	GetRunStore() RunStore
}

// CacheStore defines the interface for snapshot cache storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Clear() error
	Close() error
}

// RunStore defines the interface for tracking reconstruction runs and
// persisting the series they produce.
type RunStore interface {
	// BeginRun creates a new run row and returns its unique ID
	BeginRun(identifier string, startedAt time.Time) (string, error)

	// EndRun updates the run with completion data
	EndRun(runID string, finishedAt time.Time, method schema.ReconstructionMethod, starTotal, points int) error

	// RecordPoints stores the reconstructed series points for a run
	RecordPoints(runID string, points []schema.StarHistoryPoint) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]schema.RunRecord, error)

	// ListPoints returns the persisted series for a run
	ListPoints(runID string) ([]schema.StarHistoryPoint, error)

	// GetStatus returns status information about the run store
	GetStatus() (schema.RunsStatus, error)

	// Clear removes all runs and their points
	Clear() error

	// Close closes the underlying connection
	Close() error
}
