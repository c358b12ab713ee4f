package core

import (
	"context"
	"fmt"
	"time"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/internal/outwriter"
	"github.com/starscope/starscope/schema"
)

// ExecutorFunc defines the function signature for executing different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) error

// GetHistoryResults reconstructs the star history of each configured
// repository. Repositories fail independently: one broken identifier
// does not abort the rest, and an error is returned only when every
// repository failed.
func GetHistoryResults(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) ([]*schema.HistoryResult, error) {
	var results []*schema.HistoryResult
	var failures int
	for _, identifier := range cfg.Identifiers {
		result, err := reconstructOne(ctx, cfg, provider, mgr, identifier)
		if err != nil {
			contract.LogWarn(fmt.Sprintf("reconstructing %s", identifier), err)
			failures++
			continue
		}
		results = append(results, result)
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("all %d repositories failed", failures)
	}
	return results, nil
}

// GetMetricsResult derives growth metrics for a single repository.
func GetMetricsResult(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) (schema.RepoMetrics, error) {
	if len(cfg.Identifiers) != 1 {
		return schema.RepoMetrics{}, fmt.Errorf("metrics requires exactly one repository, got %d", len(cfg.Identifiers))
	}

	result, err := reconstructOne(ctx, cfg, provider, mgr, cfg.Identifiers[0])
	if err != nil {
		return schema.RepoMetrics{}, err
	}
	return ComputeMetrics(result), nil
}

// GetCompareResult reconstructs two repositories and derives the
// head-to-head verdict.
func GetCompareResult(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) (schema.ComparisonResult, error) {
	if len(cfg.Identifiers) != 2 {
		return schema.ComparisonResult{}, fmt.Errorf("compare requires exactly two repositories, got %d", len(cfg.Identifiers))
	}

	firstResult, err := reconstructOne(ctx, cfg, provider, mgr, cfg.Identifiers[0])
	if err != nil {
		return schema.ComparisonResult{}, err
	}
	secondResult, err := reconstructOne(ctx, cfg, provider, mgr, cfg.Identifiers[1])
	if err != nil {
		return schema.ComparisonResult{}, err
	}

	return CompareMetrics(ComputeMetrics(firstResult), ComputeMetrics(secondResult)), nil
}

// ExecuteHistory reconstructs the star history of each configured
// repository and prints the series. It serves as the main entry point for
// the 'history' command.
func ExecuteHistory(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) error {
	start := time.Now()

	results, err := GetHistoryResults(ctx, cfg, provider, mgr)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.PrintHistoryResults(ctx, results, cfg, duration)
}

// ExecuteMetrics derives growth metrics for a single repository and
// prints them. It serves as the main entry point for the 'metrics' command.
func ExecuteMetrics(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) error {
	start := time.Now()

	metrics, err := GetMetricsResult(ctx, cfg, provider, mgr)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.PrintMetricsResult(ctx, metrics, cfg, duration)
}

// ExecuteCompare reconstructs two repositories, derives metrics for both
// and prints the head-to-head verdict. It serves as the main entry point
// for the 'compare' command.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager) error {
	start := time.Now()

	comparison, err := GetCompareResult(ctx, cfg, provider, mgr)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.PrintComparisonResult(ctx, comparison, cfg, duration)
}

// reconstructOne fetches one snapshot (through the cache), reconstructs
// its series and tracks the run when a run store is configured.
func reconstructOne(ctx context.Context, cfg *contract.Config, provider contract.Provider, mgr contract.CacheManager, identifier string) (*schema.HistoryResult, error) {
	snap, err := cachedFetchSnapshot(ctx, cfg, provider, mgr, identifier)
	if err != nil {
		return nil, err
	}

	runStore := mgr.GetRunStore()
	var runID string
	if runStore != nil {
		if runID, err = runStore.BeginRun(identifier, time.Now().UTC()); err != nil {
			contract.LogWarn("recording run start", err)
			runID = ""
		}
	}

	result := Reconstruct(snap, cfg.AsOf)

	if runStore != nil && runID != "" {
		if err := runStore.RecordPoints(runID, result.Points); err != nil {
			contract.LogWarn("recording run points", err)
		}
		if err := runStore.EndRun(runID, time.Now().UTC(), result.Method, result.Stars, len(result.Points)); err != nil {
			contract.LogWarn("recording run end", err)
		}
	}

	return result, nil
}
