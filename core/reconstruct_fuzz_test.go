package core

import (
	"testing"
	"time"

	"github.com/starscope/starscope/schema"
)

// syntheticSnapshot spreads stargazer and commit events evenly across the
// repository's lifetime. A non-truncated enumeration lists one event per
// star, matching what the provider guarantees.
func syntheticSnapshot(stars, commits, spanDays int, truncated bool) *schema.RepoSnapshot {
	created := time.Date(2020, 6, 1, 0, 0, 0, 0, time.UTC)
	span := time.Duration(spanDays) * 24 * time.Hour

	snap := &schema.RepoSnapshot{
		Identifier:          "fuzz/target",
		CreatedAt:           created,
		Stars:               stars,
		StargazersTruncated: truncated,
	}

	stargazers := stars
	if truncated && stargazers > 100 {
		stargazers = 100
	}
	for i := 0; i < stargazers; i++ {
		at := created.Add(span * time.Duration(i) / time.Duration(stargazers+1))
		snap.StargazerEvents = append(snap.StargazerEvents, schema.StargazerEvent{StarredAt: at})
	}
	for i := 0; i < commits; i++ {
		at := created.Add(span * time.Duration(i) / time.Duration(commits+1))
		snap.ActivityEvents = append(snap.ActivityEvents, schema.ActivityEvent{
			Timestamp: at,
			Kind:      schema.EventCommit,
		})
	}
	return snap
}

// FuzzReconstruct fuzzes the reconstruction entry point with synthetic
// snapshots and checks the series invariants hold for every input shape.
func FuzzReconstruct(f *testing.F) {
	seeds := []struct {
		stars     int
		commits   int
		spanDays  int
		truncated bool
	}{
		{stars: 5, commits: 5, spanDays: 20, truncated: false},
		{stars: 0, commits: 0, spanDays: 7, truncated: false},
		{stars: 15000, commits: 100, spanDays: 365, truncated: true},
		{stars: 1, commits: 0, spanDays: 0, truncated: false}, // same-day repo
	}
	for _, seed := range seeds {
		f.Add(seed.stars, seed.commits, seed.spanDays, seed.truncated)
	}

	f.Fuzz(func(t *testing.T, stars, commits, spanDays int, truncated bool) {
		// Keep inputs inside the domain the provider can produce.
		if stars < 0 || commits < 0 || spanDays < 0 {
			t.Skip()
		}
		stars %= 20000
		commits %= 2000
		spanDays %= 3650

		snap := syntheticSnapshot(stars, commits, spanDays, truncated)
		asOf := snap.CreatedAt.AddDate(0, 0, spanDays)

		result := Reconstruct(snap, asOf)

		if len(result.Points) == 0 {
			t.Fatal("series must never be empty")
		}
		for i, p := range result.Points {
			if p.Stars > result.Stars {
				t.Fatalf("point %d exceeds total: %d > %d", i, p.Stars, result.Stars)
			}
			if i > 0 {
				if p.Stars < result.Points[i-1].Stars {
					t.Fatalf("point %d decreases: %d < %d", i, p.Stars, result.Points[i-1].Stars)
				}
				if p.TimestampMillis <= result.Points[i-1].TimestampMillis {
					t.Fatalf("point %d out of order", i)
				}
			}
		}
		if last := result.Points[len(result.Points)-1]; last.Stars != result.Stars {
			t.Fatalf("final point %d does not match total %d", last.Stars, result.Stars)
		}

		// Determinism: same snapshot and instant, same series.
		again := Reconstruct(snap, asOf)
		if len(again.Points) != len(result.Points) {
			t.Fatal("non-deterministic point count")
		}
		for i := range again.Points {
			if again.Points[i].Stars != result.Points[i].Stars {
				t.Fatalf("non-deterministic value at point %d", i)
			}
		}
	})
}
