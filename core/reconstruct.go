package core

import (
	"time"

	"github.com/starscope/starscope/schema"
)

// Reconstruct builds the weekly star-history series for a snapshot,
// relative to an explicit reference instant. The same snapshot and
// instant always produce the same series.
//
// The exact path replays enumerated stargazer events. It is used only
// when the enumeration is complete and the repository is small enough
// that completeness is plausible. Everything else goes through the
// estimation path, whose only exact anchor is the final point.
func Reconstruct(snap *schema.RepoSnapshot, asOf time.Time) *schema.HistoryResult {
	return reconstructWith(snap, asOf, newHeuristicEstimator())
}

func reconstructWith(snap *schema.RepoSnapshot, asOf time.Time, est Estimator) *schema.HistoryResult {
	asOf = asOf.UTC()
	grid := weekGrid(snap.CreatedAt, asOf)

	result := &schema.HistoryResult{
		Identifier: snap.Identifier,
		Stars:      snap.Stars,
		CreatedAt:  snap.CreatedAt.UTC(),
		AsOf:       asOf,
	}

	switch {
	case snap.Stars == 0:
		result.Method = schema.MethodExact
		result.Points = flatSeries(grid, asOf, 0)

	case canReconstructExactly(snap):
		result.Method = schema.MethodExact
		result.Points = exactSeries(snap, grid, asOf)

	default:
		result.Method = schema.MethodEstimated
		signals := collectSignals(grid, snap.ActivityEvents, asOf)
		candidates := est.Estimate(len(grid), signals, snap.Stars)
		result.Points = constrainSeries(candidates, grid, asOf, snap.Stars)
	}

	return result
}

// canReconstructExactly reports whether the stargazer enumeration can be
// trusted as the full timeline.
func canReconstructExactly(snap *schema.RepoSnapshot) bool {
	return len(snap.StargazerEvents) > 0 &&
		!snap.StargazersTruncated &&
		snap.Stars <= schema.ExactPathStarCutoff
}

// exactSeries folds stargazer events into cumulative weekly counts.
// Events after the reference instant are ignored.
func exactSeries(snap *schema.RepoSnapshot, grid []weekKey, asOf time.Time) []schema.StarHistoryPoint {
	perWeek := make([]int, len(grid))
	idx := gridIndex(grid)

	for _, ev := range snap.StargazerEvents {
		if ev.StarredAt.After(asOf) {
			continue
		}
		w := weekOf(ev.StarredAt)
		if i, ok := idx[w]; ok {
			perWeek[i]++
		} else if ev.StarredAt.Before(grid[0].start()) {
			// Stars recorded before the creation week land in the first
			// bucket rather than being lost.
			perWeek[0]++
		} else {
			// A star exactly at the reference instant belongs to the
			// final bucket, whose point pins to that instant.
			perWeek[len(grid)-1]++
		}
	}

	points := make([]schema.StarHistoryPoint, len(grid))
	running := 0
	for i, w := range grid {
		running += perWeek[i]
		points[i] = schema.NewHistoryPoint(pointInstant(i, len(grid), w, asOf), running)
	}
	return points
}

// constrainSeries turns raw estimate candidates into a valid series:
// weakly increasing, never above the known total, exact at the final
// point, and without implausible cliffs.
func constrainSeries(candidates []float64, grid []weekKey, asOf time.Time, totalStars int) []schema.StarHistoryPoint {
	n := len(grid)
	values := make([]int, n)

	// Forward walk: running max, then ceiling clamp.
	runningMax := 0.0
	for i, c := range candidates {
		if c > runningMax {
			runningMax = c
		}
		v := int(runningMax)
		if v > totalStars {
			v = totalStars
		}
		values[i] = v
	}

	// The final point is the one value we actually know.
	values[n-1] = totalStars

	// Backward smoothing: a predecessor above its successor is an
	// artifact of clamping, so pull it just below. One pass suffices and
	// re-running it changes nothing.
	for i := n - 2; i >= 0; i-- {
		if values[i] > values[i+1] {
			values[i] = int(0.95 * float64(values[i+1]))
		}
	}

	// A starred repository never shows an empty week.
	if totalStars >= 1 {
		for i := range values {
			if values[i] < 1 {
				values[i] = 1
			}
		}
	}

	points := make([]schema.StarHistoryPoint, n)
	for i, w := range grid {
		points[i] = schema.NewHistoryPoint(pointInstant(i, n, w, asOf), values[i])
	}
	return points
}

// flatSeries produces a constant series over the grid.
func flatSeries(grid []weekKey, asOf time.Time, stars int) []schema.StarHistoryPoint {
	points := make([]schema.StarHistoryPoint, len(grid))
	for i, w := range grid {
		points[i] = schema.NewHistoryPoint(pointInstant(i, len(grid), w, asOf), stars)
	}
	return points
}

// pointInstant picks the instant a grid point represents: the bucket
// start, except the final point which pins to the reference instant.
func pointInstant(i, n int, w weekKey, asOf time.Time) time.Time {
	if i == n-1 {
		return asOf
	}
	return w.start()
}
