// Package core has core logic for star-history reconstruction, metrics and comparison.
package core

import (
	"time"

	"github.com/starscope/starscope/schema"
)

// weekKey identifies one seven-day bucket: the calendar year plus the
// zero-based count of full weeks since January 1 of that year. The last
// bucket of a year is short, which keeps keys stable across years.
type weekKey struct {
	year int
	week int
}

// weekOf maps an instant to its bucket.
func weekOf(t time.Time) weekKey {
	t = t.UTC()
	jan1 := time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	return weekKey{
		year: t.Year(),
		week: int(t.Sub(jan1) / (7 * 24 * time.Hour)),
	}
}

// start returns the first instant of the bucket.
func (w weekKey) start() time.Time {
	jan1 := time.Date(w.year, 1, 1, 0, 0, 0, 0, time.UTC)
	return jan1.Add(time.Duration(w.week) * 7 * 24 * time.Hour)
}

// weekGrid returns every bucket from the creation instant through the
// reference instant, in order. Iterating day by day and deduplicating
// handles the short year-end bucket without skips or repeats. The
// reference instant's bucket is included only when the instant lies
// strictly inside it: an instant falling exactly on a bucket start
// closes the previous bucket rather than opening an empty one, so a
// 70-day span yields 10 buckets, not 11.
func weekGrid(createdAt, asOf time.Time) []weekKey {
	createdAt = createdAt.UTC()
	asOf = asOf.UTC()
	if asOf.Before(createdAt) {
		asOf = createdAt
	}

	var grid []weekKey
	last := weekKey{year: -1}
	for t := createdAt; t.Before(asOf); t = t.AddDate(0, 0, 1) {
		if w := weekOf(t); w != last {
			grid = append(grid, w)
			last = w
		}
	}
	if w := weekOf(asOf); len(grid) == 0 || (w != last && asOf.After(w.start())) {
		grid = append(grid, w)
	}
	return grid
}

// gridIndex returns a lookup from bucket to its position in the grid.
func gridIndex(grid []weekKey) map[weekKey]int {
	idx := make(map[weekKey]int, len(grid))
	for i, w := range grid {
		idx[w] = i
	}
	return idx
}

// weekSignals holds per-bucket activity evidence aligned with a grid.
type weekSignals struct {
	// Commits counts commit events per bucket.
	Commits []int

	// Releases marks buckets containing at least one published release.
	Releases []bool
}

// collectSignals buckets a snapshot's activity events onto the grid.
// Events outside the grid's span are dropped.
func collectSignals(grid []weekKey, events []schema.ActivityEvent, asOf time.Time) weekSignals {
	signals := weekSignals{
		Commits:  make([]int, len(grid)),
		Releases: make([]bool, len(grid)),
	}
	idx := gridIndex(grid)

	for _, ev := range events {
		if ev.Timestamp.After(asOf) {
			continue
		}
		i, ok := idx[weekOf(ev.Timestamp)]
		if !ok {
			continue
		}
		switch ev.Kind {
		case schema.EventCommit:
			signals.Commits[i]++
		case schema.EventRelease:
			signals.Releases[i] = true
		}
	}
	return signals
}
