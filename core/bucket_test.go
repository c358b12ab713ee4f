package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starscope/starscope/schema"
)

func TestWeekOf(t *testing.T) {
	tests := []struct {
		name     string
		instant  time.Time
		expected weekKey
	}{
		{
			name:     "january first",
			instant:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: weekKey{year: 2024, week: 0},
		},
		{
			name:     "end of first week",
			instant:  time.Date(2024, 1, 7, 23, 59, 59, 0, time.UTC),
			expected: weekKey{year: 2024, week: 0},
		},
		{
			name:     "start of second week",
			instant:  time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			expected: weekKey{year: 2024, week: 1},
		},
		{
			name:     "short year-end bucket",
			instant:  time.Date(2023, 12, 31, 12, 0, 0, 0, time.UTC),
			expected: weekKey{year: 2023, week: 52},
		},
		{
			name:     "non-UTC instant normalized",
			instant:  time.Date(2024, 1, 8, 1, 0, 0, 0, time.FixedZone("east", 2*3600)),
			expected: weekKey{year: 2024, week: 0}, // 23:00 UTC Jan 7
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, weekOf(tt.instant))
		})
	}
}

func TestWeekStartRoundTrip(t *testing.T) {
	instants := []time.Time{
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC),
	}
	for _, instant := range instants {
		w := weekOf(instant)
		start := w.start()
		assert.Equal(t, w, weekOf(start))
		assert.False(t, start.After(instant))
	}
}

func TestWeekGrid(t *testing.T) {
	t.Run("three full weeks", func(t *testing.T) {
		created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		asOf := created.AddDate(0, 0, 20)

		grid := weekGrid(created, asOf)
		require.Len(t, grid, 3)
		assert.Equal(t, weekKey{year: 2024, week: 0}, grid[0])
		assert.Equal(t, weekKey{year: 2024, week: 2}, grid[2])
	})

	t.Run("crosses the year boundary without gaps", func(t *testing.T) {
		created := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
		asOf := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

		grid := weekGrid(created, asOf)
		require.NotEmpty(t, grid)

		// Buckets are unique and strictly ordered in time.
		for i := 1; i < len(grid); i++ {
			assert.True(t, grid[i-1].start().Before(grid[i].start()), "grid out of order at %d", i)
		}
		assert.Equal(t, 2023, grid[0].year)
		assert.Equal(t, 2024, grid[len(grid)-1].year)
	})

	t.Run("asOf before creation clamps to a single bucket", func(t *testing.T) {
		created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		asOf := created.AddDate(0, 0, -30)

		grid := weekGrid(created, asOf)
		require.Len(t, grid, 1)
		assert.Equal(t, weekOf(created), grid[0])
	})

	t.Run("same-day repository", func(t *testing.T) {
		created := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
		grid := weekGrid(created, created)
		assert.Len(t, grid, 1)
	})

	t.Run("asOf on a bucket start opens no empty bucket", func(t *testing.T) {
		created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

		// 70 days is exactly ten weeks: the reference instant coincides
		// with the eleventh bucket's start, which stays excluded.
		grid := weekGrid(created, created.AddDate(0, 0, 70))
		require.Len(t, grid, 10)
		assert.Equal(t, weekKey{year: 2023, week: 9}, grid[9])

		// One week exactly: a single bucket.
		grid = weekGrid(created, created.AddDate(0, 0, 7))
		assert.Len(t, grid, 1)
	})

	t.Run("asOf inside a later bucket includes it", func(t *testing.T) {
		created := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
		asOf := created.AddDate(0, 0, 70).Add(time.Hour)

		grid := weekGrid(created, asOf)
		require.Len(t, grid, 11)
		assert.Equal(t, weekKey{year: 2023, week: 10}, grid[10])
	})
}

func TestCollectSignals(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := created.AddDate(0, 0, 20)
	grid := weekGrid(created, asOf)
	require.Len(t, grid, 3)

	events := []schema.ActivityEvent{
		{Timestamp: created.AddDate(0, 0, 1), Kind: schema.EventCommit},
		{Timestamp: created.AddDate(0, 0, 2), Kind: schema.EventCommit},
		{Timestamp: created.AddDate(0, 0, 8), Kind: schema.EventRelease},
		{Timestamp: created.AddDate(0, 0, 15), Kind: schema.EventCommit},
		// After the reference instant: dropped.
		{Timestamp: asOf.AddDate(0, 0, 3), Kind: schema.EventCommit},
		// Before creation: outside the grid, dropped.
		{Timestamp: created.AddDate(0, 0, -30), Kind: schema.EventCommit},
	}

	signals := collectSignals(grid, events, asOf)
	assert.Equal(t, []int{2, 0, 1}, signals.Commits)
	assert.Equal(t, []bool{false, true, false}, signals.Releases)
}
