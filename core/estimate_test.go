package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptySignals(weeks int) weekSignals {
	return weekSignals{
		Commits:  make([]int, weeks),
		Releases: make([]bool, weeks),
	}
}

func TestHeuristicEstimatorShape(t *testing.T) {
	est := newHeuristicEstimator()
	const weeks = 10
	const total = 1000

	candidates := est.Estimate(weeks, emptySignals(weeks), total)
	require.Len(t, candidates, weeks)

	// The first week carries the seed plus the undecayed early bonus,
	// together staying inside the 5-10% opening share.
	assert.GreaterOrEqual(t, candidates[0], 0.05*total)
	assert.LessOrEqual(t, candidates[0], 0.10*total)

	// The curve is front-loaded toward the present: the last quarter
	// gains more than the first quarter.
	earlyGain := candidates[2] - candidates[0]
	lateGain := candidates[9] - candidates[7]
	assert.Greater(t, lateGain, earlyGain)

	// The final candidate lands near the total before constraints.
	assert.InDelta(t, float64(total), candidates[weeks-1], 0.1*total)
}

func TestHeuristicEstimatorZeroWeeks(t *testing.T) {
	est := newHeuristicEstimator()
	assert.Nil(t, est.Estimate(0, weekSignals{}, 100))
}

func TestHeuristicEstimatorCommitActivity(t *testing.T) {
	est := newHeuristicEstimator()
	const weeks = 8
	const total = 1000

	quiet := est.Estimate(weeks, emptySignals(weeks), total)

	busy := emptySignals(weeks)
	busy.Commits[4] = 25 // at saturation
	boosted := est.Estimate(weeks, busy, total)

	assert.Greater(t, boosted[4], quiet[4])
	// Saturated activity yields the full 25% multiplier.
	assert.InDelta(t, quiet[4]*1.25, boosted[4], quiet[4]*0.02)

	// Commit counts beyond saturation change nothing further.
	flooded := emptySignals(weeks)
	flooded.Commits[4] = 500
	assert.InDelta(t, boosted[4], est.Estimate(weeks, flooded, total)[4], 0.001)
}

func TestHeuristicEstimatorReleaseBoost(t *testing.T) {
	est := newHeuristicEstimator()
	const weeks = 8
	const total = 1000

	quiet := est.Estimate(weeks, emptySignals(weeks), total)

	withRelease := emptySignals(weeks)
	withRelease.Releases[5] = true
	boosted := est.Estimate(weeks, withRelease, total)

	assert.InDelta(t, quiet[5]+0.03*total, boosted[5], 0.001)
	// Other weeks are untouched.
	assert.Equal(t, quiet[3], boosted[3])
}
