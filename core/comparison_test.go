package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starscope/starscope/schema"
)

func TestDetermineOutcome(t *testing.T) {
	tests := []struct {
		name     string
		first    float64
		second   float64
		expected schema.ComparisonOutcome
	}{
		{
			name:     "clear first win",
			first:    200,
			second:   100,
			expected: schema.OutcomeFirst,
		},
		{
			name:     "clear second win",
			first:    100,
			second:   200,
			expected: schema.OutcomeSecond,
		},
		{
			name:     "equal values tie",
			first:    100,
			second:   100,
			expected: schema.OutcomeTie,
		},
		{
			name:     "inside the band is a tie",
			first:    109,
			second:   100,
			expected: schema.OutcomeTie,
		},
		{
			name:     "exactly at the band is a tie",
			first:    110,
			second:   100,
			expected: schema.OutcomeTie,
		},
		{
			name:     "just past the band wins",
			first:    111,
			second:   100,
			expected: schema.OutcomeFirst,
		},
		{
			name:     "both zero tie",
			first:    0,
			second:   0,
			expected: schema.OutcomeTie,
		},
		{
			name:     "anything beats zero",
			first:    0.5,
			second:   0,
			expected: schema.OutcomeFirst,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, determineOutcome(tt.first, tt.second))
		})
	}
}

func TestCompareMetrics(t *testing.T) {
	first := schema.RepoMetrics{
		Identifier:           "golang/go",
		Stars:                1200,
		StarsPerDay:          4.0,
		AnnualizedGrowthRate: 1000,
		VelocityScore:        80,
		ConsistencyScore:     60,
		MomentumScore:        50,
	}
	second := schema.RepoMetrics{
		Identifier:           "rust-lang/rust",
		Stars:                800,
		StarsPerDay:          3.9,
		AnnualizedGrowthRate: 950,
		VelocityScore:        40,
		ConsistencyScore:     58,
		MomentumScore:        90,
	}

	result := CompareMetrics(first, second)

	assert.Equal(t, "golang/go", result.FirstIdentifier)
	assert.Equal(t, "rust-lang/rust", result.SecondIdentifier)
	require.Len(t, result.Dimensions, 6)

	byName := make(map[string]schema.ComparisonDimension, len(result.Dimensions))
	for _, d := range result.Dimensions {
		byName[d.Name] = d
	}

	assert.Equal(t, schema.OutcomeFirst, byName["stars"].Outcome)
	assert.Equal(t, schema.OutcomeTie, byName["stars_per_day"].Outcome)   // inside the band
	assert.Equal(t, schema.OutcomeTie, byName["annualized_growth_rate"].Outcome)
	assert.Equal(t, schema.OutcomeFirst, byName["velocity_score"].Outcome)
	assert.Equal(t, schema.OutcomeTie, byName["consistency_score"].Outcome)
	assert.Equal(t, schema.OutcomeSecond, byName["momentum_score"].Outcome)

	// The overall verdict follows daily growth rate, not dimension count:
	// stars per day is inside the band, so the verdict is a tie even
	// though the first repository wins more dimensions.
	assert.Equal(t, schema.OutcomeTie, result.Overall)
}

func TestCompareMetricsOverallWinner(t *testing.T) {
	first := schema.RepoMetrics{Identifier: "a/a", StarsPerDay: 10}
	second := schema.RepoMetrics{Identifier: "b/b", StarsPerDay: 2}

	result := CompareMetrics(first, second)
	assert.Equal(t, schema.OutcomeFirst, result.Overall)

	flipped := CompareMetrics(second, first)
	assert.Equal(t, schema.OutcomeSecond, flipped.Overall)
}
