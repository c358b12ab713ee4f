package core

import (
	"math"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
)

// Tunable windows for metric derivation.
const (
	// momentumWindowWeeks is the recent tail compared against the
	// lifetime average for momentum.
	momentumWindowWeeks = 30

	// maxWindowWeeks caps the best-growth-window width.
	maxWindowWeeks = 30
)

// ComputeMetrics derives growth statistics from a reconstructed series.
func ComputeMetrics(result *schema.HistoryResult) schema.RepoMetrics {
	m := schema.RepoMetrics{
		Identifier: result.Identifier,
		Stars:      result.Stars,
		CreatedAt:  result.CreatedAt,
		AsOf:       result.AsOf,
	}

	m.AgeInDays = contract.AgeInDays(result.CreatedAt, result.AsOf)
	m.StarsPerDay = float64(result.Stars) / float64(m.AgeInDays)

	// Annualize against at least a tenth of a year so very young
	// repositories do not produce absurd extrapolations.
	ageYears := math.Max(float64(m.AgeInDays)/365.0, 0.1)
	m.AnnualizedGrowthRate = float64(result.Stars) / ageYears * 100

	gains := weeklyGains(result.Points)

	m.VelocityScore = velocityScore(gains, m.StarsPerDay)
	m.ConsistencyScore = consistencyScore(gains)
	m.MomentumScore = momentumScore(gains)

	m.Milestones = findMilestones(result.Points, result.Stars)
	m.BestGrowthWindow = bestGrowthWindow(result.Points)
	m.Prediction30Days = predict30Days(result.Stars, m.StarsPerDay)

	return m
}

// weeklyGains returns the per-week star increments of a series.
func weeklyGains(points []schema.StarHistoryPoint) []int {
	if len(points) < 2 {
		return nil
	}
	gains := make([]int, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		gains = append(gains, points[i].Stars-points[i-1].Stars)
	}
	return gains
}

// velocityScore compares average daily growth against the best week's
// daily growth, so a repository running near its own peak scores high.
func velocityScore(gains []int, starsPerDay float64) float64 {
	if len(gains) == 0 || starsPerDay <= 0 {
		return 0
	}
	maxWeekly := 0
	for _, g := range gains {
		if g > maxWeekly {
			maxWeekly = g
		}
	}
	if maxWeekly == 0 {
		return 0
	}
	peakDaily := float64(maxWeekly) / 7.0
	return clamp01(starsPerDay/peakDaily) * 100
}

// consistencyScore rewards even weekly growth. It is 100 over one plus
// the coefficient of variation of weekly gains.
func consistencyScore(gains []int) float64 {
	if len(gains) == 0 {
		return 0
	}
	sum := 0
	for _, g := range gains {
		sum += g
	}
	mean := float64(sum) / float64(len(gains))
	if mean <= 0 {
		return 0
	}

	variance := 0.0
	for _, g := range gains {
		d := float64(g) - mean
		variance += d * d
	}
	variance /= float64(len(gains))
	cv := math.Sqrt(variance) / mean

	return 100 / (1 + cv)
}

// momentumScore compares the recent window's average weekly gain to the
// whole series' average.
func momentumScore(gains []int) float64 {
	if len(gains) == 0 {
		return 0
	}
	overall := 0
	for _, g := range gains {
		overall += g
	}
	overallAvg := float64(overall) / float64(len(gains))
	if overallAvg <= 0 {
		return 0
	}

	window := min(momentumWindowWeeks, len(gains))
	recent := 0
	for _, g := range gains[len(gains)-window:] {
		recent += g
	}
	recentAvg := float64(recent) / float64(window)

	return math.Min(100, recentAvg/overallAvg*100)
}

// findMilestones records the first week each ladder threshold was crossed.
func findMilestones(points []schema.StarHistoryPoint, stars int) []schema.Milestone {
	var milestones []schema.Milestone
	for _, threshold := range schema.MilestoneLadder {
		if threshold > stars {
			break
		}
		for _, p := range points {
			if p.Stars >= threshold {
				milestones = append(milestones, schema.Milestone{
					Threshold: threshold,
					Tier:      schema.TierForThreshold(threshold),
					Date:      p.Date,
				})
				break
			}
		}
	}
	return milestones
}

// bestGrowthWindow finds the contiguous span of weeks with the largest
// star gain. The window width shrinks for short series.
func bestGrowthWindow(points []schema.StarHistoryPoint) *schema.GrowthWindow {
	if len(points) < 2 {
		return nil
	}

	width := min(maxWindowWeeks, len(points)/2)
	if width < 1 {
		width = 1
	}

	best := schema.GrowthWindow{
		StartDate: points[0].Date,
		EndDate:   points[min(width, len(points)-1)].Date,
	}
	bestGain := -1
	for start := 0; start+width < len(points); start++ {
		end := start + width
		gain := points[end].Stars - points[start].Stars
		if gain > bestGain {
			bestGain = gain
			best = schema.GrowthWindow{
				StartDate: points[start].Date,
				EndDate:   points[end].Date,
				Gained:    gain,
			}
		}
	}
	return &best
}

// predict30Days extrapolates the star total 30 days forward from the
// lifetime daily growth rate.
func predict30Days(stars int, starsPerDay float64) int {
	if starsPerDay <= 0 {
		return stars
	}
	return stars + int(starsPerDay*30)
}
