package core

import "github.com/starscope/starscope/schema"

// tieBand is the relative margin inside which two values are considered
// equal. Without it, near-identical repositories would flip winners
// between runs on estimation noise.
const tieBand = 0.10

// CompareMetrics produces the head-to-head verdict for two repositories.
// The overall outcome is decided on daily growth rate alone; per-dimension
// outcomes are informational.
func CompareMetrics(first, second schema.RepoMetrics) schema.ComparisonResult {
	dimensions := []schema.ComparisonDimension{
		compareDimension("stars", float64(first.Stars), float64(second.Stars)),
		compareDimension("stars_per_day", first.StarsPerDay, second.StarsPerDay),
		compareDimension("annualized_growth_rate", first.AnnualizedGrowthRate, second.AnnualizedGrowthRate),
		compareDimension("velocity_score", first.VelocityScore, second.VelocityScore),
		compareDimension("consistency_score", first.ConsistencyScore, second.ConsistencyScore),
		compareDimension("momentum_score", first.MomentumScore, second.MomentumScore),
	}

	return schema.ComparisonResult{
		FirstIdentifier:  first.Identifier,
		SecondIdentifier: second.Identifier,
		First:            first,
		Second:           second,
		Dimensions:       dimensions,
		Overall:          determineOutcome(first.StarsPerDay, second.StarsPerDay),
	}
}

func compareDimension(name string, first, second float64) schema.ComparisonDimension {
	return schema.ComparisonDimension{
		Name:    name,
		First:   first,
		Second:  second,
		Outcome: determineOutcome(first, second),
	}
}

// determineOutcome declares a winner only when it leads by more than the
// tie band relative to the loser.
func determineOutcome(first, second float64) schema.ComparisonOutcome {
	switch {
	case first > second*(1+tieBand):
		return schema.OutcomeFirst
	case second > first*(1+tieBand):
		return schema.OutcomeSecond
	default:
		return schema.OutcomeTie
	}
}
