package core

import "math"

// Estimator produces raw per-week cumulative star candidates for a
// repository whose stargazer timeline could not be enumerated. Candidates
// need not be monotonic or bounded; the reconstruction walker enforces
// the series invariants afterwards.
type Estimator interface {
	Estimate(weeks int, signals weekSignals, totalStars int) []float64
}

// heuristicEstimator models the shape most repositories follow: a small
// seed of early adopters, super-linear accumulation toward the current
// total, faster weeks where commit activity is high, and visible bumps
// around releases.
type heuristicEstimator struct {
	// seedFraction is the share of the total attributed to the first week.
	seedFraction float64

	// growthExponent controls how front-loaded toward the present the
	// base curve is. Values above 1 make growth super-linear.
	growthExponent float64

	// releaseBoostFraction is the share of the total added to a week
	// containing a release.
	releaseBoostFraction float64

	// earlyBonusFraction is the share of the total the early-adoption
	// bonus grants at week zero. Kept small: the seed already carries
	// the first week, and seed plus bonus together must stay inside the
	// 5-10% opening share.
	earlyBonusFraction float64

	// earlyDecayWeeks sets how fast the early-adoption bonus fades.
	earlyDecayWeeks float64

	// activitySaturation is the weekly commit count beyond which more
	// commits stop mattering.
	activitySaturation float64
}

var _ Estimator = heuristicEstimator{} // Compile-time check

// newHeuristicEstimator returns the default estimator tuning. The opening
// week of a signal-free ten-week series lands inside the 5-10% seed share
// of the total: seed (6%) plus undecayed bonus (1.5%) plus the base
// curve's first step (~2%).
func newHeuristicEstimator() heuristicEstimator {
	return heuristicEstimator{
		seedFraction:         0.06,
		growthExponent:       1.7,
		releaseBoostFraction: 0.03,
		earlyBonusFraction:   0.015,
		earlyDecayWeeks:      3.0,
		activitySaturation:   25.0,
	}
}

// Estimate implements the Estimator interface.
func (e heuristicEstimator) Estimate(weeks int, signals weekSignals, totalStars int) []float64 {
	if weeks <= 0 {
		return nil
	}

	total := float64(totalStars)
	seed := e.seedFraction * total
	candidates := make([]float64, weeks)

	for i := range weeks {
		// Base curve: seed plus super-linear progress toward the total.
		progress := float64(i+1) / float64(weeks)
		base := seed + (total-seed)*math.Pow(progress, e.growthExponent)

		// Commit activity speeds a week up, saturating so monorepo-scale
		// commit volume does not dominate the shape.
		activity := clamp01(float64(signals.Commits[i]) / e.activitySaturation)
		value := base * (1 + 0.25*activity)

		// Release weeks draw attention.
		if signals.Releases[i] {
			value += e.releaseBoostFraction * total
		}

		// Early-adoption bonus, decaying to noise within ~10 weeks.
		value += e.earlyBonusFraction * total * math.Exp(-float64(i)/e.earlyDecayWeeks)

		candidates[i] = value
	}

	return candidates
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
