package schema

import "time"

// Milestone is one star threshold a repository has crossed, with the
// estimated week it happened.
type Milestone struct {
	Threshold int           `json:"threshold"`
	Tier      MilestoneTier `json:"tier"`
	Date      string        `json:"date"`
}

// GrowthWindow is the contiguous span of weeks with the largest star gain.
type GrowthWindow struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Gained    int    `json:"gained"`
}

// RepoMetrics holds derived growth statistics for one repository.
type RepoMetrics struct {
	Identifier string    `json:"identifier"`
	Stars      int       `json:"stars"`
	CreatedAt  time.Time `json:"created_at"`
	AsOf       time.Time `json:"as_of"`

	// AgeInDays is at least 1 even for same-day repositories.
	AgeInDays int `json:"age_in_days"`

	StarsPerDay          float64 `json:"stars_per_day"`
	AnnualizedGrowthRate float64 `json:"annualized_growth_rate"`

	// Scores are bounded to [0, 100].
	VelocityScore    float64 `json:"velocity_score"`
	ConsistencyScore float64 `json:"consistency_score"`
	MomentumScore    float64 `json:"momentum_score"`

	Milestones       []Milestone   `json:"milestones"`
	BestGrowthWindow *GrowthWindow `json:"best_growth_window,omitempty"`

	// Prediction30Days extrapolates the star total 30 days forward
	// from recent daily velocity.
	Prediction30Days int `json:"prediction_30_days"`
}
