package schema

// ComparisonDimension is one head-to-head measure in a comparison.
type ComparisonDimension struct {
	Name    string            `json:"name"`
	First   float64           `json:"first"`
	Second  float64           `json:"second"`
	Outcome ComparisonOutcome `json:"outcome"`
}

// ComparisonResult is the verdict of a two-repository comparison.
type ComparisonResult struct {
	FirstIdentifier  string `json:"first_identifier"`
	SecondIdentifier string `json:"second_identifier"`

	First  RepoMetrics `json:"first"`
	Second RepoMetrics `json:"second"`

	Dimensions []ComparisonDimension `json:"dimensions"`

	// Overall is decided on growth rate with a tie band, so near-equal
	// repositories do not flip winners between runs.
	Overall ComparisonOutcome `json:"overall"`
}
