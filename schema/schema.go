// Package schema has configs, models and constants for all parts of starscope.
package schema

import "time"

// ActivityEvent is a single observable repository activity signal: one commit
// or one published release, identified by its timestamp.
type ActivityEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Kind      EventKind `json:"kind"`
}

// StargazerEvent is a single star action with the instant it happened.
// One event means one increment of the cumulative star count.
type StargazerEvent struct {
	StarredAt time.Time `json:"starred_at"`
}

// RepoSnapshot is a point-in-time read of a repository's identity, age,
// current star total and whatever raw events the provider could enumerate.
// It is the sole input boundary of the reconstruction engine.
type RepoSnapshot struct {
	// Identifier names the repository as "owner/name".
	Identifier string `json:"identifier"`

	// CreatedAt is the repository creation instant and the left bound
	// of any reconstructed series.
	CreatedAt time.Time `json:"created_at"`

	// Stars is the authoritative current total. The estimation path pins
	// the final series point to this value exactly.
	Stars int `json:"stars"`

	// ActivityEvents holds commit and release timestamps, possibly empty
	// when pagination caps or rate limits truncated the fetch upstream.
	ActivityEvents []ActivityEvent `json:"activity_events,omitempty"`

	// StargazerEvents holds one entry per enumerated star action. Only
	// trusted for exact reconstruction when StargazersTruncated is false.
	StargazerEvents []StargazerEvent `json:"stargazer_events,omitempty"`

	// StargazersTruncated reports that the stargazer enumeration stopped
	// before reaching the full list (page cap reached).
	StargazersTruncated bool `json:"stargazers_truncated,omitempty"`
}

// StarHistoryPoint is one element of a reconstructed weekly series.
type StarHistoryPoint struct {
	// Date is the point's calendar date in ISO 8601 (YYYY-MM-DD).
	Date string `json:"date"`

	// Stars is the cumulative star count at this point. Weakly increasing
	// across a series and never above the snapshot total.
	Stars int `json:"stars"`

	// Label is a short human-readable date for chart axes and tables.
	Label string `json:"label"`

	// TimestampMillis is the point's instant as epoch milliseconds, used
	// for range filtering and x-domain math by consumers.
	TimestampMillis int64 `json:"timestamp_millis"`
}

// HistoryResult bundles a reconstructed series with its provenance.
type HistoryResult struct {
	Identifier string               `json:"identifier"`
	Method     ReconstructionMethod `json:"method"`
	Stars      int                  `json:"stars"`
	CreatedAt  time.Time            `json:"created_at"`
	AsOf       time.Time            `json:"as_of"`
	Points     []StarHistoryPoint   `json:"points"`
}

// NewHistoryPoint builds a StarHistoryPoint for the given instant and count.
func NewHistoryPoint(t time.Time, stars int) StarHistoryPoint {
	return StarHistoryPoint{
		Date:            t.UTC().Format("2006-01-02"),
		Stars:           stars,
		Label:           t.UTC().Format("Jan 2, 2006"),
		TimestampMillis: t.UnixMilli(),
	}
}
