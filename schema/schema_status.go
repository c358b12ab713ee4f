package schema

import "time"

// CacheStatus summarizes the snapshot cache backend state.
type CacheStatus struct {
	Backend    DatabaseBackend `json:"backend"`
	Entries    int             `json:"entries"`
	SizeBytes  int64           `json:"size_bytes"`
	OldestItem time.Time       `json:"oldest_item,omitzero"`
	NewestItem time.Time       `json:"newest_item,omitzero"`
}

// RunRecord is one persisted reconstruction run.
type RunRecord struct {
	RunID      string               `json:"run_id"`
	Identifier string               `json:"identifier"`
	StartedAt  time.Time            `json:"started_at"`
	FinishedAt time.Time            `json:"finished_at"`
	DurationMS int64                `json:"duration_ms"`
	StarTotal  int                  `json:"star_total"`
	Points     int                  `json:"points"`
	Method     ReconstructionMethod `json:"method"`
}

// RunsStatus summarizes the run store backend state.
type RunsStatus struct {
	Backend DatabaseBackend `json:"backend"`
	Runs    int             `json:"runs"`
	Points  int             `json:"points"`
	LastRun time.Time       `json:"last_run,omitzero"`
}
