// Package parquet provides data structures and functions for exporting
// starscope run data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/starscope/starscope/schema"
)

// Run represents a single reconstruction run with metadata.
// This struct maps to the starscope_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID string `parquet:"run_id,snappy"`

	// Identifier is the repository the run reconstructed
	Identifier string `parquet:"identifier,snappy"`

	// StartedAt is when the run began
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is when the run completed (nullable)
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// DurationMs is the run duration in milliseconds (nullable)
	DurationMs *int64 `parquet:"duration_ms,optional,snappy"`

	// StarTotal is the repository star total at the time of the run
	StarTotal int32 `parquet:"star_total,snappy"`

	// Points is the number of series points the run produced
	Points int32 `parquet:"points,snappy"`

	// Method names how the series was produced (exact or estimated)
	Method string `parquet:"method,snappy"`
}

// SeriesPoint represents one reconstructed point belonging to a run.
// This struct maps to the starscope_series_points database table.
type SeriesPoint struct {
	// RunID references the parent run
	RunID string `parquet:"run_id,snappy"`

	// PointIndex is the point's position in the series
	PointIndex int32 `parquet:"point_index,snappy"`

	// PointDate is the point's calendar date (YYYY-MM-DD)
	PointDate string `parquet:"point_date,snappy"`

	// Stars is the cumulative star count at this point
	Stars int32 `parquet:"stars,snappy"`

	// TimestampMillis is the point's instant as epoch milliseconds
	TimestampMillis int64 `parquet:"timestamp_millis,snappy"`
}

// HistoryPoint represents one point of a reconstructed history series,
// keyed by repository instead of run. Used by the history command's
// parquet output mode.
type HistoryPoint struct {
	// Identifier is the repository as "owner/name"
	Identifier string `parquet:"identifier,snappy"`

	// Method names how the series was produced (exact or estimated)
	Method string `parquet:"method,snappy"`

	// PointIndex is the point's position in the series
	PointIndex int32 `parquet:"point_index,snappy"`

	// PointDate is the point's calendar date (YYYY-MM-DD)
	PointDate string `parquet:"point_date,snappy"`

	// Stars is the cumulative star count at this point
	Stars int32 `parquet:"stars,snappy"`

	// TimestampMillis is the point's instant as epoch milliseconds
	TimestampMillis int64 `parquet:"timestamp_millis,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteSeriesPointsParquet writes a slice of SeriesPoint structs to a Parquet file.
func WriteSeriesPointsParquet(data []SeriesPoint, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the SeriesPoint struct tags
	writer := parquet.NewGenericWriter[SeriesPoint](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteHistoryPointsParquet writes a slice of HistoryPoint structs to a Parquet file.
func WriteHistoryPointsParquet(data []HistoryPoint, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the HistoryPoint struct tags
	writer := parquet.NewGenericWriter[HistoryPoint](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// MockFetchRuns generates sample Run data for demonstration.
func MockFetchRuns() []Run {
	now := time.Now()
	started1 := now.Add(-2 * time.Hour)
	finished1 := started1.Add(850 * time.Millisecond)
	duration1 := finished1.Sub(started1).Milliseconds()

	started2 := now.Add(-24 * time.Hour)
	finished2 := started2.Add(3200 * time.Millisecond)
	duration2 := finished2.Sub(started2).Milliseconds()

	started3 := now.Add(-10 * time.Minute)
	// Note: the third run has nil FinishedAt and DurationMs to demonstrate nullable fields

	return []Run{
		{
			RunID:      "run-001",
			Identifier: "golang/go",
			StartedAt:  started1,
			FinishedAt: &finished1,
			DurationMs: &duration1,
			StarTotal:  120000,
			Points:     780,
			Method:     "estimated",
		},
		{
			RunID:      "run-002",
			Identifier: "mitchellh/go-homedir",
			StartedAt:  started2,
			FinishedAt: &finished2,
			DurationMs: &duration2,
			StarTotal:  1400,
			Points:     520,
			Method:     "exact",
		},
		{
			RunID:      "run-003",
			Identifier: "rust-lang/rust",
			StartedAt:  started3,
			FinishedAt: nil, // Still running - nullable field
			DurationMs: nil, // Not yet calculated - nullable field
			StarTotal:  0,
			Points:     0,
			Method:     "",
		},
	}
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		run := Run{
			RunID:      record.RunID,
			Identifier: record.Identifier,
			StartedAt:  record.StartedAt,
			StarTotal:  int32(record.StarTotal),
			Points:     int32(record.Points),
			Method:     string(record.Method),
		}
		if !record.FinishedAt.IsZero() {
			finished := record.FinishedAt
			duration := record.DurationMS
			run.FinishedAt = &finished
			run.DurationMs = &duration
		}
		result[i] = run
	}
	return result
}

// ConvertHistoryResult flattens one reconstructed series for Parquet export.
func ConvertHistoryResult(result *schema.HistoryResult) []HistoryPoint {
	points := make([]HistoryPoint, len(result.Points))
	for i, p := range result.Points {
		points[i] = HistoryPoint{
			Identifier:      result.Identifier,
			Method:          string(result.Method),
			PointIndex:      int32(i),
			PointDate:       p.Date,
			Stars:           int32(p.Stars),
			TimestampMillis: p.TimestampMillis,
		}
	}
	return points
}

// ConvertSeriesPoints converts one run's series points for Parquet export.
func ConvertSeriesPoints(runID string, points []schema.StarHistoryPoint) []SeriesPoint {
	result := make([]SeriesPoint, len(points))
	for i, p := range points {
		result[i] = SeriesPoint{
			RunID:           runID,
			PointIndex:      int32(i),
			PointDate:       p.Date,
			Stars:           int32(p.Stars),
			TimestampMillis: p.TimestampMillis,
		}
	}
	return result
}
