package iocache

import (
	"errors"
	"fmt"

	"github.com/starscope/starscope/internal/parquet"
)

// ExecuteRunsExport performs the export of run data to Parquet files.
func ExecuteRunsExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the run store
	store := Manager.GetRunStore()
	if store == nil {
		return errors.New("run store is not initialized")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get runs status: %w", err)
	}

	if status.Runs == 0 {
		return errors.New("no run data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.Runs)
	fmt.Printf("Total series points: %d\n", status.Points)

	// Retrieve all runs
	runs, err := store.ListRuns(MaxExportRuns)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	// Retrieve the series for every run
	var allPoints []parquet.SeriesPoint
	for _, run := range runs {
		points, err := store.ListPoints(run.RunID)
		if err != nil {
			return fmt.Errorf("failed to retrieve points for run %s: %w", run.RunID, err)
		}
		allPoints = append(allPoints, parquet.ConvertSeriesPoints(run.RunID, points)...)
	}

	// Write runs to Parquet
	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	// Write series points to Parquet
	pointsFile := outputFile + ".series_points.parquet"
	if err := parquet.WriteSeriesPointsParquet(allPoints, pointsFile); err != nil {
		return fmt.Errorf("failed to write series points: %w", err)
	}
	fmt.Printf("Exported %d series points to: %s\n", len(allPoints), pointsFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}

// MaxExportRuns bounds how many runs a single export reads.
const MaxExportRuns = 100000
