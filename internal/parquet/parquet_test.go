package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starscope/starscope/schema"
)

func TestRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	runSchema := parquet.SchemaOf(new(Run))
	require.NotNil(t, runSchema)

	expectedColumns := []string{
		"run_id",
		"identifier",
		"started_at",
		"finished_at",
		"duration_ms",
		"star_total",
		"points",
		"method",
	}

	for _, colName := range expectedColumns {
		col, ok := runSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestHistoryPointStructTags(t *testing.T) {
	pointSchema := parquet.SchemaOf(new(HistoryPoint))
	require.NotNil(t, pointSchema)

	expectedColumns := []string{
		"identifier",
		"method",
		"point_index",
		"point_date",
		"stars",
		"timestamp_millis",
	}

	for _, colName := range expectedColumns {
		col, ok := pointSchema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteRunsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "runs.parquet")

	data := MockFetchRuns()
	require.NotEmpty(t, data, "Mock data should not be empty")

	err := WriteRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[Run](file)
	defer reader.Close()

	readData := make([]Run, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].RunID, readData[i].RunID, "RunID should match")
		assert.Equal(t, data[i].Identifier, readData[i].Identifier, "Identifier should match")
		assert.Equal(t, data[i].StarTotal, readData[i].StarTotal, "StarTotal should match")
		assert.Equal(t, data[i].Points, readData[i].Points, "Points should match")
		assert.Equal(t, data[i].Method, readData[i].Method, "Method should match")

		// Check nullable fields
		if data[i].FinishedAt == nil {
			assert.Nil(t, readData[i].FinishedAt, "FinishedAt should be nil")
		} else {
			require.NotNil(t, readData[i].FinishedAt, "FinishedAt should not be nil")
			assert.WithinDuration(t, *data[i].FinishedAt, *readData[i].FinishedAt, time.Nanosecond)
		}

		if data[i].DurationMs == nil {
			assert.Nil(t, readData[i].DurationMs, "DurationMs should be nil")
		} else {
			require.NotNil(t, readData[i].DurationMs, "DurationMs should not be nil")
			assert.Equal(t, *data[i].DurationMs, *readData[i].DurationMs, "DurationMs should match")
		}
	}
}

func TestWriteHistoryPointsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "history_points.parquet")

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	result := &schema.HistoryResult{
		Identifier: "golang/go",
		Method:     schema.MethodExact,
		Stars:      40,
		Points: []schema.StarHistoryPoint{
			schema.NewHistoryPoint(created, 10),
			schema.NewHistoryPoint(created.AddDate(0, 0, 7), 25),
			schema.NewHistoryPoint(created.AddDate(0, 0, 14), 40),
		},
	}

	data := ConvertHistoryResult(result)
	require.Len(t, data, 3)

	err := WriteHistoryPointsParquet(data, outputPath)
	require.NoError(t, err)

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[HistoryPoint](file)
	defer reader.Close()

	readData := make([]HistoryPoint, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 3, n)

	assert.Equal(t, "golang/go", readData[0].Identifier)
	assert.Equal(t, "exact", readData[0].Method)
	assert.Equal(t, int32(0), readData[0].PointIndex)
	assert.Equal(t, "2024-01-01", readData[0].PointDate)
	assert.Equal(t, int32(40), readData[2].Stars)
}

func TestWriteRunsParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_runs.parquet")

	err := WriteRunsParquet([]Run{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteRunsParquet_InvalidPath(t *testing.T) {
	data := MockFetchRuns()
	err := WriteRunsParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertRunRecords(t *testing.T) {
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	finished := started.Add(2 * time.Second)

	records := []schema.RunRecord{
		{
			RunID:      "run-1",
			Identifier: "golang/go",
			StartedAt:  started,
			FinishedAt: finished,
			DurationMS: 2000,
			StarTotal:  100,
			Points:     12,
			Method:     schema.MethodExact,
		},
		{
			RunID:      "run-2",
			Identifier: "rust-lang/rust",
			StartedAt:  started,
			// Zero FinishedAt marks a run that never completed
		},
	}

	runs := ConvertRunRecords(records)
	require.Len(t, runs, 2)

	require.NotNil(t, runs[0].FinishedAt)
	assert.Equal(t, finished, *runs[0].FinishedAt)
	require.NotNil(t, runs[0].DurationMs)
	assert.Equal(t, int64(2000), *runs[0].DurationMs)
	assert.Equal(t, int32(100), runs[0].StarTotal)

	assert.Nil(t, runs[1].FinishedAt, "incomplete run should have nil FinishedAt")
	assert.Nil(t, runs[1].DurationMs, "incomplete run should have nil DurationMs")
}

func TestConvertSeriesPoints(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []schema.StarHistoryPoint{
		schema.NewHistoryPoint(created, 5),
		schema.NewHistoryPoint(created.AddDate(0, 0, 7), 9),
	}

	converted := ConvertSeriesPoints("run-9", points)
	require.Len(t, converted, 2)
	assert.Equal(t, "run-9", converted[0].RunID)
	assert.Equal(t, int32(0), converted[0].PointIndex)
	assert.Equal(t, int32(1), converted[1].PointIndex)
	assert.Equal(t, int32(9), converted[1].Stars)
	assert.Equal(t, created.AddDate(0, 0, 7).UnixMilli(), converted[1].TimestampMillis)
}
