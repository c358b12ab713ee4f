package iocache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/schema"
)

// Table names for run tracking.
const (
	runsTable         = "starscope_runs"
	seriesPointsTable = "starscope_series_points"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db         *sql.DB
	backend    schema.DatabaseBackend
	driverName string
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates a new RunStore with the specified backend.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.BackendSQLite:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetRunsDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.BackendMySQL:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.BackendPostgreSQL:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.BackendNone:
		// Return a no-op store for disabled tracking
		return &RunStoreImpl{
			db:      nil,
			backend: backend,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	// Create the table schemas
	if err := createRunTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create run tables: %w", err)
	}

	return &RunStoreImpl{
		db:         db,
		backend:    backend,
		driverName: driverName,
	}, nil
}

// createRunTables creates the run tracking tables.
func createRunTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{seriesPointsTable, getCreateSeriesPointsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for starscope_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.BackendMySQL:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(64) PRIMARY KEY,
				identifier VARCHAR(255) NOT NULL,
				started_at DATETIME(6) NOT NULL,
				finished_at DATETIME(6),
				duration_ms BIGINT,
				star_total INT,
				points INT,
				method VARCHAR(32)
			);
		`, quotedTableName)

	case schema.BackendPostgreSQL:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				identifier TEXT NOT NULL,
				started_at TIMESTAMPTZ NOT NULL,
				finished_at TIMESTAMPTZ,
				duration_ms BIGINT,
				star_total INT,
				points INT,
				method TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				identifier TEXT NOT NULL,
				started_at TEXT NOT NULL,
				finished_at TEXT,
				duration_ms INTEGER,
				star_total INTEGER,
				points INTEGER,
				method TEXT
			);
		`, quotedTableName)
	}
}

// getCreateSeriesPointsQuery returns the CREATE TABLE query for starscope_series_points.
func getCreateSeriesPointsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(seriesPointsTable, backend)

	switch backend {
	case schema.BackendMySQL:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id VARCHAR(64) NOT NULL,
				point_index INT NOT NULL,
				point_date VARCHAR(10) NOT NULL,
				stars INT NOT NULL,
				timestamp_millis BIGINT NOT NULL,
				PRIMARY KEY (run_id, point_index)
			);
		`, quotedTableName)

	case schema.BackendPostgreSQL:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				point_index INT NOT NULL,
				point_date TEXT NOT NULL,
				stars INT NOT NULL,
				timestamp_millis BIGINT NOT NULL,
				PRIMARY KEY (run_id, point_index)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT NOT NULL,
				point_index INTEGER NOT NULL,
				point_date TEXT NOT NULL,
				stars INTEGER NOT NULL,
				timestamp_millis INTEGER NOT NULL,
				PRIMARY KEY (run_id, point_index)
			);
		`, quotedTableName)
	}
}

// newRunID derives a stable, unique run ID from the repository and start instant.
func newRunID(identifier string, startedAt time.Time) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d", identifier, startedAt.UnixNano())
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// placeholder returns the nth parameter placeholder for the backend.
func (rs *RunStoreImpl) placeholder(n int) string {
	if rs.backend == schema.BackendPostgreSQL {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// BeginRun creates a new run row and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(identifier string, startedAt time.Time) (string, error) {
	// Skip for BackendNone
	if rs.backend == schema.BackendNone || rs.db == nil {
		return "", nil
	}

	runID := newRunID(identifier, startedAt)
	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, identifier, started_at) VALUES (%s, %s, %s)`,
		quotedTableName, rs.placeholder(1), rs.placeholder(2), rs.placeholder(3))

	if _, err := rs.db.Exec(query, runID, identifier, formatTime(startedAt, rs.backend)); err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID string, finishedAt time.Time, method schema.ReconstructionMethod, starTotal, points int) error {
	// Skip for BackendNone
	if rs.backend == schema.BackendNone || rs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)

	// First, get the started_at to calculate duration
	query := fmt.Sprintf(`SELECT started_at FROM %s WHERE run_id = %s`, quotedTableName, rs.placeholder(1))
	var raw any
	if err := rs.db.QueryRow(query, runID).Scan(&raw); err != nil {
		return fmt.Errorf("failed to get started_at for run %s: %w", runID, err)
	}
	startedAt, err := scanTime(raw, rs.backend)
	if err != nil {
		return fmt.Errorf("failed to parse started_at: %w", err)
	}

	durationMs := finishedAt.Sub(startedAt).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET finished_at = %s, duration_ms = %s, star_total = %s, points = %s, method = %s WHERE run_id = %s`,
		quotedTableName,
		rs.placeholder(1), rs.placeholder(2), rs.placeholder(3), rs.placeholder(4), rs.placeholder(5), rs.placeholder(6))

	if _, err := rs.db.Exec(updateQuery, formatTime(finishedAt, rs.backend), durationMs, starTotal, points, string(method), runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// RecordPoints stores the reconstructed series points for a run in one transaction.
func (rs *RunStoreImpl) RecordPoints(runID string, points []schema.StarHistoryPoint) error {
	// Skip for BackendNone
	if rs.backend == schema.BackendNone || rs.db == nil {
		return nil
	}

	tx, err := rs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	quotedTableName := quoteTableName(seriesPointsTable, rs.backend)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, point_index, point_date, stars, timestamp_millis) VALUES (%s, %s, %s, %s, %s)`,
		quotedTableName,
		rs.placeholder(1), rs.placeholder(2), rs.placeholder(3), rs.placeholder(4), rs.placeholder(5))

	for i, p := range points {
		if _, err := tx.Exec(query, runID, i, p.Date, p.Stars, p.TimestampMillis); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert series point %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// ListRuns returns the most recent runs, newest first.
func (rs *RunStoreImpl) ListRuns(limit int) ([]schema.RunRecord, error) {
	if rs.backend == schema.BackendNone || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT run_id, identifier, started_at, finished_at, duration_ms, star_total, points, method
		FROM %s ORDER BY started_at DESC LIMIT %s`, quotedTableName, rs.placeholder(1))

	rows, err := rs.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []schema.RunRecord
	for rows.Next() {
		var rec schema.RunRecord
		var startedRaw, finishedRaw any
		var durationMs sql.NullInt64
		var starTotal, points sql.NullInt64
		var method sql.NullString

		if err := rows.Scan(&rec.RunID, &rec.Identifier, &startedRaw, &finishedRaw, &durationMs, &starTotal, &points, &method); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}

		if rec.StartedAt, err = scanTime(startedRaw, rs.backend); err != nil {
			return nil, err
		}
		if finishedRaw != nil {
			if rec.FinishedAt, err = scanTime(finishedRaw, rs.backend); err != nil {
				return nil, err
			}
		}
		rec.DurationMS = durationMs.Int64
		rec.StarTotal = int(starTotal.Int64)
		rec.Points = int(points.Int64)
		rec.Method = schema.ReconstructionMethod(method.String)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return records, nil
}

// ListPoints returns the persisted series for a run, in order.
func (rs *RunStoreImpl) ListPoints(runID string) ([]schema.StarHistoryPoint, error) {
	if rs.backend == schema.BackendNone || rs.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(seriesPointsTable, rs.backend)
	query := fmt.Sprintf(`SELECT point_date, stars, timestamp_millis FROM %s WHERE run_id = %s ORDER BY point_index ASC`,
		quotedTableName, rs.placeholder(1))

	rows, err := rs.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list series points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var points []schema.StarHistoryPoint
	for rows.Next() {
		var p schema.StarHistoryPoint
		if err := rows.Scan(&p.Date, &p.Stars, &p.TimestampMillis); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}
		p.Label = formatPointLabel(p.Date)
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating series points: %w", err)
	}
	return points, nil
}

// formatPointLabel rebuilds the display label from a stored point date.
func formatPointLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

// GetStatus returns status information about the run store.
func (rs *RunStoreImpl) GetStatus() (schema.RunsStatus, error) {
	status := schema.RunsStatus{
		Backend: rs.backend,
	}

	if rs.backend == schema.BackendNone || rs.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, rs.backend))
	if err := rs.db.QueryRow(runsQuery).Scan(&status.Runs); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	pointsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(seriesPointsTable, rs.backend))
	if err := rs.db.QueryRow(pointsQuery).Scan(&status.Points); err != nil {
		return status, fmt.Errorf("failed to get total points: %w", err)
	}

	if status.Runs > 0 {
		lastQuery := fmt.Sprintf("SELECT started_at FROM %s ORDER BY started_at DESC LIMIT 1", quoteTableName(runsTable, rs.backend))
		var raw any
		if err := rs.db.QueryRow(lastQuery).Scan(&raw); err != nil {
			return status, fmt.Errorf("failed to get last run time: %w", err)
		}
		lastRun, err := scanTime(raw, rs.backend)
		if err != nil {
			return status, err
		}
		status.LastRun = lastRun
	}

	return status, nil
}

// Clear removes all runs and their points.
func (rs *RunStoreImpl) Clear() error {
	if rs.backend == schema.BackendNone || rs.db == nil {
		return nil
	}

	for _, table := range []string{seriesPointsTable, runsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, rs.backend))
		if _, err := rs.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}

// Close closes the underlying connection.
func (rs *RunStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}
