package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/starscope/starscope/internal/contract"
	"github.com/starscope/starscope/internal/iocache"
	"github.com/starscope/starscope/schema"
)

// runsSetup loads minimal configuration needed for run-store operations.
// This is used by commands that need run access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get runs-related config values
	backendStr := viper.GetString("runs-backend")
	connStr := viper.GetString("runs-db-connect")

	// Handle empty backend as BackendNone
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.BackendNone
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize stores with the loaded config (no snapshot caching for runs commands)
	if err := iocache.InitStores(schema.BackendNone, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get runs-related config values
	backendStr := viper.GetString("runs-backend")
	connStr := viper.GetString("runs-db-connect")

	// Handle empty backend as BackendNone
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.BackendNone
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.BackendSQLite && connStr == "" {
		connStr = contract.GetRunsDBFilePath()
	}

	cfg.RunsBackend = backend
	cfg.RunsDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runsCmd focused on reconstruction run management.
//
// Note: Runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by reconstruction commands.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage stored reconstruction runs and exports",
	Long: `Manage historical reconstruction runs used for tracking and export.

When enabled via --runs-backend, starscope records every reconstruction:
- Run metadata (repository, timestamps, duration, method)
- The full weekly series each run produced

This enables longitudinal tracking of repositories and bulk export of
series data for analytics tools.

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run tracking statistics
  export  - Export runs and series to Parquet
  clear   - Remove all stored runs
  migrate - Run database schema migrations

Examples:
  # Record runs while reconstructing
  starscope history golang/go --runs-backend sqlite

  # Check what has been recorded
  starscope runs status --runs-backend sqlite`,
}

// runsClearCmd clears the stored runs.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored reconstruction runs",
	Long: `Delete all stored runs and their series points.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  starscope runs export --output-file backup.parquet
  starscope runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.RunsBackend, contract.GetRunsDBFilePath(), cfg.RunsDBConnect); err != nil {
			contract.LogFatal("Failed to clear runs", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsStatusCmd shows run store status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about stored reconstruction runs.

Displays:
- Backend type and connection status
- Total number of runs and series points stored
- Timestamp of the most recent run

Examples:
  # Check run tracking status
  starscope runs status --runs-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := iocache.Manager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get runs status", err)
		}
		iocache.PrintRunsStatus(status)
	},
}

// runsExportCmd exports run data to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs to Parquet for analytics",
	Long: `Export all stored run data to Parquet format for use with analytics tools.

Exports two datasets:
- Runs - metadata about each reconstruction
- Series points - the weekly star series each run produced

Requires: --output-file parameter

Examples:
  # Export all data
  starscope runs export --runs-backend sqlite --output-file starscope-data.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('starscope-data.parquet.runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteRunsExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run store.

By default, migrates to the latest version. Use --target-version for
specific versions, or 0 to roll back to the initial state.

Examples:
  # Migrate to latest version (default)
  starscope runs migrate --runs-backend sqlite

  # Migrate to specific version
  starscope runs migrate --runs-backend sqlite --target-version 2

  # Rollback to initial state
  starscope runs migrate --runs-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateRuns(cfg.RunsBackend, cfg.RunsDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
