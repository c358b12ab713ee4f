package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/starscope/starscope/schema"
)

// Default values for configuration.
const (
	MaxResultLimit  = 1000
	DefaultMaxPages = schema.DefaultMaxPages
	MaxPagesCeiling = 400
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a starscope invocation.
// This struct remains the "final, validated" config.
type Config struct {
	Identifiers []string

	// AsOf is the reference instant every reconstruction is relative to.
	// It is always explicit here so the same inputs yield the same series.
	AsOf time.Time

	Token       string // Please use env var as this is plaintext
	MaxPages    int
	ResultLimit int
	Precision   int
	Detail      bool
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	RunsBackend   schema.DatabaseBackend
	RunsDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	IdentifierArgs []string

	// --- Fields from rootCmd.PersistentFlags() ---
	AsOf           string `mapstructure:"as-of"`
	Token          string `mapstructure:"token"`
	MaxPages       int    `mapstructure:"max-pages"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Detail         bool   `mapstructure:"detail"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	RunsBackend    string `mapstructure:"runs-backend"`
	RunsDBConnect  string `mapstructure:"runs-db-connect"`
	Emoji          string `mapstructure:"emoji"`
	Color          string `mapstructure:"color"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Identifiers != nil {
		clone.Identifiers = make([]string, len(c.Identifiers))
		copy(clone.Identifiers, c.Identifiers)
	}
	return &clone
}

// CloneWithIdentifier creates a copy of the Config scoped to a single repository.
func (c *Config) CloneWithIdentifier(identifier string) *Config {
	clone := c.Clone()
	clone.Identifiers = []string{identifier}
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processAsOf(cfg, input); err != nil {
		return err
	}
	if err := processIdentifiers(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.BackendSQLite, schema.BackendNone:
		return nil
	case schema.BackendMySQL:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.BackendPostgreSQL:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and runs backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Runs Backend Validation ---
	cfg.RunsBackend = schema.DatabaseBackend(strings.ToLower(input.RunsBackend))
	if cfg.RunsBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.RunsBackend]; !ok {
			return fmt.Errorf("invalid runs backend '%s'. must be sqlite, mysql, postgresql, none", input.RunsBackend)
		}
		cfg.RunsDBConnect = input.RunsDBConnect
		if err := ValidateDatabaseConnectionString(cfg.RunsBackend, cfg.RunsDBConnect); err != nil {
			return err
		}

		// Cache and runs must not share one SQLite file
		if cfg.CacheBackend == schema.BackendSQLite && cfg.RunsBackend == schema.BackendSQLite {
			cacheDBPath := cfg.CacheDBConnect
			if cacheDBPath == "" {
				cacheDBPath = GetCacheDBFilePath()
			}
			runsDBPath := cfg.RunsDBConnect
			if runsDBPath == "" {
				runsDBPath = GetRunsDBFilePath()
			}
			if cacheDBPath == runsDBPath {
				return fmt.Errorf("cache and runs storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
			}
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all non-time related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Token = input.Token
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	// Parse emoji flag
	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. MaxPages Validation ---
	if input.MaxPages <= 0 || input.MaxPages > MaxPagesCeiling {
		return fmt.Errorf("max-pages must be between 1 and %d (received %d)", MaxPagesCeiling, input.MaxPages)
	}
	cfg.MaxPages = input.MaxPages

	// --- 3. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.OutputParquet && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 4. Backend Validation ---
	return validateBackendConfigs(cfg, input)
}

// processAsOf resolves the reference instant. An empty input pins the
// config to the current wall clock once, here, so everything downstream
// sees one consistent instant.
func processAsOf(cfg *Config, input *ConfigRawInput) error {
	now := time.Now().UTC()
	if input.AsOf == "" {
		cfg.AsOf = now
		return nil
	}

	t, err := time.Parse(DateTimeFormat, input.AsOf)
	if err == nil {
		cfg.AsOf = t.UTC()
		return nil
	}

	t, relErr := ParseRelativeTime(input.AsOf, now)
	if relErr != nil {
		return fmt.Errorf("invalid as-of format for '%s'. Expected absolute ISO8601 or 'N [units] ago': %v", input.AsOf, err)
	}
	cfg.AsOf = t.UTC()
	return nil
}

// processIdentifiers validates all positional repository arguments.
// Zero identifiers is legal here: per-command argument rules decide how
// many repositories an operation needs, and server mode starts with none.
func processIdentifiers(cfg *Config, input *ConfigRawInput) error {
	cfg.Identifiers = cfg.Identifiers[:0]
	for _, raw := range input.IdentifierArgs {
		identifier := strings.TrimSpace(raw)
		if _, _, err := schema.SplitIdentifier(identifier); err != nil {
			return err
		}
		cfg.Identifiers = append(cfg.Identifiers, identifier)
	}
	return nil
}
