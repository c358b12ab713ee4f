package schema

// EventKind classifies a repository activity event.
type EventKind string

// Supported activity event kinds.
const (
	EventCommit  EventKind = "commit"
	EventRelease EventKind = "release"
)

// ReconstructionMethod names how a star-history series was produced.
type ReconstructionMethod string

// Supported reconstruction methods.
const (
	MethodExact     ReconstructionMethod = "exact"
	MethodEstimated ReconstructionMethod = "estimated"
)

// OutputMode is the output mode for execution.
type OutputMode string

// Different kinds of output modes.
const (
	OutputText    OutputMode = "text"
	OutputCSV     OutputMode = "csv"
	OutputJSON    OutputMode = "json"
	OutputParquet OutputMode = "parquet"
)

// ValidOutputModes has output modes that starscope can work with.
var ValidOutputModes = map[OutputMode]bool{
	OutputText:    true,
	OutputCSV:     true,
	OutputJSON:    true,
	OutputParquet: true,
}

// DatabaseBackend is the database backend for cache and run stores.
type DatabaseBackend string

// Different kinds of database backends.
const (
	BackendSQLite     DatabaseBackend = "sqlite"
	BackendMySQL      DatabaseBackend = "mysql"
	BackendPostgreSQL DatabaseBackend = "postgresql"
	BackendNone       DatabaseBackend = "none"
)

// ValidDatabaseBackends has database backends that starscope can work with.
var ValidDatabaseBackends = map[DatabaseBackend]bool{
	BackendSQLite:     true,
	BackendMySQL:      true,
	BackendPostgreSQL: true,
	BackendNone:       true,
}

// MilestoneTier ranks a star milestone by magnitude.
type MilestoneTier string

// Milestone tiers from smallest to largest threshold.
const (
	TierMinor       MilestoneTier = "minor"
	TierSignificant MilestoneTier = "significant"
	TierMajor       MilestoneTier = "major"
)

// MilestoneLadder holds the fixed thresholds checked when deriving
// achieved milestones, in ascending order.
var MilestoneLadder = []int{100, 500, 1000, 5000, 10000, 50000, 100000}

// ComparisonOutcome states which repository a two-way comparison favored.
type ComparisonOutcome string

// Possible comparison outcomes.
const (
	OutcomeFirst  ComparisonOutcome = "first"
	OutcomeSecond ComparisonOutcome = "second"
	OutcomeTie    ComparisonOutcome = "tie"
)

const (
	// ExactPathStarCutoff is the star total above which stargazer
	// enumeration is considered too expensive and the estimation
	// path is used regardless of event availability.
	ExactPathStarCutoff = 10000

	// DefaultMaxPages caps stargazer pagination per repository.
	DefaultMaxPages = 100

	// DefaultResultLimit bounds rows shown in table output.
	DefaultResultLimit = 50

	// DefaultPrecision is the decimal precision for rates and scores.
	DefaultPrecision = 2
)
