package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Score label constants.
const (
	ExplosiveValue = "Explosive" // Explosive growth
	StrongValue    = "Strong"    // Strong growth
	SteadyValue    = "Steady"    // Steady growth
	QuietValue     = "Quiet"     // Quiet growth
)

// Color variables for console output.
var (
	ExplosiveColor = color.New(color.FgRed, color.Bold)     // explosiveColor represents runaway growth.
	StrongColor    = color.New(color.FgMagenta, color.Bold) // strongColor represents clear momentum.
	SteadyColor    = color.New(color.FgYellow)              // steadyColor represents healthy, unremarkable growth.
	QuietColor     = color.New(color.FgCyan)                // quietColor represents low-signal repositories.
)

// GetPlainLabel returns a plain text label indicating the growth level
// based on a 0-100 score. This is the core logic used for CSV, JSON,
// and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 80:
		return ExplosiveValue
	case score >= 60:
		return StrongValue
	case score >= 40:
		return SteadyValue
	default:
		return QuietValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the
// appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case ExplosiveValue:
		return ExplosiveColor.Sprint(text)
	case StrongValue:
		return StrongColor.Sprint(text)
	case SteadyValue:
		return SteadyColor.Sprint(text)
	default: // "Quiet"
		return QuietColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for snapshot cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".starscope_cache.db"
	}
	return filepath.Join(homeDir, ".starscope_cache.db")
}

// GetRunsDBFilePath returns the path to the SQLite DB file for run storage.
func GetRunsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".starscope_runs.db"
	}
	return filepath.Join(homeDir, ".starscope_runs.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
