package iocache

import (
	"fmt"
	"regexp"
	"time"

	"github.com/starscope/starscope/schema"
)

var tableNameRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// validateTableName validates that the table name is a safe SQL identifier.
// It ensures the name consists only of alphanumeric characters and underscores,
// starting with a letter or underscore, to prevent SQL injection.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNameRe.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.BackendMySQL:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.BackendSQLite:
		return t.UTC().Format(time.RFC3339Nano)
	default:
		return t.UTC()
	}
}

// scanTime reads a time stored by formatTime back from the given backend.
func scanTime(raw any, backend schema.DatabaseBackend) (time.Time, error) {
	switch backend {
	case schema.BackendSQLite:
		s, ok := raw.(string)
		if !ok {
			if b, isBytes := raw.([]byte); isBytes {
				s = string(b)
			} else {
				return time.Time{}, fmt.Errorf("unexpected time column type %T", raw)
			}
		}
		return time.Parse(time.RFC3339Nano, s)
	default:
		t, ok := raw.(time.Time)
		if !ok {
			return time.Time{}, fmt.Errorf("unexpected time column type %T", raw)
		}
		return t, nil
	}
}
