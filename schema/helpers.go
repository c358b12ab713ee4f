package schema

import (
	"fmt"
	"strings"
)

// TierForThreshold maps a milestone threshold to its tier.
func TierForThreshold(threshold int) MilestoneTier {
	switch {
	case threshold >= 50000:
		return TierMajor
	case threshold >= 1000:
		return TierSignificant
	default:
		return TierMinor
	}
}

// SplitIdentifier breaks an "owner/name" identifier into its parts.
func SplitIdentifier(identifier string) (string, string, error) {
	owner, name, ok := strings.Cut(identifier, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("invalid repository identifier %q, expected owner/name", identifier)
	}
	return owner, name, nil
}
