package settings

import (
	"slices"
	"strings"
)

// Normalize cleans a list-valued setting before persistence: entries
// are trimmed, empties dropped, duplicates removed, and the result
// sorted so repeated merges are idempotent and diffs stay stable.
// Normalization is owned here, not by callers.
func Normalize(values []string) []string {
	cleaned := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value != "" {
			cleaned = append(cleaned, value)
		}
	}
	slices.Sort(cleaned)
	return slices.Compact(cleaned)
}
