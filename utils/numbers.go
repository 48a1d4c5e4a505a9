package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Parses a number exported with grouping separators, such as "1,234.56" or "12,000".
// Surrounding whitespace and a leading currency sign are ignored. An empty string is an error.
func ParseGroupedFloat(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "_", "")

	if cleaned == "" {
		return 0, fmt.Errorf("cannot parse empty number")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %q as number: %w", s, err)
	}

	return v, nil
}

// Like ParseGroupedFloat, but truncates towards zero. "2,500.9" becomes 2500.
func ParseGroupedInt(s string) (int, error) {
	v, err := ParseGroupedFloat(s)
	if err != nil {
		return 0, err
	}

	return int(v), nil
}
