package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber builds a business-facing document number like DC-2024-0001.
func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// NumberPrefix returns the prefix shared by all numbers of a given year,
// e.g. "DC-2024-".
func NumberPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// NumericSuffix parses the trailing sequence of a document number.
// Returns 0 for anything that does not end in a numeric suffix.
func NumericSuffix(number string) int {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0
	}
	n, err := strconv.Atoi(number[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
