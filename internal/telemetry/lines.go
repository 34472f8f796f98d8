package telemetry

import (
	"math"
	"strconv"
	"strings"
)

// SplitLines splits text on any newline convention (\n, \r\n, \r and the
// Unicode line separators) and drops empty lines.
func SplitLines(text string) []string {
	return strings.FieldsFunc(text, isNewline)
}

func isNewline(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// parseNumber reads a decimal field. Blank, malformed and non-finite values
// all read as 0.
func parseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
