// Package pricing turns raw, source-formatted price strings into comparable
// numeric values.
package pricing

import (
	"math"
	"strconv"
	"strings"
)

// Normalize converts a raw price string into a float64 sort key.
// Currency symbols, grouping commas (including Indian lakh/crore grouping)
// and any other non-numeric runes are stripped before parsing, so
// "₹1,23,456.78" becomes 123456.78.
//
// Unparseable input (empty, no digits, multiple decimal points) maps to
// +Inf so it always sorts last. Normalize never fails.
func Normalize(raw string) float64 {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}
