package orderentry

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numericPrefix matches the leading number of a field value, so "12abc"
// reads as 12 the way a typing user expects.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// parseNumber reads the leading numeric prefix of s. ok is false when s has
// no numeric prefix or the value is not finite.
func parseNumber(s string) (v float64, ok bool) {
	m := numericPrefix.FindString(strings.TrimLeft(s, " \t\n\r"))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, false
	}
	return v, true
}

// parseOrZero is parseNumber with unparseable input read as 0.
func parseOrZero(s string) float64 {
	v, _ := parseNumber(s)
	return v
}

// parseDecimal is parseNumber lifted into a decimal.
func parseDecimal(s string) (decimal.Decimal, bool) {
	v, ok := parseNumber(s)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(v), true
}
