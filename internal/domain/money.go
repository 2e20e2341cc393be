package domain

import "fmt"

// FormatCompactUSD renders a dollar amount with a trillion, billion or
// million suffix and two decimal places, e.g. "$1.23T". Amounts below one
// million are rendered in full.
func FormatCompactUSD(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
	return fmt.Sprintf("$%.2f", v)
}
