package services

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatINR formats an amount in Indian Rupee notation: after the rightmost
// 3 digits, digits group in pairs (e.g. ₹1,23,45,678.90), always with two
// decimal places.
func FormatINR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := fmt.Sprintf("%.2f", amount)
	parts := strings.SplitN(raw, ".", 2)

	result := "₹" + applyIndianGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatAmount renders a nullable rate or total for display. Unresolved
// values render empty so they cannot be mistaken for a zero price.
func FormatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatINR(*v)
}

// FormatQty renders a quantity without trailing decimal noise.
func FormatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// applyIndianGrouping inserts commas using the Indian numbering system: the
// rightmost 3 digits form the first group, then pairs.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]
	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}
	return result
}
