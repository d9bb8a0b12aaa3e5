package cli

import (
	"strconv"
	"strings"
)

// FormatINR renders an amount in rupees with Indian digit grouping, e.g.
// 1234567.5 becomes ₹12,34,567.50. Whole amounts drop the decimals.
func FormatINR(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := strconv.FormatFloat(amount, 'f', -1, 64)
	whole, frac, hasFrac := strings.Cut(s, ".")
	if hasFrac && len(frac) == 1 {
		frac += "0"
	}

	grouped := groupIndian(whole)
	out := "₹" + grouped
	if hasFrac {
		out += "." + frac
	}
	if negative {
		out = "-" + out
	}
	return out
}

// groupIndian inserts commas in the 3-then-2 Indian pattern.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}

	return strings.Join(append(groups, tail), ",")
}
