package valueobject

import (
	"math"
	"strconv"
	"strings"
)

// CurrencySymbol is the display symbol of the single store currency
const CurrencySymbol = "₹"

// Money is an integer amount in whole currency units.
// There is no fractional unit, so all arithmetic is exact.
type Money int64

// Times returns the amount multiplied by a quantity
func (m Money) Times(quantity int) Money {
	return m * Money(quantity)
}

// CheckedTimes returns the amount multiplied by a non-negative quantity.
// ok is false when either operand is negative or the product overflows.
func (m Money) CheckedTimes(quantity int) (product Money, ok bool) {
	if m < 0 || quantity < 0 {
		return 0, false
	}
	if quantity > 0 && int64(m) > math.MaxInt64/int64(quantity) {
		return 0, false
	}
	return m * Money(quantity), true
}

// CheckedAdd returns the sum of two non-negative amounts.
// ok is false when either is negative or the sum overflows.
func (m Money) CheckedAdd(other Money) (sum Money, ok bool) {
	if m < 0 || other < 0 || int64(m) > math.MaxInt64-int64(other) {
		return 0, false
	}
	return m + other, true
}

// IsNegative returns true if the amount is below zero
func (m Money) IsNegative() bool {
	return m < 0
}

// Int64 returns the raw amount
func (m Money) Int64() int64 {
	return int64(m)
}

// String formats the amount with the currency symbol and Indian digit grouping,
// e.g. 125000 -> "₹1,25,000"
func (m Money) String() string {
	n := int64(m)
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	if len(digits) <= 3 {
		return sign + CurrencySymbol + digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	groups := make([]string, 0, len(head)/2+1)
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + CurrencySymbol + strings.Join(groups, ",") + "," + tail
}

// Sum adds up a list of amounts
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
