package algo

import (
	"math"
	"strconv"
)

// DefaultPercentDecimals is the precision used when a caller has no preference.
const DefaultPercentDecimals = 1

// ComputeRatio returns numerator/denominator*100, or nil when the denominator
// is absent or zero. Inputs are not checked for sign.
func ComputeRatio(numerator float64, denominator *float64) *float64 {
	if denominator == nil || *denominator == 0 {
		return nil
	}
	r := numerator / *denominator * 100
	return &r
}

// CountRatio is ComputeRatio over nullable counters. A missing numerator is not applicable.
func CountRatio(numerator, denominator *int) *float64 {
	if numerator == nil || denominator == nil {
		return nil
	}
	d := float64(*denominator)
	return ComputeRatio(float64(*numerator), &d)
}

// FormatPercent renders a ratio with fixed decimals and a "%" suffix, or "NA".
func FormatPercent(ratio *float64, decimals int) string {
	if ratio == nil || math.IsNaN(*ratio) {
		return "NA"
	}
	return strconv.FormatFloat(*ratio, 'f', max(decimals, 0), 64) + "%"
}
