package algo

import (
	"fmt"
	"math"
	"slices"

	"github.com/huangsam/kpidash/schema"
)

// Mean returns the arithmetic mean of values, or nil for an empty slice.
func Mean(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	m := sum / float64(len(values))
	return &m
}

// Median returns the median of values, or nil for an empty slice.
// Even-length inputs average the two middle values.
func Median(values []float64) *float64 {
	n := len(values)
	if n == 0 {
		return nil
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	m := sorted[n/2]
	if n%2 == 0 {
		m = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return &m
}

// RoundTo rounds v to the given number of decimals.
func RoundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// SummarizeLeadTimes computes summary statistics over epics that have a lead time.
// The average is rounded to one decimal.
func SummarizeLeadTimes(epics []schema.LeadTimeEpic) schema.LeadTimeSummary {
	summary := schema.LeadTimeSummary{TotalEpics: len(epics)}

	var days []float64
	for _, e := range epics {
		if e.LeadTimeDays != nil {
			days = append(days, float64(*e.LeadTimeDays))
		}
	}
	if len(days) == 0 {
		return summary
	}

	summary.EpicsWithLeadTime = len(days)
	summary.AvgLeadTimeDays = schema.Float(RoundTo(*Mean(days), 1))
	summary.MedianLeadTimeDays = Median(days)
	summary.MinLeadTimeDays = schema.Int(int(slices.Min(days)))
	summary.MaxLeadTimeDays = schema.Int(int(slices.Max(days)))
	return summary
}

// DaysToReadable renders a day count as weeks and days, e.g. "2w 3d".
func DaysToReadable(days int) string {
	if days < 0 {
		return fmt.Sprintf("%dd (negative)", days)
	}
	weeks, rest := days/7, days%7
	switch {
	case weeks > 0 && rest > 0:
		return fmt.Sprintf("%dw %dd", weeks, rest)
	case weeks > 0:
		return fmt.Sprintf("%dw", weeks)
	default:
		return fmt.Sprintf("%dd", days)
	}
}

// ReadableDays is DaysToReadable for a nullable, possibly fractional value.
// Missing values render as "-".
func ReadableDays(days *float64) string {
	if !present(days) {
		return "-"
	}
	return DaysToReadable(int(math.Round(*days)))
}
