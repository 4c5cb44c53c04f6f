package algo

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// DefaultGraceDays is how long after a quarter ends a date still counts towards it.
const DefaultGraceDays = 10

// Quarter labels for epics that cannot be placed on the fiscal calendar.
const (
	NoEndDateQuarter = "No End Date"
	UnknownQuarter   = "Unknown"
)

// FiscalQuarter returns the fiscal year and quarter of t. The fiscal year starts
// on April 1 and is named after the calendar year it ends in, so May 2024 is
// FY25 Q1 and January 2025 is FY25 Q4.
func FiscalQuarter(t time.Time) (year, quarter int) {
	month := int(t.Month())
	if month <= 3 {
		return t.Year(), 4
	}
	return t.Year() + 1, (month-4)/3 + 1
}

// FiscalQuarterEnd returns the last day of a fiscal quarter.
func FiscalQuarterEnd(year, quarter int) time.Time {
	switch quarter {
	case 1:
		return time.Date(year-1, time.June, 30, 0, 0, 0, 0, time.UTC)
	case 2:
		return time.Date(year-1, time.September, 30, 0, 0, 0, 0, time.UTC)
	case 3:
		return time.Date(year-1, time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(year, time.March, 31, 0, 0, 0, 0, time.UTC)
	}
}

// FiscalLabel formats a fiscal quarter as "FY25 Q1".
func FiscalLabel(year, quarter int) string {
	return fmt.Sprintf("FY%02d Q%d", year%100, quarter)
}

// AssignFiscalQuarter labels the fiscal quarter of t. Dates up to graceDays after
// the previous quarter's end are assigned to that previous quarter.
func AssignFiscalQuarter(t time.Time, graceDays int) string {
	year, quarter := FiscalQuarter(t)
	prevYear, prevQuarter := year, quarter-1
	if quarter == 1 {
		prevYear, prevQuarter = year-1, 4
	}

	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	daysAfter := int(day.Sub(FiscalQuarterEnd(prevYear, prevQuarter)).Hours() / 24)
	if daysAfter > 0 && daysAfter <= graceDays {
		return FiscalLabel(prevYear, prevQuarter)
	}
	return FiscalLabel(year, quarter)
}

// QuarterForEndDate labels an epic end date ("YYYY-MM-DD", optionally followed by
// a time). Empty dates map to NoEndDateQuarter and unreadable ones to UnknownQuarter.
func QuarterForEndDate(end string, graceDays int) string {
	end = strings.TrimSpace(end)
	if end == "" {
		return NoEndDateQuarter
	}
	if len(end) > 10 {
		end = end[:10]
	}
	t, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return UnknownQuarter
	}
	return AssignFiscalQuarter(t, graceDays)
}

// SortQuarterLabels orders quarter labels ascending, with labels that are not
// on the fiscal calendar placed last.
func SortQuarterLabels(labels []string) {
	rank := func(s string) int {
		switch s {
		case NoEndDateQuarter:
			return 2
		case UnknownQuarter:
			return 3
		}
		return 0
	}
	slices.SortFunc(labels, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
}
