package algo

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	minutesPerHour = 60
	minutesPerDay  = 24 * minutesPerHour
)

// Define the regular expression to capture "[N d] [N h] [N m]".
// Each component is optional but they must appear in that order.
var durationRe = regexp.MustCompile(`^\s*(?:(\d+)\s*d)?\s*(?:(\d+)\s*h)?\s*(?:(\d+)\s*m)?\s*$`)

// ParseDuration converts strings like "7 d 15 h 9 m" or "2d 4h" into minutes.
// A missing component contributes zero. Input that does not follow the grammar,
// or whose total does not fit in an int, yields zero rather than an error,
// which is how unreadable cycle times are displayed.
func ParseDuration(text string) int {
	matches := durationRe.FindStringSubmatch(strings.ToLower(text))
	if matches == nil {
		return 0
	}

	// 1: days, 2: hours, 3: minutes
	total := 0
	for i, unit := range []int{minutesPerDay, minutesPerHour, 1} {
		v, ok := atoiOrZero(matches[i+1])
		if !ok || v > (math.MaxInt-total)/unit {
			return 0
		}
		total += v * unit
	}
	return total
}

func atoiOrZero(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// splitMinutes decomposes minutes into days, hours and rounded minutes.
// Minutes are rounded from the remainder and never carried into hours.
func splitMinutes(minutes float64) (days, hours, mins int) {
	days = int(math.Floor(minutes / minutesPerDay))
	hours = int(math.Floor(math.Mod(minutes, minutesPerDay) / minutesPerHour))
	mins = int(math.Round(math.Mod(minutes, minutesPerHour)))
	return days, hours, mins
}

// FormatDurationLong renders minutes as "D d H h M m" with every component shown.
// NaN, zero and negative values render as "-".
func FormatDurationLong(minutes float64) string {
	if math.IsNaN(minutes) || minutes <= 0 {
		return "-"
	}
	d, h, m := splitMinutes(minutes)
	return fmt.Sprintf("%d d %d h %d m", d, h, m)
}

// FormatDurationShort renders minutes as "Dd Hh Mm", omitting zero components.
// Minutes are always shown when nothing else is, so zero renders as "0m".
func FormatDurationShort(minutes float64) string {
	if math.IsNaN(minutes) || minutes < 0 {
		return "-"
	}
	d, h, m := splitMinutes(minutes)

	var parts []string
	if d > 0 {
		parts = append(parts, fmt.Sprintf("%dd", d))
	}
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 || len(parts) == 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	return strings.Join(parts, " ")
}
