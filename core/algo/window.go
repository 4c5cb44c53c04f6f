package algo

import "math"

// DefaultWindowSize is the number of preceding periods in a rolling average.
const DefaultWindowSize = 3

// PrecedingWindow returns up to size labels strictly before target, oldest first.
// It returns fewer when history is short and nothing when target <= 0.
// A target past the end is treated as len(periods).
func PrecedingWindow(periods []string, target, size int) []string {
	if target <= 0 || size <= 0 {
		return []string{}
	}
	target = min(target, len(periods))
	start := max(target-size, 0)
	return append([]string{}, periods[start:target]...)
}

// WindowAverage averages the values present for the labels in window, rounded
// to the nearest minute. Labels without a value are skipped and do not count
// towards the denominator. It returns 0 when no label has a value.
func WindowAverage(values map[string]float64, window []string) int {
	var sum float64
	var n int
	for _, label := range window {
		if v, ok := values[label]; ok && !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return int(math.Round(sum / float64(n)))
}
