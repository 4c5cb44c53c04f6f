package algo

import (
	"math"

	"github.com/huangsam/kpidash/schema"
)

// TrendEpsilon is the smallest difference treated as a change.
const TrendEpsilon = 0.01

// Reduction tier cutoffs, in percent.
const (
	bestTierCutoff     = 70.0
	goodTierCutoff     = 40.0
	marginalTierCutoff = 20.0
)

// Trend is the direction of a change and how it should be colored.
type Trend struct {
	Direction schema.Direction
	Class     schema.CellClass
}

var neutralTrend = Trend{Direction: schema.Unchanged, Class: schema.Neutral}

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}

// ClassifyTrend compares current against baseline. Differences under TrendEpsilon
// and missing operands are neutral. higherIsBetter selects the color polarity.
func ClassifyTrend(current, baseline *float64, higherIsBetter bool) Trend {
	if !present(current) || !present(baseline) {
		return neutralTrend
	}
	diff := *current - *baseline
	if math.Abs(diff) < TrendEpsilon {
		return neutralTrend
	}

	dir := schema.Lower
	if diff > 0 {
		dir = schema.Higher
	}
	if (dir == schema.Higher) == higherIsBetter {
		return Trend{Direction: dir, Class: schema.Favorable}
	}
	return Trend{Direction: dir, Class: schema.Unfavorable}
}

// ClassifyRatioAgainstBaseline colors a defect-style ratio against its baseline.
// Zero is always favorable. Unlike ClassifyTrend there is no neutral band: any
// strict difference is colored. An equal or missing baseline is neutral.
func ClassifyRatioAgainstBaseline(current, baseline *float64) schema.CellClass {
	switch {
	case !present(current):
		return schema.NotApplicable
	case *current == 0:
		return schema.Favorable
	case !present(baseline):
		return schema.Neutral
	case *current < *baseline:
		return schema.Favorable
	case *current > *baseline:
		return schema.Unfavorable
	default:
		return schema.Neutral
	}
}

// ClassifyGoalAchievement is favorable when percent reaches goal.
func ClassifyGoalAchievement(percent *float64, goal float64) schema.CellClass {
	if !present(percent) {
		return schema.NotApplicable
	}
	if *percent >= goal {
		return schema.Favorable
	}
	return schema.Unfavorable
}

// ClassifyReductionMagnitude buckets a reduction percentage into a tier.
func ClassifyReductionMagnitude(percent *float64) schema.Tier {
	if !present(percent) {
		return schema.NoTier
	}
	switch p := *percent; {
	case p >= bestTierCutoff:
		return schema.BestTier
	case p >= goodTierCutoff:
		return schema.GoodTier
	case p >= marginalTierCutoff:
		return schema.MarginalTier
	default:
		return schema.PoorTier
	}
}

// Arrow returns the glyph for a direction, or "" when unchanged.
func Arrow(dir schema.Direction) string {
	switch dir {
	case schema.Higher:
		return "↑"
	case schema.Lower:
		return "↓"
	default:
		return ""
	}
}

// FormatRatioWithTrend renders a ratio prefixed by its direction against baseline.
// A zero ratio is always shown as "↓ 0%".
func FormatRatioWithTrend(current, baseline *float64, decimals int) string {
	if !present(current) {
		return "NA"
	}
	if *current == 0 {
		return "↓ 0%"
	}
	text := FormatPercent(current, decimals)
	if arrow := Arrow(ClassifyTrend(current, baseline, false).Direction); arrow != "" {
		return arrow + " " + text
	}
	return text
}
