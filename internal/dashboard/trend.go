package dashboard

import "github.com/charmbracelet/lipgloss"

// Trend is the binary direction of a metric. There is no neutral state,
// a tie is Declining for every metric.
type Trend int

const (
	Declining Trend = iota
	Improving
)

const (
	glyphUp   = "↑"
	glyphDown = "↓"
)

var (
	ColorImproving = lipgloss.Color("2") // green
	ColorDeclining = lipgloss.Color("1") // red
	ColorNeutral   = lipgloss.Color("3") // yellow
)

func (t Trend) String() string {
	if t == Improving {
		return "improving"
	}
	return "declining"
}

func (t Trend) Glyph() string {
	if t == Improving {
		return glyphUp
	}
	return glyphDown
}

func (t Trend) Color() lipgloss.Color {
	if t == Improving {
		return ColorImproving
	}
	return ColorDeclining
}

func trendOf(improving bool) Trend {
	if improving {
		return Improving
	}
	return Declining
}

// EvaluateDistance compares recent ride volume against the baseline.
func EvaluateDistance(recentKm, baselineKm float64) Trend {
	return trendOf(recentKm > baselineKm)
}

// EvaluatePace is Improving only when the recent best exists and is strictly
// faster (fewer seconds per km) than the all-time best. No recent runs is
// Declining.
func EvaluatePace(recentBest, allTimeBest Pace) Trend {
	if !recentBest.Valid || !allTimeBest.Valid {
		return Declining
	}
	return trendOf(recentBest.Seconds < allTimeBest.Seconds)
}

// EvaluateCount compares this month's activity count with the previous one.
func EvaluateCount(thisMonth, prevMonth int) Trend {
	return trendOf(thisMonth > prevMonth)
}
