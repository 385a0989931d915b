package dashboard

import (
	"fmt"
	"time"

	"github.com/2beens/sportfrei/internal/activity"
)

const monthsPerYear = 12

// DistanceMetric compares the ride volume of the recent window with a
// monthly average derived from the all-time biggest ride.
// AllTimeKm is a peak (single ride), RecentKm a sum.
type DistanceMetric struct {
	AllTimeKm  float64
	RecentKm   float64
	BaselineKm float64
}

func (m DistanceMetric) Trend() Trend {
	return EvaluateDistance(m.RecentKm, m.BaselineKm)
}

func (m DistanceMetric) Pair() Pair {
	return Pair{
		Current:  fmt.Sprintf("%.1f km", m.RecentKm),
		Baseline: fmt.Sprintf("%.1f km monthly avg", m.BaselineKm),
		Extra:    fmt.Sprintf("all-time: %.1f km", m.AllTimeKm),
		Trend:    m.Trend(),
	}
}

// PaceMetric holds the best (lowest) run paces, all-time and recent.
type PaceMetric struct {
	AllTimeBest Pace
	RecentBest  Pace
}

func (m PaceMetric) Trend() Trend {
	return EvaluatePace(m.RecentBest, m.AllTimeBest)
}

func (m PaceMetric) Pair() Pair {
	return Pair{
		Current:  m.RecentBest.String() + " /km",
		Baseline: m.AllTimeBest.String(),
		Trend:    m.Trend(),
	}
}

// CountMetric counts activities of any sport per calendar month.
type CountMetric struct {
	ThisMonth int
	PrevMonth int
}

func (m CountMetric) Trend() Trend {
	return EvaluateCount(m.ThisMonth, m.PrevMonth)
}

func (m CountMetric) Pair() Pair {
	return Pair{
		Current:  fmt.Sprintf("%d", m.ThisMonth),
		Baseline: fmt.Sprintf("%d last month", m.PrevMonth),
		Trend:    m.Trend(),
	}
}

// Pair is a computed metric ready for display: the formatted current value,
// the formatted baseline it is compared to, and the trend derived from the
// underlying numbers.
type Pair struct {
	Current  string
	Baseline string
	Extra    string
	Trend    Trend
}

// ComputeDistance sums the distance of rides inside the recent window and
// takes the all-time biggest ride from the upstream stats (0 when absent).
func ComputeDistance(activities []activity.Activity, stats *activity.AthleteStats, now time.Time, opts Options) DistanceMetric {
	var m DistanceMetric
	if stats != nil && stats.BiggestRideDistance != nil {
		m.AllTimeKm = *stats.BiggestRideDistance / 1000
	}
	m.BaselineKm = m.AllTimeKm / monthsPerYear

	for _, a := range Filter(activities, Rolling{Now: now, Days: opts.recentDays()}) {
		if a.Sport() == activity.SportRide {
			m.RecentKm += a.DistanceKm()
		}
	}

	return m
}

// ComputePace finds the lowest seconds-per-km among runs with a positive
// distance, over all activities and over the recent window.
func ComputePace(activities []activity.Activity, now time.Time, opts Options) PaceMetric {
	recent := Rolling{Now: now, Days: opts.recentDays()}

	var m PaceMetric
	for i := range activities {
		a := &activities[i]
		if a.Sport() != activity.SportRun {
			continue
		}
		pace, ok := a.PaceSecondsPerKm()
		if !ok || pace <= 0 {
			continue
		}
		m.AllTimeBest = minPace(m.AllTimeBest, pace)
		if recent.Match(a) {
			m.RecentBest = minPace(m.RecentBest, pace)
		}
	}

	return m
}

// ComputeCount counts activities in now's month and in the previous month.
func ComputeCount(activities []activity.Activity, now time.Time, opts Options) CountMetric {
	prevLabel := PrevMonthLabel(now)
	if opts.ExactPrevMonth {
		prevLabel = PrevCalendarMonthLabel(now)
	}

	return CountMetric{
		ThisMonth: Count(activities, CalendarMonth{Label: MonthLabel(now)}),
		PrevMonth: Count(activities, CalendarMonth{Label: prevLabel}),
	}
}

func minPace(current Pace, seconds float64) Pace {
	if !current.Valid || seconds < current.Seconds {
		return PaceOf(seconds)
	}
	return current
}
