package dashboard

import (
	"time"

	"github.com/2beens/sportfrei/internal/activity"
)

const defaultRecentDays = 30

// Snapshot is the read-only input of a render pass. Stats and Athlete are
// nil until the activity source has loaded them.
type Snapshot struct {
	Activities []activity.Activity
	Stats      *activity.AthleteStats
	Athlete    *activity.Athlete
}

type Options struct {
	// RecentWindowDays is the rolling window for the recent distance and
	// pace; 30 when zero.
	RecentWindowDays int
	// ExactPrevMonth compares with the previous calendar month instead of
	// the month 35 days back.
	ExactPrevMonth bool
}

func (o Options) recentDays() int {
	if o.RecentWindowDays <= 0 {
		return defaultRecentDays
	}
	return o.RecentWindowDays
}

// Metrics groups the three dashboard metrics of one render pass.
type Metrics struct {
	Distance DistanceMetric
	Pace     PaceMetric
	Count    CountMetric
}

// Compute runs the three metric computers over the snapshot. Each metric
// is computed independently, so degenerate input for one leaves the others
// intact.
func Compute(snap Snapshot, now time.Time, opts Options) Metrics {
	return Metrics{
		Distance: ComputeDistance(snap.Activities, snap.Stats, now, opts),
		Pace:     ComputePace(snap.Activities, now, opts),
		Count:    ComputeCount(snap.Activities, now, opts),
	}
}
