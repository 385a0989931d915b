package dashboard

import (
	"time"

	"github.com/2beens/sportfrei/internal/activity"
)

const (
	monthLabelLayout = "2006-01"
	// prevMonthOffsetDays is a coarse "one month ago". On the first days of
	// a month following a short month it lands two months back.
	prevMonthOffsetDays = 35
)

// Policy selects activities by their local start time.
type Policy interface {
	Match(a *activity.Activity) bool
}

// Rolling matches activities that started strictly after now minus Days.
type Rolling struct {
	Now  time.Time
	Days int
}

func (r Rolling) Match(a *activity.Activity) bool {
	from := r.Now.Add(-time.Duration(r.Days) * 24 * time.Hour)
	return a.StartDateLocal.After(from)
}

// CalendarMonth matches activities whose local year-month label equals Label.
type CalendarMonth struct {
	Label string
}

func (c CalendarMonth) Match(a *activity.Activity) bool {
	return MonthLabel(a.StartDateLocal) == c.Label
}

// Filter returns the activities matching the policy, in input order.
func Filter(activities []activity.Activity, p Policy) []*activity.Activity {
	var matched []*activity.Activity
	for i := range activities {
		if p.Match(&activities[i]) {
			matched = append(matched, &activities[i])
		}
	}
	return matched
}

// Count is len(Filter(...)) without the allocation.
func Count(activities []activity.Activity, p Policy) int {
	count := 0
	for i := range activities {
		if p.Match(&activities[i]) {
			count++
		}
	}
	return count
}

func MonthLabel(t time.Time) string {
	return t.Format(monthLabelLayout)
}

// PrevMonthLabel is the month label of now minus 35 days.
func PrevMonthLabel(now time.Time) string {
	return MonthLabel(now.AddDate(0, 0, -prevMonthOffsetDays))
}

// PrevCalendarMonthLabel is the label of the calendar month before now's.
func PrevCalendarMonthLabel(now time.Time) string {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return MonthLabel(firstOfMonth.AddDate(0, -1, 0))
}

// LocalNow re-stamps the wall clock of t as UTC. Strava reports
// start_date_local as local wall time with a Z suffix, so "now" has to be
// expressed the same way before comparing the two.
func LocalNow(t time.Time) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		time.UTC,
	)
}
