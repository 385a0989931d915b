package activity

import (
	"time"
)

// Sport is the coarse classification used by the dashboard metrics.
type Sport int

const (
	SportOther Sport = iota
	SportRun
	SportRide
)

func (s Sport) String() string {
	switch s {
	case SportRun:
		return "Run"
	case SportRide:
		return "Ride"
	default:
		return "Other"
	}
}

// Activity is one logged exercise session, as returned by
// GET /athlete/activities. Records are never mutated after decoding.
type Activity struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Type               string    `json:"type"`
	SportType          string    `json:"sport_type"`
	StartDate          time.Time `json:"start_date"`
	StartDateLocal     time.Time `json:"start_date_local"`
	Timezone           string    `json:"timezone"`
	Distance           float64   `json:"distance"`     // meters
	MovingTime         int       `json:"moving_time"`  // seconds
	ElapsedTime        int       `json:"elapsed_time"` // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"`
	AverageSpeed       *float64  `json:"average_speed,omitempty"` // m/s
	MaxSpeed           *float64  `json:"max_speed,omitempty"`
	AverageHeartrate   *float64  `json:"average_heartrate,omitempty"`
	MaxHeartrate       *float64  `json:"max_heartrate,omitempty"`
	Calories           *float64  `json:"calories,omitempty"`
	Description        *string   `json:"description,omitempty"`
	KudosCount         *int      `json:"kudos_count,omitempty"`
	Private            *bool     `json:"private,omitempty"`
	Commute            *bool     `json:"commute,omitempty"`
	Manual             *bool     `json:"manual,omitempty"`
	GearID             *string   `json:"gear_id,omitempty"`
}

// Sport classifies the activity. Strava reports both the legacy "type" and
// the newer "sport_type"; either one naming Run or Ride is enough.
// Run wins when the two fields disagree.
func (a *Activity) Sport() Sport {
	switch {
	case a.Type == "Run" || a.SportType == "Run":
		return SportRun
	case a.Type == "Ride" || a.SportType == "Ride":
		return SportRide
	default:
		return SportOther
	}
}

func (a *Activity) DistanceKm() float64 {
	return a.Distance / 1000
}

// PaceSecondsPerKm returns moving time per kilometer, and false when the
// activity has no distance or no moving time.
func (a *Activity) PaceSecondsPerKm() (float64, bool) {
	if a.Distance <= 0 || a.MovingTime <= 0 {
		return 0, false
	}
	return float64(a.MovingTime) / a.DistanceKm(), true
}

// RelativePerformance is time-at-average-speed divided by average heart rate.
func (a *Activity) RelativePerformance() (float64, bool) {
	if a.AverageSpeed == nil || a.AverageHeartrate == nil {
		return 0, false
	}
	if *a.AverageSpeed <= 0 || *a.AverageHeartrate <= 0 {
		return 0, false
	}
	return (a.Distance / *a.AverageSpeed) / *a.AverageHeartrate, true
}
