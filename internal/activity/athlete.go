package activity

// Athlete is the authenticated athlete profile (GET /athlete).
type Athlete struct {
	ID            int64   `json:"id"`
	Username      *string `json:"username,omitempty"`
	FirstName     string  `json:"firstname"`
	LastName      string  `json:"lastname"`
	City          *string `json:"city,omitempty"`
	Country       *string `json:"country,omitempty"`
	Profile       *string `json:"profile,omitempty"`
	ProfileMedium *string `json:"profile_medium,omitempty"`
}

// AthleteStats is the summary returned by GET /athletes/{id}/stats.
type AthleteStats struct {
	// BiggestRideDistance is reported upstream in meters; nil when unknown.
	BiggestRideDistance       *float64      `json:"biggest_ride_distance,omitempty"`
	BiggestClimbElevationGain *float64      `json:"biggest_climb_elevation_gain,omitempty"`
	RecentRunTotals           ActivityTotal `json:"recent_run_totals"`
	RecentRideTotals          ActivityTotal `json:"recent_ride_totals"`
	YtdRunTotals              ActivityTotal `json:"ytd_run_totals"`
	YtdRideTotals             ActivityTotal `json:"ytd_ride_totals"`
	AllRunTotals              ActivityTotal `json:"all_run_totals"`
	AllRideTotals             ActivityTotal `json:"all_ride_totals"`
}

type ActivityTotal struct {
	Count         int     `json:"count"`
	Distance      float64 `json:"distance"`
	MovingTime    int     `json:"moving_time"`
	ElapsedTime   int     `json:"elapsed_time"`
	ElevationGain float64 `json:"elevation_gain"`
}
