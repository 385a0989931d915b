package dashboard

import (
	"fmt"
	"math"
)

// NoPace is shown when there is no qualifying run to take a pace from.
const NoPace = "--:--"

// Pace is seconds per kilometer. The zero value means "no data".
type Pace struct {
	Seconds float64
	Valid   bool
}

func PaceOf(seconds float64) Pace {
	return Pace{Seconds: seconds, Valid: true}
}

func (p Pace) String() string {
	if !p.Valid {
		return NoPace
	}
	return FormatPace(p.Seconds)
}

// FormatPace renders seconds as m:ss. Zero, negative and non-finite inputs
// render as NoPace.
func FormatPace(seconds float64) string {
	if seconds <= 0 || math.IsInf(seconds, 0) || math.IsNaN(seconds) {
		return NoPace
	}
	whole := int(seconds)
	if whole == 0 {
		return NoPace
	}
	return fmt.Sprintf("%d:%02d", whole/60, whole%60)
}
