package due

import (
	"fmt"
	"math"
)

const (
	millisPerMinute = 60_000
	minutesPerHour  = 60
	hoursPerDay     = 24

	// Below these thresholds the next coarser unit is not used.
	minuteThreshold = 60
	hourThreshold   = 48
)

// Label describes dueTs relative to now in whole minutes, hours or days.
//
//	dueTs <= now       "overdue by N minutes" (floor)
//	< 60 minutes away  "due in N minutes"
//	< 48 hours away    "due in N hours"
//	otherwise          "due in N days"
//
// Future quantities are rounded half away from zero from the previous unit.
func Label(dueTs, now int64) string {
	if dueTs <= now {
		return fmt.Sprintf("overdue by %d minutes", (now-dueTs)/millisPerMinute)
	}

	mins := math.Round(float64(dueTs-now) / millisPerMinute)
	if mins < minuteThreshold {
		return fmt.Sprintf("due in %d minutes", int64(mins))
	}

	hrs := math.Round(mins / minutesPerHour)
	if hrs < hourThreshold {
		return fmt.Sprintf("due in %d hours", int64(hrs))
	}

	days := math.Round(hrs / hoursPerDay)
	return fmt.Sprintf("due in %d days", int64(days))
}
