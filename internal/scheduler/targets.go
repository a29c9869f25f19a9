package scheduler

import (
	"time"

	"github.com/n7qsk/potalake/internal/spot"
)

// ResolveLevel maps a scheduler trigger name to the aggregation level it
// drives. An unrecognized name defaults to hourly.
func ResolveLevel(triggerName string) spot.Level {
	switch triggerName {
	case "aggregate-day":
		return spot.Daily
	case "aggregate-month":
		return spot.Monthly
	default:
		return spot.Hourly
	}
}

// PreviousHour returns the start of the hour before now, in UTC: the
// bucket the aggregate-hour trigger (fired at xx:05) aggregates.
func PreviousHour(now time.Time) time.Time {
	now = now.UTC()
	thisHour := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, time.UTC)
	return thisHour.Add(-time.Hour)
}

// PreviousDay returns midnight UTC of the day before now, the bucket the
// aggregate-day trigger (fired at 00:15 UTC) aggregates.
func PreviousDay(now time.Time) time.Time {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return today.AddDate(0, 0, -1)
}

// PreviousMonth returns the first instant of the month before now, the
// bucket the aggregate-month trigger (fired 00:30 UTC on day 1) aggregates.
func PreviousMonth(now time.Time) time.Time {
	now = now.UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return firstOfMonth.AddDate(0, -1, 0)
}
