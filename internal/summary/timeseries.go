package summary

import (
	"context"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/spot"
)

// hourBucket is one row of time_of_day.json.
type hourBucket struct {
	Hour  int `json:"hour"`
	Spots int `json:"spots"`
}

// dayBucket is one row of day_of_week.json. Day follows time.Weekday:
// Sunday = 0.
type dayBucket struct {
	Day   int `json:"day"`
	Spots int `json:"spots"`
}

// publishTimeOfDay emits time_of_day.json by attributing every manifest
// hourly entry's total_spots to its hour-of-day, without reading any
// rollup body.
func (b *Builder) publishTimeOfDay(ctx context.Context, m spot.Manifest) error {
	var counts [24]int
	for _, e := range m.Hourly {
		t, err := bucketpath.ParseHourTimestamp(e.Hour)
		if err != nil {
			b.log.Warn().Err(err).Str("hour", e.Hour).Msg("skipping unparseable manifest entry")
			continue
		}
		counts[t.Hour()] += e.TotalSpots
	}

	rows := make([]hourBucket, 24)
	for h := 0; h < 24; h++ {
		rows[h] = hourBucket{Hour: h, Spots: counts[h]}
	}
	return b.put(ctx, "time_of_day", rows)
}

// publishDayOfWeek emits day_of_week.json by attributing every manifest
// daily entry's total_spots to its weekday.
func (b *Builder) publishDayOfWeek(ctx context.Context, m spot.Manifest) error {
	var counts [7]int
	for _, e := range m.Daily {
		t, err := bucketpath.ParseDayTimestamp(e.Day)
		if err != nil {
			b.log.Warn().Err(err).Str("day", e.Day).Msg("skipping unparseable manifest entry")
			continue
		}
		counts[int(t.Weekday())] += e.TotalSpots
	}

	rows := make([]dayBucket, 7)
	for d := 0; d < 7; d++ {
		rows[d] = dayBucket{Day: d, Spots: counts[d]}
	}
	return b.put(ctx, "day_of_week", rows)
}
