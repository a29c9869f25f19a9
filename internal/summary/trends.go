package summary

import (
	"context"
	"strings"
	"time"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/spot"
)

const (
	trendDailyPoints   = 14
	trendWeeklyPoints  = 14
	trendMonthlyPoints = 12
)

// modeCategory classifies a mode string into one of the three trend
// categories. Case-insensitive. Modes outside all three categories still
// contribute to a period's total activator count but to no category.
func modeCategory(mode string) string {
	switch strings.ToUpper(mode) {
	case "CW":
		return "cw"
	case "SSB", "AM", "FM", "LSB", "USB":
		return "ssb"
	case "FT8", "FT4", "RTTY", "PSK31", "PSK", "JS8", "MFSK", "OLIVIA", "SSTV", "DIGITAL":
		return "digital"
	default:
		return ""
	}
}

// periodPoint is one row of trends.json's daily/weekly/monthly arrays.
type periodPoint struct {
	Period     string `json:"period"`
	Activators int    `json:"activators"`
	CW         int    `json:"cw"`
	SSB        int    `json:"ssb"`
	Digital    int    `json:"digital"`
}

// trendsSummary is trends.json.
type trendsSummary struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Daily       []periodPoint `json:"daily"`
	Weekly      []periodPoint `json:"weekly"`
	Monthly     []periodPoint `json:"monthly"`
}

// pointFor folds rows into one periodPoint: activators is the cardinality
// of the period's full activator set; cw/ssb/digital are the cardinalities
// of the subsets filtered by mode category.
func pointFor(period string, rows []spot.BaseAggregate) periodPoint {
	all := map[string]struct{}{}
	cw := map[string]struct{}{}
	ssb := map[string]struct{}{}
	digital := map[string]struct{}{}

	for _, r := range rows {
		cat := modeCategory(r.Mode)
		for _, a := range r.Activators {
			all[a] = struct{}{}
			switch cat {
			case "cw":
				cw[a] = struct{}{}
			case "ssb":
				ssb[a] = struct{}{}
			case "digital":
				digital[a] = struct{}{}
			}
		}
	}

	return periodPoint{
		Period:     period,
		Activators: len(all),
		CW:         len(cw),
		SSB:        len(ssb),
		Digital:    len(digital),
	}
}

// weekStart returns the UTC Sunday of the week containing t.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, -int(midnight.Weekday()))
}

// publishTrends emits trends.json: daily points for the last 14 days,
// weekly points (bucketed by UTC-Sunday week start) for the last 14
// weeks, and monthly points for the last 12 months.
func (b *Builder) publishTrends(ctx context.Context, m spot.Manifest, now time.Time) error {
	dailyByDate := make(map[string]string, len(m.Daily))
	for _, e := range m.Daily {
		dailyByDate[e.Day] = e.Path
	}
	monthlyByMonth := make(map[string]string, len(m.Monthly))
	for _, e := range m.Monthly {
		monthlyByMonth[e.Month] = e.Path
	}

	// daily: one rollup file already holds the whole day's merged rows.
	dailyPoints := make([]periodPoint, trendDailyPoints)
	for i := 0; i < trendDailyPoints; i++ {
		day := now.AddDate(0, 0, -(trendDailyPoints - 1 - i))
		date := bucketpath.DayTimestamp(day)
		var rows []spot.BaseAggregate
		if path, ok := dailyByDate[date]; ok {
			rows = fetchRows[spot.BaseAggregate](ctx, b, []string{path})
		}
		dailyPoints[i] = pointFor(date, rows)
	}

	// weekly: merge every covered day's rows within each week.
	weeklyPoints := make([]periodPoint, trendWeeklyPoints)
	thisWeekStart := weekStart(now)
	for i := 0; i < trendWeeklyPoints; i++ {
		ws := thisWeekStart.AddDate(0, 0, -7*(trendWeeklyPoints-1-i))
		var paths []string
		for d := 0; d < 7; d++ {
			date := bucketpath.DayTimestamp(ws.AddDate(0, 0, d))
			if path, ok := dailyByDate[date]; ok {
				paths = append(paths, path)
			}
		}
		rows := mergeRows(fetchRows[spot.BaseAggregate](ctx, b, paths))
		weeklyPoints[i] = pointFor(bucketpath.DayTimestamp(ws), rows)
	}

	// monthly: one rollup file already holds the whole month's merged rows.
	// Subtracting from the first of the month (rather than now directly)
	// avoids AddDate's day-overflow normalization rolling into the wrong
	// month (e.g. Mar 31 minus one month landing on Mar 3, not Feb).
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthlyPoints := make([]periodPoint, trendMonthlyPoints)
	for i := 0; i < trendMonthlyPoints; i++ {
		month := firstOfMonth.AddDate(0, -(trendMonthlyPoints - 1 - i), 0)
		key := bucketpath.MonthTimestamp(month)
		var rows []spot.BaseAggregate
		if path, ok := monthlyByMonth[key]; ok {
			rows = fetchRows[spot.BaseAggregate](ctx, b, []string{path})
		}
		monthlyPoints[i] = pointFor(key, rows)
	}

	return b.put(ctx, "trends", trendsSummary{
		GeneratedAt: now,
		Daily:       dailyPoints,
		Weekly:      weeklyPoints,
		Monthly:     monthlyPoints,
	})
}
