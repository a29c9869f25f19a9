// Package bucketpath centralizes the object-key and timestamp formatting
// shared by every layer of the object store: raw captures, the three
// rollup tiers and their meta sidecars, the manifest, and summaries.
package bucketpath

import (
	"fmt"
	"strings"
	"time"
)

// RawPrefix returns the raw/ prefix for one hour, e.g. "raw/2025/12/27/20/".
func RawPrefix(hour time.Time) string {
	hour = hour.UTC()
	return fmt.Sprintf("raw/%04d/%02d/%02d/%02d/", hour.Year(), hour.Month(), hour.Day(), hour.Hour())
}

// RawObjectKey returns the raw capture object key for one collector tick.
func RawObjectKey(capturedAt time.Time) string {
	ts := capturedAt.UTC().Format("2006-01-02T15:04:05.000Z")
	dashed := dashTimestamp(ts)
	return RawPrefix(capturedAt) + "spots-" + dashed + ".ndjson"
}

// dashTimestamp replaces ":" and "." with "-" in an ISO-8601 timestamp so
// it can be embedded in an object key.
func dashTimestamp(ts string) string {
	ts = strings.ReplaceAll(ts, ":", "-")
	ts = strings.ReplaceAll(ts, ".", "-")
	return ts
}

// HourlyPrefix returns the hourly/ prefix for the day containing t, e.g.
// "hourly/2025/12/27/".
func HourlyPrefix(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("hourly/%04d/%02d/%02d/", t.Year(), t.Month(), t.Day())
}

// HourlyObjectBase returns the un-hashed hourly rollup path, e.g.
// "hourly/2025/12/27/20.ndjson".
func HourlyObjectBase(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("hourly/%04d/%02d/%02d/%02d.ndjson", t.Year(), t.Month(), t.Day(), t.Hour())
}

// HourlyMetaKey returns the sidecar meta path for the hour containing t.
func HourlyMetaKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("hourly/%04d/%02d/%02d/%02d.meta.json", t.Year(), t.Month(), t.Day(), t.Hour())
}

// DailyPrefix returns the daily/ prefix for the month containing t.
func DailyPrefix(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("daily/%04d/%02d/", t.Year(), t.Month())
}

// DailyObjectBase returns the un-hashed daily rollup path.
func DailyObjectBase(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("daily/%04d/%02d/%02d.ndjson", t.Year(), t.Month(), t.Day())
}

// DailyMetaKey returns the sidecar meta path for the day containing t.
func DailyMetaKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("daily/%04d/%02d/%02d.meta.json", t.Year(), t.Month(), t.Day())
}

// MonthlyPrefix returns the monthly/ prefix for the year containing t.
func MonthlyPrefix(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("monthly/%04d/", t.Year())
}

// MonthlyObjectBase returns the un-hashed monthly rollup path.
func MonthlyObjectBase(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("monthly/%04d/%02d.ndjson", t.Year(), t.Month())
}

// MonthlyMetaKey returns the sidecar meta path for the month containing t.
func MonthlyMetaKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("monthly/%04d/%02d.meta.json", t.Year(), t.Month())
}

// HourTimestamp returns the derived hour timestamp used as the manifest key
// and the HourlyAggregate.Hour field: full ISO-8601, minutes/seconds zeroed.
func HourTimestamp(t time.Time) string {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05.000Z")
}

// DayTimestamp returns the derived day timestamp, YYYY-MM-DD.
func DayTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// MonthTimestamp returns the derived month timestamp, YYYY-MM.
func MonthTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01")
}

const ManifestKey = "manifest.json"

// SummaryKey returns the summaries/<name>.json object key.
func SummaryKey(name string) string {
	return "summaries/" + name + ".json"
}

// ParseHourTimestamp parses a value produced by HourTimestamp.
func ParseHourTimestamp(ts string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.000Z", ts)
}

// ParseDayTimestamp parses a value produced by DayTimestamp.
func ParseDayTimestamp(ts string) (time.Time, error) {
	return time.Parse("2006-01-02", ts)
}

// ParseMonthTimestamp parses a value produced by MonthTimestamp.
func ParseMonthTimestamp(ts string) (time.Time, error) {
	return time.Parse("2006-01", ts)
}
