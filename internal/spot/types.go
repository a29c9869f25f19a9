// Package spot defines the canonical data model shared by every pipeline
// stage: the normalized spot record, the rollup aggregate shapes at each
// time-hierarchy level, and the manifest that indexes published rollups.
package spot

import "time"

// NormalizedSpot is the canonical record produced by the normalizer and
// persisted verbatim in raw capture files. It is never mutated after
// creation.
type NormalizedSpot struct {
	CapturedAt     time.Time `json:"captured_at"`
	SpotID         int64     `json:"spot_id"`
	Activator      string    `json:"activator"`
	Reference      string    `json:"reference"`
	FrequencyKHz   float64   `json:"frequency_khz"`
	Mode           string    `json:"mode"`
	Band           string    `json:"band"`
	Source         string    `json:"source"`
	Entity         string    `json:"entity"`
	Grid           string    `json:"grid"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	ActivatorName  string    `json:"activator_name"`
	Spotter        string    `json:"spotter"`
	State          *string   `json:"state"`
}

// AggregateKey is the composite grouping key used at every rollup level.
type AggregateKey struct {
	Mode   string
	Band   string
	Entity string
}

// BaseAggregate is one row of a rollup file, keyed by (Mode, Band, Entity).
// The set-valued fields are persisted as JSON arrays with unspecified order;
// readers must treat them as sets.
type BaseAggregate struct {
	Mode             string   `json:"mode"`
	Band             string   `json:"band"`
	Entity           string   `json:"entity"`
	SpotCount        int      `json:"spot_count"`
	ActivationCount  int      `json:"activation_count"`
	UniqueActivators int      `json:"unique_activators"`
	UniqueParks      int      `json:"unique_parks"`
	Activators       []string `json:"activators"`
	Parks            []string `json:"parks"`
	Activations      []string `json:"activations"`       // "ACTIVATOR|PARK"
	StateActivators  []string `json:"state_activators"`   // "STATE|ACTIVATOR", US only
}

// Key returns the composite grouping key for this row.
func (a *BaseAggregate) Key() AggregateKey {
	return AggregateKey{Mode: a.Mode, Band: a.Band, Entity: a.Entity}
}

// HourlyAggregate is a BaseAggregate timestamped to an ISO hour (minute=0).
type HourlyAggregate struct {
	Hour string `json:"hour"`
	BaseAggregate
}

// DailyAggregate is a BaseAggregate timestamped to a YYYY-MM-DD date.
type DailyAggregate struct {
	Date string `json:"date"`
	BaseAggregate
}

// MonthlyAggregate is a BaseAggregate timestamped to a YYYY-MM month.
type MonthlyAggregate struct {
	Month string `json:"month"`
	BaseAggregate
}

// AggregateMeta is the sidecar "...meta.json" object published alongside
// every rollup file, summarizing it without requiring a full read.
type AggregateMeta struct {
	Timestamp      string    `json:"timestamp"`
	GeneratedAt    time.Time `json:"generated_at"`
	TotalSpots     int       `json:"total_spots"`
	TotalRows      int       `json:"total_rows"`
	FilesProcessed int       `json:"files_processed"`
}

// Level identifies a rollup tier.
type Level string

const (
	Hourly  Level = "hourly"
	Daily   Level = "daily"
	Monthly Level = "monthly"
)

// ManifestEntry is one row in a per-level manifest list. Depending on Level,
// exactly one of Hour/Day/Month is meaningful; callers should use the
// accessor matching the manifest list they pulled the entry from.
type ManifestEntry struct {
	Hour             string `json:"hour,omitempty"`
	Day              string `json:"day,omitempty"`
	Month            string `json:"month,omitempty"`
	Path             string `json:"path"`
	TotalSpots       int    `json:"total_spots"`
	TotalActivations int    `json:"total_activations"`
}

// Timestamp returns whichever of Hour/Day/Month is set for this entry.
func (e ManifestEntry) Timestamp() string {
	switch {
	case e.Hour != "":
		return e.Hour
	case e.Day != "":
		return e.Day
	default:
		return e.Month
	}
}

// Manifest is the single mutable index object, manifest.json.
type Manifest struct {
	UpdatedAt time.Time       `json:"updated_at"`
	Hourly    []ManifestEntry `json:"hourly"`
	Daily     []ManifestEntry `json:"daily"`
	Monthly   []ManifestEntry `json:"monthly"`
}

// Retention caps per manifest level: 30 days of hours, 90 days, 24 months.
const (
	HourlyCap  = 720
	DailyCap   = 90
	MonthlyCap = 24
)
