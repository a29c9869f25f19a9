package normalize

import (
	"strconv"
	"strings"
	"time"

	"github.com/n7qsk/potalake/internal/spot"
)

// RawSpot is the upstream wire shape: a POTA spot record with a
// string-encoded frequency and free-form casing on mode/reference. Unknown
// or null fields default to empty string / 0 via the JSON decoder's zero
// values.
type RawSpot struct {
	SpotID    int64   `json:"spotId"`
	Activator string  `json:"activator"`
	Frequency string  `json:"frequency"`
	Mode      string  `json:"mode"`
	Reference string  `json:"reference"`
	SpotTime  string  `json:"spotTime"`
	Spotter   string  `json:"spotter"`
	Source    string  `json:"source"`
	Name      string  `json:"name"`
	Grid4     string  `json:"grid4"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Normalize transforms one upstream record into the canonical
// NormalizedSpot. It never fails: a frequency that doesn't parse becomes 0
// kHz, which classifies as band "other". Only a malformed top-level
// payload is an error, and that is handled by the collector before records
// reach here.
func Normalize(capturedAt time.Time, raw RawSpot) spot.NormalizedSpot {
	freq, _ := strconv.ParseFloat(strings.TrimSpace(raw.Frequency), 64)
	mode := strings.ToUpper(raw.Mode)
	band := ClassifyBand(freq)
	entity := ExtractEntity(raw.Reference)
	grid := normalizeGrid(raw.Grid4)
	state := ResolveState(raw.Latitude, raw.Longitude, grid)

	return spot.NormalizedSpot{
		CapturedAt:    capturedAt,
		SpotID:        raw.SpotID,
		Activator:     raw.Activator,
		Reference:     raw.Reference,
		FrequencyKHz:  freq,
		Mode:          mode,
		Band:          band,
		Source:        raw.Source,
		Entity:        entity,
		Grid:          grid,
		Latitude:      raw.Latitude,
		Longitude:     raw.Longitude,
		ActivatorName: raw.Name,
		Spotter:       raw.Spotter,
		State:         state,
	}
}

// normalizeGrid upper-cases and truncates a grid locator to its first 4
// characters (the resolution the grid-to-state table is keyed on).
func normalizeGrid(grid string) string {
	g := strings.ToUpper(strings.TrimSpace(grid))
	if len(g) > 4 {
		g = g[:4]
	}
	return g
}
