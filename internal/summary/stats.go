package summary

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/spot"
)

// modeCount is one row of a stats file's by_mode list.
type modeCount struct {
	Mode      string `json:"mode"`
	SpotCount int    `json:"spot_count"`
}

// bandCount is one row of a stats file's by_band list.
type bandCount struct {
	Band      string `json:"band"`
	SpotCount int    `json:"spot_count"`
}

// entityCount is one row of a stats file's by_entity list.
type entityCount struct {
	Entity          string `json:"entity"`
	SpotCount       int    `json:"spot_count"`
	ActivationCount int    `json:"activation_count"`
}

const topEntityLimit = 20

// windowStats is the shared shape of stats_<window>.json, embedded by
// all_time.json with one extra field.
type windowStats struct {
	Window           string        `json:"window,omitempty"`
	GeneratedAt      time.Time     `json:"generated_at"`
	TotalSpots       int           `json:"total_spots"`
	TotalActivations int           `json:"total_activations"`
	TotalActivators  int           `json:"total_activators"`
	TotalParks       int           `json:"total_parks"`
	ByMode           []modeCount   `json:"by_mode"`
	ByBand           []bandCount   `json:"by_band"`
	ByEntity         []entityCount `json:"by_entity"`
}

// allTimeSummary is summaries/all_time.json: windowStats plus the earliest
// bucket timestamp contributing to it.
type allTimeSummary struct {
	windowStats
	DataSince string `json:"data_since"`
}

// buildStats folds rows into one windowStats: totals, plus by_mode/by_band
// sorted by spot count and by_entity sorted by activation count and capped
// to the top 20.
func buildStats(window string, generatedAt time.Time, rows []spot.BaseAggregate) windowStats {
	modeTotals := map[string]int{}
	bandTotals := map[string]int{}
	entityTotals := map[string]*entityCount{}
	entityActivations := map[string]map[string]struct{}{}
	activators := map[string]struct{}{}
	parks := map[string]struct{}{}
	activations := map[string]struct{}{}
	totalSpots := 0

	for _, r := range rows {
		modeTotals[r.Mode] += r.SpotCount
		bandTotals[r.Band] += r.SpotCount
		totalSpots += r.SpotCount

		ec, ok := entityTotals[r.Entity]
		if !ok {
			ec = &entityCount{Entity: r.Entity}
			entityTotals[r.Entity] = ec
			entityActivations[r.Entity] = map[string]struct{}{}
		}
		ec.SpotCount += r.SpotCount
		// Rows for one entity can differ by mode/band while sharing
		// activator|park pairs; the entity's activation count is the
		// cardinality of the union, not the sum of per-row counts.
		for _, a := range r.Activations {
			entityActivations[r.Entity][a] = struct{}{}
		}

		for _, a := range r.Activators {
			activators[a] = struct{}{}
		}
		for _, p := range r.Parks {
			parks[p] = struct{}{}
		}
		for _, a := range r.Activations {
			activations[a] = struct{}{}
		}
	}
	for entity, set := range entityActivations {
		entityTotals[entity].ActivationCount = len(set)
	}

	byMode := make([]modeCount, 0, len(modeTotals))
	for mode, count := range modeTotals {
		byMode = append(byMode, modeCount{Mode: mode, SpotCount: count})
	}
	sort.Slice(byMode, func(i, j int) bool {
		if byMode[i].SpotCount != byMode[j].SpotCount {
			return byMode[i].SpotCount > byMode[j].SpotCount
		}
		return byMode[i].Mode < byMode[j].Mode
	})

	byBand := make([]bandCount, 0, len(bandTotals))
	for band, count := range bandTotals {
		byBand = append(byBand, bandCount{Band: band, SpotCount: count})
	}
	sort.Slice(byBand, func(i, j int) bool {
		if byBand[i].SpotCount != byBand[j].SpotCount {
			return byBand[i].SpotCount > byBand[j].SpotCount
		}
		return byBand[i].Band < byBand[j].Band
	})

	byEntity := make([]entityCount, 0, len(entityTotals))
	for _, ec := range entityTotals {
		byEntity = append(byEntity, *ec)
	}
	sort.Slice(byEntity, func(i, j int) bool {
		if byEntity[i].ActivationCount != byEntity[j].ActivationCount {
			return byEntity[i].ActivationCount > byEntity[j].ActivationCount
		}
		return byEntity[i].Entity < byEntity[j].Entity
	})
	if len(byEntity) > topEntityLimit {
		byEntity = byEntity[:topEntityLimit]
	}

	return windowStats{
		Window:           window,
		GeneratedAt:      generatedAt,
		TotalSpots:       totalSpots,
		TotalActivations: len(activations),
		TotalActivators:  len(activators),
		TotalParks:       len(parks),
		ByMode:           byMode,
		ByBand:           byBand,
		ByEntity:         byEntity,
	}
}

// windowDef names one fixed stats_<window>.json window and the manifest
// level + cutoff timestamp that covers it at minimum cost.
type windowDef struct {
	name   string
	level  spot.Level
	cutoff string
}

// windowsFor computes the three fixed windows' cutoffs relative to now:
// 24h against hourly buckets, 7d/30d against daily buckets.
func windowsFor(now time.Time) []windowDef {
	return []windowDef{
		{name: "24h", level: spot.Hourly, cutoff: bucketpath.HourTimestamp(now.Add(-24 * time.Hour))},
		{name: "7d", level: spot.Daily, cutoff: bucketpath.DayTimestamp(now.AddDate(0, 0, -7))},
		{name: "30d", level: spot.Daily, cutoff: bucketpath.DayTimestamp(now.AddDate(0, 0, -30))},
	}
}

func entriesFor(m spot.Manifest, level spot.Level) []spot.ManifestEntry {
	if level == spot.Hourly {
		return m.Hourly
	}
	return m.Daily
}

// publishWindowStats emits stats_24h.json, stats_7d.json, stats_30d.json.
func (b *Builder) publishWindowStats(ctx context.Context, m spot.Manifest, now time.Time) error {
	for _, def := range windowsFor(now) {
		var paths []string
		for _, e := range entriesFor(m, def.level) {
			if e.Timestamp() >= def.cutoff {
				paths = append(paths, e.Path)
			}
		}
		rows := mergeRows(fetchRows[spot.BaseAggregate](ctx, b, paths))
		stats := buildStats(def.name, now, rows)
		if err := b.put(ctx, "stats_"+def.name, stats); err != nil {
			return err
		}
	}
	return nil
}

// allTimeInputs selects the rollup files covering all recorded history:
// every monthly file, supplemented by daily files for the current
// (not-yet-rolled-up) month and hourly files for the current day within
// that month.
func allTimeInputs(m spot.Manifest, now time.Time) (paths []string, dataSince string) {
	currentMonth := bucketpath.MonthTimestamp(now)
	currentDay := bucketpath.DayTimestamp(now)

	monthCovered := false
	for _, e := range m.Monthly {
		paths = append(paths, e.Path)
		if dataSince == "" || e.Month < dataSince {
			dataSince = e.Month
		}
		if e.Month == currentMonth {
			monthCovered = true
		}
	}

	dayCovered := false
	if !monthCovered {
		var earliestDay string
		for _, e := range m.Daily {
			if !strings.HasPrefix(e.Day, currentMonth) {
				continue
			}
			paths = append(paths, e.Path)
			if earliestDay == "" || e.Day < earliestDay {
				earliestDay = e.Day
			}
			if e.Day == currentDay {
				dayCovered = true
			}
		}
		if earliestDay != "" && (dataSince == "" || earliestDay < dataSince) {
			dataSince = earliestDay
		}
	}

	if !monthCovered && !dayCovered {
		var earliestHour string
		for _, e := range m.Hourly {
			if !strings.HasPrefix(e.Hour, currentDay) {
				continue
			}
			paths = append(paths, e.Path)
			if earliestHour == "" || e.Hour < earliestHour {
				earliestHour = e.Hour
			}
		}
		if earliestHour != "" && (dataSince == "" || earliestHour < dataSince) {
			dataSince = earliestHour
		}
	}

	return paths, dataSince
}

// publishAllTime emits all_time.json.
func (b *Builder) publishAllTime(ctx context.Context, m spot.Manifest, now time.Time) error {
	paths, dataSince := allTimeInputs(m, now)
	rows := mergeRows(fetchRows[spot.BaseAggregate](ctx, b, paths))
	stats := buildStats("", now, rows)
	return b.put(ctx, "all_time", allTimeSummary{windowStats: stats, DataSince: dataSince})
}
