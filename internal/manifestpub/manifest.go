// Package manifestpub implements the single mutable index object,
// manifest.json: a load-modify-store operation invoked once per published
// rollup, plus the legacy-field migration needed to read a manifest
// written by an older schema.
package manifestpub

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/metrics"
	"github.com/n7qsk/potalake/internal/objectstore"
	"github.com/n7qsk/potalake/internal/pipelineerr"
	"github.com/n7qsk/potalake/internal/spot"
)

// fieldName returns the manifest-entry field a level's timestamp belongs in.
func fieldName(level spot.Level) string {
	switch level {
	case spot.Hourly:
		return "hour"
	case spot.Daily:
		return "day"
	default:
		return "month"
	}
}

// Load fetches and parses manifest.json, applying the legacy migrations:
// a "hours" list is renamed "hourly"; an entry with only a "timestamp"
// field is normalized to the level-appropriate field name. Any JSON that
// fails to parse is treated as an empty manifest, never as an error, since
// manifest.json is always recoverable by republishing.
func Load(ctx context.Context, store objectstore.Store) (spot.Manifest, error) {
	obj, err := store.Get(ctx, bucketpath.ManifestKey)
	if err != nil {
		return spot.Manifest{}, pipelineerr.New(pipelineerr.ReadError, "get manifest.json", err)
	}
	if obj == nil {
		return spot.Manifest{}, nil
	}
	body, err := obj.Bytes()
	if err != nil {
		return spot.Manifest{}, pipelineerr.New(pipelineerr.ReadError, "read manifest.json body", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return spot.Manifest{}, nil
	}

	m := spot.Manifest{}
	if ts, ok := raw["updated_at"]; ok {
		_ = json.Unmarshal(ts, &m.UpdatedAt)
	}
	m.Hourly = migrateEntries(firstNonNil(raw["hourly"], raw["hours"]), spot.Hourly)
	m.Daily = migrateEntries(raw["daily"], spot.Daily)
	m.Monthly = migrateEntries(raw["monthly"], spot.Monthly)
	return m, nil
}

func firstNonNil(a, b json.RawMessage) json.RawMessage {
	if a != nil {
		return a
	}
	return b
}

// migrateEntries decodes a raw manifest-entry array, renaming a bare
// "timestamp" field to the level-appropriate field name where needed.
func migrateEntries(raw json.RawMessage, level spot.Level) []spot.ManifestEntry {
	if raw == nil {
		return nil
	}
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil
	}

	want := fieldName(level)
	out := make([]spot.ManifestEntry, 0, len(rows))
	for _, row := range rows {
		if _, ok := row[want]; !ok {
			if ts, ok := row["timestamp"]; ok {
				row[want] = ts
				delete(row, "timestamp")
			}
		}
		b, err := json.Marshal(row)
		if err != nil {
			continue
		}
		var entry spot.ManifestEntry
		if err := json.Unmarshal(b, &entry); err != nil {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// Update applies one replace-or-insert to the named level's entry list, then
// stores manifest.json. It assumes single-writer-per-level, which the
// scheduler enforces; no compare-and-swap is attempted.
func Update(ctx context.Context, store objectstore.Store, level spot.Level, timeValue, path string, totalSpots, totalActivations, maxEntries int) error {
	m, err := Load(ctx, store)
	if err != nil {
		return err
	}

	entry := spot.ManifestEntry{Path: path, TotalSpots: totalSpots, TotalActivations: totalActivations}
	switch level {
	case spot.Hourly:
		entry.Hour = timeValue
		m.Hourly = upsert(m.Hourly, entry, maxEntries)
	case spot.Daily:
		entry.Day = timeValue
		m.Daily = upsert(m.Daily, entry, maxEntries)
	case spot.Monthly:
		entry.Month = timeValue
		m.Monthly = upsert(m.Monthly, entry, maxEntries)
	}
	m.UpdatedAt = time.Now().UTC()

	metrics.ManifestEntriesGauge.WithLabelValues(string(spot.Hourly)).Set(float64(len(m.Hourly)))
	metrics.ManifestEntriesGauge.WithLabelValues(string(spot.Daily)).Set(float64(len(m.Daily)))
	metrics.ManifestEntriesGauge.WithLabelValues(string(spot.Monthly)).Set(float64(len(m.Monthly)))

	body, err := json.Marshal(m)
	if err != nil {
		return pipelineerr.New(pipelineerr.StorageError, "encode manifest.json", err)
	}
	err = store.Put(ctx, bucketpath.ManifestKey, body, objectstore.PutOptions{
		ContentType:  objectstore.JSONContentType,
		CacheControl: objectstore.CacheManifest,
	})
	if err != nil {
		return pipelineerr.New(pipelineerr.StorageError, "put manifest.json", err)
	}
	return nil
}

// upsert replaces the entry matching entry's timestamp (one entry per
// timestamp per level), appends it otherwise, then sorts descending by
// timestamp and truncates to cap.
func upsert(entries []spot.ManifestEntry, entry spot.ManifestEntry, maxEntries int) []spot.ManifestEntry {
	ts := entry.Timestamp()
	replaced := false
	for i, e := range entries {
		if e.Timestamp() == ts {
			entries[i] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Timestamp() > entries[j].Timestamp() })
	if len(entries) > maxEntries {
		entries = entries[:maxEntries]
	}
	return entries
}
