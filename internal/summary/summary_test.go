package summary

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n7qsk/potalake/internal/aggregator"
	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/ndjson"
	"github.com/n7qsk/potalake/internal/objectstore"
	"github.com/n7qsk/potalake/internal/spot"
)

func str(s string) *string { return &s }

func putSpots(t *testing.T, store objectstore.Store, key string, spots []spot.NormalizedSpot) {
	t.Helper()
	body, err := ndjson.Encode(spots)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), key, body, objectstore.PutOptions{}))
}

// seedOneHour publishes one real hourly rollup via the aggregator, so
// summary tests exercise the same manifest/rollup shapes the aggregator
// actually produces rather than a hand-built fixture.
func seedOneHour(t *testing.T, store objectstore.Store, hour time.Time, spots []spot.NormalizedSpot) {
	t.Helper()
	putSpots(t, store, bucketpath.RawPrefix(hour)+"spots-a.ndjson", spots)
	_, err := aggregator.New(store, zerolog.Nop()).AggregateHour(context.Background(), hour)
	require.NoError(t, err)
}

func TestRun_PublishesEverySummaryFile(t *testing.T) {
	store := objectstore.NewMemStore()
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	seedOneHour(t, store, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC), []spot.NormalizedSpot{
		{SpotID: 1, Activator: "W1AW", Reference: "K-1001", Mode: "CW", Band: "20m", Entity: "K", State: str("CO")},
		{SpotID: 2, Activator: "K2ABC", Reference: "K-1002", Mode: "SSB", Band: "40m", Entity: "K"},
	})

	b := New(store, zerolog.Nop())
	b.now = func() time.Time { return now }

	require.NoError(t, b.Run(context.Background()))

	for _, name := range []string{
		"stats_24h", "stats_7d", "stats_30d", "all_time",
		"time_of_day", "day_of_week", "trends", "top_entities",
	} {
		obj, err := store.Get(context.Background(), bucketpath.SummaryKey(name))
		require.NoError(t, err)
		require.NotNilf(t, obj, "expected summaries/%s.json to be published", name)
		assert.Equal(t, objectstore.CacheSummary, obj.CacheControl)
	}
}

func TestPublishWindowStats_24hReflectsSeededHour(t *testing.T) {
	store := objectstore.NewMemStore()
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	seedOneHour(t, store, time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC), []spot.NormalizedSpot{
		{SpotID: 1, Activator: "W1AW", Reference: "K-1001", Mode: "CW", Band: "20m", Entity: "K"},
		{SpotID: 2, Activator: "K2ABC", Reference: "K-1002", Mode: "SSB", Band: "40m", Entity: "K"},
	})
	// A five-day-old hour, outside the 24h window, must not contribute.
	seedOneHour(t, store, time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC), []spot.NormalizedSpot{
		{SpotID: 3, Activator: "VE3XYZ", Reference: "K-2001", Mode: "CW", Band: "20m", Entity: "VE"},
	})

	b := New(store, zerolog.Nop())
	require.NoError(t, b.publishWindowStats(context.Background(), mustLoadManifest(t, store), now))

	obj, err := store.Get(context.Background(), bucketpath.SummaryKey("stats_24h"))
	require.NoError(t, err)
	require.NotNil(t, obj)

	body, err := obj.Bytes()
	require.NoError(t, err)
	var stats windowStats
	require.NoError(t, json.Unmarshal(body, &stats))

	assert.Equal(t, 2, stats.TotalSpots)
	assert.Equal(t, 2, stats.TotalActivators)
}

func mustLoadManifest(t *testing.T, store objectstore.Store) spot.Manifest {
	t.Helper()
	obj, err := store.Get(context.Background(), bucketpath.ManifestKey)
	require.NoError(t, err)
	require.NotNil(t, obj)
	body, err := obj.Bytes()
	require.NoError(t, err)
	var m spot.Manifest
	require.NoError(t, json.Unmarshal(body, &m))
	return m
}
