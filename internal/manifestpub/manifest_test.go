package manifestpub

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/objectstore"
	"github.com/n7qsk/potalake/internal/spot"
)

func TestUpdate_InsertsAndSortsDescending(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemStore()

	require.NoError(t, Update(ctx, store, spot.Hourly, "2025-01-01T01:00:00.000Z", "hourly/.../01-aaa.ndjson", 5, 3, spot.HourlyCap))
	require.NoError(t, Update(ctx, store, spot.Hourly, "2025-01-01T03:00:00.000Z", "hourly/.../03-bbb.ndjson", 7, 4, spot.HourlyCap))
	require.NoError(t, Update(ctx, store, spot.Hourly, "2025-01-01T02:00:00.000Z", "hourly/.../02-ccc.ndjson", 6, 2, spot.HourlyCap))

	obj, err := store.Get(ctx, bucketpath.ManifestKey)
	require.NoError(t, err)
	body, err := obj.Bytes()
	require.NoError(t, err)

	var m spot.Manifest
	require.NoError(t, json.Unmarshal(body, &m))
	require.Len(t, m.Hourly, 3)
	assert.Equal(t, "2025-01-01T03:00:00.000Z", m.Hourly[0].Hour)
	assert.Equal(t, "2025-01-01T02:00:00.000Z", m.Hourly[1].Hour)
	assert.Equal(t, "2025-01-01T01:00:00.000Z", m.Hourly[2].Hour)
	assert.False(t, m.UpdatedAt.IsZero())
}

func TestUpdate_OverwritesSameTimestamp(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemStore()

	require.NoError(t, Update(ctx, store, spot.Daily, "2025-01-01", "daily/2025/01/01-old.ndjson", 10, 5, spot.DailyCap))
	require.NoError(t, Update(ctx, store, spot.Daily, "2025-01-01", "daily/2025/01/01-new.ndjson", 12, 6, spot.DailyCap))

	obj, err := store.Get(ctx, bucketpath.ManifestKey)
	require.NoError(t, err)
	body, err := obj.Bytes()
	require.NoError(t, err)

	var m spot.Manifest
	require.NoError(t, json.Unmarshal(body, &m))
	require.Len(t, m.Daily, 1)
	assert.Equal(t, "daily/2025/01/01-new.ndjson", m.Daily[0].Path)
	assert.Equal(t, 12, m.Daily[0].TotalSpots)
}

func TestUpdate_TruncatesToCap(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemStore()

	for h := 0; h < 5; h++ {
		ts := "2025-01-01T0" + string(rune('0'+h)) + ":00:00.000Z"
		require.NoError(t, Update(ctx, store, spot.Hourly, ts, "p", 1, 1, 3))
	}

	obj, err := store.Get(ctx, bucketpath.ManifestKey)
	require.NoError(t, err)
	body, err := obj.Bytes()
	require.NoError(t, err)

	var m spot.Manifest
	require.NoError(t, json.Unmarshal(body, &m))
	require.Len(t, m.Hourly, 3)
	assert.Equal(t, "2025-01-01T04:00:00.000Z", m.Hourly[0].Hour)
}

// A manifest written under the legacy schema (a top-level "hours" list,
// entries carrying a bare "timestamp" field) is migrated on load rather
// than discarded.
func TestLoad_MigratesLegacySchema(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemStore()

	legacy := `{
		"hours": [{"timestamp":"2025-01-01T05:00:00.000Z","path":"hourly/old.ndjson","total_spots":9,"total_activations":4}],
		"daily": [{"day":"2024-12-31","path":"daily/old.ndjson","total_spots":40,"total_activations":10}]
	}`
	require.NoError(t, store.Put(ctx, bucketpath.ManifestKey, []byte(legacy), objectstore.PutOptions{}))

	m, err := Load(ctx, store)
	require.NoError(t, err)
	require.Len(t, m.Hourly, 1)
	assert.Equal(t, "2025-01-01T05:00:00.000Z", m.Hourly[0].Hour)
	assert.Equal(t, "hourly/old.ndjson", m.Hourly[0].Path)
	require.Len(t, m.Daily, 1)
	assert.Equal(t, "2024-12-31", m.Daily[0].Day)
}

func TestLoad_UnparsableManifestTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemStore()
	require.NoError(t, store.Put(ctx, bucketpath.ManifestKey, []byte("not json"), objectstore.PutOptions{}))

	m, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, m.Hourly)
	assert.Empty(t, m.Daily)
	assert.Empty(t, m.Monthly)
}

func TestLoad_MissingManifestIsEmpty(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemStore()

	m, err := Load(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, m.Hourly)
}
