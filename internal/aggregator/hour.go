package aggregator

import (
	"context"
	"time"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/spot"
)

// AggregateHour rolls up every raw capture under hour's prefix into one
// hourly aggregate file. It is the only level that consumes spot records
// rather than child aggregates.
func (a *Aggregator) AggregateHour(ctx context.Context, hour time.Time) (*spot.AggregateMeta, error) {
	spots, filesRead, err := fetchRollupRows[spot.NormalizedSpot](ctx, a.store, a.log, bucketpath.RawPrefix(hour), string(spot.Hourly))
	if err != nil {
		return nil, err
	}

	// Deduplicate by spotId across all captures in the hour. Spots are
	// immutable upstream, so last-writer-wins over list order is
	// equivalent to first-wins.
	unique := make(map[int64]spot.NormalizedSpot, len(spots))
	for _, s := range spots {
		unique[s.SpotID] = s
	}

	builders := map[spot.AggregateKey]*spot.AggregateBuilder{}
	for _, s := range unique {
		key := spot.AggregateKey{Mode: s.Mode, Band: s.Band, Entity: s.Entity}
		b, ok := builders[key]
		if !ok {
			b = spot.NewAggregateBuilder(key)
			builders[key] = b
		}
		b.AddSpot(s)
	}

	rows := make([]spot.BaseAggregate, 0, len(builders))
	for _, b := range builders {
		rows = append(rows, b.Finalize())
	}

	return a.publish(ctx, publishInput{
		level:          spot.Hourly,
		timestamp:      bucketpath.HourTimestamp(hour),
		basePath:       bucketpath.HourlyObjectBase(hour),
		metaPath:       bucketpath.HourlyMetaKey(hour),
		rows:           rows,
		totalSpots:     len(unique),
		filesProcessed: filesRead,
		maxEntries:     spot.HourlyCap,
	})
}
