package aggregator

import (
	"context"
	"time"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/spot"
)

// MergeChildren groups child BaseAggregate rows by composite key and
// finalizes one merged row per key: spot_count is summed, set fields are
// unioned, cardinalities are recomputed from the union, never summed from
// children. Ordering of children is irrelevant; the merge is commutative
// and associative. Exported so internal/summary can fold rollup rows from
// multiple files with the same algorithm.
func MergeChildren(children []spot.BaseAggregate) []spot.BaseAggregate {
	builders := map[spot.AggregateKey]*spot.AggregateBuilder{}
	for _, child := range children {
		key := child.Key()
		b, ok := builders[key]
		if !ok {
			b = spot.NewAggregateBuilder(key)
			builders[key] = b
		}
		b.Merge(child)
	}

	rows := make([]spot.BaseAggregate, 0, len(builders))
	for _, b := range builders {
		rows = append(rows, b.Finalize())
	}
	return rows
}

func sumSpotCount(rows []spot.BaseAggregate) int {
	sum := 0
	for _, r := range rows {
		sum += r.SpotCount
	}
	return sum
}

// AggregateDay rolls up every hourly rollup under day's date into one daily
// aggregate file.
func (a *Aggregator) AggregateDay(ctx context.Context, day time.Time) (*spot.AggregateMeta, error) {
	children, filesRead, err := fetchRollupRows[spot.BaseAggregate](ctx, a.store, a.log, bucketpath.HourlyPrefix(day), string(spot.Daily))
	if err != nil {
		return nil, err
	}

	rows := MergeChildren(children)
	return a.publish(ctx, publishInput{
		level:          spot.Daily,
		timestamp:      bucketpath.DayTimestamp(day),
		basePath:       bucketpath.DailyObjectBase(day),
		metaPath:       bucketpath.DailyMetaKey(day),
		rows:           rows,
		totalSpots:     sumSpotCount(rows),
		filesProcessed: filesRead,
		maxEntries:     spot.DailyCap,
	})
}

// AggregateMonth rolls up every daily rollup under month's year/month into
// one monthly aggregate file.
func (a *Aggregator) AggregateMonth(ctx context.Context, month time.Time) (*spot.AggregateMeta, error) {
	children, filesRead, err := fetchRollupRows[spot.BaseAggregate](ctx, a.store, a.log, bucketpath.DailyPrefix(month), string(spot.Monthly))
	if err != nil {
		return nil, err
	}

	rows := MergeChildren(children)
	return a.publish(ctx, publishInput{
		level:          spot.Monthly,
		timestamp:      bucketpath.MonthTimestamp(month),
		basePath:       bucketpath.MonthlyObjectBase(month),
		metaPath:       bucketpath.MonthlyMetaKey(month),
		rows:           rows,
		totalSpots:     sumSpotCount(rows),
		filesProcessed: filesRead,
		maxEntries:     spot.MonthlyCap,
	})
}
