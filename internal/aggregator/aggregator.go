// Package aggregator implements the time-hierarchy rollup algorithm shared
// by all three levels: hourly aggregates raw spot captures; daily and
// monthly aggregate the level below. All three share one grouping and
// publication algorithm, parameterized by input prefix and output path.
package aggregator

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/n7qsk/potalake/internal/manifestpub"
	"github.com/n7qsk/potalake/internal/metrics"
	"github.com/n7qsk/potalake/internal/ndjson"
	"github.com/n7qsk/potalake/internal/objectstore"
	"github.com/n7qsk/potalake/internal/pipelineerr"
	"github.com/n7qsk/potalake/internal/spot"
)

// Aggregator runs one rollup invocation at a time against a single object
// store. It holds no state between invocations: every bucket it produces
// is a pure function of what's currently in the store, so re-running a
// bucket is always safe.
type Aggregator struct {
	store objectstore.Store
	log   zerolog.Logger
}

// New creates an Aggregator.
func New(store objectstore.Store, log zerolog.Logger) *Aggregator {
	return &Aggregator{store: store, log: log.With().Str("component", "aggregator").Logger()}
}

// fetchResult holds one key's decoded rows, or ok=false if the read failed
// and was skipped.
type fetchResult[T any] struct {
	rows []T
	ok   bool
}

// fetchRollupRows lists prefix, reads every *.ndjson object under it in
// parallel, and decodes each as a sequence of T. A Get failure on one key
// is logged and that input excluded rather than failing the batch; a
// malformed line within a file is logged, counted, and skipped without
// failing the file. Returns the flattened rows in list order
// (deterministic) and the count of files successfully read.
func fetchRollupRows[T any](ctx context.Context, store objectstore.Store, log zerolog.Logger, prefix, levelLabel string) ([]T, int, error) {
	infos, err := store.List(ctx, prefix)
	if err != nil {
		return nil, 0, pipelineerr.New(pipelineerr.ListError, "list "+prefix, err)
	}

	var keys []string
	for _, info := range infos {
		if strings.HasSuffix(info.Key, ".ndjson") {
			keys = append(keys, info.Key)
		}
	}

	results := make([]fetchResult[T], len(keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			obj, err := store.Get(gctx, key)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("skipping unreadable input")
				return nil
			}
			if obj == nil {
				return nil
			}
			body, err := obj.Bytes()
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("skipping unreadable input")
				return nil
			}
			rows := ndjson.DecodeLines[T](body, func(line string, err error) {
				metrics.SkippedLinesTotal.WithLabelValues(levelLabel).Inc()
				log.Warn().Str("key", key).Str("line", line).Err(err).Msg("skipping malformed line")
			})
			results[i] = fetchResult[T]{rows: rows, ok: true}
			return nil
		})
	}
	_ = g.Wait() // every failure above is handled in place; Go never returns an error

	var out []T
	filesRead := 0
	for _, r := range results {
		if r.ok {
			filesRead++
		}
		out = append(out, r.rows...)
	}
	return out, filesRead, nil
}

func sortRows(rows []spot.BaseAggregate) {
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Mode != b.Mode {
			return a.Mode < b.Mode
		}
		if a.Band != b.Band {
			return a.Band < b.Band
		}
		return a.Entity < b.Entity
	})
}

// totalActivations recomputes the bucket-wide activation cardinality from
// the union of every row's activator|park pairs. Rows are keyed by
// (mode, band, entity), so one activator working the same park on two
// bands appears in two rows; summing per-row counts would double-count
// that pair.
func totalActivations(rows []spot.BaseAggregate) int {
	pairs := map[string]struct{}{}
	for _, r := range rows {
		for _, a := range r.Activations {
			pairs[a] = struct{}{}
		}
	}
	return len(pairs)
}

// wrapRows attaches the bucket's timestamp field to each row in the shape
// the published file actually carries: HourlyAggregate.Hour,
// DailyAggregate.Date, or MonthlyAggregate.Month. rows must already be
// sorted for the encoding to be deterministic.
func wrapRows(level spot.Level, timestamp string, rows []spot.BaseAggregate) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		switch level {
		case spot.Hourly:
			out[i] = spot.HourlyAggregate{Hour: timestamp, BaseAggregate: r}
		case spot.Daily:
			out[i] = spot.DailyAggregate{Date: timestamp, BaseAggregate: r}
		default:
			out[i] = spot.MonthlyAggregate{Month: timestamp, BaseAggregate: r}
		}
	}
	return out
}

// publishInput bundles what publish needs to write one level's rollup,
// sidecar meta, and manifest entry.
type publishInput struct {
	level          spot.Level
	timestamp      string
	basePath       string
	metaPath       string
	rows           []spot.BaseAggregate
	totalSpots     int
	filesProcessed int
	maxEntries     int
}

// publish serializes rows, content-hashes them, and writes the rollup, its
// sidecar meta, and the manifest entry, in that order, so the manifest
// never points at content that doesn't exist yet. A manifest write failure
// is logged but does not fail the invocation; a rollup or meta write
// failure aborts it.
func (a *Aggregator) publish(ctx context.Context, in publishInput) (*spot.AggregateMeta, error) {
	sortRows(in.rows)

	body, err := ndjson.Encode(wrapRows(in.level, in.timestamp, in.rows))
	if err != nil {
		return nil, pipelineerr.New(pipelineerr.StorageError, "encode "+in.basePath, err)
	}

	hash := ndjson.ContentHash(body)
	hashedKey := ndjson.AddHashToFilename(in.basePath, hash)
	generatedAt := time.Now().UTC()

	err = a.store.Put(ctx, hashedKey, body, objectstore.PutOptions{
		ContentType:  objectstore.NDJSONContentType,
		CacheControl: objectstore.CacheImmutable,
		CustomMetadata: map[string]string{
			"timestamp":      in.timestamp,
			"generatedAt":    generatedAt.Format(time.RFC3339Nano),
			"totalSpots":     strconv.Itoa(in.totalSpots),
			"filesProcessed": strconv.Itoa(in.filesProcessed),
		},
	})
	if err != nil {
		return nil, pipelineerr.New(pipelineerr.StorageError, "put "+hashedKey, err)
	}

	meta := spot.AggregateMeta{
		Timestamp:      in.timestamp,
		GeneratedAt:    generatedAt,
		TotalSpots:     in.totalSpots,
		TotalRows:      len(in.rows),
		FilesProcessed: in.filesProcessed,
	}
	metaBody, err := json.Marshal(meta)
	if err != nil {
		return nil, pipelineerr.New(pipelineerr.StorageError, "encode "+in.metaPath, err)
	}
	if err := a.store.Put(ctx, in.metaPath, metaBody, objectstore.PutOptions{
		ContentType:  objectstore.JSONContentType,
		CacheControl: objectstore.CacheImmutable,
	}); err != nil {
		return nil, pipelineerr.New(pipelineerr.StorageError, "put "+in.metaPath, err)
	}

	if err := manifestpub.Update(ctx, a.store, in.level, in.timestamp, hashedKey, in.totalSpots, totalActivations(in.rows), in.maxEntries); err != nil {
		a.log.Warn().Err(err).Str("level", string(in.level)).Str("timestamp", in.timestamp).
			Msg("manifest update failed; rollup is published but unlinked")
	}

	metrics.AggregateRowsPublishedTotal.WithLabelValues(string(in.level)).Add(float64(len(in.rows)))
	a.log.Info().Str("level", string(in.level)).Str("timestamp", in.timestamp).
		Str("key", hashedKey).Int("rows", len(in.rows)).Int("total_spots", in.totalSpots).
		Msg("rollup published")

	return &meta, nil
}
