// Package summary implements the summary builder: a periodic scan of
// manifest-referenced rollups that republishes small, fixed-schema JSON
// files for dashboards. Windowed totals, all-time totals, time-of-day and
// day-of-week distributions, trend series, and top-entity rankings. Unlike
// rollup files, summaries are overwritten in place rather than
// content-addressed.
package summary

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/n7qsk/potalake/internal/aggregator"
	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/manifestpub"
	"github.com/n7qsk/potalake/internal/ndjson"
	"github.com/n7qsk/potalake/internal/objectstore"
	"github.com/n7qsk/potalake/internal/pipelineerr"
	"github.com/n7qsk/potalake/internal/spot"
)

// Builder runs one summarize invocation at a time against a single object
// store. Like Aggregator, it holds no state between invocations.
type Builder struct {
	store objectstore.Store
	log   zerolog.Logger
	now   func() time.Time
}

// New creates a Builder.
func New(store objectstore.Store, log zerolog.Logger) *Builder {
	return &Builder{
		store: store,
		log:   log.With().Str("component", "summary").Logger(),
		now:   time.Now,
	}
}

// Run loads the manifest once and publishes every summaries/*.json file.
// A manifest load failure aborts the run; a failure reading one rollup
// file is logged and that file's contribution is skipped, matching the
// aggregator's read-failure policy.
func (b *Builder) Run(ctx context.Context) error {
	m, err := manifestpub.Load(ctx, b.store)
	if err != nil {
		return err
	}
	now := b.now().UTC()

	if err := b.publishWindowStats(ctx, m, now); err != nil {
		return err
	}
	if err := b.publishAllTime(ctx, m, now); err != nil {
		return err
	}
	if err := b.publishTimeOfDay(ctx, m); err != nil {
		return err
	}
	if err := b.publishDayOfWeek(ctx, m); err != nil {
		return err
	}
	if err := b.publishTrends(ctx, m, now); err != nil {
		return err
	}
	if err := b.publishTopEntities(ctx, m, now); err != nil {
		return err
	}
	return nil
}

// put serializes v, writes it to summaries/<name>.json with the mutable
// summary cache policy, and logs the publication.
func (b *Builder) put(ctx context.Context, name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return pipelineerr.New(pipelineerr.StorageError, "encode summaries/"+name, err)
	}
	key := bucketpath.SummaryKey(name)
	if err := b.store.Put(ctx, key, body, objectstore.PutOptions{
		ContentType:  objectstore.JSONContentType,
		CacheControl: objectstore.CacheSummary,
	}); err != nil {
		return pipelineerr.New(pipelineerr.StorageError, "put "+key, err)
	}
	b.log.Info().Str("key", key).Msg("summary published")
	return nil
}

// fetchRows reads every path in parallel and decodes its NDJSON body as T,
// skipping (and logging) any path whose object can't be read or parsed,
// the same READ_ERROR policy fetchRollupRows applies in internal/aggregator.
func fetchRows[T any](ctx context.Context, b *Builder, paths []string) []T {
	rows := make([][]T, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			obj, err := b.store.Get(gctx, path)
			if err != nil {
				b.log.Warn().Err(err).Str("key", path).Msg("skipping unreadable summary input")
				return nil
			}
			if obj == nil {
				return nil
			}
			body, err := obj.Bytes()
			if err != nil {
				b.log.Warn().Err(err).Str("key", path).Msg("skipping unreadable summary input")
				return nil
			}
			rows[i] = ndjson.DecodeLines[T](body, func(line string, err error) {
				b.log.Warn().Str("key", path).Str("line", line).Err(err).Msg("skipping malformed summary input line")
			})
			return nil
		})
	}
	_ = g.Wait() // every failure above is handled in place; Go never returns an error

	var out []T
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}

// mergeRows folds rollup rows from one or more files into one merged set,
// with the same fold the aggregator uses to roll a child level up into its
// parent.
func mergeRows(rows []spot.BaseAggregate) []spot.BaseAggregate {
	return aggregator.MergeChildren(rows)
}
