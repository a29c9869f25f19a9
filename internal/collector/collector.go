// Package collector implements the once-per-minute ingest tick: fetch the
// upstream snapshot, normalize every record, write one NDJSON raw capture
// file.
package collector

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/n7qsk/potalake/internal/bucketpath"
	"github.com/n7qsk/potalake/internal/metrics"
	"github.com/n7qsk/potalake/internal/ndjson"
	"github.com/n7qsk/potalake/internal/normalize"
	"github.com/n7qsk/potalake/internal/objectstore"
	"github.com/n7qsk/potalake/internal/pipelineerr"
	"github.com/n7qsk/potalake/internal/spot"
)

// Fetcher is the upstream dependency; satisfied by *potaapi.Client.
type Fetcher interface {
	Fetch(ctx context.Context) ([]normalize.RawSpot, error)
}

// Collector runs one ingest tick at a time. It holds no state between
// ticks; a missed tick is simply a gap that aggregation's spot-id dedup
// compensates for.
type Collector struct {
	fetcher Fetcher
	store   objectstore.Store
	log     zerolog.Logger
	now     func() time.Time
}

// New creates a Collector. now defaults to time.Now if nil (tests can
// override it for deterministic capture timestamps).
func New(fetcher Fetcher, store objectstore.Store, log zerolog.Logger, now func() time.Time) *Collector {
	if now == nil {
		now = time.Now
	}
	return &Collector{
		fetcher: fetcher,
		store:   store,
		log:     log.With().Str("component", "collector").Logger(),
		now:     now,
	}
}

// Result summarizes one completed tick for the caller (scheduler/metrics).
type Result struct {
	RunID      string
	CapturedAt time.Time
	SpotCount  int
	ObjectKey  string
}

// Tick performs one fetch-normalize-write cycle. Fetch or storage failures
// abort the tick and are returned to the caller; there is no retry within
// a tick, the next scheduled invocation tries again.
func (c *Collector) Tick(ctx context.Context) (*Result, error) {
	runID := uuid.NewString()
	log := c.log.With().Str("run_id", runID).Logger()
	capturedAt := c.now().UTC()

	raw, err := c.fetcher.Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("collector tick aborted: upstream fetch failed")
		return nil, err
	}

	spots := make([]spot.NormalizedSpot, 0, len(raw))
	for _, r := range raw {
		spots = append(spots, normalize.Normalize(capturedAt, r))
	}

	body, err := ndjson.Encode(spots)
	if err != nil {
		// Encoding a freshly-built struct should never fail; treat it as a
		// storage-path problem since nothing was written.
		werr := pipelineerr.New(pipelineerr.StorageError, "encode raw capture", err)
		log.Error().Err(werr).Msg("collector tick aborted: encode failed")
		return nil, werr
	}

	key := bucketpath.RawObjectKey(capturedAt)
	err = c.store.Put(ctx, key, body, objectstore.PutOptions{
		ContentType:  objectstore.NDJSONContentType,
		CacheControl: objectstore.CacheImmutable,
		CustomMetadata: map[string]string{
			"spotCount":  strconv.Itoa(len(spots)),
			"capturedAt": capturedAt.Format(time.RFC3339Nano),
		},
	})
	if err != nil {
		werr := pipelineerr.New(pipelineerr.StorageError, "put "+key, err)
		log.Error().Err(werr).Msg("collector tick aborted: storage write failed")
		return nil, werr
	}

	metrics.SpotsCollectedTotal.Add(float64(len(spots)))
	log.Info().Int("spot_count", len(spots)).Str("key", key).Msg("collector tick complete")

	return &Result{RunID: runID, CapturedAt: capturedAt, SpotCount: len(spots), ObjectKey: key}, nil
}
