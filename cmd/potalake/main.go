// Command potalake runs the ingest-normalize-aggregate-rollup-manifest-
// summarize pipeline: it fetches POTA spots once a minute, rolls them up
// through hourly/daily/monthly rollups, and periodically republishes
// dashboard summaries, all against a single object-store bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/n7qsk/potalake/internal/aggregator"
	"github.com/n7qsk/potalake/internal/api"
	"github.com/n7qsk/potalake/internal/collector"
	"github.com/n7qsk/potalake/internal/config"
	"github.com/n7qsk/potalake/internal/objectstore"
	"github.com/n7qsk/potalake/internal/potaapi"
	"github.com/n7qsk/potalake/internal/scheduler"
	"github.com/n7qsk/potalake/internal/spot"
	"github.com/n7qsk/potalake/internal/summary"
)

// version, commit, and buildTime are injected at build time via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	var overrides config.Overrides
	var showVersion bool
	flag.StringVar(&overrides.EnvFile, "env-file", "", "Path to .env file (default: .env)")
	flag.StringVar(&overrides.HTTPAddr, "listen", "", "HTTP listen address (overrides HTTP_ADDR)")
	flag.StringVar(&overrides.LogLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flag.StringVar(&overrides.PotaAPIURL, "pota-api-url", "", "Upstream POTA spot API URL (overrides POTA_API_URL)")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("%s (commit=%s, built=%s)\n", version, commit, buildTime)
		os.Exit(0)
	}

	startTime := time.Now()

	cfg, err := config.Load(overrides)
	if err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		early := zerolog.New(os.Stderr).With().Timestamp().Logger()
		early.Fatal().Err(err).Msg("invalid config")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
	log.Info().
		Str("version", version).
		Str("commit", commit).
		Str("built", buildTime).
		Str("log_level", level.String()).
		Str("object_store_backend", cfg.ObjectStoreBackend).
		Msg("potalake starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := newStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object store")
	}

	upstream := potaapi.NewClient(cfg.PotaAPIURL, cfg.PotaAPITimeout)
	coll := collector.New(upstream, store, log, nil)
	agg := aggregator.New(store, log)
	summ := summary.New(store, log)

	sched := scheduler.New(log)
	if err := registerJobs(sched, cfg, coll, agg, summ); err != nil {
		log.Fatal().Err(err).Msg("failed to register scheduled jobs")
	}
	sched.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		sched.Stop(stopCtx)
	}()

	httpLog := log.With().Str("component", "http").Logger()
	srv := api.NewServer(api.ServerOptions{
		Addr:           cfg.HTTPAddr,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MetricsEnabled: cfg.MetricsEnabled,
		Version:        fmt.Sprintf("%s (commit=%s, built=%s)", version, commit, buildTime),
		StartTime:      startTime,
		Log:            httpLog,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	log.Info().
		Str("listen", cfg.HTTPAddr).
		Dur("startup_ms", time.Since(startTime)).
		Msg("potalake ready")

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown error")
	}

	log.Info().Msg("potalake stopped")
}

// newStore builds the object store named by cfg.ObjectStoreBackend.
func newStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (objectstore.Store, error) {
	switch cfg.ObjectStoreBackend {
	case "s3":
		return objectstore.NewS3Store(ctx, objectstore.S3Config{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		}, log.With().Str("component", "objectstore").Logger())
	default:
		return objectstore.NewLocalStore(cfg.LocalStoreDir), nil
	}
}

// registerJobs wires the five named triggers onto sched. Each
// aggregate job targets the bucket that just elapsed, computed from wall-
// clock time when the cron tick fires (scheduler.PreviousHour/Day/Month).
func registerJobs(sched *scheduler.Scheduler, cfg *config.Config, coll *collector.Collector, agg *aggregator.Aggregator, summ *summary.Builder) error {
	// aggregateJob resolves the trigger name to its rollup level at fire
	// time; an unrecognized name falls through to hourly.
	aggregateJob := func(name string) scheduler.JobFunc {
		return func(ctx context.Context) error {
			var err error
			switch scheduler.ResolveLevel(name) {
			case spot.Daily:
				_, err = agg.AggregateDay(ctx, scheduler.PreviousDay(time.Now()))
			case spot.Monthly:
				_, err = agg.AggregateMonth(ctx, scheduler.PreviousMonth(time.Now()))
			default:
				_, err = agg.AggregateHour(ctx, scheduler.PreviousHour(time.Now()))
			}
			return err
		}
	}

	jobs := []struct {
		name     string
		cronExpr string
		timeout  time.Duration
		fn       scheduler.JobFunc
	}{
		{"collect", cfg.CollectCron, cfg.CollectJobTimeout, func(ctx context.Context) error {
			_, err := coll.Tick(ctx)
			return err
		}},
		{"aggregate-hour", cfg.AggregateHourCron, cfg.AggregateJobTimeout, aggregateJob("aggregate-hour")},
		{"aggregate-day", cfg.AggregateDayCron, cfg.AggregateJobTimeout, aggregateJob("aggregate-day")},
		{"aggregate-month", cfg.AggregateMonthCron, cfg.AggregateJobTimeout, aggregateJob("aggregate-month")},
		{"summarize", cfg.SummarizeCron, cfg.SummarizeJobTimeout, summ.Run},
	}

	for _, j := range jobs {
		if err := sched.Register(j.name, j.cronExpr, j.timeout, j.fn); err != nil {
			return fmt.Errorf("job %q: %w", j.name, err)
		}
	}
	return nil
}
