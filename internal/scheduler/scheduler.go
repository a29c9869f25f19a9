// Package scheduler wires the five named triggers (collect,
// aggregate-hour, aggregate-day, aggregate-month, summarize) onto
// robfig/cron. Each invocation runs to completion on its own goroutine and
// is bounded by a per-job wall-clock deadline.
package scheduler

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/n7qsk/potalake/internal/metrics"
	"github.com/n7qsk/potalake/internal/pipelineerr"
)

// JobFunc is one scheduled invocation. ctx is already bound to the job's
// wall-clock budget; a deadline-exceeded error should unwind pending I/O
// and return promptly, since the next scheduled invocation retries the
// same bucket.
type JobFunc func(ctx context.Context) error

// Scheduler owns one robfig/cron.Cron instance for the process.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates a Scheduler. Registered jobs don't start running until
// Start is called.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds one named trigger on cronExpr. Every firing is logged at
// job-boundary (start, finish-with-duration-and-outcome) and recorded in
// metrics.JobRunsTotal / metrics.JobDurationSeconds labeled by job name.
func (s *Scheduler) Register(name, cronExpr string, timeout time.Duration, fn JobFunc) error {
	_, err := s.cron.AddFunc(cronExpr, func() {
		s.run(name, timeout, fn)
	})
	return err
}

func (s *Scheduler) run(name string, timeout time.Duration, fn JobFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log := s.log.With().Str("job", name).Logger()
	start := time.Now()
	log.Info().Msg("job starting")

	outcome := "ok"
	if err := fn(ctx); err != nil {
		outcome = outcomeFor(err)
		log.Error().Err(err).Str("outcome", outcome).Msg("job failed")
	}

	dur := time.Since(start)
	metrics.JobRunsTotal.WithLabelValues(name, outcome).Inc()
	metrics.JobDurationSeconds.WithLabelValues(name).Observe(dur.Seconds())
	log.Info().Dur("duration_ms", dur).Str("outcome", outcome).Msg("job finished")
}

// outcomeFor classifies a job error by its pipelineerr.Kind when possible,
// so metrics.JobRunsTotal distinguishes FETCH_ERROR from STORAGE_ERROR
// rather than collapsing everything into a generic failure label.
func outcomeFor(err error) string {
	if err == nil {
		return "ok"
	}
	for e := err; e != nil; {
		if pe, ok := e.(*pipelineerr.PipelineError); ok {
			return strings.ToLower(string(pe.Kind))
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	return "error"
}

// Start begins running registered jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for in-flight jobs to finish or ctx to expire, whichever
// comes first.
func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
}
