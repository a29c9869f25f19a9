package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/n7qsk/potalake/internal/pipelineerr"
)

func TestOutcomeFor(t *testing.T) {
	assert.Equal(t, "ok", outcomeFor(nil))
	assert.Equal(t, "fetch_error", outcomeFor(pipelineerr.New(pipelineerr.FetchError, "op", errors.New("boom"))))
	assert.Equal(t, "error", outcomeFor(errors.New("plain")))
}

func TestRegister_RunsJobOnDemand(t *testing.T) {
	s := New(zerolog.Nop())
	called := false
	err := s.Register("test-job", "@every 1h", time.Second, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.NoError(t, err)

	// Invoke the wrapped job function directly rather than waiting for the
	// cron schedule to fire; run() is the unit under test here.
	s.run("test-job", time.Second, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.True(t, called)
}

func TestRegister_RejectsInvalidCronExpr(t *testing.T) {
	s := New(zerolog.Nop())
	err := s.Register("bad-job", "not a cron expr", time.Second, func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}
