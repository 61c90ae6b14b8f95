package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/maxviazov/nba-stats-manager/internal/ingest"
	"github.com/maxviazov/nba-stats-manager/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls  atomic.Int32
	season atomic.Value
	err    error
}

func (c *countingRefresher) RefreshFrom(ctx context.Context, _ ingest.Source, season string) (model.UpsertResult, error) {
	c.calls.Add(1)
	c.season.Store(season)
	if _, ok := ctx.Deadline(); !ok {
		return model.UpsertResult{}, errors.New("expected a deadline")
	}
	return model.UpsertResult{Applied: 1}, c.err
}

type noopSource struct{}

func (noopSource) Fetch(context.Context) ([]model.RawRecord, error) { return nil, nil }

func TestNew_EmptySpecIsDisabled(t *testing.T) {
	s, err := New(&countingRefresher{}, Job{}, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, s.Enabled())
	s.Start()
	assert.NoError(t, s.Stop(context.Background()))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(&countingRefresher{}, Job{Spec: "@hourly"}, zerolog.Nop())
	assert.Error(t, err, "schedule without a source")

	_, err = New(&countingRefresher{}, Job{Spec: "not a cron line", Source: noopSource{}}, zerolog.Nop())
	assert.Error(t, err)
}

func TestRunNow(t *testing.T) {
	r := &countingRefresher{}
	s, err := New(r, Job{Spec: "@daily", Source: noopSource{}, Season: "2024-25", Timeout: time.Second}, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, s.Enabled())

	res, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Applied)
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, "2024-25", r.season.Load())
}

func TestScheduler_Fires(t *testing.T) {
	r := &countingRefresher{err: errors.New("upstream down")}
	s, err := New(r, Job{Spec: "@every 1s", Source: noopSource{}}, zerolog.Nop())
	require.NoError(t, err)

	s.Start()
	assert.Eventually(t, func() bool { return r.calls.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}
