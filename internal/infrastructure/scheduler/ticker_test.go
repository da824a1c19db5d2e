package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerFiresWarmupRun(t *testing.T) {
	s := NewTickScheduler(time.Hour)
	s.warmup = 10 * time.Millisecond

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx, func(time.Time) { runs.Add(1) }))
	defer func() { _ = s.Stop(context.Background()) }()

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	s := NewTickScheduler(10 * time.Millisecond)
	s.warmup = time.Millisecond

	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx, func(time.Time) { runs.Add(1) }))
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := runs.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, runs.Load())
}

func TestSchedulerNilJobIsNoop(t *testing.T) {
	s := NewTickScheduler(time.Hour)
	require.NoError(t, s.Start(context.Background(), nil))
	require.NoError(t, s.Stop(context.Background()))
}
