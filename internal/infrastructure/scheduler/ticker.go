package scheduler

import (
	"context"
	"time"

	"NewsHerald/internal/ports"
)

// TickScheduler triggers the pipeline at a fixed interval using time.Ticker.
// The first run fires after a short warmup delay instead of a full interval.
type TickScheduler struct {
	interval time.Duration
	warmup   time.Duration
	stop     chan struct{}
}

var _ ports.Scheduler = (*TickScheduler)(nil)

// NewTickScheduler builds a scheduler with the given run interval.
func NewTickScheduler(interval time.Duration) *TickScheduler {
	return &TickScheduler{
		interval: interval,
		warmup:   5 * time.Second,
	}
}

// Start begins ticking in a background goroutine.
func (s *TickScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if s.stop != nil {
		return nil
	}

	s.stop = make(chan struct{})
	go func() {
		warmup := time.NewTimer(s.warmup)
		defer warmup.Stop()
		select {
		case t := <-warmup.C:
			job(t)
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case t := <-ticker.C:
				job(t)
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			}
		}
	}()

	return nil
}

// Stop halts the ticker goroutine.
func (s *TickScheduler) Stop(ctx context.Context) error {
	if s.stop == nil {
		return nil
	}
	close(s.stop)
	s.stop = nil
	return nil
}
