package worker

import (
	"context"
	"log/slog"
	"time"

	"deskhive/internal/pkg/clock"
	"deskhive/internal/usecase/shared"
)

// Sweeper periodically flips elapsed confirmed bookings to completed.
// The sweep statement is idempotent, so overlapping runs, restarts, or
// concurrent instances converge on the same result.
type Sweeper struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	interval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

func NewSweeper(uow shared.UnitOfWork, clk clock.Clock, interval time.Duration) *Sweeper {
	return &Sweeper{
		uow:      uow,
		clock:    clk,
		interval: interval,
	}
}

func (s *Sweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
}

func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.SweepOnce(ctx); err != nil {
				slog.Error("booking completion sweep failed", "error", err.Error())
			}
		}
	}
}

// SweepOnce completes every confirmed booking whose interval has
// elapsed and returns the number of bookings flipped.
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	var completed int64
	err := s.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		n, err := tx.Bookings().CompleteElapsed(ctx, s.clock.Now())
		if err != nil {
			return err
		}
		completed = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	if completed > 0 {
		slog.Info("completed elapsed bookings", "count", completed)
	}
	return completed, nil
}
