package bootstrap

import (
	"context"

	"deskhive/internal/pkg/clock"
	"deskhive/internal/pkg/config"
	"deskhive/internal/usecase/shared"
	"deskhive/internal/worker"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Provide(
		NewSweeper,
	),
	fx.Invoke(
		registerSweeper,
	),
)

func NewSweeper(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) *worker.Sweeper {
	return worker.NewSweeper(uow, clk, cfg.Booking.SweepInterval)
}

func registerSweeper(lc fx.Lifecycle, sweeper *worker.Sweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
