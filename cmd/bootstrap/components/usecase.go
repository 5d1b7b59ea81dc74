package components

import (
	"deskhive/internal/pkg/clock"
	"deskhive/internal/pkg/config"
	"deskhive/internal/usecase/commands"
	"deskhive/internal/usecase/queries"
	"deskhive/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		queries.NewBookingQueries,
		queries.NewReviewQueries,
		NewBookingCommands,
		commands.NewReviewCommands,
	),
)

func NewBookingCommands(uowInstance shared.UnitOfWork, reads queries.BookingReadStore, clk clock.Clock, cfg config.Config) commands.BookingCommands {
	return commands.NewBookingCommands(uowInstance, reads, clk, cfg.Booking.CancellationWindow)
}
