package components

import (
	"tour-booking/internal/domain/booking"
	"tour-booking/internal/infra/notify"
	"tour-booking/internal/pkg/clock"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/usecase/commands"
	"tour-booking/internal/usecase/queries"
	"tour-booking/internal/usecase/shared"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		func(cfg config.Config) *booking.DefaultPricingCalculator {
			return booking.NewPricingCalculator(cfg.Booking.DepositRatio)
		},
		fx.As(new(booking.PricingCalculator)),
	),
	func(cfg config.Config) queries.PageLimits {
		return queries.PageLimits{
			Default: cfg.Booking.DefaultPageSize,
			Max:     cfg.Booking.MaxPageSize,
		}
	},
	fx.Annotate(
		func(client *asynq.Client) *notify.Gateway {
			return notify.NewGateway(client)
		},
		fx.As(new(commands.Notifier)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		newBookingCommands,
	),
)

func newBookingCommands(
	uow shared.UnitOfWork,
	bookingQueries queries.BookingQueries,
	notifier commands.Notifier,
	publisher commands.EventPublisher,
	pricing booking.PricingCalculator,
	clk clock.Clock,
	cfg config.Config,
) commands.BookingCommands {
	return commands.NewBookingUseCase(uow, bookingQueries, notifier, publisher, pricing, clk,
		commands.WithSideEffectTimeout(cfg.Booking.SideEffectTimeout))
}

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewBookingQueries,
	),
)
