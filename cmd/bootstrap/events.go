package bootstrap

import (
	"context"
	"log/slog"

	"tour-booking/internal/infra/events"
	"tour-booking/internal/pkg/config"
	"tour-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewEventPublisher,
	),
)

type closablePublisher interface {
	commands.EventPublisher
	Close() error
}

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) commands.EventPublisher {
	var p closablePublisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		p = events.NewKafkaPublisher(cfg.Kafka)
		logger.Info("Kafka event publishing enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		logger.Info("Kafka brokers not configured, booking events are disabled")
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return p.Close()
		},
	})
	return p
}
