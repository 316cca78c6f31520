package bootstrap

import (
	"tour-booking/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	QueueModule,
	EventsModule,
	components.PersistenceModule,
	components.UseCaseModule,
	AuthModule,
	components.HandlerModule,
)
