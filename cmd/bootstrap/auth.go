package bootstrap

import (
	"context"
	"fmt"
	"time"

	"tour-booking/internal/pkg/config"
	"tour-booking/internal/pkg/jwt"
	"tour-booking/internal/usecase"
	"tour-booking/internal/usecase/queries"

	firebase "firebase.google.com/go/v4"
	"go.uber.org/fx"
	"google.golang.org/api/option"
)

const (
	providerJWT      = "jwt"
	providerFirebase = "firebase"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

// AuthModule picks the bearer token verifier. It depends on the user
// queries, so it must be composed after the use case module.
var AuthModule = fx.Module("auth",
	fx.Provide(
		NewTokenValidator,
	),
)

func NewJWTService(cfg config.Config) (*jwt.Service, error) {
	duration, err := time.ParseDuration(cfg.JWT.Duration)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_DURATION: %w", err)
	}
	return jwt.NewService(cfg.JWT.Secret, duration), nil
}

func NewTokenValidator(cfg config.Config, jwtService *jwt.Service, users queries.UserQueries) (usecase.TokenValidator, error) {
	switch cfg.Auth.Provider {
	case "", providerJWT:
		return usecase.NewTokenValidator(jwtService), nil
	case providerFirebase:
		return newFirebaseValidator(cfg.Auth, users)
	default:
		return nil, fmt.Errorf("unknown AUTH_PROVIDER %q", cfg.Auth.Provider)
	}
}

func newFirebaseValidator(cfg config.AuthConfig, users queries.UserQueries) (usecase.TokenValidator, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if cfg.FirebaseCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return usecase.NewFirebaseTokenValidator(client, users), nil
}
