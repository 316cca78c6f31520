package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Auth    AuthConfig
	Queue   QueueConfig
	Mail    MailConfig
	Kafka   KafkaConfig
	Booking BookingConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Ho_Chi_Minh"`

	MaxConns    int32         `envconfig:"DB_MAX_CONNS" default:"20"`
	MinConns    int32         `envconfig:"DB_MIN_CONNS" default:"2"`
	LockTimeout time.Duration `envconfig:"DB_LOCK_TIMEOUT" default:"5s"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Ho_Chi_Minh"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"25200"` // 7*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// AuthConfig selects how bearer tokens are verified: locally signed JWTs
// or Firebase ID tokens.
type AuthConfig struct {
	Provider                string `envconfig:"AUTH_PROVIDER" default:"jwt"`
	FirebaseProjectID       string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `envconfig:"FIREBASE_CREDENTIALS_FILE"`
}

type QueueConfig struct {
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	Concurrency   int    `envconfig:"WORKER_CONCURRENCY" default:"10"`
}

type MailConfig struct {
	Host     string `envconfig:"SMTP_HOST" default:"localhost"`
	Port     int    `envconfig:"SMTP_PORT" default:"1025"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"MAIL_FROM" default:"no-reply@tour-booking.local"`
}

// KafkaConfig with no brokers disables event publishing.
type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS"`
	Topic   string   `envconfig:"KAFKA_TOPIC" default:"booking-events"`
}

type BookingConfig struct {
	DepositRatio    float64 `envconfig:"BOOKING_DEPOSIT_RATIO" default:"0.4"`
	DefaultPageSize int     `envconfig:"BOOKING_DEFAULT_PAGE_SIZE" default:"10"`
	MaxPageSize     int     `envconfig:"BOOKING_MAX_PAGE_SIZE" default:"100"`

	// Bounds each post-commit email enqueue, event publish and slot release.
	SideEffectTimeout time.Duration `envconfig:"BOOKING_SIDE_EFFECT_TIMEOUT" default:"5s"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Ho_Chi_Minh",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Ho_Chi_Minh",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 25200,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-e2e-only",
			Duration: "1h",
		},
		Auth: AuthConfig{
			Provider: "jwt",
		},
		Queue: QueueConfig{
			RedisAddr:   "localhost:16379",
			Concurrency: 1,
		},
		Mail: MailConfig{
			Host: "localhost",
			Port: 1025,
			From: "no-reply@tour-booking.local",
		},
		Booking: BookingConfig{
			DepositRatio:      0.4,
			DefaultPageSize:   10,
			MaxPageSize:       100,
			SideEffectTimeout: 2 * time.Second,
		},
	}
}
