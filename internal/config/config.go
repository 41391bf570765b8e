package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is the placeholder signing key used when JWT_SECRET is unset. It is only
// accepted when AppEnv is "development".
const DefaultJWTSecret = "change-me"

// ErrInsecureJWTSecret is returned by Validate when the signing key is missing or the placeholder.
var ErrInsecureJWTSecret = errors.New("JWT_SECRET must be set to a non-default value outside development")

// Config holds the runtime settings of the service.
type Config struct {
	AppPort string
	AppEnv  string

	// DatabaseDSN selects the driver: "sqlite://<path>" opens sqlite, anything else postgres.
	DatabaseDSN string

	JWTSecret string
	TokenTTL  time.Duration
	OTPTTL    time.Duration
	OTPLength int

	// RabbitMQURL may be empty, in which case events are not published.
	RabbitMQURL    string
	EventsExchange string
	EventsQueue    string
	// LogEvents attaches a consumer that logs a copy of every event.
	LogEvents bool

	// RedisAddr may be empty, in which case product details are not cached.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	AdminEmail    string
	AdminPassword string
	SeedDemo      bool
}

// Load reads an optional .env file and then the environment.
func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("DATABASE_DSN", "sqlite://catalog.db")
	v.SetDefault("JWT_SECRET", DefaultJWTSecret)
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("EVENTS_EXCHANGE", "catalog.events")
	v.SetDefault("EVENTS_QUEUE", "catalog_events")
	v.SetDefault("EVENTS_LOG", false)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("SEED_DEMO", false)
	v.AutomaticEnv()

	return &Config{
		AppPort:        v.GetString("APP_PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		TokenTTL:       v.GetDuration("TOKEN_TTL"),
		OTPTTL:         v.GetDuration("OTP_TTL"),
		OTPLength:      v.GetInt("OTP_LENGTH"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		EventsExchange: v.GetString("EVENTS_EXCHANGE"),
		EventsQueue:    v.GetString("EVENTS_QUEUE"),
		LogEvents:      v.GetBool("EVENTS_LOG"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisPassword:  v.GetString("REDIS_PASSWORD"),
		RedisDB:        v.GetInt("REDIS_DB"),
		CacheTTL:       v.GetDuration("CACHE_TTL"),
		AdminEmail:     v.GetString("ADMIN_EMAIL"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		SeedDemo:       v.GetBool("SEED_DEMO"),
	}
}

// Validate rejects settings the service must not start with.
func (c *Config) Validate() error {
	if c.AppEnv != "development" && (c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret) {
		return ErrInsecureJWTSecret
	}
	return nil
}
