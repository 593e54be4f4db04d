package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServerConfig
	DBConfig
	RedisConfig
	AuthConfig
	ReminderConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`
}

type DBConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
}

type RedisConfig struct {
	RedisURL string `envconfig:"REDIS_URL"`
}

type AuthConfig struct {
	JWTSecret string        `envconfig:"JWT_SECRET" required:"true"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
}

// ReminderConfig configures expiry reminder selection and delivery.
// Notifier selects the delivery channel: "console" (prints the message)
// or "gateway" (HTTP SMS/WhatsApp gateway).
type ReminderConfig struct {
	ReminderDays   int    `envconfig:"REMINDER_DAYS" default:"7"`
	Notifier       string `envconfig:"NOTIFIER" default:"console"`
	GatewayBaseURL string `envconfig:"GATEWAY_BASE_URL"`
	GatewayAPIKey  string `envconfig:"GATEWAY_API_KEY"`
	DefaultCountry string `envconfig:"DEFAULT_COUNTRY_CODE" default:"91"`
}

// Load reads .env (when present) and processes the environment into a Config.
func Load() (*Config, error) {
	// Missing .env is fine, the process environment still applies.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
