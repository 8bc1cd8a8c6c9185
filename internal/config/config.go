package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config carries every knob the server reads from the environment. It is
// built once in main and injected; nothing mutates it at runtime.
type Config struct {
	ServerName    string `envconfig:"SERVER_NAME" default:"papr-server"`
	ServerChannel string `envconfig:"SERVER_CHANNEL" required:"true"`

	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`
	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	LedgerURL     string        `envconfig:"LEDGER_URL" default:"http://localhost:5279"`
	LedgerTimeout time.Duration `envconfig:"LEDGER_TIMEOUT" default:"15s"`

	JWTSecret  string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"720h"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	TokenRateLimit  int           `envconfig:"TOKEN_RATE_LIMIT" default:"30"`
	TokenRateWindow time.Duration `envconfig:"TOKEN_RATE_WINDOW" default:"1m"`
}

// Load reads the configuration from the environment, picking up a local
// .env file first when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return nil, err
	}
	return &c, nil
}
