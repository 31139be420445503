package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo MongoConfig
	Redis RedisConfig
	Auth  AuthConfig
	Fetch FetchConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=settings_portal"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type AuthConfig struct {
	// TokenTTL is the lifetime of issued session tokens.
	TokenTTL time.Duration `env:"AUTH_TOKEN_TTL, default=24h"`
	// ShortSessionTTL applies when a login declines "remember me".
	ShortSessionTTL time.Duration `env:"AUTH_SHORT_SESSION_TTL, default=15m"`
	// SignOutTimeout bounds the remote sign-out call on logout.
	SignOutTimeout time.Duration `env:"AUTH_SIGNOUT_TIMEOUT, default=2s"`
}

type FetchConfig struct {
	Timeout      time.Duration `env:"FETCH_TIMEOUT,       default=15s"`
	Retries      int           `env:"FETCH_RETRIES,       default=3"`
	InitialDelay time.Duration `env:"FETCH_INITIAL_DELAY, default=500ms"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs in the production
// environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
