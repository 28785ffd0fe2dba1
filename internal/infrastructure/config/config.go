package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	JWT   JWTConfig
	Mongo MongoConfig
	Redis RedisConfig
}

// JWTConfig holds the signing material for both token kinds. Secrets have no
// default on purpose: a missing secret is a startup error, never a silent
// empty-secret fallback.
type JWTConfig struct {
	Secret        string        `env:"JWT_SECRET, required"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET, required"`
	AccessTTL     time.Duration `env:"JWT_ACCESS_TTL,  default=15m"`
	RefreshTTL    time.Duration `env:"JWT_REFRESH_TTL, default=30m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=user_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
// Configuration is resolved exactly once at startup and passed by reference
// into the components that need it.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
