package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"pitch-engine/storage"
)

type Config struct {
	Port       string `env:"PORT" envDefault:"8081"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"baseball_user"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"baseball_pass"`
	DBName     string `env:"DB_NAME" envDefault:"baseball_sim"`
	Workers    int    `env:"WORKERS"`

	// StoreEnabled switches between PostgreSQL and the in-memory store
	StoreEnabled   bool          `env:"STORE_ENABLED" envDefault:"true"`
	CacheSize      int           `env:"CACHE_SIZE" envDefault:"512"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"10m"`
	AllowedOrigins []string      `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:8080"`
	MaxBodyBytes   int64         `env:"MAX_BODY_BYTES" envDefault:"33554432"`
	RunRetention   time.Duration `env:"RUN_RETENTION" envDefault:"24h"`
}

// NewConfig reads the configuration from the environment, after loading an
// optional .env file from the working directory.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{Workers: runtime.NumCPU()}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse env: %w", err)
	}

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("WORKERS must be positive, got %d", cfg.Workers)
	}
	if cfg.CacheSize < 1 {
		return nil, fmt.Errorf("CACHE_SIZE must be positive, got %d", cfg.CacheSize)
	}

	return cfg, nil
}

// PoolConfig returns the database settings for storage.NewPool
func (c *Config) PoolConfig() storage.PoolConfig {
	return storage.PoolConfig{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		Workers:  c.Workers,
	}
}
