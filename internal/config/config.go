package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the runtime settings, all sourced from the environment. An
// empty DSN selects the seeded in-memory store.
type Config struct {
	ListenAddr    string `env:"LISTEN_ADDR" env-default:":8080"`
	DBDSN         string `env:"DB_DSN" env-default:""`
	EnableMetrics bool   `env:"ENABLE_METRICS" env-default:"false"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}
