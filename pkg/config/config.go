// package config loads the market definition and runtime settings from
// a YAML file, with environment-variable overrides for deploy-specific
// paths. A .env file next to the process is honored if present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Market MarketConfig `yaml:"market"`
	DB     DBConfig     `yaml:"db"`
	Log    LogConfig    `yaml:"log"`
}

// MarketConfig defines the market itself. Everything here is fixed for
// the market's lifetime; changing outcomes or liquidity against an
// existing bet log is rejected at startup.
type MarketConfig struct {
	Outcomes  []string `yaml:"outcomes"`
	Liquidity float64  `yaml:"liquidity"`
	MinShares int64    `yaml:"min_shares"`
	MaxShares int64    `yaml:"max_shares"`
}

type DBConfig struct {
	Path           string `yaml:"path"`
	MigrationsPath string `yaml:"migrations_path"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug | info | warn | error
}

// Load reads the YAML config at path, then applies env overrides:
// POOLFUTURES_DB_PATH, POOLFUTURES_MIGRATIONS_PATH, POOLFUTURES_LOG_LEVEL.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}
	cfg := &Config{
		Market: MarketConfig{
			Liquidity: 50,
			MinShares: 1,
			MaxShares: 100,
		},
		DB: DBConfig{
			Path:           "poolfutures.db",
			MigrationsPath: "file://db/migrations",
		},
		Log: LogConfig{Level: "info"},
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse %q: %w", path, err)
	}

	if v := os.Getenv("POOLFUTURES_DB_PATH"); v != "" {
		cfg.DB.Path = v
	}
	if v := os.Getenv("POOLFUTURES_MIGRATIONS_PATH"); v != "" {
		cfg.DB.MigrationsPath = v
	}
	if v := os.Getenv("POOLFUTURES_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if len(c.Market.Outcomes) < 2 {
		return fmt.Errorf("market needs at least 2 outcomes, got %d", len(c.Market.Outcomes))
	}
	seen := map[string]bool{}
	for _, o := range c.Market.Outcomes {
		if o == "" {
			return fmt.Errorf("empty outcome name")
		}
		if seen[o] {
			return fmt.Errorf("duplicate outcome %q", o)
		}
		seen[o] = true
	}
	if c.Market.Liquidity <= 0 {
		return fmt.Errorf("liquidity must be positive, got %v", c.Market.Liquidity)
	}
	if c.Market.MinShares < 1 || c.Market.MaxShares < c.Market.MinShares {
		return fmt.Errorf("bad share bounds [%d, %d]", c.Market.MinShares, c.Market.MaxShares)
	}
	if c.DB.Path == "" {
		return fmt.Errorf("db path is required")
	}
	return nil
}
