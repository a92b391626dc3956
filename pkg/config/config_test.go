package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	is := is.New(t)
	cfg, err := Load(writeConfig(t, `
market:
  outcomes: [Grant, JB, Connor, David, Bill, Matt]
  liquidity: 50
  min_shares: 1
  max_shares: 100
db:
  path: /var/data/pool.db
  migrations_path: file:///opt/poolfutures/db/migrations
log:
  level: debug
`))
	is.NoErr(err)
	is.Equal(cfg.Market.Outcomes, []string{"Grant", "JB", "Connor", "David", "Bill", "Matt"})
	is.Equal(cfg.Market.Liquidity, 50.0)
	is.Equal(cfg.Market.MinShares, int64(1))
	is.Equal(cfg.Market.MaxShares, int64(100))
	is.Equal(cfg.DB.Path, "/var/data/pool.db")
	is.Equal(cfg.Log.Level, "debug")
}

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	cfg, err := Load(writeConfig(t, `
market:
  outcomes: [yes, no]
`))
	is.NoErr(err)
	is.Equal(cfg.Market.Liquidity, 50.0)
	is.Equal(cfg.Market.MinShares, int64(1))
	is.Equal(cfg.Market.MaxShares, int64(100))
	is.Equal(cfg.DB.Path, "poolfutures.db")
	is.Equal(cfg.DB.MigrationsPath, "file://db/migrations")
	is.Equal(cfg.Log.Level, "info")
}

func TestLoadEnvOverride(t *testing.T) {
	is := is.New(t)
	t.Setenv("POOLFUTURES_DB_PATH", "/tmp/override.db")
	t.Setenv("POOLFUTURES_LOG_LEVEL", "warn")
	cfg, err := Load(writeConfig(t, `
market:
  outcomes: [yes, no]
db:
  path: from-yaml.db
`))
	is.NoErr(err)
	is.Equal(cfg.DB.Path, "/tmp/override.db")
	is.Equal(cfg.Log.Level, "warn")
}

func TestLoadMissingFile(t *testing.T) {
	is := is.New(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	is.True(err != nil)
}

func TestValidate(t *testing.T) {
	for _, tc := range []struct {
		name string
		body string
	}{
		{"one outcome", "market:\n  outcomes: [only]\n"},
		{"duplicate outcomes", "market:\n  outcomes: [a, a]\n"},
		{"empty outcome", "market:\n  outcomes: [a, \"\"]\n"},
		{"bad liquidity", "market:\n  outcomes: [a, b]\n  liquidity: -1\n"},
		{"bad bounds", "market:\n  outcomes: [a, b]\n  min_shares: 10\n  max_shares: 5\n"},
		{"zero min", "market:\n  outcomes: [a, b]\n  min_shares: 0\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			is := is.New(t)
			_, err := Load(writeConfig(t, tc.body))
			is.True(err != nil)
		})
	}
}
