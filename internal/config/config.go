package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TRADECRAFT_"

// Config holds all configuration for the tradecraft driver.
type Config struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"` // debug, info, warn, error

	// CatalogPath points at a YAML item/recipe/trade catalog.
	// Empty means the embedded default catalog.
	CatalogPath string `yaml:"catalog_path" env:"CATALOG_PATH"`

	Inventory InventoryConfig `yaml:"inventory" envPrefix:"INVENTORY_"`
	Journal   JournalConfig   `yaml:"journal" envPrefix:"JOURNAL_"`
	Market    MarketConfig    `yaml:"market" envPrefix:"MARKET_"`
}

// InventoryConfig sizes player inventories.
type InventoryConfig struct {
	MaxStacks int `yaml:"max_stacks" env:"MAX_STACKS"` // 0 = unlimited
}

// JournalConfig controls the Postgres exchange journal.
type JournalConfig struct {
	Enabled  bool           `yaml:"enabled" env:"ENABLED"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// MarketConfig drives the demo scenario and the concurrent market simulation.
// Shop, Trade and Recipe are catalog ids.
type MarketConfig struct {
	Shop   string `yaml:"shop" env:"SHOP"`
	Trade  string `yaml:"trade" env:"TRADE"`
	Recipe string `yaml:"recipe" env:"RECIPE"`

	Buyers     int    `yaml:"buyers" env:"BUYERS"`
	Rounds     int    `yaml:"rounds" env:"ROUNDS"`
	Multiplier uint32 `yaml:"multiplier" env:"MULTIPLIER"`
	Funds      uint32 `yaml:"funds" env:"FUNDS"` // starting currency per buyer
}

// Default returns Config with sensible defaults.
func Default() Config {
	return Config{
		LogLevel: "info",
		Inventory: InventoryConfig{
			MaxStacks: 0,
		},
		Journal: JournalConfig{
			Enabled: false,
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "tradecraft",
				Password: "tradecraft",
				DBName:   "tradecraft",
				SSLMode:  "disable",
			},
		},
		Market: MarketConfig{
			Shop:       "quarry",
			Trade:      "stone-for-wood",
			Recipe:     "glass",
			Buyers:     8,
			Rounds:     25,
			Multiplier: 3,
			Funds:      7500,
		},
	}
}

// Load loads config from a YAML file, then applies TRADECRAFT_* environment
// overrides. If the file doesn't exist, defaults are used.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the driver cannot run with.
func (c Config) Validate() error {
	if c.Inventory.MaxStacks < 0 {
		return fmt.Errorf("inventory.max_stacks must be >= 0, got %d", c.Inventory.MaxStacks)
	}
	if c.Market.Buyers < 0 || c.Market.Rounds < 0 {
		return fmt.Errorf("market buyers and rounds must be >= 0, got %d/%d", c.Market.Buyers, c.Market.Rounds)
	}
	return nil
}

// SlogLevel maps LogLevel onto slog levels. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
