package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Catalog CatalogConfig `yaml:"catalog"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"MANGASEARCH_ADDR"             env-default:":5000"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"MANGASEARCH_SHUTDOWN_TIMEOUT" env-default:"10s"`
	TrustedProxies  []string      `yaml:"trusted_proxies"  env:"MANGASEARCH_TRUSTED_PROXIES"  env-default:"127.0.0.1" env-separator:","`
}

// DBConfig.DSN is a SQLite path or a postgres:// URL. Empty means
// ~/.mangasearch/history.db.
type DBConfig struct {
	DSN string `yaml:"dsn" env:"MANGASEARCH_DB_DSN"`
}

type CatalogConfig struct {
	BaseURL      string        `yaml:"base_url"       env:"MANGASEARCH_CATALOG_BASE_URL" env-default:"https://api.mangadex.org"`
	CoverBaseURL string        `yaml:"cover_base_url" env:"MANGASEARCH_COVER_BASE_URL"   env-default:"https://uploads.mangadex.org"`
	Timeout      time.Duration `yaml:"timeout"        env:"MANGASEARCH_CATALOG_TIMEOUT"  env-default:"10s"`
	Rate         float64       `yaml:"rate"           env:"MANGASEARCH_CATALOG_RATE"     env-default:"5"`
	Burst        int           `yaml:"burst"          env:"MANGASEARCH_CATALOG_BURST"    env-default:"5"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"MANGASEARCH_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"MANGASEARCH_LOG_FORMAT" env-default:"text"`
}

// LoadConfig reads .env (if present), then CONFIG_PATH (YAML, optional),
// then the environment. ENV > YAML > defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if cfg.Catalog.Timeout <= 0 {
		return nil, fmt.Errorf("config: catalog timeout must be positive, got %s", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.Rate < 0 {
		return nil, fmt.Errorf("config: catalog rate must not be negative, got %v", cfg.Catalog.Rate)
	}
	return &cfg, nil
}
