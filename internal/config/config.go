package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`

	SentryEnabled bool `toml:"sentry_enabled"`

	// post store: "redis" or "badger"
	StoreType  string `toml:"store_type"`
	BadgerPath string `toml:"badger_path"`
	RedisHost  string `toml:"redis_host"`
	RedisPort  string `toml:"redis_port"`

	// image search
	UnsplashBaseURL            string `toml:"unsplash_base_url"`
	ImageSearchAllowedPerMin   int    `toml:"image_search_allowed_per_min"`
	ImageSearchRateLimitActive bool   `toml:"image_search_rate_limit_active"`

	// theme fallback when no preference was stored yet
	DefaultTheme string `toml:"default_theme"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func Load(env, path string) (*Config, error) {
	var tomlFile Toml
	if _, err := toml.DecodeFile(path, &tomlFile); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := tomlFile.Get(env)
	if err != nil {
		return nil, err
	}

	cfg.Environment = env
	return cfg, nil
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}
