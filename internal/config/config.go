package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server    Server    `mapstructure:"server"`
	Refresh   Refresh   `mapstructure:"refresh"`
	Storage   Storage   `mapstructure:"storage"`
	Log       Log       `mapstructure:"log"`
	Providers Providers `mapstructure:"providers"`
}

type Server struct {
	Port string `mapstructure:"port"`
}

type Refresh struct {
	IntervalSec       int `mapstructure:"interval_sec"`
	RequestTimeoutSec int `mapstructure:"request_timeout_sec"`
	CycleTimeoutSec   int `mapstructure:"cycle_timeout_sec"`
}

type Storage struct {
	Path string `mapstructure:"path"`
}

type Log struct {
	Level       string `mapstructure:"level"`       // debug, info, warn, error
	Format      string `mapstructure:"format"`      // json or console
	OutputFile  string `mapstructure:"output_file"` // optional rotating log file
	Environment string `mapstructure:"environment"` // dev or prod
}

type Providers struct {
	CoinGecko   CoinGecko   `mapstructure:"coingecko"`
	Finnhub     Finnhub     `mapstructure:"finnhub"`
	Frankfurter Frankfurter `mapstructure:"frankfurter"`
	Metals      Metals      `mapstructure:"metals"`
}

type CoinGecko struct {
	BaseURL              string `mapstructure:"base_url"`
	MaxRequestsPerMinute int    `mapstructure:"max_requests_per_minute"`
}

type Finnhub struct {
	BaseURL              string `mapstructure:"base_url"`
	APIKey               string `mapstructure:"api_key"`
	InterRequestDelayMs  int    `mapstructure:"inter_request_delay_ms"`
	MaxRequestsPerMinute int    `mapstructure:"max_requests_per_minute"`
}

type Frankfurter struct {
	BaseURL string `mapstructure:"base_url"`
}

type Metals struct {
	BaseURL string `mapstructure:"base_url"`
	// APIKey empty means the live path is skipped entirely: the free quota
	// (25 calls/month) is too small to call unconditionally.
	APIKey      string `mapstructure:"api_key"`
	CacheTTLMin int    `mapstructure:"cache_ttl_min"`
}

// Load reads config.yaml from path (or the working directory when empty) and
// overrides with MARKETHUB_-prefixed environment variables. A missing file is
// not an error; defaults cover everything but API keys.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("markethub")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", "8080")
	v.SetDefault("refresh.interval_sec", 60)
	v.SetDefault("refresh.request_timeout_sec", 10)
	v.SetDefault("refresh.cycle_timeout_sec", 45)
	v.SetDefault("storage.path", "markethub.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.environment", "prod")
	v.SetDefault("providers.coingecko.max_requests_per_minute", 30)
	v.SetDefault("providers.finnhub.inter_request_delay_ms", 100)
	v.SetDefault("providers.finnhub.max_requests_per_minute", 60)
	v.SetDefault("providers.metals.cache_ttl_min", 720)

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
