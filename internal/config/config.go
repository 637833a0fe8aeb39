// Package config provides application configuration loading and management.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds client configuration values loaded from file or environment
// variables.
type Config struct {
	APIBaseURL          string `mapstructure:"API_BASE_URL"`
	AuthToken           string `mapstructure:"AUTH_TOKEN"`
	RequestTimeoutSecs  int    `mapstructure:"REQUEST_TIMEOUT_SECS"`
	PageSize            int    `mapstructure:"PAGE_SIZE"`
	DeepLinkFetchSize   int    `mapstructure:"DEEPLINK_FETCH_SIZE"`
	RedisURL            string `mapstructure:"REDIS_URL"`
	LogLevel            string `mapstructure:"LOG_LEVEL"`
	DrawerSettleDelayMS int    `mapstructure:"DRAWER_SETTLE_DELAY_MS"`
	FeedVariant         string `mapstructure:"FEED_VARIANT"`
	Env                 string `mapstructure:"APP_ENV"`
}

// LoadConfig loads client configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; env vars and defaults are enough.
	_ = viper.ReadInConfig()

	viper.SetDefault("API_BASE_URL", "https://api.fanfeed.app/v1")
	viper.SetDefault("AUTH_TOKEN", "")
	viper.SetDefault("REQUEST_TIMEOUT_SECS", 10)
	viper.SetDefault("PAGE_SIZE", 10)
	viper.SetDefault("DEEPLINK_FETCH_SIZE", 50)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DRAWER_SETTLE_DELAY_MS", 350)
	viper.SetDefault("FEED_VARIANT", "feed")
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.LogLevel = strings.ToLower(strings.TrimSpace(config.LogLevel))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that loaded values are usable before anything dials out.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.RequestTimeoutSecs <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECS must be positive, got %d", c.RequestTimeoutSecs)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.DeepLinkFetchSize < c.PageSize {
		return fmt.Errorf("DEEPLINK_FETCH_SIZE (%d) must be at least PAGE_SIZE (%d)", c.DeepLinkFetchSize, c.PageSize)
	}
	switch c.FeedVariant {
	case "feed", "profile":
	default:
		return fmt.Errorf("FEED_VARIANT must be feed or profile, got %q", c.FeedVariant)
	}
	return nil
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

// DrawerSettleDelay returns the lightbox drawer settle delay as a duration.
func (c *Config) DrawerSettleDelay() time.Duration {
	return time.Duration(c.DrawerSettleDelayMS) * time.Millisecond
}
