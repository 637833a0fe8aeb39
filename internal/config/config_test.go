package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing base URL", func(c *Config) { c.APIBaseURL = "" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeoutSecs = 0 }, true},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"deep link fetch smaller than page", func(c *Config) { c.DeepLinkFetchSize = 5 }, true},
		{"unknown variant", func(c *Config) { c.FeedVariant = "explore" }, true},
		{"profile variant", func(c *Config) { c.FeedVariant = "profile" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				APIBaseURL:         "https://api.fanfeed.app/v1",
				RequestTimeoutSecs: 10,
				PageSize:           10,
				DeepLinkFetchSize:  50,
				FeedVariant:        "feed",
			}
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	defer os.Unsetenv("PAGE_SIZE")
	defer os.Unsetenv("API_BASE_URL")
	defer viper.Reset()

	os.Setenv("API_BASE_URL", "https://staging.fanfeed.app/v1")
	os.Setenv("PAGE_SIZE", "25")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.fanfeed.app/v1", c.APIBaseURL)
	assert.Equal(t, 25, c.PageSize)
	// Untouched knobs keep their defaults.
	assert.Equal(t, 350, c.DrawerSettleDelayMS)
	assert.Equal(t, 10, c.RequestTimeoutSecs)
}
