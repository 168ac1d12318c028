// Package settings resolves the program's configuration from the
// environment.
package settings

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// DefaultBaseURL is the URL prefix for the Together API.
const DefaultBaseURL = "https://api.together.xyz/v1"

// ErrAPIKeyNotSet is returned when no API key is configured. Its text is
// part of the program's output contract.
var ErrAPIKeyNotSet = errors.New("TOGETHER_API_KEY not set")

// Settings holds the resolved configuration. All values come from
// TOGETHER_* environment variables.
type Settings struct {
	// APIKey is the bearer token for the Together API.
	APIKey string `mapstructure:"api_key"`

	// BaseURL is the URL prefix for all requests, without a trailing slash.
	BaseURL string `mapstructure:"base_url"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `mapstructure:"timeout"`

	// RetryMax is the number of retries after the first attempt. Zero means
	// a single attempt.
	RetryMax int `mapstructure:"retry_max"`

	// RetryWaitMin is the minimum wait between retries.
	RetryWaitMin time.Duration `mapstructure:"retry_wait_min"`

	// RetryWaitMax is the maximum wait between retries.
	RetryWaitMax time.Duration `mapstructure:"retry_wait_max"`

	// SentryDSN enables error reporting when non-empty.
	SentryDSN string `mapstructure:"sentry_dsn"`

	// Debug enables debug logging on stderr.
	Debug bool `mapstructure:"debug"`
}

var keys = []string{
	"api_key",
	"base_url",
	"timeout",
	"retry_max",
	"retry_wait_min",
	"retry_wait_max",
	"sentry_dsn",
	"debug",
}

// Load reads the settings from the environment.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("TOGETHER")

	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", 300*time.Second)
	v.SetDefault("retry_max", 0)
	v.SetDefault("retry_wait_min", time.Second)
	v.SetDefault("retry_wait_max", 30*time.Second)

	// AutomaticEnv does not surface env vars through Unmarshal, so each key
	// is bound explicitly.
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// EnsureAPIKey returns an error if no API key is configured.
func (s *Settings) EnsureAPIKey() error {
	if s.APIKey == "" {
		return ErrAPIKeyNotSet
	}
	return nil
}
