package usuarios

import (
	"errors"
	"strings"
	"time"
)

// Config carries every tunable of the client. The zero value is not
// usable; start from [DefaultConfig] (or Builder defaults) and override.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable.
type Config struct {
	API     APIConfig
	Tokens  TokenConfig
	Renewal RenewalConfig
	Startup StartupConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig describes how to reach the backend.
type APIConfig struct {
	// BaseURL is the backend origin, e.g. "https://admin.example.com".
	// Required. Paths are fixed by the backend ("/api/auth/...").
	BaseURL string
	// Timeout bounds each HTTP round trip.
	Timeout time.Duration
	// UserAgent is sent on every request.
	UserAgent string
	// RetryCount retries transport-level failures (never HTTP errors).
	// Zero disables retries.
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig describes token lifetimes and durable storage keys.
type TokenConfig struct {
	// AccessTTL is the access token lifetime assumed when the token's own
	// expiry claim cannot be read. The backend default is 30 minutes.
	AccessTTL time.Duration
	// RedisKey is the hash key used by the redis token store when the
	// client is built with WithRedis.
	RedisKey string
	// RedisTTL expires stored tokens server-side. Usually set to the
	// refresh token lifetime; zero keeps them until Clear.
	RedisTTL time.Duration
}

/*
====================================
RENEWAL CONFIG
====================================
*/

// RenewalConfig controls proactive renewal of the access token.
type RenewalConfig struct {
	// Enabled schedules a one-shot renewal shortly before each access
	// token expires, so reactive refresh is a fallback, not the norm.
	Enabled bool
	// Margin is how long before expiry the renewal fires. Must be
	// strictly positive and strictly below the token lifetime.
	Margin time.Duration
	// FireTimeout bounds the refresh call made by a firing renewal.
	FireTimeout time.Duration
}

/*
====================================
STARTUP CONFIG
====================================
*/

// StartupConfig controls Start's handling of transient failures while
// restoring a persisted session. A backend that is merely unreachable is
// retried; a backend that rejects the session is not.
type StartupConfig struct {
	RetryEnabled    bool
	InitialInterval time.Duration
	MaxElapsedTime  time.Duration
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig toggles the in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the configuration the Builder starts from.
func DefaultConfig() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:          15 * time.Second,
			UserAgent:        "usuarios-go/1.0",
			RetryCount:       0,
			RetryWaitTime:    500 * time.Millisecond,
			RetryMaxWaitTime: 3 * time.Second,
		},
		Tokens: TokenConfig{
			AccessTTL: 30 * time.Minute,
			RedisKey:  "usuarios:tokens",
		},
		Renewal: RenewalConfig{
			Enabled:     true,
			Margin:      time.Minute,
			FireTimeout: 15 * time.Second,
		},
		Startup: StartupConfig{
			RetryEnabled:    true,
			InitialInterval: 500 * time.Millisecond,
			MaxElapsedTime:  10 * time.Second,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are values; a shallow copy is a deep copy.
	return cfg
}

// Validate reports the first configuration error found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("API.BaseURL is required")
	}
	if c.API.Timeout <= 0 {
		return errors.New("API.Timeout must be positive")
	}
	if c.API.RetryCount < 0 {
		return errors.New("API.RetryCount must not be negative")
	}
	if c.Tokens.AccessTTL <= 0 {
		return errors.New("Tokens.AccessTTL must be positive")
	}
	if c.Renewal.Enabled {
		if c.Renewal.Margin <= 0 {
			return errors.New("Renewal.Margin must be positive")
		}
		if c.Renewal.Margin >= c.Tokens.AccessTTL {
			return errors.New("Renewal.Margin must be below Tokens.AccessTTL")
		}
		if c.Renewal.FireTimeout <= 0 {
			return errors.New("Renewal.FireTimeout must be positive")
		}
	}
	if c.Startup.RetryEnabled {
		if c.Startup.InitialInterval <= 0 {
			return errors.New("Startup.InitialInterval must be positive")
		}
		if c.Startup.MaxElapsedTime <= 0 {
			return errors.New("Startup.MaxElapsedTime must be positive")
		}
	}
	return nil
}
