package goAuthClient

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by goAuthClient APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API     APIConfig
	Claims  ClaimsConfig
	Cache   CacheConfig
	Events  EventConfig
	Metrics MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig defines a public type used by goAuthClient APIs.
//
// APIConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type APIConfig struct {
	// BaseURL is the root of the remote account service, e.g.
	// "https://accounts.example.com/api/v1".
	BaseURL string
	// Timeout bounds a single HTTP attempt. The renewal-and-retry sequence
	// may take up to twice this long. Zero means the default.
	Timeout time.Duration
	// UserAgent is sent on every outbound call.
	UserAgent string
}

/*
====================================
CLAIMS CONFIG
====================================
*/

// ClaimsConfig defines a public type used by goAuthClient APIs.
//
// ClaimsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ClaimsConfig struct {
	// Leeway is tolerated clock skew when checking the embedded expiry claim.
	Leeway time.Duration
	// DefaultRole is assumed when an access credential carries no roles claim.
	DefaultRole string
}

/*
====================================
CACHE CONFIG
====================================
*/

// CacheConfig defines a public type used by goAuthClient APIs.
//
// CacheConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CacheConfig struct {
	// RedisPrefix namespaces the persisted credential key.
	RedisPrefix string
	// Profile distinguishes independent sessions sharing one Redis.
	Profile string
	// TTL expires a persisted pair; zero keeps it until overwritten.
	TTL time.Duration
}

/*
====================================
EVENT CONFIG
====================================
*/

// EventConfig defines a public type used by goAuthClient APIs.
//
// EventConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type EventConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking when the buffer is full.
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goAuthClient APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			Timeout:   10 * time.Second,
			UserAgent: "goAuthClient/1",
		},
		Claims: ClaimsConfig{
			Leeway:      30 * time.Second,
			DefaultRole: "ROLE_USER",
		},
		Cache: CacheConfig{
			RedisPrefix: "gac",
			Profile:     "default",
		},
		Events: EventConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a deep copy.
	return cfg
}

func validateConfig(cfg Config) error {
	base := strings.TrimSpace(cfg.API.BaseURL)
	if base == "" {
		return errors.New("API base URL required")
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("API base URL invalid")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API base URL must be http or https")
	}
	if cfg.API.Timeout < 0 {
		return errors.New("invalid API timeout")
	}
	if cfg.Claims.Leeway < 0 || cfg.Claims.Leeway > 2*time.Minute {
		return errors.New("invalid claims leeway configuration")
	}
	if cfg.Events.Enabled && cfg.Events.BufferSize < 0 {
		return errors.New("invalid event buffer size")
	}
	return nil
}
