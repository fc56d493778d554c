package goAuthClient

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.Timeout != 10*time.Second {
		t.Fatalf("default timeout = %v, want 10s", cfg.API.Timeout)
	}
	if cfg.Claims.DefaultRole != "ROLE_USER" {
		t.Fatalf("default role = %q, want ROLE_USER", cfg.Claims.DefaultRole)
	}
	if !cfg.Events.Enabled || cfg.Events.BufferSize != 256 {
		t.Fatalf("unexpected event defaults: %+v", cfg.Events)
	}
	if !cfg.Metrics.Enabled {
		t.Fatal("metrics should default to enabled")
	}
}

func TestValidateConfig(t *testing.T) {
	valid := defaultConfig()
	valid.API.BaseURL = "https://accounts.example.com/api/v1"
	if err := validateConfig(valid); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing base url", func(c *Config) { c.API.BaseURL = "" }, "required"},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/api/v1" }, "invalid"},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host/api" }, "http"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "timeout"},
		{"excessive leeway", func(c *Config) { c.Claims.Leeway = 5 * time.Minute }, "leeway"},
		{"negative buffer", func(c *Config) { c.Events.BufferSize = -1 }, "buffer"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid
			tc.mutate(&cfg)
			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestBuilderValidatesConfig(t *testing.T) {
	if _, err := New().Build(); err == nil {
		t.Fatal("Build without a base URL should fail")
	}

	b := New().WithBaseURL("https://accounts.example.com/api/v1")
	client, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer client.Close()

	if _, err := b.Build(); err == nil {
		t.Fatal("reusing a builder should fail")
	}
	if got := client.SessionState(); got.String() != "anonymous" {
		t.Fatalf("fresh client state = %v, want anonymous", got)
	}
}
