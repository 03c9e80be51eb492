// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	cfg.Security.APIKeys = []string{"test-key-0123456789abcdef"}
	return cfg
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
}

func TestValidate_Server(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port too low", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "HTTP_PORT"},
		{"zero timeout", func(c *Config) { c.Server.Timeout = 0 }, "HTTP_TIMEOUT"},
		{"bad environment", func(c *Config) { c.Server.Environment = "qa" }, "ENVIRONMENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_Security(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"missing jwt secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET"},
		{"empty api key", func(c *Config) { c.Security.APIKeys = []string{""} }, "API_KEYS"},
		{
			"duplicate api keys",
			func(c *Config) { c.Security.APIKeys = []string{"same-key-0123456789", "same-key-0123456789"} },
			"duplicate",
		},
		{"zero rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"zero rate window", func(c *Config) { c.Security.RateLimitWindow = 0 }, "RATE_LIMIT_WINDOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_ProductionStrictness(t *testing.T) {
	t.Parallel()

	t.Run("short jwt secret rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Environment = "production"
		cfg.Security.CORSOrigins = []string{"https://app.example.com"}
		cfg.Security.JWTSecret = "short"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for short production JWT secret")
		}
	})

	t.Run("wildcard cors rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Environment = "production"
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for wildcard CORS origin in production")
		}
	})

	t.Run("short api key rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Environment = "production"
		cfg.Security.CORSOrigins = []string{"https://app.example.com"}
		cfg.Security.APIKeys = []string{"shortkey"}
		if err := cfg.Validate(); err == nil {
			t.Error("expected error for short production API key")
		}
	})

	t.Run("strict config accepted", func(t *testing.T) {
		cfg := validConfig()
		cfg.Server.Environment = "production"
		cfg.Security.CORSOrigins = []string{"https://app.example.com"}
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected valid production config, got: %v", err)
		}
	})
}

func TestValidate_RateLimitDisabled(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Security.RateLimitDisabled = true
	cfg.Security.RateLimitReqs = 0
	cfg.Security.RateLimitWindow = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("rate limit fields must not be validated when disabled: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PHISHGUARD_JWT_SECRET", strings.Repeat("k", 32))
	t.Setenv("PHISHGUARD_API_KEYS", "key-one-0123456789, key-two-0123456789")
	t.Setenv("PHISHGUARD_HTTP_PORT", "9090")
	t.Setenv("PHISHGUARD_LOG_LEVEL", "debug")
	t.Setenv("PHISHGUARD_TOKEN_EXPIRY", "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Security.TokenExpiry != 2*time.Hour {
		t.Errorf("TokenExpiry = %s, want 2h", cfg.Security.TokenExpiry)
	}
	if len(cfg.Security.APIKeys) != 2 {
		t.Fatalf("APIKeys = %v, want 2 entries", cfg.Security.APIKeys)
	}
	if cfg.Security.APIKeys[0] != "key-one-0123456789" || cfg.Security.APIKeys[1] != "key-two-0123456789" {
		t.Errorf("APIKeys = %v, want trimmed comma-split entries", cfg.Security.APIKeys)
	}
}

func TestLoad_MissingSecretFails(t *testing.T) {
	t.Setenv("PHISHGUARD_JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected Load() to fail without a JWT secret")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"PHISHGUARD_JWT_SECRET", "security.jwt_secret"},
		{"PHISHGUARD_API_KEYS", "security.api_keys"},
		{"PHISHGUARD_HTTP_PORT", "server.port"},
		{"PHISHGUARD_AUDIT_STORE_PATH", "audit.store_path"},
		{"PHISHGUARD_LOG_FORMAT", "logging.format"},
		{"PHISHGUARD_UNKNOWN_VAR", ""},
	}

	for _, tt := range tests {
		result := envTransformFunc(tt.input)
		if result != tt.expected {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
