// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

// Package config loads and validates Phishguard configuration.
//
// Configuration is layered with clear precedence:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority, prefix PHISHGUARD_)
//
// Configuration is immutable after startup: Load returns a value that is
// never mutated at runtime.
package config

import (
	"time"
)

// Config is the root configuration for the Phishguard gate.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
	// Environment mode: "development", "staging", "production"
	Environment string `koanf:"environment"`
}

// SecurityConfig holds authentication and authorization settings.
type SecurityConfig struct {
	// APIKeys is the set of accepted machine-to-machine API keys.
	// Comparison is exact membership; keys carry no identity.
	APIKeys []string `koanf:"api_keys"`

	// JWTSecret is the HS256 signing secret for bearer tokens.
	// Must be at least 32 characters in production.
	JWTSecret string `koanf:"jwt_secret"`

	// TokenExpiry is the lifetime of issued bearer tokens.
	TokenExpiry time.Duration `koanf:"token_expiry"`

	// RateLimitReqs is the per-API-key request budget per window.
	RateLimitReqs int `koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limit window duration.
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	// RateLimitDisabled turns off per-key and per-IP rate limiting.
	RateLimitDisabled bool `koanf:"rate_limit_disabled"`

	CORSOrigins    []string `koanf:"cors_origins"`
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// AuditConfig holds audit trail settings.
type AuditConfig struct {
	// StorePath is the BadgerDB directory for the durable audit trail.
	// Empty means in-memory (tests, ephemeral deployments).
	StorePath string `koanf:"store_path"`

	// BufferSize is the async recorder's channel capacity.
	BufferSize int `koanf:"buffer_size"`

	// RetentionDays is how long audit events are kept before cleanup.
	RetentionDays int `koanf:"retention_days"`

	// GCInterval is how often the BadgerDB value-log GC runs.
	GCInterval time.Duration `koanf:"gc_interval"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// JSON is recommended for production (structured, machine-parseable).
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Adds slight performance overhead.
	// Default: false
	Caller bool `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
// Production mode enforces stricter validation (JWT secret length, CORS).
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
