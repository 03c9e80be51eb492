// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package config

import (
	"fmt"
)

// minJWTSecretLength is the minimum JWT secret length enforced in production.
// 32 bytes matches the HS256 key-size recommendation.
const minJWTSecretLength = 32

// minAPIKeyLength guards against trivially guessable keys in production.
const minAPIKeyLength = 16

// Validate checks the configuration for correctness at startup.
// Validation failures are fatal: the gate refuses to start misconfigured.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateAudit(); err != nil {
		return err
	}

	return c.validateLogging()
}

// validateServer validates HTTP server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PHISHGUARD_HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("PHISHGUARD_HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("PHISHGUARD_ENVIRONMENT must be development, staging, or production, got %q", c.Server.Environment)
	}
	return nil
}

// validateSecurity validates authentication configuration
func (c *Config) validateSecurity() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("PHISHGUARD_JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.Security.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("PHISHGUARD_JWT_SECRET must be at least %d characters in production", minJWTSecretLength)
	}

	seen := make(map[string]bool, len(c.Security.APIKeys))
	for _, key := range c.Security.APIKeys {
		if key == "" {
			return fmt.Errorf("PHISHGUARD_API_KEYS must not contain empty keys")
		}
		if c.IsProduction() && len(key) < minAPIKeyLength {
			return fmt.Errorf("PHISHGUARD_API_KEYS entries must be at least %d characters in production", minAPIKeyLength)
		}
		if seen[key] {
			return fmt.Errorf("PHISHGUARD_API_KEYS contains duplicate entries")
		}
		seen[key] = true
	}

	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs <= 0 {
			return fmt.Errorf("PHISHGUARD_RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("PHISHGUARD_RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
		}
	}

	if c.IsProduction() {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("PHISHGUARD_CORS_ORIGINS must not contain wildcard origins in production")
			}
		}
	}

	return nil
}

// validateAudit validates audit trail configuration
func (c *Config) validateAudit() error {
	if c.Audit.BufferSize <= 0 {
		return fmt.Errorf("PHISHGUARD_AUDIT_BUFFER_SIZE must be positive, got %d", c.Audit.BufferSize)
	}
	if c.Audit.RetentionDays <= 0 {
		return fmt.Errorf("PHISHGUARD_AUDIT_RETENTION_DAYS must be positive, got %d", c.Audit.RetentionDays)
	}
	if c.Audit.GCInterval <= 0 {
		return fmt.Errorf("PHISHGUARD_AUDIT_GC_INTERVAL must be positive, got %s", c.Audit.GCInterval)
	}
	return nil
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("PHISHGUARD_LOG_LEVEL must be a valid level, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("PHISHGUARD_LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
