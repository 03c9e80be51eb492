// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

// Package main is the entry point for the Phishguard gate server.
//
// Phishguard fronts a phishing-analysis API with a request
// authentication and authorization gate: API-key verification for
// machine callers, signed-token verification for users, role and
// organization-scope enforcement, and a durable audit trail.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layered sources (defaults, YAML file, env)
//  2. Storage: BadgerDB for the audit trail and incident reports
//  3. Gate: API-key validator, JWT token manager, per-key rate limiter
//  4. Audit: buffered async recorder with retention cleanup
//  5. HTTP server: Chi router behind the gate middlewares
//
// All long-running loops run under a suture supervision tree; SIGINT and
// SIGTERM cancel the root context for graceful shutdown.
//
// # Configuration
//
// Configuration keys can be set via PHISHGUARD_-prefixed environment
// variables or a YAML file (PHISHGUARD_CONFIG_PATH). Required in
// production:
//   - PHISHGUARD_JWT_SECRET: 32+ character token-signing secret
//   - PHISHGUARD_API_KEYS: comma-separated machine API keys (16+ chars)
//
// # Example Usage
//
//	export PHISHGUARD_JWT_SECRET=$(openssl rand -base64 32)
//	export PHISHGUARD_API_KEYS=gateway-key-0123456789abcdef
//	export PHISHGUARD_AUDIT_STORE_PATH=/data/audit
//	./phishguard
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phishguard/phishguard/internal/api"
	"github.com/phishguard/phishguard/internal/audit"
	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/supervisor"
	"github.com/phishguard/phishguard/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Int("api_keys", len(cfg.Security.APIKeys)).
		Str("audit_store", cfg.Audit.StorePath).
		Msg("Starting Phishguard gate")

	if err := cfg.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Storage: one badger instance backs the audit trail and reports
	db, err := audit.OpenBadger(cfg.Audit.StorePath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open audit store")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing audit store")
		}
	}()

	// Gate
	security := logging.NewSecurityLogger()
	tokens, err := auth.NewTokenManager(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize token manager")
	}
	gate := auth.NewGate(&auth.GateConfig{
		KeyValidator:      auth.NewKeyValidator(cfg.Security.APIKeys),
		TokenManager:      tokens,
		SecurityLogger:    security,
		ReqsPerWindow:     cfg.Security.RateLimitReqs,
		Window:            cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
		TrustedProxies:    cfg.Security.TrustedProxies,
	})
	defer gate.Close()

	// Audit recorder
	recorder := audit.NewRecorder(audit.NewBadgerStore(db), cfg.Audit.BufferSize)
	defer recorder.Close()

	// HTTP surface
	handlers := api.NewHandlers(api.NewReportStore(db), recorder)
	auditMW := audit.NewMiddleware(recorder, security, gate.ClientIP)
	chiMW := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins:   cfg.Security.CORSOrigins,
		CORSAllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders:   []string{"Content-Type", "Authorization", "X-API-Key"},
		CORSAllowCredentials: false,
		CORSMaxAge:           86400,
		RateLimitRequests:    cfg.Security.RateLimitReqs,
		RateLimitWindow:      cfg.Security.RateLimitWindow,
		RateLimitDisabled:    cfg.Security.RateLimitDisabled,
	})
	router := api.NewRouter(gate, chiMW, auditMW, handlers)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	// Supervision tree
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddStorageService(services.NewBadgerGCService(db, cfg.Audit.GCInterval))
	tree.AddStorageService(services.NewAuditRetentionService(recorder, cfg.Audit.RetentionDays, cfg.Audit.GCInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// Signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Gate stopped gracefully")
}
