// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/phishguard/phishguard/internal/logging"
)

// GateConfig holds configuration for the authentication gate middleware.
type GateConfig struct {
	// KeyValidator checks API keys on the machine-to-machine channel.
	KeyValidator *KeyValidator

	// TokenManager verifies bearer tokens on the user channel.
	TokenManager *TokenManager

	// SecurityLogger receives fire-and-forget security events.
	SecurityLogger *logging.SecurityLogger

	// ReqsPerWindow is the per-key rate limit budget per window.
	ReqsPerWindow int

	// Window is the rate limit window duration.
	Window time.Duration

	// RateLimitDisabled disables per-key rate limiting (for testing).
	RateLimitDisabled bool

	// TrustedProxies is the list of proxy IPs whose forwarding headers
	// are believed for client-IP extraction.
	TrustedProxies []string
}

// Gate is the authentication middleware for all protected routes.
// It enforces exactly one credential channel per route group: RequireAPIKey
// for machine-to-machine endpoints, RequireToken for user-facing endpoints.
type Gate struct {
	keys              *KeyValidator
	tokens            *TokenManager
	security          *logging.SecurityLogger
	rateLimiter       *RateLimiter
	rateLimitDisabled bool
	trustedProxies    map[string]bool
}

// NewGate creates the authentication gate from the given configuration.
func NewGate(cfg *GateConfig) *Gate {
	trustedMap := make(map[string]bool)
	for _, proxy := range cfg.TrustedProxies {
		trustedMap[proxy] = true
	}

	g := &Gate{
		keys:              cfg.KeyValidator,
		tokens:            cfg.TokenManager,
		security:          cfg.SecurityLogger,
		rateLimiter:       NewRateLimiter(cfg.ReqsPerWindow, cfg.Window),
		rateLimitDisabled: cfg.RateLimitDisabled,
		trustedProxies:    trustedMap,
	}

	if !cfg.RateLimitDisabled {
		go g.rateLimiter.StartCleanup(5 * time.Minute)
	}

	return g
}

// Close stops the gate's background goroutines.
func (g *Gate) Close() {
	g.rateLimiter.Stop()
}

// RequireAPIKey admits requests presenting a configured API key.
//
// The X-API-Key header is the primary channel. A bearer credential's value
// is accepted as a fallback API-key candidate, so machine callers that only
// speak Authorization headers still work. Valid keys admit the request
// anonymously (no Identity) and count against the per-key rate limit.
func (g *Gate) RequireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred := ExtractCredential(r)

		if cred.Kind == CredentialNone {
			RecordGateDeny(cred.Kind.String(), CodeMissingAPIKey)
			RespondGateError(w, r, ErrMissingAPIKey())
			return
		}

		if g.keys == nil {
			// Wiring fault, not a caller error; never surfaced as a denial
			logging.Ctx(r.Context()).Error().Msg("Gate has no key validator configured")
			RecordGateDeny(cred.Kind.String(), CodeInternalError)
			RespondGateError(w, r, ErrInternal())
			return
		}

		if !g.keys.Validate(cred.Value) {
			RecordGateDeny(cred.Kind.String(), CodeInvalidAPIKey)
			g.security.LogInvalidAPIKey(g.ClientIP(r), r.UserAgent())
			RespondGateError(w, r, ErrInvalidAPIKey())
			return
		}

		if !g.rateLimitDisabled && !g.rateLimiter.Allow(cred.Value) {
			RecordRateLimitRejection()
			RespondGateError(w, r, &GateError{
				Code:    "RATE_LIMIT_EXCEEDED",
				Message: "Too many requests",
				Status:  http.StatusTooManyRequests,
			})
			return
		}

		RecordGateAllow(cred.Kind.String())
		g.security.LogAPIAccess(r.URL.Path, r.Method, g.ClientIP(r), r.UserAgent())

		next.ServeHTTP(w, r)
	})
}

// RequireToken admits requests presenting a valid bearer token and attaches
// the verified Identity to the request context.
//
// All verification failures (bad signature, expiry, malformed token, missing
// required claims) produce the same invalid-token denial; the reason is only
// logged server-side.
func (g *Gate) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred := ExtractCredential(r)

		if cred.Kind != CredentialBearer {
			RecordGateDeny(cred.Kind.String(), CodeMissingToken)
			RespondGateError(w, r, ErrMissingToken())
			return
		}

		if g.tokens == nil {
			logging.Ctx(r.Context()).Error().Msg("Gate has no token manager configured")
			RecordGateDeny(cred.Kind.String(), CodeInternalError)
			RespondGateError(w, r, ErrInternal())
			return
		}

		start := time.Now()
		identity, err := g.tokens.ValidateToken(cred.Value)
		RecordTokenValidation(time.Since(start))

		if err != nil {
			RecordGateDeny(cred.Kind.String(), CodeInvalidToken)
			g.security.LogInvalidToken(g.ClientIP(r), r.UserAgent(), err.Error())
			logging.Ctx(r.Context()).Warn().
				Str("token", logging.SanitizeToken(cred.Value)).
				Err(err).
				Msg("Token validation failed")
			RespondGateError(w, r, ErrInvalidToken())
			return
		}

		RecordGateAllow(cred.Kind.String())
		g.security.LogTokenValidated(identity.UserID, g.ClientIP(r))

		ctx := ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalToken attaches an Identity when a valid bearer token is present
// and proceeds anonymously otherwise. Absent and invalid tokens are both
// swallowed; invalid tokens are still reported to the security sink.
func (g *Gate) OptionalToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cred := ExtractCredential(r)

		if cred.Kind != CredentialBearer || g.tokens == nil {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := g.tokens.ValidateToken(cred.Value)
		if err != nil {
			g.security.LogInvalidToken(g.ClientIP(r), r.UserAgent(), err.Error())
			next.ServeHTTP(w, r)
			return
		}

		g.security.LogTokenValidated(identity.UserID, g.ClientIP(r))

		ctx := ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIP extracts the client IP address from the request.
// Forwarding headers are only honored when the direct peer is a trusted proxy.
func (g *Gate) ClientIP(r *http.Request) string {
	remoteIP := r.RemoteAddr
	if idx := strings.LastIndex(remoteIP, ":"); idx >= 0 {
		remoteIP = remoteIP[:idx]
	}

	if len(g.trustedProxies) > 0 && g.trustedProxies[remoteIP] {
		xff := r.Header.Get("X-Forwarded-For")
		if xff != "" {
			// First IP in the chain is the original client
			if idx := strings.Index(xff, ","); idx >= 0 {
				return strings.TrimSpace(xff[:idx])
			}
			return strings.TrimSpace(xff)
		}

		xri := r.Header.Get("X-Real-IP")
		if xri != "" {
			return xri
		}
	}

	return remoteIP
}
