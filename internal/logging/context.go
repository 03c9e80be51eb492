// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	// correlationIDKey carries the short-lived correlation ID minted per
	// request chain.
	correlationIDKey contextKey = "correlation_id"

	// requestIDKey carries the X-Request-ID value echoed back to clients.
	requestIDKey contextKey = "request_id"
)

// GenerateCorrelationID mints a short correlation ID (first 8 characters
// of a UUID). Short on purpose: it is a log-grepping handle, not a key.
func GenerateCorrelationID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID mints a full UUID request ID. Request IDs travel in
// the X-Request-ID header and the response metadata, so they stay
// globally unique.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithCorrelationID returns a child context carrying the given
// correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}

// ContextWithNewCorrelationID returns a child context carrying a freshly
// minted correlation ID.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext returns the correlation ID, or "" when the
// context carries none.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a child context carrying the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the request ID, or "" when the context
// carries none. Response envelopes and audit events both read it from here.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger enriched with whatever IDs the context
// carries. The recommended entry point for logging inside handlers:
//
//	logging.Ctx(ctx).Warn().Msg("Token validation failed")
func Ctx(ctx context.Context) *zerolog.Logger {
	logCtx := Logger().With()

	if id := CorrelationIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		logCtx = logCtx.Str("request_id", id)
	}

	logger := logCtx.Logger()
	return &logger
}
