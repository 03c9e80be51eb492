// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

// Package auth implements the request authentication layer of the gate:
// credential extraction, API-key validation, and bearer-token verification.
//
// Every protected request passes through exactly one authentication channel.
// The API-key channel admits machine-to-machine callers without identity;
// the token channel attaches a verified Identity to the request context.
// Identity is only ever attached after cryptographic verification within
// the same request, and is never mutated afterwards.
package auth

import (
	"context"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

// identityContextKey is the context key for the authenticated Identity.
const identityContextKey contextKey = "auth_identity"

// Identity is the verified caller attached to a request after successful
// token authentication. It is derived exclusively from verified claims.
type Identity struct {
	// UserID uniquely identifies the user. Always present.
	UserID string
	// Email is informational and may be empty.
	Email string
	// OrgID is the user's organization. Empty for users without an org
	// (org-scoped routes will deny them unless they hold the admin role).
	OrgID string
	// Role is the user's single role: admin, analyst, or viewer.
	// Always present.
	Role string
}

// IsAdmin reports whether the identity holds the admin role.
// Admin's only privilege at the gate is bypassing org-scope checks;
// role requirements are never bypassed.
func (id *Identity) IsAdmin() bool {
	return id.Role == "admin"
}

// ContextWithIdentity returns a new context carrying the verified identity.
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the verified identity from the context.
// Returns nil when the request is anonymous (API-key channel, optional-auth
// routes without credentials).
func IdentityFromContext(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return id
}
