// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package auth

import (
	"net/http"
	"strings"
)

// CredentialKind identifies which channel a credential arrived on.
type CredentialKind int

const (
	// CredentialNone means the request carried no recognized credential.
	CredentialNone CredentialKind = iota
	// CredentialAPIKey is an X-API-Key header value.
	CredentialAPIKey
	// CredentialBearer is an Authorization: Bearer token value.
	CredentialBearer
)

// String returns the credential kind name for logging.
func (k CredentialKind) String() string {
	switch k {
	case CredentialAPIKey:
		return "api_key"
	case CredentialBearer:
		return "bearer"
	default:
		return "none"
	}
}

// Credential is a single extracted request credential. A request yields at
// most one: X-API-Key wins when both headers are present.
type Credential struct {
	Kind  CredentialKind
	Value string
}

// ExtractCredential pulls the credential from the request headers.
// It is pure: no validation happens here and no error is possible.
//
// Precedence:
//  1. X-API-Key header (non-empty value)
//  2. Authorization: Bearer <token> (case-insensitive scheme, non-empty token)
//  3. none
//
// An Authorization header with a different scheme, or a Bearer prefix with
// an empty token, yields no credential.
func ExtractCredential(r *http.Request) Credential {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return Credential{Kind: CredentialAPIKey, Value: key}
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Credential{Kind: CredentialNone}
	}

	const bearerPrefix = "bearer "
	if len(authHeader) > len(bearerPrefix) && strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		token := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if token != "" {
			return Credential{Kind: CredentialBearer, Value: token}
		}
	}

	return Credential{Kind: CredentialNone}
}
