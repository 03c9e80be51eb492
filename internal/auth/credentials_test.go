// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package auth

import (
	"net/http/httptest"
	"testing"
)

func TestExtractCredential(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		apiKey    string
		authz     string
		wantKind  CredentialKind
		wantValue string
	}{
		{
			name:     "no headers",
			wantKind: CredentialNone,
		},
		{
			name:      "api key only",
			apiKey:    "key-123",
			wantKind:  CredentialAPIKey,
			wantValue: "key-123",
		},
		{
			name:      "bearer only",
			authz:     "Bearer tok-456",
			wantKind:  CredentialBearer,
			wantValue: "tok-456",
		},
		{
			name:      "api key wins over bearer",
			apiKey:    "key-123",
			authz:     "Bearer tok-456",
			wantKind:  CredentialAPIKey,
			wantValue: "key-123",
		},
		{
			name:      "bearer scheme is case-insensitive",
			authz:     "bearer tok-456",
			wantKind:  CredentialBearer,
			wantValue: "tok-456",
		},
		{
			name:     "basic scheme ignored",
			authz:    "Basic dXNlcjpwYXNz",
			wantKind: CredentialNone,
		},
		{
			name:     "bearer with empty token ignored",
			authz:    "Bearer ",
			wantKind: CredentialNone,
		},
		{
			name:     "bare bearer word ignored",
			authz:    "Bearer",
			wantKind: CredentialNone,
		},
		{
			name:      "bearer token with surrounding spaces trimmed",
			authz:     "Bearer   tok-456  ",
			wantKind:  CredentialBearer,
			wantValue: "tok-456",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest("GET", "/api/v1/scan", nil)
			if tt.apiKey != "" {
				r.Header.Set("X-API-Key", tt.apiKey)
			}
			if tt.authz != "" {
				r.Header.Set("Authorization", tt.authz)
			}

			cred := ExtractCredential(r)
			if cred.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", cred.Kind, tt.wantKind)
			}
			if tt.wantKind != CredentialNone && cred.Value != tt.wantValue {
				t.Errorf("Value = %q, want %q", cred.Value, tt.wantValue)
			}
		})
	}
}

func TestCredentialKind_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind CredentialKind
		want string
	}{
		{CredentialNone, "none"},
		{CredentialAPIKey, "api_key"},
		{CredentialBearer, "bearer"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("CredentialKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
