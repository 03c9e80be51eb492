// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package authz

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func requestWithIdentity(method, target string, id *auth.Identity) *http.Request {
	r := httptest.NewRequest(method, target, nil)
	if id != nil {
		r = r.WithContext(auth.ContextWithIdentity(r.Context(), id))
	}
	return r
}

func decodeError(t *testing.T, body io.Reader) *models.APIError {
	t.Helper()
	var resp models.APIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Error == nil {
		t.Fatal("expected error payload")
	}
	return resp.Error
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		roles      []string
		identity   *auth.Identity
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no identity",
			roles:      []string{"admin"},
			identity:   nil,
			wantStatus: http.StatusUnauthorized,
			wantCode:   auth.CodeAuthenticationRequired,
		},
		{
			name:       "role in set",
			roles:      []string{"admin", "analyst"},
			identity:   &auth.Identity{UserID: "u1", Role: "analyst"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "role not in set",
			roles:      []string{"admin", "analyst"},
			identity:   &auth.Identity{UserID: "u1", Role: "viewer"},
			wantStatus: http.StatusForbidden,
			wantCode:   auth.CodeInsufficientPermissions,
		},
		{
			name:       "admin is not implicitly admitted",
			roles:      []string{"analyst"},
			identity:   &auth.Identity{UserID: "u1", Role: "admin"},
			wantStatus: http.StatusForbidden,
			wantCode:   auth.CodeInsufficientPermissions,
		},
		{
			name:       "admin admitted when listed",
			roles:      []string{"admin", "analyst"},
			identity:   &auth.Identity{UserID: "u1", Role: "admin"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := requestWithIdentity("GET", "/api/v1/audit", tt.identity)
			w := httptest.NewRecorder()

			RequireRole(tt.roles...)(okHandler()).ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantCode != "" {
				if apiErr := decodeError(t, w.Body); apiErr.Code != tt.wantCode {
					t.Errorf("error code = %q, want %q", apiErr.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestRequireRole_DenialDetails(t *testing.T) {
	t.Parallel()

	r := requestWithIdentity("GET", "/api/v1/audit", &auth.Identity{UserID: "u1", Role: "viewer"})
	w := httptest.NewRecorder()

	RequireRole("admin", "analyst")(okHandler()).ServeHTTP(w, r)

	apiErr := decodeError(t, w.Body)
	if apiErr.Details["user_role"] != "viewer" {
		t.Errorf("user_role detail = %v, want viewer", apiErr.Details["user_role"])
	}
	required, ok := apiErr.Details["required_roles"].([]interface{})
	if !ok || len(required) != 2 {
		t.Fatalf("required_roles detail = %v, want two roles", apiErr.Details["required_roles"])
	}
	if required[0] != "admin" || required[1] != "analyst" {
		t.Errorf("required_roles = %v, want [admin analyst]", required)
	}
}
