// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package audit

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/logging"
)

func newTestMiddleware(t *testing.T) (*Middleware, *memStore, *Recorder) {
	t.Helper()
	store := &memStore{}
	rec := NewRecorder(store, 100)
	t.Cleanup(rec.Close)
	security := logging.NewSecurityLoggerWithLogger(logging.NewTestLogger(io.Discard))
	return NewMiddleware(rec, security, nil), store, rec
}

func TestRecord_SuccessAndFailure(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantOutcome Outcome
	}{
		{"200 is success", http.StatusOK, OutcomeSuccess},
		{"201 is success", http.StatusCreated, OutcomeSuccess},
		{"403 is failure", http.StatusForbidden, OutcomeFailure},
		{"500 is failure", http.StatusInternalServerError, OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw, store, rec := newTestMiddleware(t)

			handler := mw.Record("create_report")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))

			r := httptest.NewRequest("POST", "/api/v1/orgs/org_acme/reports", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)
			rec.Close()

			if store.len() != 1 {
				t.Fatalf("recorded %d events, want exactly 1", store.len())
			}
			got := store.events[0]
			if got.Outcome != tt.wantOutcome {
				t.Errorf("outcome = %s, want %s", got.Outcome, tt.wantOutcome)
			}
			if got.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", got.StatusCode, tt.status)
			}
			if got.Operation != "create_report" {
				t.Errorf("operation = %s, want create_report", got.Operation)
			}
		})
	}
}

func TestRecord_ImplicitOK(t *testing.T) {
	mw, store, rec := newTestMiddleware(t)

	// Handler writes a body without an explicit WriteHeader
	handler := mw.Record("list_reports")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	r := httptest.NewRequest("GET", "/api/v1/orgs/org_acme/reports", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	rec.Close()

	if store.len() != 1 {
		t.Fatalf("recorded %d events, want 1", store.len())
	}
	if got := store.events[0]; got.StatusCode != http.StatusOK || got.Outcome != OutcomeSuccess {
		t.Errorf("got status %d outcome %s, want 200 success", got.StatusCode, got.Outcome)
	}
}

func TestRecord_CapturesIdentityAndRequest(t *testing.T) {
	mw, store, rec := newTestMiddleware(t)

	handler := mw.Record("delete_report")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	r := httptest.NewRequest("DELETE", "/api/v1/orgs/org_acme/reports/rpt-1", nil)
	r.Header.Set("User-Agent", "phishguard-cli/1.0")
	ctx := auth.ContextWithIdentity(r.Context(), &auth.Identity{UserID: "user-1", OrgID: "org_acme", Role: "admin"})
	ctx = logging.ContextWithRequestID(ctx, "req-123")
	r = r.WithContext(ctx)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	rec.Close()

	if store.len() != 1 {
		t.Fatalf("recorded %d events, want 1", store.len())
	}
	got := store.events[0]
	if got.UserID != "user-1" || got.OrgID != "org_acme" {
		t.Errorf("identity = %s/%s, want user-1/org_acme", got.UserID, got.OrgID)
	}
	if got.RequestID != "req-123" {
		t.Errorf("request id = %s, want req-123", got.RequestID)
	}
	if got.Method != "DELETE" || got.Endpoint != "/api/v1/orgs/org_acme/reports/rpt-1" {
		t.Errorf("request = %s %s", got.Method, got.Endpoint)
	}
	if got.UserAgent != "phishguard-cli/1.0" {
		t.Errorf("user agent = %s", got.UserAgent)
	}
}

func TestRecord_AnonymousDenial(t *testing.T) {
	mw, store, rec := newTestMiddleware(t)

	handler := mw.Record("query_audit")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	r := httptest.NewRequest("GET", "/api/v1/audit", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)
	rec.Close()

	if store.len() != 1 {
		t.Fatalf("recorded %d events, want 1", store.len())
	}
	got := store.events[0]
	if got.UserID != "" || got.OrgID != "" {
		t.Errorf("anonymous denial carried identity %s/%s", got.UserID, got.OrgID)
	}
	if got.Outcome != OutcomeFailure {
		t.Errorf("outcome = %s, want failure", got.Outcome)
	}
}

func TestRecord_PanicStillAudited(t *testing.T) {
	mw, store, rec := newTestMiddleware(t)

	handler := mw.Record("create_report")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	r := httptest.NewRequest("POST", "/api/v1/orgs/org_acme/reports", nil)
	w := httptest.NewRecorder()

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic to propagate")
			}
		}()
		handler.ServeHTTP(w, r)
	}()
	rec.Close()

	if store.len() != 1 {
		t.Fatalf("recorded %d events, want exactly 1", store.len())
	}
	got := store.events[0]
	if got.StatusCode != http.StatusInternalServerError || got.Outcome != OutcomeFailure {
		t.Errorf("got status %d outcome %s, want 500 failure", got.StatusCode, got.Outcome)
	}
}

func TestStatusWriter_FirstHeaderWins(t *testing.T) {
	w := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: w}

	sw.WriteHeader(http.StatusForbidden)
	sw.WriteHeader(http.StatusOK)

	if sw.Status() != http.StatusForbidden {
		t.Errorf("status = %d, want 403", sw.Status())
	}
}
