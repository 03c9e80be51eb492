// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package audit

import (
	"net/http"
	"time"

	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/logging"
)

// Middleware produces the per-route audit recording middleware. Each
// audited request emits exactly one audit event and one security log
// entry, on every exit path including panics.
type Middleware struct {
	recorder *Recorder
	security *logging.SecurityLogger
	clientIP func(*http.Request) string
}

// NewMiddleware wires a recorder and security logger. clientIP resolves
// the caller address; nil falls back to the raw remote address.
func NewMiddleware(recorder *Recorder, security *logging.SecurityLogger, clientIP func(*http.Request) string) *Middleware {
	if clientIP == nil {
		clientIP = remoteAddrIP
	}
	return &Middleware{
		recorder: recorder,
		security: security,
		clientIP: clientIP,
	}
}

// Record wraps a handler so that every request through it is audited
// under the given operation name. Success is a 2xx response; anything
// else, including a panic, is recorded as a failure.
func (m *Middleware) Record(operation string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := &statusWriter{ResponseWriter: w}

			defer func() {
				rec := recover()
				status := sw.Status()
				if rec != nil {
					status = http.StatusInternalServerError
				}
				m.emit(operation, r, status)
				if rec != nil {
					panic(rec)
				}
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// emit builds and queues the audit event for one request.
func (m *Middleware) emit(operation string, r *http.Request, status int) {
	ip := m.clientIP(r)
	outcome := OutcomeFailure
	if status >= 200 && status < 300 {
		outcome = OutcomeSuccess
	}

	event := &Event{
		Operation:  operation,
		IP:         ip,
		UserAgent:  r.UserAgent(),
		Endpoint:   r.URL.Path,
		Method:     r.Method,
		StatusCode: status,
		Outcome:    outcome,
		Timestamp:  time.Now().UTC(),
		RequestID:  logging.RequestIDFromContext(r.Context()),
	}
	if identity := auth.IdentityFromContext(r.Context()); identity != nil {
		event.UserID = identity.UserID
		event.OrgID = identity.OrgID
	}

	m.recorder.Record(event)
	m.security.LogAuditOutcome(operation, event.UserID, ip, outcome == OutcomeSuccess)
}

func remoteAddrIP(r *http.Request) string {
	return r.RemoteAddr
}

// statusWriter records the status code written by the handler.
// A handler that writes a body without an explicit header has
// implicitly written 200.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Status returns the recorded status, defaulting to 200 when the
// handler wrote nothing.
func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}
