// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/phishguard/phishguard/internal/audit"
	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/models"
)

// Handlers carries the dependencies shared by the API handlers.
type Handlers struct {
	reports   *ReportStore
	recorder  *audit.Recorder
	startTime time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(reports *ReportStore, recorder *audit.Recorder) *Handlers {
	return &Handlers{
		reports:   reports,
		recorder:  recorder,
		startTime: time.Now().UTC(),
	}
}

// Scan handles POST /api/v1/scan.
func (h *Handlers) Scan(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	respondJSON(w, r, http.StatusOK, ScanURL(req.URL))
}

// Chat handles POST /api/v1/chat. The advisor is a deterministic stub:
// it classifies the message and returns canned phishing guidance.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	reply := "If a message pressures you to act immediately, treat it as hostile. " +
		"Verify the sender through a channel you already trust."
	if strings.Contains(strings.ToLower(req.Message), "http") {
		reply = "Do not enter credentials on that page. Submit the URL to /api/v1/scan " +
			"for a verdict, and report it to your security team if it scores suspicious or higher."
	}

	respondJSON(w, r, http.StatusOK, models.ChatResponse{Reply: reply})
}

// Stats handles GET /api/v1/stats.
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, models.StatsResponse{
		UptimeSeconds:  int64(time.Since(h.startTime).Seconds()),
		RequestsTotal:  RequestsTotal(),
		GateDecisions:  auth.GateDecisionCounts(),
		AuditBufferLen: h.recorder.BufferLen(),
	})
}

// Me handles GET /api/v1/me. With a verified identity the response is
// personalized; anonymous callers get a minimal payload instead of a 401.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		respondJSON(w, r, http.StatusOK, map[string]interface{}{
			"authenticated": false,
		})
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"user_id":       identity.UserID,
		"email":         identity.Email,
		"org_id":        identity.OrgID,
		"role":          identity.Role,
	})
}

// Health handles GET /healthz.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": int64(time.Since(h.startTime).Seconds()),
	})
}
