// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package models

import (
	"time"
)

// ScanRequest is the payload for POST /api/v1/scan.
type ScanRequest struct {
	// URL is the candidate phishing URL to analyze.
	URL string `json:"url" validate:"required,url,max=2048"`
	// Source identifies the submitting system (mail gateway, browser plugin).
	Source string `json:"source" validate:"omitempty,max=100"`
}

// ScanResult is the verdict returned for a scanned URL.
type ScanResult struct {
	URL       string    `json:"url"`
	Verdict   string    `json:"verdict"` // "clean", "suspicious", "phishing"
	Score     float64   `json:"score"`   // 0.0 (clean) to 1.0 (phishing)
	Signals   []string  `json:"signals,omitempty"`
	ScannedAt time.Time `json:"scanned_at"`
}

// ChatRequest is the payload for POST /api/v1/chat.
type ChatRequest struct {
	Message string `json:"message" validate:"required,min=1,max=4000"`
}

// ChatResponse is the advisor reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// CreateReportRequest is the payload for POST /api/v1/orgs/{orgID}/reports.
// OrgID may duplicate the path parameter; when present it participates in
// org-scope resolution (path takes precedence).
type CreateReportRequest struct {
	OrgID    string `json:"orgId" validate:"omitempty,org_id"`
	URL      string `json:"url" validate:"required,url,max=2048"`
	Severity string `json:"severity" validate:"required,oneof=low medium high critical"`
	Notes    string `json:"notes" validate:"omitempty,max=10000"`
}

// Report is a phishing incident report owned by an organization.
type Report struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	URL       string    `json:"url"`
	Severity  string    `json:"severity"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// StatsResponse is the payload for GET /api/v1/stats.
type StatsResponse struct {
	UptimeSeconds  int64            `json:"uptime_seconds"`
	RequestsTotal  uint64           `json:"requests_total"`
	GateDecisions  map[string]int64 `json:"gate_decisions,omitempty"`
	AuditBufferLen int              `json:"audit_buffer_len"`
}
