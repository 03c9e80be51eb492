// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package api

import (
	"net/http"
	"time"

	"github.com/phishguard/phishguard/internal/audit"
	"github.com/phishguard/phishguard/internal/logging"
)

// QueryAudit handles GET /api/v1/audit.
// Returns audit events matching the query parameters, newest first.
func (h *Handlers) QueryAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := audit.DefaultQueryFilter()
	if limit := getIntParam(r, "limit", filter.Limit); limit > 0 && limit <= 1000 {
		filter.Limit = limit
	}
	if v := r.URL.Query().Get("operation"); v != "" {
		filter.Operation = v
	}
	if v := r.URL.Query().Get("user_id"); v != "" {
		filter.UserID = v
	}
	if v := r.URL.Query().Get("orgId"); v != "" {
		filter.OrgID = v
	}
	if v := r.URL.Query().Get("outcome"); v != "" {
		filter.Outcome = audit.Outcome(v)
	}
	if v := r.URL.Query().Get("start_time"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.StartTime = &t
		}
	}
	if v := r.URL.Query().Get("end_time"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			filter.EndTime = &t
		}
	}

	events, err := h.recorder.Query(ctx, filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err)
		return
	}

	count, err := h.recorder.Count(ctx, filter)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to count audit events")
		count = int64(len(events))
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"events": events,
		"total":  count,
		"limit":  filter.Limit,
	})
}

// Analytics handles GET /api/v1/analytics.
// Aggregates gate outcomes per audited operation from the audit store.
func (h *Handlers) Analytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := audit.QueryFilter{}
	if hours := getIntParam(r, "hours", 24); hours > 0 && hours <= 24*90 {
		start := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
		filter.StartTime = &start
	}

	succeeded := filter
	succeeded.Outcome = audit.OutcomeSuccess
	successCount, err := h.recorder.Count(ctx, succeeded)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err)
		return
	}

	failed := filter
	failed.Outcome = audit.OutcomeFailure
	failureCount, err := h.recorder.Count(ctx, failed)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err)
		return
	}

	operations := map[string]int64{}
	for _, op := range []string{"list_reports", "create_report", "delete_report", "query_audit"} {
		opFilter := filter
		opFilter.Operation = op
		count, err := h.recorder.Count(ctx, opFilter)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err)
			return
		}
		operations[op] = count
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"succeeded":  successCount,
		"failed":     failureCount,
		"operations": operations,
	})
}
