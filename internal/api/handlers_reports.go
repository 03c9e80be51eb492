// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/models"
)

// ListReports handles GET /api/v1/orgs/{orgID}/reports.
// Org-scope enforcement has already run; the path org is the target.
func (h *Handlers) ListReports(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	reports, err := h.reports.ListByOrg(r.Context(), orgID)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"reports": reports,
		"total":   len(reports),
	})
}

// CreateReport handles POST /api/v1/orgs/{orgID}/reports.
func (h *Handlers) CreateReport(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")

	var req models.CreateReportRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		// Unreachable behind RequireToken; kept as a hard stop.
		respondError(w, r, http.StatusUnauthorized, auth.CodeAuthenticationRequired, "Authentication required", nil)
		return
	}

	report := &models.Report{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		URL:       req.URL,
		Severity:  req.Severity,
		Notes:     req.Notes,
		CreatedBy: identity.UserID,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.reports.Save(r.Context(), report); err != nil {
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err)
		return
	}

	respondJSON(w, r, http.StatusCreated, report)
}

// DeleteReport handles DELETE /api/v1/orgs/{orgID}/reports/{reportID}.
func (h *Handlers) DeleteReport(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	reportID := chi.URLParam(r, "reportID")

	if err := h.reports.Delete(r.Context(), orgID, reportID); err != nil {
		if errors.Is(err, ErrReportNotFound) {
			respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Report not found", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", err)
		return
	}

	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"deleted": reportID,
	})
}
