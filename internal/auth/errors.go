// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package auth

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/phishguard/phishguard/internal/logging"
	"github.com/phishguard/phishguard/internal/models"
)

// Gate error codes. These are the only rejection codes the gate emits and
// form a stable machine-readable contract with clients.
const (
	CodeMissingAPIKey           = "MISSING_API_KEY"
	CodeInvalidAPIKey           = "INVALID_API_KEY"
	CodeMissingToken            = "MISSING_TOKEN"
	CodeInvalidToken            = "INVALID_TOKEN"
	CodeAuthenticationRequired  = "AUTHENTICATION_REQUIRED"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeOrgIDRequired           = "ORG_ID_REQUIRED"
	CodeInvalidOrgID            = "INVALID_ORG_ID"
	CodeOrgAccessDenied         = "ORG_ACCESS_DENIED"
	CodeInternalError           = "INTERNAL_ERROR"
)

// GateError is a terminal gate denial. When a GateError is written the
// request never reaches its handler.
//
// Note: MISSING_TOKEN maps to 401 while INVALID_TOKEN maps to 403. Clients
// depend on the observed behavior, so the asymmetry is part of the contract.
type GateError struct {
	Code    string
	Message string
	Status  int
	Details map[string]interface{}
}

// Error implements the error interface.
func (e *GateError) Error() string {
	return e.Code + ": " + e.Message
}

// ErrMissingAPIKey denies a key-protected request with no credential.
func ErrMissingAPIKey() *GateError {
	return &GateError{
		Code:    CodeMissingAPIKey,
		Message: "API key is required",
		Status:  http.StatusUnauthorized,
	}
}

// ErrInvalidAPIKey denies a key-protected request whose key is not configured.
func ErrInvalidAPIKey() *GateError {
	return &GateError{
		Code:    CodeInvalidAPIKey,
		Message: "Invalid API key",
		Status:  http.StatusUnauthorized,
	}
}

// ErrMissingToken denies a token-protected request with no bearer token.
func ErrMissingToken() *GateError {
	return &GateError{
		Code:    CodeMissingToken,
		Message: "Authentication token is required",
		Status:  http.StatusUnauthorized,
	}
}

// ErrInvalidToken denies a request whose token failed verification.
// The rejection reason (signature, expiry, malformed, missing claims) is
// deliberately not distinguished to the caller.
func ErrInvalidToken() *GateError {
	return &GateError{
		Code:    CodeInvalidToken,
		Message: "Invalid or expired token",
		Status:  http.StatusForbidden,
	}
}

// ErrAuthenticationRequired denies an access check that found no identity.
func ErrAuthenticationRequired() *GateError {
	return &GateError{
		Code:    CodeAuthenticationRequired,
		Message: "Authentication required",
		Status:  http.StatusUnauthorized,
	}
}

// ErrInsufficientPermissions denies a role check, naming the route's
// required roles and the caller's role for diagnostics.
func ErrInsufficientPermissions(requiredRoles []string, userRole string) *GateError {
	return &GateError{
		Code:    CodeInsufficientPermissions,
		Message: "Insufficient permissions",
		Status:  http.StatusForbidden,
		Details: map[string]interface{}{
			"required_roles": requiredRoles,
			"user_role":      userRole,
		},
	}
}

// ErrOrgIDRequired denies an org-scoped request that named no organization.
func ErrOrgIDRequired() *GateError {
	return &GateError{
		Code:    CodeOrgIDRequired,
		Message: "Organization ID is required",
		Status:  http.StatusBadRequest,
	}
}

// ErrInvalidOrgID denies a request whose organization ID is syntactically invalid.
func ErrInvalidOrgID() *GateError {
	return &GateError{
		Code:    CodeInvalidOrgID,
		Message: "Invalid organization ID format",
		Status:  http.StatusBadRequest,
	}
}

// ErrOrgAccessDenied denies cross-organization access, naming both sides.
func ErrOrgAccessDenied(userOrg, requestedOrg string) *GateError {
	return &GateError{
		Code:    CodeOrgAccessDenied,
		Message: "Access to this organization is denied",
		Status:  http.StatusForbidden,
		Details: map[string]interface{}{
			"user_org":      userOrg,
			"requested_org": requestedOrg,
		},
	}
}

// ErrInternal denies a request after an unexpected failure. The cause is
// logged server-side and never leaked to the caller.
func ErrInternal() *GateError {
	return &GateError{
		Code:    CodeInternalError,
		Message: "Internal server error",
		Status:  http.StatusInternalServerError,
	}
}

// RespondGateError writes a GateError as the standard error envelope.
// This is the single rejection path for every gate denial.
func RespondGateError(w http.ResponseWriter, r *http.Request, gerr *GateError) {
	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    gerr.Code,
			Message: gerr.Message,
			Details: gerr.Details,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: logging.RequestIDFromContext(r.Context()),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(gerr.Status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode gate error response")
	}
}
