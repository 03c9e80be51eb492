// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package authz

import (
	"bytes"
	"io"
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/logging"
)

// orgIDPattern is the syntactic contract for organization identifiers:
// 3 to 50 characters of letters, digits, underscore, or hyphen.
var orgIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,50}$`)

// maxBodyPeek bounds how much of a request body is read while resolving
// the target organization from a JSON payload.
const maxBodyPeek = 1 << 20

// ValidOrgID reports whether id satisfies the organization-id format.
// The check is purely syntactic and independent of any identity.
func ValidOrgID(id string) bool {
	return orgIDPattern.MatchString(id)
}

// ResolveTargetOrg extracts the target organization id from the request.
// Precedence: path parameter, query parameter, JSON body field "orgId" —
// first non-empty wins. The body is restored so downstream handlers can
// read it again; non-JSON or unparseable bodies contribute no org id.
func ResolveTargetOrg(r *http.Request) string {
	if orgID := chi.URLParam(r, "orgID"); orgID != "" {
		return orgID
	}

	if orgID := r.URL.Query().Get("orgId"); orgID != "" {
		return orgID
	}

	return orgIDFromBody(r)
}

// orgIDFromBody peeks at a JSON request body for a top-level "orgId" field.
func orgIDFromBody(r *http.Request) string {
	if r.Body == nil || r.Body == http.NoBody {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyPeek))
	// Restore the body regardless of parse outcome; anything past the
	// peek limit is still on the original reader
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
	if err != nil {
		return ""
	}

	var payload struct {
		OrgID string `json:"orgId"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.OrgID
}

// RequireOrgScope enforces organization scope on a route.
//
// The check order is part of the contract:
//  1. No resolvable target org → ORG_ID_REQUIRED
//  2. Malformed target org → INVALID_ORG_ID (identity-independent)
//  3. No verified identity → AUTHENTICATION_REQUIRED
//  4. Admin role → allow (scope bypass is admin's only privilege)
//  5. Exact Identity.OrgID match → allow, else ORG_ACCESS_DENIED
func RequireOrgScope(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetOrg := ResolveTargetOrg(r)
		if targetOrg == "" {
			auth.RespondGateError(w, r, auth.ErrOrgIDRequired())
			return
		}

		if !ValidOrgID(targetOrg) {
			auth.RespondGateError(w, r, auth.ErrInvalidOrgID())
			return
		}

		identity := auth.IdentityFromContext(r.Context())
		if identity == nil {
			auth.RespondGateError(w, r, auth.ErrAuthenticationRequired())
			return
		}

		if identity.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}

		if identity.OrgID != targetOrg {
			logging.Ctx(r.Context()).Warn().
				Str("user_id", logging.SanitizeUserID(identity.UserID)).
				Str("user_org", identity.OrgID).
				Str("requested_org", targetOrg).
				Msg("Org scope denied")
			auth.RespondGateError(w, r, auth.ErrOrgAccessDenied(identity.OrgID, targetOrg))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// ValidateOrgIDFormat checks the syntax of a target org id on routes where
// the org id is optional. A missing org id passes; a present but malformed
// one is denied before any handler runs.
func ValidateOrgIDFormat(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		targetOrg := ResolveTargetOrg(r)
		if targetOrg != "" && !ValidOrgID(targetOrg) {
			auth.RespondGateError(w, r, auth.ErrInvalidOrgID())
			return
		}
		next.ServeHTTP(w, r)
	})
}
