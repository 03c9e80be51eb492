// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

// Package authz implements the access-control layer of the gate: role
// checks and organization-scope enforcement.
//
// Role requirements are fixed per route at registration time. The admin
// role is never implicitly admitted: a route that should accept admins
// lists "admin" in its requirement. Admin's only privilege is bypassing
// the organization-scope check.
package authz

import (
	"net/http"

	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/logging"
)

// RequireRole admits only callers whose role is in the given set.
// Requests without a verified identity are denied as unauthenticated;
// authenticated callers with a role outside the set receive a denial
// naming the required roles and their own.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := auth.IdentityFromContext(r.Context())
			if identity == nil {
				auth.RespondGateError(w, r, auth.ErrAuthenticationRequired())
				return
			}

			if !roleSet[identity.Role] {
				logging.Ctx(r.Context()).Warn().
					Str("user_id", logging.SanitizeUserID(identity.UserID)).
					Str("user_role", identity.Role).
					Strs("required_roles", roles).
					Str("path", r.URL.Path).
					Msg("Role check denied")
				auth.RespondGateError(w, r, auth.ErrInsufficientPermissions(roles, identity.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
