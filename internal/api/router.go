// Phishguard - Phishing Detection API Security Gate
// Copyright 2026 Phishguard Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/phishguard/phishguard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/phishguard/phishguard/internal/audit"
	"github.com/phishguard/phishguard/internal/auth"
	"github.com/phishguard/phishguard/internal/authz"
	"github.com/phishguard/phishguard/internal/models"
)

// Router assembles the HTTP surface: gate middlewares in front of the
// protected routes, ops endpoints outside the gate.
type Router struct {
	gate          *auth.Gate
	chiMiddleware *ChiMiddleware
	auditMW       *audit.Middleware
	handler       *Handlers
}

// NewRouter creates a router from its wired dependencies.
func NewRouter(gate *auth.Gate, chiMW *ChiMiddleware, auditMW *audit.Middleware, handler *Handlers) *Router {
	return &Router{
		gate:          gate,
		chiMiddleware: chiMW,
		auditMW:       auditMW,
		handler:       handler,
	}
}

// Setup configures all HTTP routes using the Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route in order
	r.Use(RequestIDWithLogging())
	r.Use(CountRequests())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight works

	// Ops endpoints: unauthenticated, permissively rate limited
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitOps())
		r.Get("/healthz", router.handler.Health)
		r.Handle("/metrics", promhttp.Handler())
	})

	// Machine-to-machine endpoints: API key, per-key rate limit, access log
	r.Route("/api/v1", func(r chi.Router) {
		// IP-level limit caps unauthenticated abuse before any credential
		// check; the gate's per-key limiter still applies behind it
		r.Use(router.chiMiddleware.RateLimit())

		r.Group(func(r chi.Router) {
			r.Use(APISecurityHeaders())
			r.Use(router.gate.RequireAPIKey)

			r.Post("/scan", router.handler.Scan)
			r.Post("/chat", router.handler.Chat)
			r.Get("/analytics", router.handler.Analytics)
			r.Get("/stats", router.handler.Stats)
		})

		// Optional auth: anonymous callers get a minimal payload
		r.Group(func(r chi.Router) {
			r.Use(APISecurityHeaders())
			r.Use(router.gate.OptionalToken)
			r.Get("/me", router.handler.Me)
		})

		// Org-scoped report management: bearer token, RBAC, org scope, audited.
		// Record sits inside RequireToken so the audit event carries the
		// verified identity; role and scope denials are audited with their
		// deny status.
		r.Route("/orgs/{orgID}/reports", func(r chi.Router) {
			r.Use(APISecurityHeaders())
			r.Use(router.gate.RequireToken)

			r.With(
				router.auditMW.Record("list_reports"),
				authz.RequireRole(models.RoleAdmin, models.RoleAnalyst, models.RoleViewer),
				authz.RequireOrgScope,
			).Get("/", router.handler.ListReports)

			r.With(
				router.auditMW.Record("create_report"),
				authz.RequireRole(models.RoleAdmin, models.RoleAnalyst),
				authz.RequireOrgScope,
			).Post("/", router.handler.CreateReport)

			r.With(
				router.auditMW.Record("delete_report"),
				authz.RequireRole(models.RoleAdmin),
				authz.RequireOrgScope,
			).Delete("/{reportID}", router.handler.DeleteReport)
		})

		// Audit trail: admin only, itself audited
		r.Route("/audit", func(r chi.Router) {
			r.Use(APISecurityHeaders())
			r.Use(router.gate.RequireToken)

			r.With(
				router.auditMW.Record("query_audit"),
				authz.RequireRole(models.RoleAdmin),
				authz.ValidateOrgIDFormat,
			).Get("/", router.handler.QueryAudit)
		})
	})

	return r
}
