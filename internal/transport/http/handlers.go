// Copyright 2026 The Shopcore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shopcore/shopcore/internal/audit"
	"github.com/shopcore/shopcore/internal/auth"
	"github.com/shopcore/shopcore/internal/identity"
	"github.com/shopcore/shopcore/internal/query"
	"github.com/shopcore/shopcore/internal/store/postgres"
	"github.com/shopcore/shopcore/internal/website"
)

var errBadPage = errors.New("invalid paging parameters")

// Handler holds HTTP handlers and dependencies
type Handler struct {
	identityService *identity.Service
	websiteService  *website.Service
	validator       *auth.Validator
	auditLogger     audit.Logger
	store           *postgres.DB
	payload         *validator.Validate
}

// NewHandler creates a new HTTP handler
func NewHandler(
	identityService *identity.Service,
	websiteService *website.Service,
	tokenValidator *auth.Validator,
	auditLogger audit.Logger,
	store *postgres.DB,
) *Handler {
	return &Handler{
		identityService: identityService,
		websiteService:  websiteService,
		validator:       tokenValidator,
		auditLogger:     auditLogger,
		store:           store,
		payload:         validator.New(),
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(RecovererMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)

		// Platform administration. No website header involved; the
		// super-admin token carries no website claim.
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.BearerAuthMiddleware)
			r.Use(h.RequireRoleMiddleware(auth.RoleSuperAdmin))

			r.Post("/websites", h.CreateWebsite)
			r.Get("/websites", h.ListWebsites)
			r.Get("/websites/{id}", h.GetWebsite)
			r.Patch("/websites/{id}/status", h.SetWebsiteStatus)
			r.Post("/websites/{id}/rotate-secret", h.RotateWebsiteSecret)
		})

		// Storefront. Every route is tenant-scoped: the caller's token
		// must match the website header and the website must be live.
		r.Route("/shop", func(r chi.Router) {
			r.Use(h.BearerAuthMiddleware)
			r.Use(h.TenantMatchMiddleware)
			r.Use(h.TenantActiveMiddleware)

			r.Get("/categories", h.ListCategories)
			r.With(h.RequireRoleMiddleware(auth.RoleSuperAdmin, auth.RoleAdmin)).
				Post("/categories", h.CreateCategory)

			r.Get("/products", h.ListProducts)
			r.Get("/products/stats", h.ProductStats)
			r.Get("/products/{id}", h.GetProduct)
			r.With(h.RequireRoleMiddleware(auth.RoleSuperAdmin, auth.RoleAdmin)).
				Post("/products", h.CreateProduct)

			r.Get("/cart", h.GetCart)
			r.Post("/cart/items", h.AddCartItem)
			r.Delete("/cart/items/{id}", h.RemoveCartItem)

			r.Post("/checkout", h.Checkout)
			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{id}", h.GetOrder)
		})
	})

	return r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]string{"status": "ok"})
}

// pathID parses the {id} route parameter.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}

// requestWebsiteID resolves the website a shop request addresses. Tenant
// tokens carry it as a claim; super-admins address any website through the
// header alone.
func requestWebsiteID(r *http.Request) (int64, bool) {
	claims := GetClaims(r.Context())
	raw := r.Header.Get(WebsiteHeader)
	if claims != nil && claims.WebsiteID != "" {
		raw = claims.WebsiteID
	}
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseListSpec reads the list wire protocol from query parameters: page
// (default 1), size (default 10, 0 means everything), sort and dir ("asc"
// in any casing; anything else descending).
func parseListSpec(r *http.Request) (query.Spec, error) {
	spec := query.Spec{
		Page:     query.DefaultPage,
		PageSize: query.DefaultPageSize,
		SortDir:  query.ParseDirection(r.URL.Query().Get("dir")),
		SortBy:   strings.TrimSpace(r.URL.Query().Get("sort")),
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return query.Spec{}, errBadPage
		}
		spec.Page = page
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 0 {
			return query.Spec{}, errBadPage
		}
		spec.PageSize = size
	}
	return spec, nil
}
