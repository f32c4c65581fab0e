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
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopcore/shopcore/internal/audit"
	"github.com/shopcore/shopcore/internal/auth"
	"github.com/shopcore/shopcore/internal/observability/logger"
	"github.com/shopcore/shopcore/internal/website"
)

// WebsiteHeader names the header every tenant-scoped request must carry.
// Its value is compared byte-for-byte against the token's website claim;
// the guard never canonicalizes, so "042" does not match "42".
const WebsiteHeader = "website-id"

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// RecovererMiddleware converts panics into the standard error envelope so a
// handler bug never leaks a raw 500 to API clients.
func RecovererMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic recovered",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Path(r.URL.Path),
					slog.Any("panic", rec),
				)
				respondError(w, http.StatusInternalServerError, msgInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// BearerAuthMiddleware validates the bearer token and adds claims to context.
func (h *Handler) BearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if raw == "" {
			respondError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		claims, err := h.validator.Validate(r.Context(), raw)
		if err != nil {
			slog.DebugContext(r.Context(), "token rejected", logger.Error(err))
			respondError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// TenantMatchMiddleware enforces that a tenant-scoped caller only reaches
// its own website. The super-admin role carries no website claim and passes
// regardless of what the header says.
func (h *Handler) TenantMatchMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims == nil {
			respondError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		if claims.Role == auth.RoleSuperAdmin {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(WebsiteHeader)
		if header != claims.WebsiteID {
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeTenantMismatch,
				WebsiteID: claims.WebsiteID,
				ActorID:   claims.Subject,
				Metadata:  map[string]any{"header_website_id": header},
				IPAddress: r.RemoteAddr,
				UserAgent: r.UserAgent(),
			})
			respondError(w, http.StatusForbidden, msgForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// TenantActiveMiddleware rejects requests addressed to a suspended or
// unknown website. Super-admins are not scoped to a website, so the check
// is skipped entirely for them, malformed header included.
func (h *Handler) TenantActiveMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := GetClaims(r.Context())
		if claims != nil && claims.Role == auth.RoleSuperAdmin {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get(WebsiteHeader)
		websiteID, err := strconv.ParseInt(strings.TrimSpace(header), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
			return
		}

		site, err := h.websiteService.Get(r.Context(), websiteID)
		if err != nil {
			if errors.Is(err, website.ErrWebsiteNotFound) {
				respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
				return
			}
			// A store failure is not a verdict on the tenant.
			slog.ErrorContext(r.Context(), "website lookup failed",
				logger.WebsiteHeader(header), logger.Error(err))
			respondError(w, http.StatusInternalServerError, msgInternal)
			return
		}
		if !site.IsActive {
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:      audit.TypeTenantInactive,
				WebsiteID: header,
				IPAddress: r.RemoteAddr,
				UserAgent: r.UserAgent(),
			})
			respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireRoleMiddleware gates a route to the given roles.
func (h *Handler) RequireRoleMiddleware(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				respondError(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondError(w, http.StatusForbidden, msgForbidden)
		})
	}
}
