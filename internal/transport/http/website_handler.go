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
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shopcore/shopcore/internal/observability/logger"
	"github.com/shopcore/shopcore/internal/website"
)

type createWebsiteRequest struct {
	CompanyID int64  `json:"companyId" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required"`
	Hostname  string `json:"hostname" validate:"required,hostname"`
	SecretKey string `json:"secretKey" validate:"required,min=20"`
}

// CreateWebsite provisions a new tenant.
func (h *Handler) CreateWebsite(w http.ResponseWriter, r *http.Request) {
	var req createWebsiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payload.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	site, err := h.websiteService.Create(r.Context(), &website.Website{
		CompanyID: req.CompanyID,
		Name:      req.Name,
		Hostname:  req.Hostname,
		SecretKey: req.SecretKey,
	}, actorID(r))
	if err != nil {
		if errors.Is(err, website.ErrSecretTooShort) ||
			errors.Is(err, website.ErrNameRequired) ||
			errors.Is(err, website.ErrCompanyInvalid) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "website create failed", logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondOK(w, site)
}

// ListWebsites returns tenants per the list wire protocol; the default
// order is by id ascending.
func (h *Handler) ListWebsites(w http.ResponseWriter, r *http.Request) {
	spec, err := parseListSpec(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid paging parameters")
		return
	}

	sites, err := h.websiteService.List(r.Context(), spec)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}

	respondOK(w, sites)
}

// GetWebsite returns one tenant by id.
func (h *Handler) GetWebsite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}

	site, err := h.websiteService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, website.ErrWebsiteNotFound) {
			respondError(w, http.StatusNotFound, msgWebsiteInvalid)
			return
		}
		slog.ErrorContext(r.Context(), "website get failed", logger.WebsiteID(id), logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondOK(w, site)
}

type websiteStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

// SetWebsiteStatus activates or suspends a tenant. Suspension is a soft
// flag: data stays, requests bounce at the gate.
func (h *Handler) SetWebsiteStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}

	var req websiteStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payload.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	site, err := h.websiteService.SetActive(r.Context(), id, *req.IsActive, actorID(r))
	if err != nil {
		if errors.Is(err, website.ErrWebsiteNotFound) {
			respondError(w, http.StatusNotFound, msgWebsiteInvalid)
			return
		}
		slog.ErrorContext(r.Context(), "website status change failed", logger.WebsiteID(id), logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondOK(w, site)
}

type rotateSecretRequest struct {
	SecretKey string `json:"secretKey" validate:"required,min=20"`
}

// RotateWebsiteSecret replaces a tenant's signing secret. Tokens signed
// with the old secret die immediately; the cached copy is invalidated so
// the next validation sees the new key.
func (h *Handler) RotateWebsiteSecret(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}

	var req rotateSecretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payload.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.websiteService.RotateSecret(r.Context(), id, req.SecretKey, actorID(r)); err != nil {
		switch {
		case errors.Is(err, website.ErrWebsiteNotFound):
			respondError(w, http.StatusNotFound, msgWebsiteInvalid)
		case errors.Is(err, website.ErrSecretTooShort):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			slog.ErrorContext(r.Context(), "secret rotation failed", logger.WebsiteID(id), logger.Error(err))
			respondError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	respondOK(w, map[string]int64{"websiteId": id})
}

// actorID identifies the authenticated caller for audit events.
func actorID(r *http.Request) string {
	if claims := GetClaims(r.Context()); claims != nil {
		return claims.Subject
	}
	return ""
}
