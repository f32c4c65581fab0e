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
	"time"

	"github.com/shopcore/shopcore/internal/auth"
	"github.com/shopcore/shopcore/internal/identity"
	"github.com/shopcore/shopcore/internal/observability/logger"
)

type loginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	WebsiteID *int64 `json:"websiteId" validate:"omitempty,gt=0"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      *identity.User `json:"user"`
}

// Login authenticates a user and issues a signed token. Tenant users log in
// against their website's namespace and get a token signed with that
// website's secret; a request without websiteId addresses the tenant-less
// super-admin namespace.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payload.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, expiresAt, err := h.identityService.Login(r.Context(), req.WebsiteID, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid email or password.")
			return
		}
		slog.ErrorContext(r.Context(), "login failed", logger.Email(req.Email), logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	respondOK(w, loginResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	WebsiteID *int64 `json:"websiteId" validate:"omitempty,gt=0"`
}

// Register creates a tenant user account. Elevated roles are provisioned
// out of band, not through the public endpoint.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payload.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.identityService.Register(r.Context(), &identity.User{
		WebsiteID: req.WebsiteID,
		Email:     req.Email,
		Role:      auth.RoleUser,
	}, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrUserAlreadyExists):
			respondError(w, http.StatusConflict, "An account with this email already exists.")
		case errors.Is(err, identity.ErrWebsiteRequired):
			respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		default:
			slog.ErrorContext(r.Context(), "registration failed", logger.Email(req.Email), logger.Error(err))
			respondError(w, http.StatusInternalServerError, msgInternal)
		}
		return
	}

	respondOK(w, user)
}
