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

	"github.com/shopcore/shopcore/internal/cart"
	"github.com/shopcore/shopcore/internal/observability/logger"
	"github.com/shopcore/shopcore/internal/query"
	"github.com/shopcore/shopcore/internal/store/postgres"
)

// requestUserID resolves the authenticated user for cart and order routes.
func requestUserID(r *http.Request) (int64, bool) {
	claims := GetClaims(r.Context())
	if claims == nil {
		return 0, false
	}
	id, err := parseID(claims.Subject)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// GetCart returns the caller's cart lines, oldest first.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}
	userID, ok := requestUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()

	items, err := postgres.RepositoryFor(uow, postgres.CartItems).GetAll(r.Context(), query.Spec{
		Where: query.And(
			query.Eq("WebsiteId", websiteID),
			query.Eq("UserId", userID),
		),
		SortBy:  "Id",
		SortDir: query.Ascending,
	})
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	respondOK(w, items)
}

type addCartItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"required,gt=0"`
}

// AddCartItem puts a product in the caller's cart, merging quantity into an
// existing line for the same product.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}
	userID, ok := requestUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payload.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()
	items := postgres.RepositoryFor(uow, postgres.CartItems)

	sellable, err := postgres.RepositoryFor(uow, postgres.Products).Exists(r.Context(), query.And(
		query.Eq("Id", req.ProductID),
		query.Eq("WebsiteId", websiteID),
	))
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	if !sellable {
		respondError(w, http.StatusNotFound, "Product not found.")
		return
	}

	now := time.Now().UTC()
	line, err := items.FindOne(r.Context(), query.And(
		query.Eq("WebsiteId", websiteID),
		query.Eq("UserId", userID),
		query.Eq("ProductId", req.ProductID),
	))
	switch {
	case err == nil:
		line.Quantity += req.Quantity
		line.UpdatedAt = now
		items.Update(line)
	case errors.Is(err, postgres.ErrNotFound):
		line = &cart.Item{
			WebsiteID: websiteID,
			UserID:    userID,
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		items.Add(line)
	default:
		h.respondQueryError(w, r, err)
		return
	}

	if _, err := uow.Commit(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "cart update failed",
			logger.WebsiteID(websiteID), logger.UserID(actorID(r)), logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respondOK(w, line)
}

// RemoveCartItem deletes one of the caller's cart lines.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}
	userID, ok := requestUserID(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Cart item not found.")
		return
	}

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()
	items := postgres.RepositoryFor(uow, postgres.CartItems)

	// Ownership check: a line id from another user's cart is simply absent.
	line, err := items.FindOne(r.Context(), query.And(
		query.Eq("Id", id),
		query.Eq("WebsiteId", websiteID),
		query.Eq("UserId", userID),
	))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Cart item not found.")
			return
		}
		h.respondQueryError(w, r, err)
		return
	}

	items.Delete(line)
	if _, err := uow.Commit(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "cart delete failed",
			logger.WebsiteID(websiteID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respondOK(w, map[string]int64{"id": id})
}
