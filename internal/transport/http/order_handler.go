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
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/shopcore/internal/observability/logger"
	"github.com/shopcore/shopcore/internal/order"
	"github.com/shopcore/shopcore/internal/query"
	"github.com/shopcore/shopcore/internal/store/postgres"
)

// Checkout turns the caller's cart into an order. The order row, its lines,
// the stock decrements, and the cart cleanup all commit in a single unit of
// work; an empty cart or insufficient stock aborts before anything is staged
// against the store.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
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
	cartItems := postgres.RepositoryFor(uow, postgres.CartItems)
	products := postgres.RepositoryFor(uow, postgres.Products)
	orders := postgres.RepositoryFor(uow, postgres.Orders)
	orderItems := postgres.RepositoryFor(uow, postgres.OrderItems)

	lines, err := cartItems.GetAll(r.Context(), query.Spec{
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
	if len(lines) == 0 {
		respondError(w, http.StatusBadRequest, "Cart is empty.")
		return
	}

	now := time.Now().UTC()
	placed := &order.Order{
		WebsiteID: websiteID,
		UserID:    userID,
		Number:    "ORD-" + uuid.NewString(),
		Status:    order.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for _, line := range lines {
		product, err := products.Get(r.Context(), line.ProductID)
		if err != nil {
			if errors.Is(err, postgres.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "Product is no longer available.")
				return
			}
			h.respondQueryError(w, r, err)
			return
		}
		if product.Stock < line.Quantity {
			respondError(w, http.StatusBadRequest, "Insufficient stock for "+product.Name+".")
			return
		}

		product.Stock -= line.Quantity
		product.UpdatedAt = now
		products.Update(product)

		placed.Total += product.Price * float64(line.Quantity)
		placed.Items = append(placed.Items, &order.Item{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: product.Price,
		})
	}

	orders.Add(placed)
	for _, item := range placed.Items {
		item := item
		orderItems.AddLinked(item, func() { item.OrderID = placed.ID })
	}
	for _, line := range lines {
		cartItems.Delete(line)
	}

	affected, err := uow.Commit(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "checkout failed",
			logger.WebsiteID(websiteID), logger.UserID(actorID(r)), logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}

	slog.InfoContext(r.Context(), "order placed",
		logger.WebsiteID(websiteID),
		logger.UserID(actorID(r)),
		logger.RowsAffected(affected),
	)
	respondOK(w, placed)
}

// ListOrders returns the caller's orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
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

	spec, err := parseListSpec(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid paging parameters")
		return
	}
	spec.Where = query.And(
		query.Eq("WebsiteId", websiteID),
		query.Eq("UserId", userID),
	)
	if spec.SortBy == "" {
		spec.SortBy = "CreatedAt"
		spec.SortDir = query.Descending
	}

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()

	found, err := postgres.RepositoryFor(uow, postgres.Orders).GetAll(r.Context(), spec)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	respondOK(w, found)
}

// GetOrder returns one of the caller's orders with its lines.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
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
		respondError(w, http.StatusNotFound, "Order not found.")
		return
	}

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()

	found, err := postgres.RepositoryFor(uow, postgres.Orders).FindOne(r.Context(), query.And(
		query.Eq("Id", id),
		query.Eq("WebsiteId", websiteID),
		query.Eq("UserId", userID),
	), "Items")
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Order not found.")
			return
		}
		h.respondQueryError(w, r, err)
		return
	}
	respondOK(w, found)
}
