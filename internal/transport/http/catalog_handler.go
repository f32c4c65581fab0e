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

	"github.com/shopcore/shopcore/internal/catalog"
	"github.com/shopcore/shopcore/internal/observability/logger"
	"github.com/shopcore/shopcore/internal/query"
	"github.com/shopcore/shopcore/internal/store/postgres"
)

// ListCategories returns the website's categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}

	spec, err := parseListSpec(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid paging parameters")
		return
	}
	spec.Where = query.Eq("WebsiteId", websiteID)

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()

	categories, err := postgres.RepositoryFor(uow, postgres.Categories).GetAll(r.Context(), spec)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	respondOK(w, categories)
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateCategory adds a category to the website's catalog.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}

	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.payload.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now().UTC()
	category := &catalog.Category{
		WebsiteID: websiteID,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()

	postgres.RepositoryFor(uow, postgres.Categories).Add(category)
	if _, err := uow.Commit(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "category create failed",
			logger.WebsiteID(websiteID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respondOK(w, category)
}

// ListProducts returns a page of the website's products. The wire protocol
// accepts sort, dir, page, size, an optional category filter, and an
// optional q substring match on the name.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}

	spec, err := parseListSpec(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid paging parameters")
		return
	}

	preds := []query.Predicate{query.Eq("WebsiteId", websiteID)}
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := parseID(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category filter")
			return
		}
		preds = append(preds, query.Eq("CategoryId", categoryID))
	}
	if q := r.URL.Query().Get("q"); q != "" {
		preds = append(preds, query.Like("Name", "%"+q+"%"))
	}
	spec.Where = query.And(preds...)

	if r.URL.Query().Get("include") == "category" {
		spec.Includes = []string{"Category"}
	}

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()

	products, err := postgres.RepositoryFor(uow, postgres.Products).GetAll(r.Context(), spec)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	respondOK(w, products)
}

type productStats struct {
	Count    int64   `json:"count"`
	MinPrice float64 `json:"minPrice"`
	MaxPrice float64 `json:"maxPrice"`
}

// ProductStats summarizes the website's catalog: how many products there
// are and the price range, optionally narrowed to one category. An empty
// catalog reports zeroes.
func (h *Handler) ProductStats(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}

	preds := []query.Predicate{query.Eq("WebsiteId", websiteID)}
	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := parseID(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid category filter")
			return
		}
		preds = append(preds, query.Eq("CategoryId", categoryID))
	}
	pred := query.And(preds...)

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()
	repo := postgres.RepositoryFor(uow, postgres.Products)

	count, err := repo.Count(r.Context(), pred)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	minPrice, err := repo.Min(r.Context(), "Price", pred)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	maxPrice, err := repo.Max(r.Context(), "Price", pred)
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}

	respondOK(w, productStats{Count: count, MinPrice: minPrice, MaxPrice: maxPrice})
}

// GetProduct returns one product with its category attached.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusNotFound, "Product not found.")
		return
	}

	uow := postgres.NewUnitOfWork(h.store)
	defer uow.Close()

	product, err := postgres.RepositoryFor(uow, postgres.Products).Get(r.Context(), id, "Category")
	if err != nil || product.WebsiteID != websiteID {
		if err != nil && !errors.Is(err, postgres.ErrNotFound) {
			slog.ErrorContext(r.Context(), "product get failed",
				logger.WebsiteID(websiteID), logger.Error(err))
			respondError(w, http.StatusInternalServerError, msgInternal)
			return
		}
		respondError(w, http.StatusNotFound, "Product not found.")
		return
	}
	respondOK(w, product)
}

type createProductRequest struct {
	CategoryID  int64   `json:"categoryId" validate:"required,gt=0"`
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int64   `json:"stock" validate:"gte=0"`
}

// CreateProduct adds a product to the website's catalog. The category must
// belong to the same website.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	websiteID, ok := requestWebsiteID(r)
	if !ok {
		respondError(w, http.StatusBadRequest, msgWebsiteInvalid)
		return
	}

	var req createProductRequest
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

	owned, err := postgres.RepositoryFor(uow, postgres.Categories).Exists(r.Context(), query.And(
		query.Eq("Id", req.CategoryID),
		query.Eq("WebsiteId", websiteID),
	))
	if err != nil {
		h.respondQueryError(w, r, err)
		return
	}
	if !owned {
		respondError(w, http.StatusBadRequest, "Category not found.")
		return
	}

	now := time.Now().UTC()
	product := &catalog.Product{
		WebsiteID:   websiteID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	postgres.RepositoryFor(uow, postgres.Products).Add(product)
	if _, err := uow.Commit(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "product create failed",
			logger.WebsiteID(websiteID), logger.Error(err))
		respondError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respondOK(w, product)
}

// respondQueryError maps dynamic query failures: a bad sort or filter field
// is the caller's mistake, anything else is ours.
func (h *Handler) respondQueryError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, query.ErrInvalidSort) || errors.Is(err, query.ErrUnknownField) {
		respondError(w, http.StatusBadRequest, "Invalid sort or filter column.")
		return
	}
	slog.ErrorContext(r.Context(), "query failed", logger.Path(r.URL.Path), logger.Error(err))
	respondError(w, http.StatusInternalServerError, msgInternal)
}
