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

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopcore/shopcore/internal/query"
	"github.com/shopcore/shopcore/internal/website"
)

// WebsiteRepository implements website.Repository over the generic store.
// Each call runs in its own unit of work; multi-entity flows that need a
// shared transaction use a request-scoped unit of work directly.
type WebsiteRepository struct {
	db *DB
}

func NewWebsiteRepository(db *DB) *WebsiteRepository {
	return &WebsiteRepository{db: db}
}

func (r *WebsiteRepository) Create(ctx context.Context, w *website.Website) error {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()

	RepositoryFor(uow, Websites).Add(w)
	if _, err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("create website: %w", err)
	}
	return nil
}

func (r *WebsiteRepository) GetByID(ctx context.Context, id int64) (*website.Website, error) {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()

	w, err := RepositoryFor(uow, Websites).Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, website.ErrWebsiteNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *WebsiteRepository) Update(ctx context.Context, w *website.Website) error {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()

	RepositoryFor(uow, Websites).Update(w)
	affected, err := uow.Commit(ctx)
	if err != nil {
		return fmt.Errorf("update website: %w", err)
	}
	if affected == 0 {
		return website.ErrWebsiteNotFound
	}
	return nil
}

func (r *WebsiteRepository) List(ctx context.Context, spec query.Spec) ([]*website.Website, error) {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()

	if spec.SortBy == "" {
		spec.SortBy = "Id"
		spec.SortDir = query.Ascending
	}
	return RepositoryFor(uow, Websites).GetAll(ctx, spec)
}

// CompanyRepository implements website.CompanyDirectory over the generic
// store.
type CompanyRepository struct {
	db *DB
}

func NewCompanyRepository(db *DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) CompanyExists(ctx context.Context, id int64) (bool, error) {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()

	return RepositoryFor(uow, Companies).Exists(ctx, query.Eq("Id", id))
}
