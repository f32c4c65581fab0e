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

	"github.com/shopcore/shopcore/internal/identity"
	"github.com/shopcore/shopcore/internal/query"
)

// UserRepository implements identity.Repository over the generic store.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *identity.User) error {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()

	RepositoryFor(uow, Users).Add(u)
	if _, err := uow.Commit(ctx); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()

	u, err := RepositoryFor(uow, Users).Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

// GetByEmail looks a user up within one website's namespace. The tenant-less
// super-admin namespace (nil websiteID) needs an IS NULL match, which the
// predicate registry does not express, so that path goes through RawQuery.
func (r *UserRepository) GetByEmail(ctx context.Context, websiteID *int64, email string) (*identity.User, error) {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()
	repo := RepositoryFor(uow, Users)

	if websiteID == nil {
		users, err := repo.RawQuery(ctx,
			"SELECT id, website_id, email, password_hash, role, created_at, updated_at FROM users WHERE website_id IS NULL AND email = $1 LIMIT 1",
			email)
		if err != nil {
			return nil, err
		}
		if len(users) == 0 {
			return nil, identity.ErrUserNotFound
		}
		return users[0], nil
	}

	u, err := repo.FindOne(ctx, query.And(
		query.Eq("WebsiteId", *websiteID),
		query.Eq("Email", email),
	))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *identity.User) error {
	uow := NewUnitOfWork(r.db)
	defer uow.Close()

	RepositoryFor(uow, Users).Update(u)
	affected, err := uow.Commit(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}
