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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/shopcore/internal/query"
)

func TestRepositoryCount(t *testing.T) {
	tx := &fakeTx{nextID: 2}
	uow := testUnitOfWork(tx)
	defer uow.Close()
	repo := RepositoryFor(uow, Products)

	count, err := repo.Count(context.Background(), query.Eq("WebsiteId", int64(42)))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	require.Len(t, tx.executed, 1)
	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE website_id = $1", tx.executed[0])
	assert.Equal(t, []any{int64(42)}, tx.bound[0])
}

// A nil predicate counts the whole table rather than failing.
func TestRepositoryCountWholeTable(t *testing.T) {
	tx := &fakeTx{}
	uow := testUnitOfWork(tx)
	defer uow.Close()

	count, err := RepositoryFor(uow, Products).Count(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, "SELECT COUNT(*) FROM products WHERE TRUE", tx.executed[0])
	assert.Empty(t, tx.bound[0])
}

func TestRepositoryCountUnknownField(t *testing.T) {
	tx := &fakeTx{}
	uow := testUnitOfWork(tx)
	defer uow.Close()

	_, err := RepositoryFor(uow, Products).Count(context.Background(), query.Eq("Secret", 1))
	assert.ErrorIs(t, err, query.ErrUnknownField)
	assert.Empty(t, tx.executed, "no SQL runs for an unvalidated column")
}

// TestPurpose: Max and Min render COALESCE'd aggregates over the validated
// column, with and without a filter, binding every value as a parameter.
func TestRepositoryAggregates(t *testing.T) {
	tx := &fakeTx{nextID: 99}
	uow := testUnitOfWork(tx)
	defer uow.Close()
	repo := RepositoryFor(uow, Products)

	max, err := repo.Max(context.Background(), "Price", nil)
	require.NoError(t, err)
	assert.Equal(t, float64(100), max)
	assert.Equal(t, "SELECT COALESCE(MAX(price), 0)::float8 FROM products WHERE TRUE", tx.executed[0])

	min, err := repo.Min(context.Background(), "price", query.And(
		query.Eq("WebsiteId", int64(42)),
		query.Eq("CategoryId", int64(7)),
	))
	require.NoError(t, err)
	assert.Equal(t, float64(101), min)
	assert.Equal(t, "SELECT COALESCE(MIN(price), 0)::float8 FROM products WHERE (website_id = $1 AND category_id = $2)", tx.executed[1])
	assert.Equal(t, []any{int64(42), int64(7)}, tx.bound[1])
}

// An empty filtered set aggregates to zero instead of scanning a NULL.
func TestRepositoryAggregateEmptySetIsZero(t *testing.T) {
	tx := &fakeTx{nextID: -1}
	uow := testUnitOfWork(tx)
	defer uow.Close()

	max, err := RepositoryFor(uow, Products).Max(context.Background(), "Price", query.Eq("WebsiteId", int64(42)))
	require.NoError(t, err)
	assert.Zero(t, max)
}

func TestRepositoryAggregateUnknownField(t *testing.T) {
	tx := &fakeTx{}
	uow := testUnitOfWork(tx)
	defer uow.Close()
	repo := RepositoryFor(uow, Products)

	_, err := repo.Max(context.Background(), "PasswordHash", nil)
	assert.ErrorIs(t, err, query.ErrUnknownField)

	_, err = repo.Min(context.Background(), "PasswordHash", nil)
	assert.ErrorIs(t, err, query.ErrUnknownField)
	assert.Empty(t, tx.executed)
}

// Exists with a nil predicate asks whether the table holds any rows.
func TestRepositoryExistsWholeTable(t *testing.T) {
	tx := &fakeTx{}
	uow := testUnitOfWork(tx)
	defer uow.Close()

	exists, err := RepositoryFor(uow, Products).Exists(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "SELECT EXISTS(SELECT 1 FROM products WHERE TRUE)", tx.executed[0])
}
