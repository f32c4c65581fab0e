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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/shopcore/internal/catalog"
	"github.com/shopcore/shopcore/internal/query"
)

func TestRenderPredicate(t *testing.T) {
	reg := catalog.ProductFields()

	tests := []struct {
		name     string
		pred     query.Predicate
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "compare",
			pred:     query.Eq("WebsiteId", int64(42)),
			wantSQL:  "website_id = $1",
			wantArgs: []any{int64(42)},
		},
		{
			name:     "field name is case-normalized",
			pred:     query.Gt("price", 9.99),
			wantSQL:  "price > $1",
			wantArgs: []any{9.99},
		},
		{
			name: "conjunction",
			pred: query.And(
				query.Eq("WebsiteId", int64(42)),
				query.Or(query.Like("Name", "%shirt%"), query.Gte("Stock", int64(1))),
			),
			wantSQL:  "(website_id = $1 AND (name LIKE $2 OR stock >= $3))",
			wantArgs: []any{int64(42), "%shirt%", int64(1)},
		},
		{
			name:     "membership",
			pred:     query.In("CategoryId", int64(1), int64(2)),
			wantSQL:  "category_id IN ($1, $2)",
			wantArgs: []any{int64(1), int64(2)},
		},
		{
			name:    "empty membership matches nothing",
			pred:    query.In("CategoryId"),
			wantSQL: "FALSE",
		},
		{
			name:     "negation",
			pred:     query.Negate(query.Eq("Stock", int64(0))),
			wantSQL:  "NOT (stock = $1)",
			wantArgs: []any{int64(0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var args []any
			got, err := renderPredicate(reg, tt.pred, &args)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, got)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRenderPredicateUnknownField(t *testing.T) {
	var args []any
	_, err := renderPredicate(catalog.ProductFields(), query.Eq("Secret", "x"), &args)
	assert.ErrorIs(t, err, query.ErrUnknownField)
}

func TestRenderOrderBy(t *testing.T) {
	reg := catalog.ProductFields()

	t.Run("tie-break on primary key keeps insertion order", func(t *testing.T) {
		clause, err := renderOrderBy(reg, "id", "Price", query.Descending)
		require.NoError(t, err)
		assert.Equal(t, " ORDER BY price DESC, id ASC", clause)
	})

	t.Run("sorting by the key itself needs no tie-break", func(t *testing.T) {
		clause, err := renderOrderBy(reg, "id", "Id", query.Ascending)
		require.NoError(t, err)
		assert.Equal(t, " ORDER BY id ASC", clause)
	})

	t.Run("no sort column, no clause", func(t *testing.T) {
		clause, err := renderOrderBy(reg, "id", "", query.Descending)
		require.NoError(t, err)
		assert.Empty(t, clause)
	})

	t.Run("unregistered sort column is rejected", func(t *testing.T) {
		_, err := renderOrderBy(reg, "id", "Description", query.Ascending)
		assert.ErrorIs(t, err, query.ErrInvalidSort)
	})
}

func TestRenderSelect(t *testing.T) {
	t.Run("full spec", func(t *testing.T) {
		spec := query.Spec{
			Where:    query.Eq("WebsiteId", int64(42)),
			SortBy:   "Name",
			SortDir:  query.Ascending,
			Page:     3,
			PageSize: 10,
		}
		sql, args, err := renderSelect(Products, spec)
		require.NoError(t, err)
		assert.Equal(t,
			"SELECT id, website_id, category_id, name, description, price, stock, created_at, updated_at"+
				" FROM products WHERE website_id = $1 ORDER BY name ASC, id ASC LIMIT $2 OFFSET $3",
			sql)
		assert.Equal(t, []any{int64(42), 10, 20}, args)
	})

	t.Run("zero page size disables paging", func(t *testing.T) {
		sql, args, err := renderSelect(Products, query.Spec{})
		require.NoError(t, err)
		assert.NotContains(t, sql, "LIMIT")
		assert.Empty(t, args)
	})

	t.Run("invalid sort surfaces before execution", func(t *testing.T) {
		_, _, err := renderSelect(Products, query.Spec{SortBy: "Nope"})
		assert.ErrorIs(t, err, query.ErrInvalidSort)
	})
}
