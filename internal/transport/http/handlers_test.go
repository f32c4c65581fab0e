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
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopcore/shopcore/internal/query"
)

func TestParseListSpec(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		want    query.Spec
		wantErr bool
	}{
		{
			name:   "defaults",
			target: "/products",
			want:   query.Spec{Page: 1, PageSize: 10, SortDir: query.Descending},
		},
		{
			name:   "explicit page and size",
			target: "/products?page=3&size=25",
			want:   query.Spec{Page: 3, PageSize: 25, SortDir: query.Descending},
		},
		{
			name:   "size zero disables paging",
			target: "/products?size=0",
			want:   query.Spec{Page: 1, PageSize: 0, SortDir: query.Descending},
		},
		{
			name:   "asc is case-insensitive",
			target: "/products?sort=Price&dir=ASC",
			want:   query.Spec{Page: 1, PageSize: 10, SortBy: "Price", SortDir: query.Ascending},
		},
		{
			name:   "unrecognized direction falls back to descending",
			target: "/products?sort=Price&dir=xyz",
			want:   query.Spec{Page: 1, PageSize: 10, SortBy: "Price", SortDir: query.Descending},
		},
		{
			name:    "page zero is invalid",
			target:  "/products?page=0",
			wantErr: true,
		},
		{
			name:    "negative size is invalid",
			target:  "/products?size=-1",
			wantErr: true,
		},
		{
			name:    "non-numeric page is invalid",
			target:  "/products?page=abc",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := parseListSpec(httptest.NewRequest("GET", tt.target, nil))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec)
		})
	}
}

func TestRequestWebsiteID(t *testing.T) {
	t.Run("header fallback without tenant claim", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products", nil)
		r.Header.Set(WebsiteHeader, "42")
		id, ok := requestWebsiteID(r)
		assert.True(t, ok)
		assert.Equal(t, int64(42), id)
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/products", nil)
		r.Header.Set(WebsiteHeader, "shop-42")
		_, ok := requestWebsiteID(r)
		assert.False(t, ok)
	})
}
