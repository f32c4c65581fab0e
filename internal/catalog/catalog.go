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

// Package catalog holds the per-website product catalog entities. Pricing
// and stock policy live with the callers; this package is data shape and
// query bindings only.
package catalog

import (
	"time"

	"github.com/shopcore/shopcore/internal/query"
)

// Category groups products within one website.
type Category struct {
	ID        int64     `json:"id"`
	WebsiteID int64     `json:"websiteId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Product is a sellable item within one website.
type Product struct {
	ID          int64     `json:"id"`
	WebsiteID   int64     `json:"websiteId"`
	CategoryID  int64     `json:"categoryId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int64     `json:"stock"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Category is populated by an include path, not scanned from the
	// product row itself.
	Category *Category `json:"category,omitempty"`
}

// CategoryFields is the dynamic query binding for categories.
func CategoryFields() *query.Registry[Category] {
	return query.NewRegistry[Category]("Category").
		Register("Id", "id", func(c *Category) any { return c.ID }).
		Register("WebsiteId", "website_id", func(c *Category) any { return c.WebsiteID }).
		Register("Name", "name", func(c *Category) any { return c.Name }).
		Register("CreatedAt", "created_at", func(c *Category) any { return c.CreatedAt })
}

// ProductFields is the dynamic query binding for products.
func ProductFields() *query.Registry[Product] {
	return query.NewRegistry[Product]("Product").
		Register("Id", "id", func(p *Product) any { return p.ID }).
		Register("WebsiteId", "website_id", func(p *Product) any { return p.WebsiteID }).
		Register("CategoryId", "category_id", func(p *Product) any { return p.CategoryID }).
		Register("Name", "name", func(p *Product) any { return p.Name }).
		Register("Price", "price", func(p *Product) any { return p.Price }).
		Register("Stock", "stock", func(p *Product) any { return p.Stock }).
		Register("CreatedAt", "created_at", func(p *Product) any { return p.CreatedAt })
}
