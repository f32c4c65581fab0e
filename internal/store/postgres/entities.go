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
	"fmt"

	"github.com/shopcore/shopcore/internal/cart"
	"github.com/shopcore/shopcore/internal/catalog"
	"github.com/shopcore/shopcore/internal/company"
	"github.com/shopcore/shopcore/internal/identity"
	"github.com/shopcore/shopcore/internal/order"
	"github.com/shopcore/shopcore/internal/website"
)

// Descriptors for every persisted entity type. Column order matches the
// migration schema; the primary key is always first.

var Websites = &Descriptor[website.Website]{
	Table:    "websites",
	Columns:  []string{"id", "company_id", "name", "hostname", "secret_key", "is_active", "created_at", "updated_at"},
	Registry: website.Fields(),
	Bind: func(w *website.Website) []any {
		return []any{&w.ID, &w.CompanyID, &w.Name, &w.Hostname, &w.SecretKey, &w.IsActive, &w.CreatedAt, &w.UpdatedAt}
	},
	ID:    func(w *website.Website) int64 { return w.ID },
	SetID: func(w *website.Website, id int64) { w.ID = id },
}

var Users = &Descriptor[identity.User]{
	Table:    "users",
	Columns:  []string{"id", "website_id", "email", "password_hash", "role", "created_at", "updated_at"},
	Registry: identity.Fields(),
	Bind: func(u *identity.User) []any {
		return []any{&u.ID, &u.WebsiteID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt}
	},
	ID:    func(u *identity.User) int64 { return u.ID },
	SetID: func(u *identity.User, id int64) { u.ID = id },
}

var Companies = &Descriptor[company.Company]{
	Table:    "companies",
	Columns:  []string{"id", "name", "tax_number", "created_at", "updated_at"},
	Registry: company.Fields(),
	Bind: func(c *company.Company) []any {
		return []any{&c.ID, &c.Name, &c.TaxNumber, &c.CreatedAt, &c.UpdatedAt}
	},
	ID:    func(c *company.Company) int64 { return c.ID },
	SetID: func(c *company.Company, id int64) { c.ID = id },
}

var Categories = &Descriptor[catalog.Category]{
	Table:    "categories",
	Columns:  []string{"id", "website_id", "name", "created_at", "updated_at"},
	Registry: catalog.CategoryFields(),
	Bind: func(c *catalog.Category) []any {
		return []any{&c.ID, &c.WebsiteID, &c.Name, &c.CreatedAt, &c.UpdatedAt}
	},
	ID:    func(c *catalog.Category) int64 { return c.ID },
	SetID: func(c *catalog.Category, id int64) { c.ID = id },
}

var Products = &Descriptor[catalog.Product]{
	Table:    "products",
	Columns:  []string{"id", "website_id", "category_id", "name", "description", "price", "stock", "created_at", "updated_at"},
	Registry: catalog.ProductFields(),
	Bind: func(p *catalog.Product) []any {
		return []any{&p.ID, &p.WebsiteID, &p.CategoryID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt}
	},
	ID:    func(p *catalog.Product) int64 { return p.ID },
	SetID: func(p *catalog.Product, id int64) { p.ID = id },
	Relations: map[string]RelationLoader[catalog.Product]{
		"Category": loadProductCategories,
	},
}

var CartItems = &Descriptor[cart.Item]{
	Table:    "cart_items",
	Columns:  []string{"id", "website_id", "user_id", "product_id", "quantity", "created_at", "updated_at"},
	Registry: cart.ItemFields(),
	Bind: func(i *cart.Item) []any {
		return []any{&i.ID, &i.WebsiteID, &i.UserID, &i.ProductID, &i.Quantity, &i.CreatedAt, &i.UpdatedAt}
	},
	ID:    func(i *cart.Item) int64 { return i.ID },
	SetID: func(i *cart.Item, id int64) { i.ID = id },
}

var Orders = &Descriptor[order.Order]{
	Table:    "orders",
	Columns:  []string{"id", "website_id", "user_id", "number", "status", "total", "created_at", "updated_at"},
	Registry: order.Fields(),
	Bind: func(o *order.Order) []any {
		return []any{&o.ID, &o.WebsiteID, &o.UserID, &o.Number, &o.Status, &o.Total, &o.CreatedAt, &o.UpdatedAt}
	},
	ID:    func(o *order.Order) int64 { return o.ID },
	SetID: func(o *order.Order, id int64) { o.ID = id },
	Relations: map[string]RelationLoader[order.Order]{
		"Items": loadOrderItems,
	},
}

var OrderItems = &Descriptor[order.Item]{
	Table:    "order_items",
	Columns:  []string{"id", "order_id", "product_id", "quantity", "unit_price"},
	Registry: order.ItemFields(),
	Bind: func(i *order.Item) []any {
		return []any{&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.UnitPrice}
	},
	ID:    func(i *order.Item) int64 { return i.ID },
	SetID: func(i *order.Item, id int64) { i.ID = id },
}

// loadProductCategories attaches each product's category in one batched
// query over the distinct category ids.
func loadProductCategories(ctx context.Context, q Querier, products []*catalog.Product) error {
	seen := make(map[int64]bool)
	var ids []int64
	for _, p := range products {
		if p.CategoryID != 0 && !seen[p.CategoryID] {
			seen[p.CategoryID] = true
			ids = append(ids, p.CategoryID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	rows, err := q.Query(ctx,
		"SELECT id, website_id, name, created_at, updated_at FROM categories WHERE id = ANY($1)", ids)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*catalog.Category, len(ids))
	for rows.Next() {
		c := new(catalog.Category)
		if err := rows.Scan(&c.ID, &c.WebsiteID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return fmt.Errorf("scan category: %w", err)
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read categories: %w", err)
	}

	for _, p := range products {
		p.Category = byID[p.CategoryID]
	}
	return nil
}

// loadOrderItems attaches each order's lines in one batched query.
func loadOrderItems(ctx context.Context, q Querier, orders []*order.Order) error {
	ids := make([]int64, 0, len(orders))
	byID := make(map[int64]*order.Order, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		byID[o.ID] = o
	}

	rows, err := q.Query(ctx,
		"SELECT id, order_id, product_id, quantity, unit_price FROM order_items WHERE order_id = ANY($1) ORDER BY id ASC", ids)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item := new(order.Item)
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		if o, ok := byID[item.OrderID]; ok {
			o.Items = append(o.Items, item)
		}
	}
	return rows.Err()
}
