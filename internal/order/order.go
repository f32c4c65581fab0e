// Package order holds per-website order entities. Totals and stock checks
// belong to the callers; this package is data shape and query bindings only.
package order

import (
	"time"

	"github.com/shopcore/shopcore/internal/query"
)

// Status values for an order lifecycle.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusCancelled = "cancelled"
)

// Order is one placed order, scoped to a website.
type Order struct {
	ID        int64     `json:"id"`
	WebsiteID int64     `json:"websiteId"`
	UserID    int64     `json:"userId"`
	Number    string    `json:"number"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Items is populated by an include path.
	Items []*Item `json:"items,omitempty"`
}

// Item is one product line of an order.
type Item struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"orderId"`
	ProductID int64   `json:"productId"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// Fields is the dynamic query binding for orders.
func Fields() *query.Registry[Order] {
	return query.NewRegistry[Order]("Order").
		Register("Id", "id", func(o *Order) any { return o.ID }).
		Register("WebsiteId", "website_id", func(o *Order) any { return o.WebsiteID }).
		Register("UserId", "user_id", func(o *Order) any { return o.UserID }).
		Register("Number", "number", func(o *Order) any { return o.Number }).
		Register("Status", "status", func(o *Order) any { return o.Status }).
		Register("Total", "total", func(o *Order) any { return o.Total }).
		Register("CreatedAt", "created_at", func(o *Order) any { return o.CreatedAt })
}

// ItemFields is the dynamic query binding for order items.
func ItemFields() *query.Registry[Item] {
	return query.NewRegistry[Item]("OrderItem").
		Register("Id", "id", func(i *Item) any { return i.ID }).
		Register("OrderId", "order_id", func(i *Item) any { return i.OrderID }).
		Register("ProductId", "product_id", func(i *Item) any { return i.ProductID }).
		Register("Quantity", "quantity", func(i *Item) any { return i.Quantity }).
		Register("UnitPrice", "unit_price", func(i *Item) any { return i.UnitPrice })
}
