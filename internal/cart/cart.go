// Package cart holds per-user shopping cart entities.
package cart

import (
	"time"

	"github.com/shopcore/shopcore/internal/query"
)

// Item is one product line in a user's cart, scoped to a website.
type Item struct {
	ID        int64     `json:"id"`
	WebsiteID int64     `json:"websiteId"`
	UserID    int64     `json:"userId"`
	ProductID int64     `json:"productId"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemFields is the dynamic query binding for cart items.
func ItemFields() *query.Registry[Item] {
	return query.NewRegistry[Item]("CartItem").
		Register("Id", "id", func(i *Item) any { return i.ID }).
		Register("WebsiteId", "website_id", func(i *Item) any { return i.WebsiteID }).
		Register("UserId", "user_id", func(i *Item) any { return i.UserID }).
		Register("ProductId", "product_id", func(i *Item) any { return i.ProductID }).
		Register("Quantity", "quantity", func(i *Item) any { return i.Quantity }).
		Register("CreatedAt", "created_at", func(i *Item) any { return i.CreatedAt })
}
