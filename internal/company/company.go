// Package company holds the owning organization of one or more websites.
package company

import (
	"time"

	"github.com/shopcore/shopcore/internal/query"
)

// Company owns websites. Companies themselves are not tenant-scoped.
type Company struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TaxNumber string    `json:"taxNumber"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Fields is the dynamic query binding for companies.
func Fields() *query.Registry[Company] {
	return query.NewRegistry[Company]("Company").
		Register("Id", "id", func(c *Company) any { return c.ID }).
		Register("Name", "name", func(c *Company) any { return c.Name }).
		Register("TaxNumber", "tax_number", func(c *Company) any { return c.TaxNumber }).
		Register("CreatedAt", "created_at", func(c *Company) any { return c.CreatedAt })
}
