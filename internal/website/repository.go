package website

import (
	"context"

	"github.com/shopcore/shopcore/internal/query"
)

// Repository defines the interface for website storage.
type Repository interface {
	Create(ctx context.Context, w *Website) error
	GetByID(ctx context.Context, id int64) (*Website, error)
	Update(ctx context.Context, w *Website) error
	List(ctx context.Context, spec query.Spec) ([]*Website, error)
}

// CompanyDirectory answers whether a company exists. Websites are always
// owned by a company, so provisioning checks the owner up front.
type CompanyDirectory interface {
	CompanyExists(ctx context.Context, id int64) (bool, error)
}
