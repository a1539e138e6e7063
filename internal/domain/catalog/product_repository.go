package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
)

// ProductQuery narrows a product listing
type ProductQuery struct {
	Category    string // exact match, empty for all
	Search      string // case-insensitive match on name or category
	BestSelling bool
	shared.Filter
}

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll finds all products matching the query, newest first
	FindAll(ctx context.Context, query ProductQuery) ([]Product, error)

	// Save creates or updates a product together with its variants
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product and its variants
	Delete(ctx context.Context, id uuid.UUID) error
}
