package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
)

// OrderQuery narrows an order listing
type OrderQuery struct {
	Status *OrderStatus
	Since  *time.Time // created at or after
	shared.Filter
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindAll finds orders matching the query, newest first
	FindAll(ctx context.Context, query OrderQuery) ([]Order, error)

	// Count counts orders matching the query
	Count(ctx context.Context, query OrderQuery) (int64, error)

	// Save creates or updates an order, replacing its items in the same transaction
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error
}
