// Package trade implements checkout and staff-side order management.
package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/trade"
	"github.com/prakruthi/storefront/internal/infrastructure/logger"
	"github.com/prakruthi/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const defaultOrderPageSize = 500

// OrderService handles order business operations for staff
type OrderService struct {
	orderRepo      trade.OrderRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewOrderService creates a new OrderService
func NewOrderService(orderRepo trade.OrderRepository) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		now:       time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Add stores an order, filling in id, creation time and pending status when absent
func (s *OrderService) Add(ctx context.Context, order *trade.Order) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "add")
	defer span.End()

	order.ApplyDefaults()
	if err := s.orderRepo.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderID, order.ID.String())
	publishOrderEvents(ctx, s.eventPublisher, order)

	response := ToOrderResponse(order, s.now())
	return &response, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order, s.now())
	return &response, nil
}

// List retrieves orders newest first, optionally narrowed to one status
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, error) {
	query := trade.OrderQuery{Filter: shared.DefaultFilter()}
	query.PageSize = defaultOrderPageSize
	if filter.Page > 0 {
		query.Page = filter.Page
	}
	if filter.PageSize > 0 {
		query.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		status := trade.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("status", "Unknown order status")
		}
		query.Status = &status
	}

	orders, err := s.orderRepo.FindAll(ctx, query)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders, s.now()), nil
}

// Update merges paid, status and items into an order. An unknown id is a
// no-op and returns (nil, nil); nothing is written.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	update := trade.OrderUpdate{Paid: req.Paid}
	if req.Status != nil {
		status := trade.OrderStatus(*req.Status)
		update.Status = &status
	}
	if req.Items != nil {
		update.Items = toOrderItems(req.Items)
	}

	response, err := s.modify(ctx, "update", id, func(order *trade.Order) error {
		return order.Apply(update)
	})
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return response, err
}

// Delete permanently removes an order. An unknown id is a no-op.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "delete", telemetry.SpanAttrOrderID, id.String())
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.orderRepo.Delete(ctx, id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		telemetry.RecordError(span, err)
		return err
	}
	order.MarkDeleted()
	publishOrderEvents(ctx, s.eventPublisher, order)
	return nil
}

// MarkPaid sets the paid flag; it is independent of the status
func (s *OrderService) MarkPaid(ctx context.Context, id uuid.UUID, paid bool) (*OrderResponse, error) {
	return s.modify(ctx, "mark_paid", id, func(order *trade.Order) error {
		order.SetPaid(paid)
		return nil
	})
}

// Deliver moves a pending order to delivered
func (s *OrderService) Deliver(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.modify(ctx, "deliver", id, func(order *trade.Order) error {
		return order.Deliver()
	})
}

// Cancel moves a pending order to cancelled
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	return s.modify(ctx, "cancel", id, func(order *trade.Order) error {
		return order.Cancel()
	})
}

// UpdateItemQuantity changes one line's quantity, recomputing the total and
// flagging the order as modified. Quantities below one are rejected.
func (s *OrderService) UpdateItemQuantity(ctx context.Context, id uuid.UUID, key string, quantity int) (*OrderResponse, error) {
	return s.modify(ctx, "update_item_quantity", id, func(order *trade.Order) error {
		return order.UpdateItemQuantity(key, quantity)
	})
}

// RemoveItem removes one line, recomputing the total and flagging the order as modified
func (s *OrderService) RemoveItem(ctx context.Context, id uuid.UUID, key string) (*OrderResponse, error) {
	return s.modify(ctx, "remove_item", id, func(order *trade.Order) error {
		return order.RemoveItem(key)
	})
}

// SaveItems replaces the item set in one write together with the recomputed
// total and the modified flag
func (s *OrderService) SaveItems(ctx context.Context, id uuid.UUID, req SaveItemsRequest) (*OrderResponse, error) {
	items := toOrderItems(req.Items)
	return s.modify(ctx, "save_items", id, func(order *trade.Order) error {
		return order.ReplaceItems(items)
	})
}

// modify loads an order, applies fn and saves it. Concurrent edits are
// last-write-wins.
func (s *OrderService) modify(ctx context.Context, method string, id uuid.UUID, fn func(order *trade.Order) error) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", method, telemetry.SpanAttrOrderID, id.String())
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(order); err != nil {
		return nil, err
	}
	if len(order.GetDomainEvents()) == 0 {
		response := ToOrderResponse(order, s.now())
		return &response, nil
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderStatus, string(order.Status),
		telemetry.SpanAttrAmount, order.Total.Int64(),
	)
	publishOrderEvents(ctx, s.eventPublisher, order)

	response := ToOrderResponse(order, s.now())
	return &response, nil
}

func publishOrderEvents(ctx context.Context, publisher shared.EventPublisher, order *trade.Order) {
	if err := shared.PublishAndClear(ctx, publisher, order); err != nil {
		logger.L(ctx).Warn("failed to publish order events",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	}
}
