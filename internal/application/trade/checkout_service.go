package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/cart"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/store"
	"github.com/prakruthi/storefront/internal/domain/trade"
	"github.com/prakruthi/storefront/internal/infrastructure/logger"
	"github.com/prakruthi/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CartConsumer hands a session's cart to fn under the session lock and clears
// it only when fn succeeds
type CartConsumer interface {
	Consume(ctx context.Context, sessionID string, fn func(c *cart.Cart) error) error
}

// CheckoutService turns a session cart into a placed order
type CheckoutService struct {
	carts          CartConsumer
	orderRepo      trade.OrderRepository
	storeRepo      store.ProfileRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(carts CartConsumer, orderRepo trade.OrderRepository, storeRepo store.ProfileRepository) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		orderRepo: orderRepo,
		storeRepo: storeRepo,
		now:       time.Now,
	}
}

// SetEventPublisher sets the publisher that receives OrderPlaced
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// PlaceOrder validates the checkout form, persists the order and then clears the
// cart. A blank name or an empty cart persists nothing; a failed order write
// leaves the cart unchanged. customerID links the order to a signed-in user.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, req CheckoutRequest, customerID *uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "place_order")
	defer span.End()

	if err := s.ensureAcceptingOrders(ctx); err != nil {
		return nil, err
	}

	details := trade.CustomerDetails{
		CustomerID: customerID,
		Name:       req.CustomerName,
		Phone:      req.Phone,
		Street:     req.Street,
		City:       req.City,
		State:      req.State,
		Pincode:    req.Pincode,
	}

	var placed *trade.Order
	err := s.carts.Consume(ctx, sessionID, func(c *cart.Cart) error {
		order, err := trade.NewOrder(details, orderItemsFromCart(c))
		if err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
		placed = order
		return nil
	})
	if err != nil {
		if placed == nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		// The order is stored; only clearing the cart failed.
		logger.L(ctx).Warn("order placed but cart was not cleared",
			zap.String("order_id", placed.ID.String()),
			zap.Error(err),
		)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, placed.ID.String(),
		telemetry.SpanAttrItemCount, placed.ItemCount(),
		telemetry.SpanAttrAmount, placed.Total.Int64(),
	)
	logger.L(ctx).Info("order placed",
		zap.String("order_id", placed.ID.String()),
		zap.Int("items", placed.ItemCount()),
		zap.Int64("total", placed.Total.Int64()),
	)
	publishOrderEvents(ctx, s.eventPublisher, placed)

	response := ToOrderResponse(placed, s.now())
	return &response, nil
}

func (s *CheckoutService) ensureAcceptingOrders(ctx context.Context) error {
	profile, err := s.storeRepo.Get(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !profile.AcceptsOrders() {
		return shared.ErrStoreDisabled
	}
	return nil
}

func orderItemsFromCart(c *cart.Cart) []trade.OrderItem {
	lines := c.Items()
	items := make([]trade.OrderItem, len(lines))
	for i, line := range lines {
		items[i] = trade.OrderItem{
			ProductID:    line.ProductID,
			VariantID:    line.VariantID,
			VariantLabel: line.VariantLabel,
			Name:         line.Name,
			Price:        line.Price,
			Quantity:     line.Quantity,
		}
	}
	return items
}
