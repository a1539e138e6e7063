package client

import (
	"context"

	"github.com/google/uuid"
	tradeapp "github.com/prakruthi/storefront/internal/application/trade"
	"go.uber.org/zap"
)

// OrderAPI is the part of the API the order book writes through
type OrderAPI interface {
	ListOrders(ctx context.Context, status string) ([]tradeapp.OrderResponse, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, req tradeapp.UpdateOrderRequest) (*tradeapp.OrderResponse, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	MarkOrderPaid(ctx context.Context, id uuid.UUID, paid bool) (*tradeapp.OrderResponse, error)
	DeliverOrder(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error)
	SaveOrderItems(ctx context.Context, id uuid.UUID, items []tradeapp.OrderItemInput) (*tradeapp.OrderResponse, error)
	UpdateOrderItemQuantity(ctx context.Context, id uuid.UUID, key string, quantity int) (*tradeapp.OrderResponse, error)
	RemoveOrderItem(ctx context.Context, id uuid.UUID, key string) (*tradeapp.OrderResponse, error)
}

// OrderBook mirrors the order list. Writes go to the server first; the local
// copy changes only when the server acknowledges them, so a failed write
// leaves it as it was.
type OrderBook struct {
	api    OrderAPI
	seq    *Sequencer
	orders *mirror[tradeapp.OrderResponse]
	log    *zap.Logger
}

// NewOrderBook creates a new OrderBook
func NewOrderBook(api OrderAPI, seq *Sequencer, log *zap.Logger) *OrderBook {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderBook{
		api: api,
		seq: seq,
		orders: newMirror(seq, "orders", func(o tradeapp.OrderResponse) uuid.UUID {
			return o.ID
		}),
		log: log,
	}
}

// Refresh reloads the orders with the given status, or all when status is empty
func (b *OrderBook) Refresh(ctx context.Context, status string) error {
	t := b.seq.Issue()
	orders, err := b.api.ListOrders(ctx, status)
	if err != nil {
		return err
	}
	if !b.orders.replaceAll(t, orders) {
		b.log.Debug("Dropped stale order listing", zap.Uint64("ticket", uint64(t)))
	}
	return nil
}

// Orders returns the mirrored orders, newest first
func (b *OrderBook) Orders() []tradeapp.OrderResponse {
	return b.orders.all()
}

// Order returns one mirrored order
func (b *OrderBook) Order(id uuid.UUID) (tradeapp.OrderResponse, bool) {
	return b.orders.get(id)
}

// Update merges fields into an order. When the server no longer has the
// order it is dropped locally and nil is returned.
func (b *OrderBook) Update(ctx context.Context, id uuid.UUID, req tradeapp.UpdateOrderRequest) (*tradeapp.OrderResponse, error) {
	return b.write(ctx, id, func(ctx context.Context) (*tradeapp.OrderResponse, error) {
		return b.api.UpdateOrder(ctx, id, req)
	})
}

// MarkPaid sets the paid flag
func (b *OrderBook) MarkPaid(ctx context.Context, id uuid.UUID, paid bool) (*tradeapp.OrderResponse, error) {
	return b.write(ctx, id, func(ctx context.Context) (*tradeapp.OrderResponse, error) {
		return b.api.MarkOrderPaid(ctx, id, paid)
	})
}

// Deliver marks a pending order delivered
func (b *OrderBook) Deliver(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
	return b.write(ctx, id, func(ctx context.Context) (*tradeapp.OrderResponse, error) {
		return b.api.DeliverOrder(ctx, id)
	})
}

// Cancel marks a pending order cancelled
func (b *OrderBook) Cancel(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
	return b.write(ctx, id, func(ctx context.Context) (*tradeapp.OrderResponse, error) {
		return b.api.CancelOrder(ctx, id)
	})
}

// SaveItems replaces an order's item set
func (b *OrderBook) SaveItems(ctx context.Context, id uuid.UUID, items []tradeapp.OrderItemInput) (*tradeapp.OrderResponse, error) {
	return b.write(ctx, id, func(ctx context.Context) (*tradeapp.OrderResponse, error) {
		return b.api.SaveOrderItems(ctx, id, items)
	})
}

// UpdateItemQuantity sets the quantity of one order line
func (b *OrderBook) UpdateItemQuantity(ctx context.Context, id uuid.UUID, key string, quantity int) (*tradeapp.OrderResponse, error) {
	return b.write(ctx, id, func(ctx context.Context) (*tradeapp.OrderResponse, error) {
		return b.api.UpdateOrderItemQuantity(ctx, id, key, quantity)
	})
}

// RemoveItem drops one order line
func (b *OrderBook) RemoveItem(ctx context.Context, id uuid.UUID, key string) (*tradeapp.OrderResponse, error) {
	return b.write(ctx, id, func(ctx context.Context) (*tradeapp.OrderResponse, error) {
		return b.api.RemoveOrderItem(ctx, id, key)
	})
}

// Delete removes an order on the server and then locally
func (b *OrderBook) Delete(ctx context.Context, id uuid.UUID) error {
	t := b.seq.Issue()
	if err := b.api.DeleteOrder(ctx, id); err != nil {
		return err
	}
	b.orders.remove(t, id)
	return nil
}

func (b *OrderBook) write(ctx context.Context, id uuid.UUID, call func(ctx context.Context) (*tradeapp.OrderResponse, error)) (*tradeapp.OrderResponse, error) {
	t := b.seq.Issue()
	order, err := call(ctx)
	if err != nil {
		return nil, err
	}

	var applied bool
	if order == nil {
		applied = b.orders.remove(t, id)
	} else {
		applied = b.orders.put(t, *order)
	}
	if !applied {
		b.log.Debug("Dropped stale order response",
			zap.String("order_id", id.String()),
			zap.Uint64("ticket", uint64(t)),
		)
	}
	return order, nil
}
