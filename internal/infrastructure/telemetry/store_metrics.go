package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prakruthi/storefront/internal/domain/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/trade"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when StoreMetrics is built without a meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// InventorySnapshot is a point-in-time count of stock health
type InventorySnapshot struct {
	SoldOut  int64
	LowStock int64
	Pending  int64 // orders awaiting delivery
}

// InventorySnapshotProvider supplies the periodic gauges
type InventorySnapshotProvider interface {
	InventorySnapshot(ctx context.Context) (InventorySnapshot, error)
}

// StoreMetrics records storefront business metrics from domain events and
// periodic inventory snapshots.
type StoreMetrics struct {
	logger *zap.Logger

	ordersPlaced   *Counter
	orderRevenue   *Counter
	orderValue     *Histogram
	statusChanges  *Counter
	paymentChanges *Counter
	itemEdits      *Counter
	stockChanges   *Counter

	soldOut  *Gauge
	lowStock *Gauge
	pending  *Gauge

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewStoreMetrics creates the instruments on the given meter
func NewStoreMetrics(meter metric.Meter, logger *zap.Logger) (*StoreMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &StoreMetrics{logger: logger, stopChan: make(chan struct{})}

	var err error
	if m.ordersPlaced, err = NewCounter(meter, "store_orders_placed_total", "Orders placed at checkout", "{orders}"); err != nil {
		return nil, err
	}
	if m.orderRevenue, err = NewCounter(meter, "store_order_revenue_total", "Sum of placed order totals", "{currency}"); err != nil {
		return nil, err
	}
	if m.orderValue, err = NewHistogram(meter, "store_order_value", "Distribution of placed order totals", "{currency}", OrderValueBuckets...); err != nil {
		return nil, err
	}
	if m.statusChanges, err = NewCounter(meter, "store_order_status_changes_total", "Order status transitions", "{transitions}"); err != nil {
		return nil, err
	}
	if m.paymentChanges, err = NewCounter(meter, "store_order_payment_changes_total", "Paid flag changes", "{changes}"); err != nil {
		return nil, err
	}
	if m.itemEdits, err = NewCounter(meter, "store_order_item_edits_total", "Staff edits to order line items", "{edits}"); err != nil {
		return nil, err
	}
	if m.stockChanges, err = NewCounter(meter, "store_stock_changes_total", "Product stock updates", "{updates}"); err != nil {
		return nil, err
	}
	if m.soldOut, err = NewGauge(meter, "store_products_sold_out", "Products with no purchasable stock", "{products}"); err != nil {
		return nil, err
	}
	if m.lowStock, err = NewGauge(meter, "store_products_low_stock", "Products at or below the low stock threshold", "{products}"); err != nil {
		return nil, err
	}
	if m.pending, err = NewGauge(meter, "store_orders_pending", "Orders awaiting delivery", "{orders}"); err != nil {
		return nil, err
	}

	return m, nil
}

// EventTypes subscribes to every event
func (m *StoreMetrics) EventTypes() []string {
	return nil
}

// Handle records the metric matching the event
func (m *StoreMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		m.ordersPlaced.Inc(ctx)
		m.orderRevenue.Add(ctx, e.Total.Int64())
		m.orderValue.Record(ctx, e.Total.Int64())
	case *trade.OrderStatusChangedEvent:
		m.statusChanges.Inc(ctx, AttrOrderStatus.String(e.To.String()))
	case *trade.OrderPaymentChangedEvent:
		m.paymentChanges.Inc(ctx, AttrPaid.Bool(e.Paid))
	case *trade.OrderItemsModifiedEvent:
		m.itemEdits.Inc(ctx)
	case *catalog.ProductStockChangedEvent:
		state := "in_stock"
		if !e.InStock {
			state = "sold_out"
		}
		m.stockChanges.Inc(ctx, AttrStockState.String(state))
	}
	return nil
}

// StartPeriodicCollection records inventory gauges every interval until Stop
func (m *StoreMetrics) StartPeriodicCollection(ctx context.Context, provider InventorySnapshotProvider, interval time.Duration) {
	if provider == nil || interval <= 0 {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.collect(ctx, provider)
		for {
			select {
			case <-ticker.C:
				m.collect(ctx, provider)
			case <-m.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (m *StoreMetrics) collect(ctx context.Context, provider InventorySnapshotProvider) {
	snapshot, err := provider.InventorySnapshot(ctx)
	if err != nil {
		m.logger.Warn("failed to collect inventory metrics", zap.Error(err))
		return
	}
	m.soldOut.Record(ctx, snapshot.SoldOut)
	m.lowStock.Record(ctx, snapshot.LowStock)
	m.pending.Record(ctx, snapshot.Pending)
}

// Stop ends periodic collection and waits for the collector to exit
func (m *StoreMetrics) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()
}

var _ shared.EventHandler = (*StoreMetrics)(nil)
