// Package report builds the staff dashboard summary.
package report

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	apptrade "github.com/prakruthi/storefront/internal/application/trade"
	"github.com/prakruthi/storefront/internal/domain/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/trade"
	"github.com/prakruthi/storefront/internal/infrastructure/telemetry"
)

const (
	recentPendingLimit = 5
	restockLimit       = 5
)

// RestockItemResponse is a product that is running low
type RestockItemResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Stock     int       `json:"stock"`
	ImageURL  string    `json:"image_url"`
}

// DashboardResponse represents the dashboard summary
type DashboardResponse struct {
	PendingOrders  int64                    `json:"pending_orders"`
	OrdersToday    int64                    `json:"orders_today"`
	OrdersThisWeek int64                    `json:"orders_this_week"`
	TotalProducts  int                      `json:"total_products"`
	SoldOut        int                      `json:"sold_out"`
	LowStock       int                      `json:"low_stock"`
	RecentPending  []apptrade.OrderResponse `json:"recent_pending"`
	Restock        []RestockItemResponse    `json:"restock"`
	GeneratedAt    time.Time                `json:"generated_at"`
}

// DashboardService aggregates order and inventory figures
type DashboardService struct {
	productRepo catalog.ProductRepository
	orderRepo   trade.OrderRepository
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(productRepo catalog.ProductRepository, orderRepo trade.OrderRepository) *DashboardService {
	return &DashboardService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		now:         time.Now,
	}
}

// GetDashboard returns the summary shown on the staff home page
func (s *DashboardService) GetDashboard(ctx context.Context) (*DashboardResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "dashboard")
	defer span.End()

	now := s.now()
	pendingStatus := trade.OrderStatusPending
	startOfDay := shared.StartOfDay(now)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	pending, err := s.orderRepo.Count(ctx, trade.OrderQuery{Status: &pendingStatus})
	if err != nil {
		return nil, err
	}
	today, err := s.orderRepo.Count(ctx, trade.OrderQuery{Since: &startOfDay})
	if err != nil {
		return nil, err
	}
	week, err := s.orderRepo.Count(ctx, trade.OrderQuery{Since: &weekAgo})
	if err != nil {
		return nil, err
	}

	recentQuery := trade.OrderQuery{Status: &pendingStatus, Filter: shared.DefaultFilter()}
	recentQuery.PageSize = recentPendingLimit
	recent, err := s.orderRepo.FindAll(ctx, recentQuery)
	if err != nil {
		return nil, err
	}

	products, err := s.allProducts(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	soldOut, lowStock := classifyStock(products)

	return &DashboardResponse{
		PendingOrders:  pending,
		OrdersToday:    today,
		OrdersThisWeek: week,
		TotalProducts:  len(products),
		SoldOut:        len(soldOut),
		LowStock:       len(lowStock),
		RecentPending:  apptrade.ToOrderResponses(recent, now),
		Restock:        restockCandidates(lowStock),
		GeneratedAt:    now,
	}, nil
}

// InventorySnapshot feeds the periodic stock gauges
func (s *DashboardService) InventorySnapshot(ctx context.Context) (telemetry.InventorySnapshot, error) {
	pendingStatus := trade.OrderStatusPending
	pending, err := s.orderRepo.Count(ctx, trade.OrderQuery{Status: &pendingStatus})
	if err != nil {
		return telemetry.InventorySnapshot{}, err
	}
	products, err := s.allProducts(ctx)
	if err != nil {
		return telemetry.InventorySnapshot{}, err
	}
	soldOut, lowStock := classifyStock(products)
	return telemetry.InventorySnapshot{
		SoldOut:  int64(len(soldOut)),
		LowStock: int64(len(lowStock)),
		Pending:  pending,
	}, nil
}

func (s *DashboardService) allProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.productRepo.FindAll(ctx, catalog.ProductQuery{
		Filter: shared.Filter{OrderBy: "created_at", OrderDir: "desc"},
	})
}

func classifyStock(products []catalog.Product) (soldOut, lowStock []catalog.Product) {
	for _, p := range products {
		switch {
		case p.IsSoldOut():
			soldOut = append(soldOut, p)
		case p.IsLowStock(catalog.LowStockThreshold):
			lowStock = append(lowStock, p)
		}
	}
	return soldOut, lowStock
}

// restockCandidates returns the lowest-stock products first
func restockCandidates(lowStock []catalog.Product) []RestockItemResponse {
	sorted := append([]catalog.Product(nil), lowStock...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AggregateStock() < sorted[j].AggregateStock()
	})
	if len(sorted) > restockLimit {
		sorted = sorted[:restockLimit]
	}

	items := make([]RestockItemResponse, len(sorted))
	for i, p := range sorted {
		items[i] = RestockItemResponse{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Stock:     p.AggregateStock(),
			ImageURL:  p.ImageURL,
		}
	}
	return items
}

// Ensure DashboardService can feed the stock gauges
var _ telemetry.InventorySnapshotProvider = (*DashboardService)(nil)
