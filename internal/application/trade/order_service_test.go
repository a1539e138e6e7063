package trade

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
	"github.com/prakruthi/storefront/internal/domain/trade"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, query trade.OrderQuery) ([]trade.Order, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, query trade.OrderQuery) (int64, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// capturingPublisher records every published event type
type capturingPublisher struct {
	types []string
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.types = append(p.types, shared.EventTypes(events)...)
	return nil
}

func testItem(price int64, qty int) trade.OrderItem {
	return trade.OrderItem{
		ProductID:    uuid.New(),
		VariantID:    "default",
		VariantLabel: "Default",
		Name:         "Ghee",
		Price:        valueobject.Money(price),
		Quantity:     qty,
	}
}

func newStoredOrder(t *testing.T, items ...trade.OrderItem) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(trade.CustomerDetails{Name: "Asha", City: "Mysuru"}, items)
	require.NoError(t, err)
	order.ClearDomainEvents()
	return order
}

func newTestOrderService(repo *MockOrderRepository) (*OrderService, *capturingPublisher) {
	svc := NewOrderService(repo)
	publisher := &capturingPublisher{}
	svc.SetEventPublisher(publisher)
	return svc, publisher
}

func TestOrderService_Add(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	svc, _ := newTestOrderService(repo)

	repo.On("Save", mock.Anything, mock.AnythingOfType("*trade.Order")).Return(nil)

	order := &trade.Order{CustomerName: "Walk-in", Items: []trade.OrderItem{testItem(40, 1)}, Total: 40}
	resp, err := svc.Add(ctx, order)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.False(t, resp.Paid)
	assert.False(t, resp.Modified)
	assert.Equal(t, "Just now", resp.TimeAgo)
	repo.AssertExpectations(t)
}

func TestOrderService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		order := newStoredOrder(t, testItem(100, 2))
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		resp, err := svc.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(200), resp.Total)
		assert.Equal(t, "Mysuru", resp.FullAddress)
		assert.Contains(t, resp.MapsURL, "query=Mysuru")
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.GetByID(ctx, id)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("filters by status", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		order := newStoredOrder(t, testItem(100, 1))
		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(q trade.OrderQuery) bool {
			return q.Status != nil && *q.Status == trade.OrderStatusPending &&
				q.OrderBy == "created_at" && q.OrderDir == "desc"
		})).Return([]trade.Order{*order}, nil)

		resp, err := svc.List(ctx, OrderListFilter{Status: "pending"})
		require.NoError(t, err)
		assert.Len(t, resp, 1)
	})

	t.Run("without status lists everything", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(q trade.OrderQuery) bool {
			return q.Status == nil && q.PageSize == defaultOrderPageSize
		})).Return([]trade.Order{}, nil)

		resp, err := svc.List(ctx, OrderListFilter{})
		require.NoError(t, err)
		assert.Empty(t, resp)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		svc, _ := newTestOrderService(new(MockOrderRepository))
		_, err := svc.List(ctx, OrderListFilter{Status: "shipped"})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})
}

func TestOrderService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("merges status and paid", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, publisher := newTestOrderService(repo)
		order := newStoredOrder(t, testItem(100, 1))
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, order).Return(nil)

		paid := true
		status := "delivered"
		resp, err := svc.Update(ctx, order.ID, UpdateOrderRequest{Paid: &paid, Status: &status})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, "delivered", resp.Status)
		assert.True(t, resp.Paid)
		assert.Equal(t, []string{trade.EventTypeOrderStatusChanged, trade.EventTypeOrderPaymentChanged}, publisher.types)
	})

	t.Run("unknown order is a no-op", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, publisher := newTestOrderService(repo)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		paid := true
		resp, err := svc.Update(ctx, id, UpdateOrderRequest{Paid: &paid})
		require.NoError(t, err)
		assert.Nil(t, resp)
		assert.Empty(t, publisher.types)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("terminal status cannot move", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		order := newStoredOrder(t, testItem(100, 1))
		require.NoError(t, order.Cancel())
		order.ClearDomainEvents()
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		status := "delivered"
		_, err := svc.Update(ctx, order.ID, UpdateOrderRequest{Status: &status})
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("unchanged fields skip the write", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		order := newStoredOrder(t, testItem(100, 1))
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		paid := false
		resp, err := svc.Update(ctx, order.ID, UpdateOrderRequest{Paid: &paid})
		require.NoError(t, err)
		assert.False(t, resp.Paid)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and publishes", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, publisher := newTestOrderService(repo)
		order := newStoredOrder(t, testItem(100, 1))
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Delete", mock.Anything, order.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, order.ID))
		assert.Equal(t, []string{trade.EventTypeOrderDeleted}, publisher.types)
	})

	t.Run("unknown order is a no-op", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		require.NoError(t, svc.Delete(ctx, id))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestOrderService_StatusActions(t *testing.T) {
	ctx := context.Background()

	t.Run("deliver then cancel fails", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		order := newStoredOrder(t, testItem(100, 1))
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, order).Return(nil)

		resp, err := svc.Deliver(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "delivered", resp.Status)

		_, err = svc.Cancel(ctx, order.ID)
		assert.True(t, errors.Is(err, shared.ErrInvalidState))
		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("mark paid works on a cancelled order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		order := newStoredOrder(t, testItem(100, 1))
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, order).Return(nil)

		_, err := svc.Cancel(ctx, order.ID)
		require.NoError(t, err)
		resp, err := svc.MarkPaid(ctx, order.ID, true)
		require.NoError(t, err)
		assert.True(t, resp.Paid)
		assert.Equal(t, "cancelled", resp.Status)
	})

	t.Run("actions on unknown orders are not found", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.Deliver(ctx, id)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestOrderService_ItemEdits(t *testing.T) {
	ctx := context.Background()

	t.Run("remove recomputes total and flags modified", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, publisher := newTestOrderService(repo)
		first, second := testItem(100, 2), testItem(50, 1)
		order := newStoredOrder(t, first, second)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, order).Return(nil)

		resp, err := svc.RemoveItem(ctx, order.ID, first.Key())
		require.NoError(t, err)
		assert.Equal(t, int64(50), resp.Total)
		assert.True(t, resp.Modified)
		assert.Equal(t, []string{trade.EventTypeOrderItemsModified}, publisher.types)
	})

	t.Run("quantity below one is rejected", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		first := testItem(100, 2)
		order := newStoredOrder(t, first)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		_, err := svc.UpdateItemQuantity(ctx, order.ID, first.Key(), 0)
		assert.True(t, errors.Is(err, shared.ErrInvalidQuantity))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("quantity change recomputes total", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		first := testItem(100, 2)
		order := newStoredOrder(t, first)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, order).Return(nil)

		resp, err := svc.UpdateItemQuantity(ctx, order.ID, first.Key(), 3)
		require.NoError(t, err)
		assert.Equal(t, int64(300), resp.Total)
		assert.True(t, resp.Modified)
	})

	t.Run("save items persists the edited set after delivery", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, _ := newTestOrderService(repo)
		first := testItem(100, 2)
		order := newStoredOrder(t, first)
		require.NoError(t, order.Deliver())
		order.ClearDomainEvents()
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, mock.MatchedBy(func(o *trade.Order) bool {
			return o.Modified && o.Total == 150
		})).Return(nil)

		resp, err := svc.SaveItems(ctx, order.ID, SaveItemsRequest{Items: []OrderItemInput{{
			ProductID: first.ProductID,
			VariantID: first.VariantID,
			Name:      first.Name,
			Price:     50,
			Quantity:  3,
		}}})
		require.NoError(t, err)
		assert.Equal(t, int64(150), resp.Total)
		assert.Equal(t, "delivered", resp.Status)
		repo.AssertExpectations(t)
	})

	t.Run("save failure is returned", func(t *testing.T) {
		repo := new(MockOrderRepository)
		svc, publisher := newTestOrderService(repo)
		first := testItem(100, 2)
		order := newStoredOrder(t, first)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, order).Return(errors.New("connection reset"))

		_, err := svc.RemoveItem(ctx, order.ID, first.Key())
		assert.EqualError(t, err, "connection reset")
		assert.Empty(t, publisher.types)
	})
}

func TestToOrderResponse_TimeAgo(t *testing.T) {
	order := newStoredOrder(t, testItem(100, 1))
	resp := ToOrderResponse(order, order.CreatedAt.Add(3*time.Hour))
	assert.Equal(t, "3 hours ago", resp.TimeAgo)
	assert.Equal(t, "₹100", resp.TotalLabel)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, order.Items[0].Key(), resp.Items[0].Key)
}
