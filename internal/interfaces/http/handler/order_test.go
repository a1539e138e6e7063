package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/prakruthi/storefront/internal/application/trade"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/trade"
	"github.com/prakruthi/storefront/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupOrderRouter(repo *MockOrderRepository) *gin.Engine {
	h := NewOrderHandler(tradeapp.NewOrderService(repo))
	router := newTestEngine()
	orders := router.Group("/admin/orders")
	orders.GET("", h.List)
	orders.GET("/:id", h.GetByID)
	orders.PATCH("/:id", h.Update)
	orders.DELETE("/:id", h.Delete)
	orders.POST("/:id/paid", h.MarkPaid)
	orders.POST("/:id/deliver", h.Deliver)
	orders.POST("/:id/cancel", h.Cancel)
	orders.PUT("/:id/items", h.SaveItems)
	orders.PATCH("/:id/items/:key", h.UpdateItemQuantity)
	orders.DELETE("/:id/items/:key", h.RemoveItem)
	return router
}

func TestOrderHandler_List(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindAll", mock.Anything, mock.MatchedBy(func(q trade.OrderQuery) bool {
			return q.Status != nil && *q.Status == trade.OrderStatusPending
		})).Return([]trade.Order{*newTestOrder(t)}, nil)

		w := doJSON(t, setupOrderRouter(repo), http.MethodGet, "/admin/orders?status=pending", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var orders []tradeapp.OrderResponse
		decodeResponse(t, w, &orders)
		require.Len(t, orders, 1)
		assert.Equal(t, "Asha", orders[0].CustomerName)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		w := doJSON(t, setupOrderRouter(new(MockOrderRepository)), http.MethodGet, "/admin/orders?status=shipped", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_Transitions(t *testing.T) {
	t.Run("deliver a pending order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		order := newTestOrder(t)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		w := doJSON(t, setupOrderRouter(repo), http.MethodPost, "/admin/orders/"+order.ID.String()+"/deliver", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp tradeapp.OrderResponse
		decodeResponse(t, w, &resp)
		assert.Equal(t, string(trade.OrderStatusDelivered), resp.Status)
	})

	t.Run("terminal orders cannot move", func(t *testing.T) {
		repo := new(MockOrderRepository)
		order := newTestOrder(t)
		require.NoError(t, order.Cancel())
		order.ClearDomainEvents()
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := doJSON(t, setupOrderRouter(repo), http.MethodPost, "/admin/orders/"+order.ID.String()+"/deliver", nil)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w, nil).Error.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("actions on a missing order are 404", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		w := doJSON(t, setupOrderRouter(repo), http.MethodPost, "/admin/orders/"+uuid.NewString()+"/cancel", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestOrderHandler_Update(t *testing.T) {
	t.Run("missing order answers 204", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		w := doJSON(t, setupOrderRouter(repo), http.MethodPatch, "/admin/orders/"+uuid.NewString(), gin.H{"paid": true})
		assert.Equal(t, http.StatusNoContent, w.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("paid flag is independent of status", func(t *testing.T) {
		repo := new(MockOrderRepository)
		order := newTestOrder(t)
		require.NoError(t, order.Deliver())
		order.ClearDomainEvents()
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		w := doJSON(t, setupOrderRouter(repo), http.MethodPost, "/admin/orders/"+order.ID.String()+"/paid", gin.H{"paid": true})
		require.Equal(t, http.StatusOK, w.Code)

		var resp tradeapp.OrderResponse
		decodeResponse(t, w, &resp)
		assert.True(t, resp.Paid)
		assert.Equal(t, string(trade.OrderStatusDelivered), resp.Status)
	})

	t.Run("paid is required", func(t *testing.T) {
		w := doJSON(t, setupOrderRouter(new(MockOrderRepository)), http.MethodPost, "/admin/orders/"+uuid.NewString()+"/paid", gin.H{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOrderHandler_ItemEdits(t *testing.T) {
	t.Run("quantity change recomputes the total", func(t *testing.T) {
		repo := new(MockOrderRepository)
		order := newTestOrder(t)
		key := order.Items[0].Key()
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)
		repo.On("Save", mock.Anything, mock.Anything).Return(nil)

		w := doJSON(t, setupOrderRouter(repo), http.MethodPatch,
			"/admin/orders/"+order.ID.String()+"/items/"+key, gin.H{"quantity": 5})
		require.Equal(t, http.StatusOK, w.Code)

		var resp tradeapp.OrderResponse
		decodeResponse(t, w, &resp)
		assert.Equal(t, int64(1400), resp.Total)
		assert.True(t, resp.Modified)
	})

	t.Run("quantity below one is refused", func(t *testing.T) {
		repo := new(MockOrderRepository)
		order := newTestOrder(t)
		repo.On("FindByID", mock.Anything, order.ID).Return(order, nil)

		w := doJSON(t, setupOrderRouter(repo), http.MethodPatch,
			"/admin/orders/"+order.ID.String()+"/items/"+order.Items[0].Key(), gin.H{"quantity": 0})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestOrderHandler_Delete(t *testing.T) {
	repo := new(MockOrderRepository)
	repo.On("FindByID", mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

	w := doJSON(t, setupOrderRouter(repo), http.MethodDelete, "/admin/orders/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
