package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/prakruthi/storefront/internal/application/trade"
)

// OrderHandler handles the admin order book
type OrderHandler struct {
	BaseHandler
	orderService *tradeapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *tradeapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List godoc
// @Summary      List orders
// @Description  Newest first, optionally filtered by status
// @Tags         admin-orders
// @Produce      json
// @Param        status query string false "pending, delivered or cancelled"
// @Success      200 {object} dto.Response{data=[]tradeapp.OrderResponse}
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter tradeapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByID godoc
// @Summary      Get an order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	h.withOrder(c, h.orderService.GetByID)
}

// Update godoc
// @Summary      Merge fields into an order
// @Description  Updating a missing order does nothing and answers 204
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body tradeapp.UpdateOrderRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Success      204
// @Security     BearerAuth
// @Router       /admin/orders/{id} [patch]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req tradeapp.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if order == nil {
		h.NoContent(c)
		return
	}
	h.Success(c, order)
}

// Delete godoc
// @Summary      Delete an order
// @Tags         admin-orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /admin/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkPaid godoc
// @Summary      Set the paid flag
// @Description  Allowed in any status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body tradeapp.MarkPaidRequest true "Paid"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/paid [post]
func (h *OrderHandler) MarkPaid(c *gin.Context) {
	var req tradeapp.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.withOrder(c, func(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
		return h.orderService.MarkPaid(ctx, id, *req.Paid)
	})
}

// Deliver godoc
// @Summary      Mark a pending order delivered
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/deliver [post]
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.withOrder(c, h.orderService.Deliver)
}

// Cancel godoc
// @Summary      Cancel a pending order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.withOrder(c, h.orderService.Cancel)
}

// SaveItems godoc
// @Summary      Save an edited item set
// @Description  Recomputes the total and marks the order modified
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        request body tradeapp.SaveItemsRequest true "Items"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/items [put]
func (h *OrderHandler) SaveItems(c *gin.Context) {
	var req tradeapp.SaveItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.withOrder(c, func(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
		return h.orderService.SaveItems(ctx, id, req)
	})
}

// UpdateItemQuantity godoc
// @Summary      Set the quantity of one order line
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID" format(uuid)
// @Param        key     path string true "Line key"
// @Param        request body tradeapp.UpdateItemQuantityRequest true "Quantity"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/items/{key} [patch]
func (h *OrderHandler) UpdateItemQuantity(c *gin.Context) {
	var req tradeapp.UpdateItemQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.withOrder(c, func(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
		return h.orderService.UpdateItemQuantity(ctx, id, c.Param("key"), req.Quantity)
	})
}

// RemoveItem godoc
// @Summary      Remove one order line
// @Tags         admin-orders
// @Produce      json
// @Param        id  path string true "Order ID" format(uuid)
// @Param        key path string true "Line key"
// @Success      200 {object} dto.Response{data=tradeapp.OrderResponse}
// @Security     BearerAuth
// @Router       /admin/orders/{id}/items/{key} [delete]
func (h *OrderHandler) RemoveItem(c *gin.Context) {
	h.withOrder(c, func(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
		return h.orderService.RemoveItem(ctx, id, c.Param("key"))
	})
}

func (h *OrderHandler) withOrder(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	order, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
