package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/prakruthi/storefront/internal/application/trade"
	"github.com/prakruthi/storefront/internal/interfaces/http/middleware"
)

// CheckoutHandler turns the session cart into an order
type CheckoutHandler struct {
	BaseHandler
	checkoutService *tradeapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *tradeapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// PlaceOrder godoc
// @Summary      Place an order from the session cart
// @Description  The order is stored first and the cart is cleared only after the write succeeds.
// @Description  A signed-in customer is linked to the order.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body tradeapp.CheckoutRequest true "Customer details"
// @Success      201 {object} dto.Response{data=tradeapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /checkout [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	var req tradeapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	var customerID *uuid.UUID
	if id, ok := middleware.GetAuthenticatedUserID(c); ok {
		customerID = &id
	}

	order, err := h.checkoutService.PlaceOrder(c.Request.Context(), middleware.GetCartSession(c), req, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}
