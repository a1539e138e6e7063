package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	cartapp "github.com/prakruthi/storefront/internal/application/cart"
	"github.com/prakruthi/storefront/internal/interfaces/http/middleware"
)

// CartHandler handles the session cart. The session id comes from the
// CartSession middleware.
type CartHandler struct {
	BaseHandler
	cartService *cartapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @Summary      Get the session cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	h.respond(c)(h.cartService.Get(c.Request.Context(), middleware.GetCartSession(c)))
}

// AddItem godoc
// @Summary      Add a product variant to the cart
// @Description  Increments an existing line. Name, label, price and image are copied from the catalog.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cartapp.AddItemRequest true "Item"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c)(h.cartService.AddItem(c.Request.Context(), middleware.GetCartSession(c), req))
}

// UpdateQuantity godoc
// @Summary      Set a line's quantity
// @Description  A quantity below one removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        key     path string true "Line key <productId>-<variantId>"
// @Param        request body cartapp.UpdateQuantityRequest true "Quantity"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart/items/{key} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req cartapp.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	h.respond(c)(h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetCartSession(c), c.Param("key"), req.Quantity))
}

// RemoveItem godoc
// @Summary      Remove a line
// @Tags         cart
// @Produce      json
// @Param        key path string true "Line key"
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart/items/{key} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	h.respond(c)(h.cartService.RemoveItem(c.Request.Context(), middleware.GetCartSession(c), c.Param("key")))
}

// Open shows the cart panel
func (h *CartHandler) Open(c *gin.Context) {
	h.visibility(c, h.cartService.Open)
}

// Close hides the cart panel
func (h *CartHandler) Close(c *gin.Context) {
	h.visibility(c, h.cartService.Close)
}

// Toggle flips the cart panel
func (h *CartHandler) Toggle(c *gin.Context) {
	h.visibility(c, h.cartService.Toggle)
}

// Clear godoc
// @Summary      Empty and close the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=cartapp.CartResponse}
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	h.respond(c)(h.cartService.Clear(c.Request.Context(), middleware.GetCartSession(c)))
}

func (h *CartHandler) visibility(c *gin.Context, fn func(ctx context.Context, sessionID string) (*cartapp.CartResponse, error)) {
	h.respond(c)(fn(c.Request.Context(), middleware.GetCartSession(c)))
}

func (h *CartHandler) respond(c *gin.Context) func(*cartapp.CartResponse, error) {
	return func(resp *cartapp.CartResponse, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
	}
}
