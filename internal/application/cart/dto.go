package cart

import (
	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/cart"
)

// AddItemRequest adds a product variant to the session cart.
// An empty VariantID selects the product's default variant.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	VariantID string    `json:"variant_id" binding:"max=100"`
	Quantity  int       `json:"quantity" binding:"max=1000"`
}

// UpdateQuantityRequest sets a line's quantity; below one removes the line
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"max=1000"`
}

// LineItemResponse represents a cart line in API responses
type LineItemResponse struct {
	Key          string    `json:"key"`
	ProductID    uuid.UUID `json:"product_id"`
	VariantID    string    `json:"variant_id"`
	VariantLabel string    `json:"variant_label"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	Image        string    `json:"image"`
	Quantity     int       `json:"quantity"`
	Subtotal     int64     `json:"subtotal"`
}

// CartResponse represents a session cart in API responses
type CartResponse struct {
	Items       []LineItemResponse `json:"items"`
	IsOpen      bool               `json:"is_open"`
	TotalItems  int                `json:"total_items"`
	TotalAmount int64              `json:"total_amount"`
	TotalLabel  string             `json:"total_label"`
}

// ToCartResponse converts a domain Cart to CartResponse
func ToCartResponse(c *cart.Cart) CartResponse {
	items := make([]LineItemResponse, 0, len(c.Items()))
	for _, item := range c.Items() {
		items = append(items, LineItemResponse{
			Key:          item.Key().String(),
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			VariantLabel: item.VariantLabel,
			Name:         item.Name,
			Price:        item.Price.Int64(),
			Image:        item.Image,
			Quantity:     item.Quantity,
			Subtotal:     item.Subtotal().Int64(),
		})
	}
	total := c.TotalAmount()
	return CartResponse{
		Items:       items,
		IsOpen:      c.IsOpen(),
		TotalItems:  c.TotalItems(),
		TotalAmount: total.Int64(),
		TotalLabel:  total.String(),
	}
}
