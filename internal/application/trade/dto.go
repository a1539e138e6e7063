package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
	"github.com/prakruthi/storefront/internal/domain/trade"
)

// CheckoutRequest is the checkout form. Only the name is required; it is
// checked after trimming so a blank name is reported on customerName.
type CheckoutRequest struct {
	CustomerName string `json:"customer_name" binding:"max=200"`
	Phone        string `json:"phone" binding:"max=50"`
	Street       string `json:"street" binding:"max=500"`
	City         string `json:"city" binding:"max=100"`
	State        string `json:"state" binding:"max=100"`
	Pincode      string `json:"pincode" binding:"max=20"`
}

// OrderItemInput is one line of an edited item set
type OrderItemInput struct {
	ProductID    uuid.UUID `json:"product_id" binding:"required"`
	VariantID    string    `json:"variant_id" binding:"required,max=100"`
	VariantLabel string    `json:"variant_label" binding:"max=100"`
	Name         string    `json:"name" binding:"required,max=200"`
	Price        int64     `json:"price" binding:"min=0"`
	Quantity     int       `json:"quantity" binding:"max=1000"`
}

// UpdateOrderRequest merges the given fields into an order
type UpdateOrderRequest struct {
	Paid   *bool            `json:"paid"`
	Status *string          `json:"status" binding:"omitempty,oneof=pending delivered cancelled"`
	Items  []OrderItemInput `json:"items" binding:"omitempty,dive"`
}

// SaveItemsRequest replaces an order's item set
type SaveItemsRequest struct {
	Items []OrderItemInput `json:"items" binding:"dive"`
}

// UpdateItemQuantityRequest sets the quantity of one order line
type UpdateItemQuantityRequest struct {
	Quantity int `json:"quantity" binding:"max=1000"`
}

// MarkPaidRequest sets the paid flag
type MarkPaidRequest struct {
	Paid *bool `json:"paid" binding:"required"`
}

// OrderListFilter represents order listing query parameters
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=500"`
}

// AddressResponse represents a delivery address
type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	Key          string    `json:"key"`
	ProductID    uuid.UUID `json:"product_id"`
	VariantID    string    `json:"variant_id"`
	VariantLabel string    `json:"variant_label"`
	Name         string    `json:"name"`
	Price        int64     `json:"price"`
	Quantity     int       `json:"quantity"`
	Amount       int64     `json:"amount"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	CustomerID   *uuid.UUID          `json:"customer_id,omitempty"`
	CustomerName string              `json:"customer_name"`
	Phone        string              `json:"phone"`
	Address      AddressResponse     `json:"address"`
	FullAddress  string              `json:"full_address"`
	MapsURL      string              `json:"maps_url,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	ItemCount    int                 `json:"item_count"`
	Total        int64               `json:"total"`
	TotalLabel   string              `json:"total_label"`
	Status       string              `json:"status"`
	Paid         bool                `json:"paid"`
	Modified     bool                `json:"modified"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	TimeAgo      string              `json:"time_ago"`
}

// ToOrderResponse converts a domain Order to OrderResponse, labelling its age relative to now
func ToOrderResponse(o *trade.Order, now time.Time) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			Key:          item.Key(),
			ProductID:    item.ProductID,
			VariantID:    item.VariantID,
			VariantLabel: item.VariantLabel,
			Name:         item.Name,
			Price:        item.Price.Int64(),
			Quantity:     item.Quantity,
			Amount:       item.Amount().Int64(),
		}
	}

	response := OrderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address: AddressResponse{
			Street:  o.Address.Street(),
			City:    o.Address.City(),
			State:   o.Address.State(),
			Pincode: o.Address.Pincode(),
		},
		FullAddress: o.FullAddress(),
		Items:       items,
		ItemCount:   o.ItemCount(),
		Total:       o.Total.Int64(),
		TotalLabel:  o.Total.String(),
		Status:      string(o.Status),
		Paid:        o.Paid,
		Modified:    o.Modified,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		TimeAgo:     shared.TimeAgo(o.CreatedAt, now),
	}
	if !o.Address.IsEmpty() {
		response.MapsURL = o.MapsURL()
	}
	return response
}

// ToOrderResponses converts a list of orders
func ToOrderResponses(orders []trade.Order, now time.Time) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i], now)
	}
	return responses
}

func toOrderItems(inputs []OrderItemInput) []trade.OrderItem {
	items := make([]trade.OrderItem, len(inputs))
	for i, in := range inputs {
		items[i] = trade.OrderItem{
			ProductID:    in.ProductID,
			VariantID:    in.VariantID,
			VariantLabel: in.VariantLabel,
			Name:         in.Name,
			Price:        valueobject.Money(in.Price),
			Quantity:     in.Quantity,
		}
	}
	return items
}
