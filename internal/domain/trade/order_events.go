package trade

import (
	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced         = "OrderPlaced"
	EventTypeOrderStatusChanged  = "OrderStatusChanged"
	EventTypeOrderPaymentChanged = "OrderPaymentChanged"
	EventTypeOrderItemsModified  = "OrderItemsModified"
	EventTypeOrderDeleted        = "OrderDeleted"
)

// OrderPlacedEvent is raised when a customer submits checkout
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID         `json:"order_id"`
	CustomerName string            `json:"customer_name"`
	ItemCount    int               `json:"item_count"`
	Total        valueobject.Money `json:"total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		CustomerName:    order.CustomerName,
		ItemCount:       len(order.Items),
		Total:           order.Total,
	}
}

// OrderStatusChangedEvent is raised on delivered/cancelled transitions
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID   `json:"order_id"`
	From    OrderStatus `json:"from"`
	To      OrderStatus `json:"to"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		From:            from,
		To:              order.Status,
	}
}

// OrderPaymentChangedEvent is raised when the paid flag flips
type OrderPaymentChangedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Paid    bool      `json:"paid"`
}

// NewOrderPaymentChangedEvent creates a new OrderPaymentChangedEvent
func NewOrderPaymentChangedEvent(order *Order) *OrderPaymentChangedEvent {
	return &OrderPaymentChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Paid:            order.Paid,
	}
}

// OrderItemsModifiedEvent is raised when staff edit the line items
type OrderItemsModifiedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID         `json:"order_id"`
	ItemCount int               `json:"item_count"`
	Total     valueobject.Money `json:"total"`
}

// NewOrderItemsModifiedEvent creates a new OrderItemsModifiedEvent
func NewOrderItemsModifiedEvent(order *Order) *OrderItemsModifiedEvent {
	return &OrderItemsModifiedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderItemsModified, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		ItemCount:       len(order.Items),
		Total:           order.Total,
	}
}

// OrderDeletedEvent is raised when an order is removed
type OrderDeletedEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID   `json:"order_id"`
	Status  OrderStatus `json:"status"`
}

// NewOrderDeletedEvent creates a new OrderDeletedEvent
func NewOrderDeletedEvent(order *Order) *OrderDeletedEvent {
	return &OrderDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDeleted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		Status:          order.Status,
	}
}
