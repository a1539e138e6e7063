package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// IsTerminal returns true if no further status change is possible
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// OrderItem is an immutable snapshot of a purchased variant
type OrderItem struct {
	ProductID    uuid.UUID
	VariantID    string
	VariantLabel string
	Name         string
	Price        valueobject.Money
	Quantity     int
}

// Key returns "<productId>-<variantId>", the same key the cart uses
func (i OrderItem) Key() string {
	return i.ProductID.String() + "-" + i.VariantID
}

// Amount returns price times quantity
func (i OrderItem) Amount() valueobject.Money {
	return i.Price.Times(i.Quantity)
}

// CustomerDetails holds the checkout form input
type CustomerDetails struct {
	CustomerID *uuid.UUID // linked identity, nil for guests
	Name       string
	Phone      string
	Street     string
	City       string
	State      string
	Pincode    string
}

// Order represents a placed order aggregate root
type Order struct {
	shared.BaseAggregateRoot
	CustomerID   *uuid.UUID
	CustomerName string
	Phone        string
	Address      valueobject.Address
	Items        []OrderItem
	Total        valueobject.Money
	Status       OrderStatus
	Paid         bool
	Modified     bool
}

// NewOrder creates a pending, unpaid, unmodified order from checkout input.
// The customer name is required after trimming; all other fields are optional.
func NewOrder(details CustomerDetails, items []OrderItem) (*Order, error) {
	name := strings.TrimSpace(details.Name)
	if name == "" {
		return nil, shared.NewValidationError("customerName", "Name is required")
	}
	if len(items) == 0 {
		return nil, shared.ErrCartEmpty
	}
	if err := validateItems(items); err != nil {
		return nil, err
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        details.CustomerID,
		CustomerName:      name,
		Phone:             strings.TrimSpace(details.Phone),
		Address:           valueobject.NewAddress(details.Street, details.City, details.State, details.Pincode),
		Items:             append([]OrderItem(nil), items...),
		Status:            OrderStatusPending,
	}
	order.recalculateTotal()

	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

// ApplyDefaults fills the fields a new record must have: id, creation time and pending status.
// paid and modified default to false by zero value.
func (o *Order) ApplyDefaults() {
	now := time.Now()
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	if o.Items == nil {
		o.Items = make([]OrderItem, 0)
	}
}

// OrderUpdate is a partial update; nil fields are left unchanged
type OrderUpdate struct {
	Paid   *bool
	Status *OrderStatus
	Items  []OrderItem
}

// IsEmpty returns true if the update changes nothing
func (u OrderUpdate) IsEmpty() bool {
	return u.Paid == nil && u.Status == nil && u.Items == nil
}

// Apply merges the update into the order
func (o *Order) Apply(u OrderUpdate) error {
	if u.Status != nil && *u.Status != o.Status {
		if err := o.TransitionTo(*u.Status); err != nil {
			return err
		}
	}
	if u.Items != nil {
		if err := o.ReplaceItems(u.Items); err != nil {
			return err
		}
	}
	if u.Paid != nil {
		o.SetPaid(*u.Paid)
	}
	return nil
}

// SetPaid sets the paid flag. It is independent of the status.
func (o *Order) SetPaid(paid bool) {
	if o.Paid == paid {
		return
	}
	o.Paid = paid
	o.Touch()
	o.AddDomainEvent(NewOrderPaymentChangedEvent(o))
}

// Deliver marks a pending order as delivered
func (o *Order) Deliver() error {
	return o.TransitionTo(OrderStatusDelivered)
}

// Cancel cancels a pending order
func (o *Order) Cancel() error {
	return o.TransitionTo(OrderStatusCancelled)
}

// TransitionTo moves the order to the target status if the state machine allows it
func (o *Order) TransitionTo(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	from := o.Status
	o.Status = target
	o.Touch()
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from))

	return nil
}

// UpdateItemQuantity sets the quantity of one line. Quantities below 1 or above
// MaxQuantity are rejected; removing a line goes through RemoveItem.
func (o *Order) UpdateItemQuantity(key string, quantity int) error {
	if quantity < 1 {
		return shared.ErrInvalidQuantity
	}
	idx := o.itemIndex(key)
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", "Order item not found")
	}

	items := append([]OrderItem(nil), o.Items...)
	items[idx].Quantity = quantity
	if err := validateItems(items); err != nil {
		return err
	}
	o.setItems(items)

	return nil
}

// RemoveItem removes one line from the order
func (o *Order) RemoveItem(key string) error {
	idx := o.itemIndex(key)
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", "Order item not found")
	}

	items := make([]OrderItem, 0, len(o.Items)-1)
	items = append(items, o.Items[:idx]...)
	items = append(items, o.Items[idx+1:]...)
	o.setItems(items)

	return nil
}

// ReplaceItems swaps in an edited item set. Staff edits are allowed in any status.
func (o *Order) ReplaceItems(items []OrderItem) error {
	if err := validateItems(items); err != nil {
		return err
	}
	o.setItems(append([]OrderItem(nil), items...))
	return nil
}

// setItems stores a new item set, recomputes the total and flags the order as modified
func (o *Order) setItems(items []OrderItem) {
	o.Items = items
	o.recalculateTotal()
	o.Modified = true
	o.Touch()
	o.AddDomainEvent(NewOrderItemsModifiedEvent(o))
}

// recalculateTotal recalculates the order total from the current items
func (o *Order) recalculateTotal() {
	var total valueobject.Money
	for _, item := range o.Items {
		total += item.Amount()
	}
	o.Total = total
}

// MarkDeleted records the deletion event
func (o *Order) MarkDeleted() {
	o.AddDomainEvent(NewOrderDeletedEvent(o))
}

func (o *Order) itemIndex(key string) int {
	for i := range o.Items {
		if o.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

// Item returns the line with the given key
func (o *Order) Item(key string) (OrderItem, bool) {
	idx := o.itemIndex(key)
	if idx < 0 {
		return OrderItem{}, false
	}
	return o.Items[idx], true
}

// ItemCount returns the number of lines
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of quantities
func (o *Order) TotalQuantity() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// IsPending returns true if the order awaits fulfillment
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// FullAddress returns the delivery address on one line
func (o *Order) FullAddress() string {
	return o.Address.FullAddress()
}

// MapsURL returns a map search link for the delivery address
func (o *Order) MapsURL() string {
	return o.Address.MapsURL()
}

// validateItems checks quantities, prices and unique keys, and that the order
// total fits in Money
func validateItems(items []OrderItem) error {
	seen := make(map[string]struct{}, len(items))
	var total valueobject.Money
	for _, item := range items {
		if item.Quantity < 1 {
			return shared.ErrInvalidQuantity
		}
		if item.Quantity > shared.MaxQuantity {
			return shared.ErrQuantityTooLarge
		}
		if item.Price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Item price cannot be negative")
		}
		if _, dup := seen[item.Key()]; dup {
			return shared.NewDomainError("DUPLICATE_ITEM", "Each variant may appear only once in an order")
		}
		seen[item.Key()] = struct{}{}

		amount, ok := item.Price.CheckedTimes(item.Quantity)
		if !ok {
			return shared.ErrAmountTooLarge
		}
		if total, ok = total.CheckedAdd(amount); !ok {
			return shared.ErrAmountTooLarge
		}
	}
	return nil
}
