// Package cart holds the session-scoped shopping cart.
//
// A Cart is a plain state container: it is created per browsing session, owned by
// whoever loaded it from a SessionStore, and reset explicitly after checkout or on
// logout. Line items are copies taken at add time, so later catalog edits never
// change what is already in a cart.
package cart

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
)

// LineKey identifies a line item by product and variant
type LineKey struct {
	ProductID uuid.UUID
	VariantID string
}

// String returns the textual key "<productId>-<variantId>"
func (k LineKey) String() string {
	return k.ProductID.String() + "-" + k.VariantID
}

// ParseLineKey parses the textual form produced by LineKey.String
func ParseLineKey(s string) (LineKey, error) {
	const uuidLen = 36
	if len(s) < uuidLen+2 || s[uuidLen] != '-' {
		return LineKey{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid line key %q", s))
	}
	productID, err := uuid.Parse(s[:uuidLen])
	if err != nil {
		return LineKey{}, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("invalid line key %q", s))
	}
	return LineKey{ProductID: productID, VariantID: s[uuidLen+1:]}, nil
}

// LineItem is a denormalized snapshot of a product variant with a quantity
type LineItem struct {
	ProductID    uuid.UUID         `json:"productId"`
	VariantID    string            `json:"variantId"`
	VariantLabel string            `json:"variantLabel"`
	Name         string            `json:"name"`
	Price        valueobject.Money `json:"price"`
	Image        string            `json:"image"`
	Quantity     int               `json:"quantity"`
}

// Key returns the composite key of the item
func (i LineItem) Key() LineKey {
	return LineKey{ProductID: i.ProductID, VariantID: i.VariantID}
}

// Subtotal returns price times quantity
func (i LineItem) Subtotal() valueobject.Money {
	return i.Price.Times(i.Quantity)
}

// Cart is the state of one shopping session.
// Every mutation builds a new item slice and swaps it in, so a slice returned by
// Items is never modified afterwards.
type Cart struct {
	items []LineItem
	open  bool
}

// New returns an empty, closed cart
func New() *Cart {
	return &Cart{items: []LineItem{}}
}

// AddItem adds quantity of the item's variant. An existing line with the same key
// has its quantity increased; otherwise the item is appended. Adding to an empty
// cart opens it. Quantities below 1 count as 1. A line above MaxQuantity or a
// total that no longer fits is refused and leaves the cart unchanged.
func (c *Cart) AddItem(item LineItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	wasEmpty := len(c.items) == 0

	next := make([]LineItem, 0, len(c.items)+1)
	merged := false
	for _, existing := range c.items {
		if existing.Key() == item.Key() {
			existing.Quantity += item.Quantity
			merged = true
		}
		next = append(next, existing)
	}
	if !merged {
		next = append(next, item)
	}
	if err := checkLines(next); err != nil {
		return err
	}
	c.items = next

	if wasEmpty {
		c.open = true
	}
	return nil
}

// UpdateQuantity sets the quantity of a line exactly. A quantity below 1 removes the line.
// Unknown keys are ignored. Quantities above MaxQuantity are refused.
func (c *Cart) UpdateQuantity(key LineKey, quantity int) error {
	if quantity < 1 {
		c.RemoveItem(key)
		return nil
	}
	next := make([]LineItem, 0, len(c.items))
	for _, existing := range c.items {
		if existing.Key() == key {
			existing.Quantity = quantity
		}
		next = append(next, existing)
	}
	if err := checkLines(next); err != nil {
		return err
	}
	c.items = next
	return nil
}

// checkLines bounds every quantity and makes sure the cart total fits in Money
func checkLines(items []LineItem) error {
	var total valueobject.Money
	for _, i := range items {
		if i.Quantity > shared.MaxQuantity {
			return shared.ErrQuantityTooLarge
		}
		subtotal, ok := i.Price.CheckedTimes(i.Quantity)
		if !ok {
			return shared.ErrAmountTooLarge
		}
		if total, ok = total.CheckedAdd(subtotal); !ok {
			return shared.ErrAmountTooLarge
		}
	}
	return nil
}

// RemoveItem removes a line; unknown keys are ignored
func (c *Cart) RemoveItem(key LineKey) {
	next := make([]LineItem, 0, len(c.items))
	for _, existing := range c.items {
		if existing.Key() != key {
			next = append(next, existing)
		}
	}
	c.items = next
}

// Open makes the cart visible
func (c *Cart) Open() {
	c.open = true
}

// Close hides the cart
func (c *Cart) Close() {
	c.open = false
}

// Toggle flips visibility
func (c *Cart) Toggle() {
	c.open = !c.open
}

// Clear empties and closes the cart
func (c *Cart) Clear() {
	c.items = []LineItem{}
	c.open = false
}

// Items returns the current line items
func (c *Cart) Items() []LineItem {
	return c.items
}

// Item returns the line with the given key
func (c *Cart) Item(key LineKey) (LineItem, bool) {
	for _, i := range c.items {
		if i.Key() == key {
			return i, true
		}
	}
	return LineItem{}, false
}

// IsOpen returns the visibility state
func (c *Cart) IsOpen() bool {
	return c.open
}

// IsEmpty returns true if the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// TotalItems returns the sum of quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, i := range c.items {
		total += i.Quantity
	}
	return total
}

// TotalAmount returns the sum of price times quantity
func (c *Cart) TotalAmount() valueobject.Money {
	var total valueobject.Money
	for _, i := range c.items {
		total += i.Subtotal()
	}
	return total
}

// Snapshot is the serializable form of a cart
type Snapshot struct {
	Items []LineItem `json:"items"`
	Open  bool       `json:"isOpen"`
}

// Snapshot returns the serializable state
func (c *Cart) Snapshot() Snapshot {
	return Snapshot{Items: c.items, Open: c.open}
}

// FromSnapshot rebuilds a cart from serialized state, dropping lines with
// non-positive or oversized quantities and merging duplicate keys.
func FromSnapshot(s Snapshot) *Cart {
	c := New()
	for _, item := range s.Items {
		if item.Quantity < 1 || strings.TrimSpace(item.VariantID) == "" {
			continue
		}
		// oversized lines are dropped
		_ = c.AddItem(item)
	}
	c.open = s.Open
	return c
}
