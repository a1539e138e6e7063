package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
)

// DefaultVariantLabel is the label given to a synthesized single variant
const DefaultVariantLabel = "Default"

// VariantStock is the inventory mode of a variant: either a tracked count
// or untracked. The zero value is Untracked.
type VariantStock struct {
	tracked bool
	count   int
}

// Tracked returns a stock value with an explicit count. Negative counts are stored as zero.
func Tracked(count int) VariantStock {
	if count < 0 {
		count = 0
	}
	return VariantStock{tracked: true, count: count}
}

// Untracked returns a stock value without a count
func Untracked() VariantStock {
	return VariantStock{}
}

// IsTracked returns true if the variant keeps a stock count
func (s VariantStock) IsTracked() bool {
	return s.tracked
}

// Count returns the tracked count. ok is false for untracked stock.
func (s VariantStock) Count() (count int, ok bool) {
	return s.count, s.tracked
}

// Available reports whether the stock allows selling.
// Tracked stock is available while its count is positive; untracked stock always is,
// leaving the product-level flag as the only gate.
func (s VariantStock) Available() bool {
	if !s.tracked {
		return true
	}
	return s.count > 0
}

// Ptr returns the count as a pointer, nil when untracked
func (s VariantStock) Ptr() *int {
	if !s.tracked {
		return nil
	}
	c := s.count
	return &c
}

// StockFromPtr converts an optional count into a VariantStock
func StockFromPtr(count *int) VariantStock {
	if count == nil {
		return Untracked()
	}
	return Tracked(*count)
}

// Variant is a priced, optionally stocked option of a product (e.g. a size)
type Variant struct {
	ID    string
	Label string
	Price valueobject.Money
	Stock VariantStock
}

// NewVariant creates a validated variant. An empty id is replaced with a generated one.
func NewVariant(id, label string, price valueobject.Money, stock VariantStock) (Variant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		id = uuid.NewString()
	}
	label = strings.TrimSpace(label)
	if label == "" {
		return Variant{}, shared.NewDomainError("INVALID_VARIANT", "Variant label cannot be empty")
	}
	if price.IsNegative() {
		return Variant{}, shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	return Variant{ID: id, Label: label, Price: price, Stock: stock}, nil
}

// IsAvailable returns true if the variant can be sold
func (v Variant) IsAvailable() bool {
	return v.Stock.Available()
}

func validateVariants(variants []Variant) error {
	if len(variants) == 0 {
		return shared.NewDomainError("INVALID_VARIANT", "Product must have at least one variant")
	}
	seen := make(map[string]struct{}, len(variants))
	for _, v := range variants {
		if _, dup := seen[v.ID]; dup {
			return shared.NewDomainError("DUPLICATE_VARIANT", "Variant ids must be unique within a product")
		}
		seen[v.ID] = struct{}{}
		if v.Price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
		}
	}
	return nil
}
