package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
)

const (
	// DefaultImageURL is used when a product is saved without an image
	DefaultImageURL = "https://images.unsplash.com/photo-1542838132-92c53300491e?w=400"

	// LegacyStockInStock is the stock assumed for records saved before stock counts existed
	LegacyStockInStock = 10

	// LowStockThreshold marks products that need restocking soon
	LowStockThreshold = 5

	priceRangePrefix = "From "
)

// Product represents a storefront product with one or more variants.
// It is the aggregate root for catalog operations.
//
// Stock is the product-level aggregate. When any variant is tracked it is the
// sum of tracked counts; when every variant is untracked it is the flat count
// maintained through SetAggregateStock. InStock is the visibility flag and is
// re-derived from availability on every stock change.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Category    string
	Description string
	ImageURL    string
	Variants    []Variant
	InStock     bool
	BestSelling bool
	Stock       int
}

// ProductDetails carries the descriptive fields of a new product
type ProductDetails struct {
	Name        string
	Category    string
	Description string
	ImageURL    string
	BestSelling bool
}

// NewProduct creates a product priced and stocked through a single default variant
func NewProduct(details ProductDetails, price valueobject.Money, stock int) (*Product, error) {
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	id := uuid.New()
	variant, err := NewVariant(DefaultVariantID(id), DefaultVariantLabel, price, Tracked(stock))
	if err != nil {
		return nil, err
	}
	return newProduct(id, details, []Variant{variant})
}

// NewProductWithVariants creates a product with an explicit variant list
func NewProductWithVariants(details ProductDetails, variants []Variant) (*Product, error) {
	return newProduct(uuid.New(), details, variants)
}

func newProduct(id uuid.UUID, details ProductDetails, variants []Variant) (*Product, error) {
	name := strings.TrimSpace(details.Name)
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateVariants(variants); err != nil {
		return nil, err
	}

	root := shared.NewBaseAggregateRoot()
	root.ID = id

	product := &Product{
		BaseAggregateRoot: root,
		Name:              name,
		Category:          strings.TrimSpace(details.Category),
		Description:       strings.TrimSpace(details.Description),
		ImageURL:          imageOrDefault(details.ImageURL),
		Variants:          append([]Variant(nil), variants...),
		BestSelling:       details.BestSelling,
	}
	product.rederiveStock()

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// DefaultVariantID returns the id of the synthesized variant of a product
func DefaultVariantID(productID uuid.UUID) string {
	return productID.String() + "-default"
}

// RestoreLegacyProduct rebuilds a product stored with flat price/stock fields and no variants.
// A missing stock count is inferred from the visibility flag.
func RestoreLegacyProduct(p *Product, price valueobject.Money, stock *int) {
	if stock == nil {
		legacy := 0
		if p.InStock {
			legacy = LegacyStockInStock
		}
		stock = &legacy
	}
	if len(p.Variants) == 0 {
		p.Variants = []Variant{{
			ID:    DefaultVariantID(p.ID),
			Label: DefaultVariantLabel,
			Price: price,
			Stock: Untracked(),
		}}
	}
	if !p.HasTrackedVariants() {
		p.Stock = *stock
	}
}

// ProductUpdate is a partial update; nil fields are left unchanged
type ProductUpdate struct {
	Name        *string
	Category    *string
	Description *string
	ImageURL    *string
	BestSelling *bool
	Price       *valueobject.Money
	Variants    []Variant
	Stock       *int
	InStock     *bool
}

// Apply merges the update into the product.
// Stock changes re-derive availability; an explicit InStock is applied last and can only
// hide a product that has stock, never show one that has none.
func (p *Product) Apply(u ProductUpdate) error {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if err := validateProductName(name); err != nil {
			return err
		}
		p.Name = name
	}
	if u.Category != nil {
		p.Category = strings.TrimSpace(*u.Category)
	}
	if u.Description != nil {
		p.Description = strings.TrimSpace(*u.Description)
	}
	if u.ImageURL != nil {
		p.ImageURL = imageOrDefault(*u.ImageURL)
	}
	if u.BestSelling != nil {
		p.BestSelling = *u.BestSelling
	}
	if u.Variants != nil {
		if err := p.ReplaceVariants(u.Variants); err != nil {
			return err
		}
	}
	if u.Price != nil {
		if err := p.SetPrice(*u.Price); err != nil {
			return err
		}
	}
	if u.Stock != nil {
		if err := p.SetAggregateStock(*u.Stock); err != nil {
			return err
		}
	}
	if u.InStock != nil {
		p.SetVisibility(*u.InStock)
	}

	p.Touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// ReplaceVariants swaps in a new variant list and re-derives stock
func (p *Product) ReplaceVariants(variants []Variant) error {
	if err := validateVariants(variants); err != nil {
		return err
	}
	p.Variants = append([]Variant(nil), variants...)
	p.rederiveStock()
	p.Touch()
	return nil
}

// SetPrice sets the flat price of a single-variant product
func (p *Product) SetPrice(price valueobject.Money) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if len(p.Variants) != 1 {
		return shared.NewDomainError("INVALID_STATE", "Price is set per variant on multi-variant products")
	}
	p.Variants[0].Price = price
	p.Touch()
	return nil
}

// SetAggregateStock sets the product-level stock count and recomputes InStock as stock > 0.
// On a single tracked variant the count is written through to that variant; a product
// tracking several variants rejects a flat count.
func (p *Product) SetAggregateStock(stock int) error {
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	tracked := p.trackedVariantIndexes()
	switch {
	case len(tracked) == 0:
		p.Stock = stock
		p.InStock = stock > 0
	case len(tracked) == 1 && len(p.Variants) == 1:
		p.Variants[tracked[0]].Stock = Tracked(stock)
		p.rederiveStock()
	default:
		return shared.NewDomainError("INVALID_STATE", "Stock is tracked per variant on this product")
	}

	p.Touch()
	p.AddDomainEvent(NewProductStockChangedEvent(p, ""))
	return nil
}

// UpdateVariantStock changes one variant's stock and re-derives the aggregate
// stock and availability in the same step.
func (p *Product) UpdateVariantStock(variantID string, stock VariantStock) error {
	idx := p.variantIndex(variantID)
	if idx < 0 {
		return shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Variant %s not found", variantID))
	}

	p.Variants[idx].Stock = stock
	p.rederiveStock()
	p.Touch()
	p.AddDomainEvent(NewProductStockChangedEvent(p, variantID))

	return nil
}

// SetVisibility applies the store-visibility override. It can hide an available
// product but cannot mark an unavailable one as in stock.
func (p *Product) SetVisibility(inStock bool) {
	p.InStock = inStock && p.hasStock()
	p.Touch()
}

// MarkDeleted records the deletion event
func (p *Product) MarkDeleted() {
	p.AddDomainEvent(NewProductDeletedEvent(p))
}

// rederiveStock recomputes the aggregate and InStock from the variant list
func (p *Product) rederiveStock() {
	if p.HasTrackedVariants() {
		total := 0
		for _, v := range p.Variants {
			if c, ok := v.Stock.Count(); ok {
				total += c
			}
		}
		p.Stock = total
	}
	p.InStock = p.hasStock()
}

// hasStock reports availability ignoring the visibility flag
func (p *Product) hasStock() bool {
	if !p.HasTrackedVariants() {
		return p.Stock > 0
	}
	for _, v := range p.Variants {
		if v.IsAvailable() {
			return true
		}
	}
	return false
}

// HasTrackedVariants returns true if any variant keeps a stock count
func (p *Product) HasTrackedVariants() bool {
	return len(p.trackedVariantIndexes()) > 0
}

func (p *Product) trackedVariantIndexes() []int {
	var idx []int
	for i, v := range p.Variants {
		if v.Stock.IsTracked() {
			idx = append(idx, i)
		}
	}
	return idx
}

func (p *Product) variantIndex(variantID string) int {
	for i := range p.Variants {
		if p.Variants[i].ID == variantID {
			return i
		}
	}
	return -1
}

// AggregateStock returns the product-level stock count
func (p *Product) AggregateStock() int {
	return p.Stock
}

// IsPurchasable returns true if the product is visible and at least one variant can be sold
func (p *Product) IsPurchasable() bool {
	return p.InStock && p.hasStock()
}

// IsSoldOut returns true if the product has no stock or is hidden
func (p *Product) IsSoldOut() bool {
	return p.Stock == 0 || !p.InStock
}

// IsLowStock returns true when stock is positive but below the threshold
func (p *Product) IsLowStock(threshold int) bool {
	return p.Stock > 0 && p.Stock < threshold
}

// Variant returns the variant with the given id
func (p *Product) Variant(variantID string) (Variant, bool) {
	idx := p.variantIndex(variantID)
	if idx < 0 {
		return Variant{}, false
	}
	return p.Variants[idx], true
}

// DefaultVariant returns the first available variant, or the first variant when none is available
func (p *Product) DefaultVariant() Variant {
	for _, v := range p.Variants {
		if v.IsAvailable() {
			return v
		}
	}
	return p.Variants[0]
}

// CanAddToCart reports whether the given variant of the product can be added to a cart
func (p *Product) CanAddToCart(variantID string) bool {
	if !p.IsPurchasable() {
		return false
	}
	v, ok := p.Variant(variantID)
	return ok && v.IsAvailable()
}

// DisplayPrice returns the minimum price across variants
func (p *Product) DisplayPrice() valueobject.Money {
	lowest := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		if v.Price < lowest {
			lowest = v.Price
		}
	}
	return lowest
}

// HasPriceRange returns true when the product is offered in more than one variant
func (p *Product) HasPriceRange() bool {
	return len(p.Variants) > 1
}

// PriceLabel returns the formatted display price, prefixed with "From " for a range
func (p *Product) PriceLabel() string {
	label := p.DisplayPrice().String()
	if p.HasPriceRange() {
		return priceRangePrefix + label
	}
	return label
}

func imageOrDefault(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return DefaultImageURL
	}
	return url
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewValidationError("name", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewValidationError("name", "Product name cannot exceed 200 characters")
	}
	return nil
}
