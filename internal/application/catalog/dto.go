package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
)

// VariantInput describes one variant in a create or replace request.
// A nil Stock means the variant is not stock-tracked.
type VariantInput struct {
	ID    string `json:"id" binding:"max=100"`
	Label string `json:"label" binding:"required,notblank,max=100"`
	Price int64  `json:"price" binding:"min=0"`
	Stock *int   `json:"stock" binding:"omitempty,min=0"`
}

// CreateProductRequest represents a request to create a new product.
// Without Variants, a single default variant is built from Price and Stock.
type CreateProductRequest struct {
	Name        string         `json:"name" binding:"required,notblank,max=200"`
	Category    string         `json:"category" binding:"max=100"`
	Description string         `json:"description" binding:"max=2000"`
	ImageURL    string         `json:"image_url" binding:"max=1000"`
	BestSelling bool           `json:"best_selling"`
	Price       int64          `json:"price" binding:"min=0"`
	Stock       int            `json:"stock" binding:"min=0"`
	Variants    []VariantInput `json:"variants" binding:"omitempty,dive"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name        *string        `json:"name" binding:"omitempty,notblank,max=200"`
	Category    *string        `json:"category" binding:"omitempty,max=100"`
	Description *string        `json:"description" binding:"omitempty,max=2000"`
	ImageURL    *string        `json:"image_url" binding:"omitempty,max=1000"`
	BestSelling *bool          `json:"best_selling"`
	Price       *int64         `json:"price" binding:"omitempty,min=0"`
	Stock       *int           `json:"stock" binding:"omitempty,min=0"`
	InStock     *bool          `json:"in_stock"`
	Variants    []VariantInput `json:"variants" binding:"omitempty,dive"`
}

// UpdateVariantStockRequest sets one variant's stock.
// Untracked switches the variant to always-available and ignores Stock.
type UpdateVariantStockRequest struct {
	Stock     *int `json:"stock" binding:"omitempty,min=0"`
	Untracked bool `json:"untracked"`
}

// ProductListFilter represents listing query parameters
type ProductListFilter struct {
	Category    string `form:"category"`
	Search      string `form:"q"`
	BestSelling bool   `form:"best_selling"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=200"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// VariantResponse represents a variant in API responses.
// Stock is null for untracked variants.
type VariantResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Price     int64  `json:"price"`
	Stock     *int   `json:"stock"`
	Tracked   bool   `json:"tracked"`
	Available bool   `json:"available"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID               uuid.UUID         `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	Description      string            `json:"description"`
	ImageURL         string            `json:"image_url"`
	Price            int64             `json:"price"`
	PriceLabel       string            `json:"price_label"`
	HasPriceRange    bool              `json:"has_price_range"`
	Stock            int               `json:"stock"`
	InStock          bool              `json:"in_stock"`
	Purchasable      bool              `json:"purchasable"`
	SoldOut          bool              `json:"sold_out"`
	LowStock         bool              `json:"low_stock"`
	BestSelling      bool              `json:"best_selling"`
	DefaultVariantID string            `json:"default_variant_id"`
	Variants         []VariantResponse `json:"variants"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	variants := make([]VariantResponse, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = VariantResponse{
			ID:        v.ID,
			Label:     v.Label,
			Price:     v.Price.Int64(),
			Stock:     v.Stock.Ptr(),
			Tracked:   v.Stock.IsTracked(),
			Available: v.IsAvailable(),
		}
	}
	return ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		Category:         p.Category,
		Description:      p.Description,
		ImageURL:         p.ImageURL,
		Price:            p.DisplayPrice().Int64(),
		PriceLabel:       p.PriceLabel(),
		HasPriceRange:    p.HasPriceRange(),
		Stock:            p.AggregateStock(),
		InStock:          p.InStock,
		Purchasable:      p.IsPurchasable(),
		SoldOut:          p.IsSoldOut(),
		LowStock:         p.IsLowStock(catalog.LowStockThreshold),
		BestSelling:      p.BestSelling,
		DefaultVariantID: p.DefaultVariant().ID,
		Variants:         variants,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// ToProductResponses converts a list of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

func toVariants(inputs []VariantInput) ([]catalog.Variant, error) {
	variants := make([]catalog.Variant, 0, len(inputs))
	for _, in := range inputs {
		v, err := catalog.NewVariant(in.ID, in.Label, valueobject.Money(in.Price), catalog.StockFromPtr(in.Stock))
		if err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, nil
}
