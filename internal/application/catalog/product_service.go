// Package catalog implements product administration and storefront listing.
package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
	"github.com/prakruthi/storefront/internal/infrastructure/logger"
	"github.com/prakruthi/storefront/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 100
	maxPageSize     = 200
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the publisher that receives product events after each save
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create adds a product with a fresh id. Without explicit variants a single
// tracked default variant is built from the flat price and stock.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "create")
	defer span.End()

	details := catalog.ProductDetails{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		BestSelling: req.BestSelling,
	}

	var (
		product *catalog.Product
		err     error
	)
	if len(req.Variants) == 0 {
		product, err = catalog.NewProduct(details, valueobject.Money(req.Price), req.Stock)
	} else {
		var variants []catalog.Variant
		if variants, err = toVariants(req.Variants); err == nil {
			product, err = catalog.NewProductWithVariants(details, variants)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrProductID, product.ID.String())
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products, newest first unless another order is requested
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	query := catalog.ProductQuery{
		Category:    strings.TrimSpace(filter.Category),
		Search:      strings.TrimSpace(filter.Search),
		BestSelling: filter.BestSelling,
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
	}

	products, err := s.productRepo.FindAll(ctx, query)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Update merges the given fields into a product. An unknown id is a no-op and
// returns (nil, nil).
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update", telemetry.SpanAttrProductID, id.String())
	defer span.End()

	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	update := catalog.ProductUpdate{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		BestSelling: req.BestSelling,
		Stock:       req.Stock,
		InStock:     req.InStock,
	}
	if req.Price != nil {
		price := valueobject.Money(*req.Price)
		update.Price = &price
	}
	if req.Variants != nil {
		if update.Variants, err = toVariants(req.Variants); err != nil {
			return nil, err
		}
	}

	if err := product.Apply(update); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// UpdateVariantStock sets one variant's stock; aggregate stock and availability
// are re-derived in the same save.
func (s *ProductService) UpdateVariantStock(ctx context.Context, productID uuid.UUID, variantID string, req UpdateVariantStockRequest) (*ProductResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "product", "update_variant_stock",
		telemetry.SpanAttrProductID, productID.String(),
		telemetry.SpanAttrVariantID, variantID,
	)
	defer span.End()

	stock := catalog.Untracked()
	if !req.Untracked {
		if req.Stock == nil {
			return nil, shared.NewValidationError("stock", "Stock is required for a tracked variant")
		}
		stock = catalog.Tracked(*req.Stock)
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := product.UpdateVariantStock(variantID, stock); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publish(ctx, product)

	response := ToProductResponse(product)
	return &response, nil
}

// SetImage stores an uploaded image URL verbatim on the product
func (s *ProductService) SetImage(ctx context.Context, id uuid.UUID, imageURL string) (*ProductResponse, error) {
	return s.Update(ctx, id, UpdateProductRequest{ImageURL: &imageURL})
}

// Delete permanently removes a product. Placed orders keep their item snapshots.
// An unknown id is a no-op.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	product.MarkDeleted()
	s.publish(ctx, product)
	return nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	if err := shared.PublishAndClear(ctx, s.eventPublisher, product); err != nil {
		logger.L(ctx).Warn("failed to publish product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err),
		)
	}
}
