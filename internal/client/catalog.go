package client

import (
	"context"

	"github.com/google/uuid"
	catalogapp "github.com/prakruthi/storefront/internal/application/catalog"
	"go.uber.org/zap"
)

// ProductAPI is the part of the API the catalog writes through
type ProductAPI interface {
	ListProducts(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, error)
	CreateProduct(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error)
	UpdateVariantStock(ctx context.Context, id uuid.UUID, variantID string, req catalogapp.UpdateVariantStockRequest) (*catalogapp.ProductResponse, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Catalog mirrors the product list for the stock screens
type Catalog struct {
	api      ProductAPI
	seq      *Sequencer
	products *mirror[catalogapp.ProductResponse]
	log      *zap.Logger
}

// NewCatalog creates a new Catalog
func NewCatalog(api ProductAPI, seq *Sequencer, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	return &Catalog{
		api: api,
		seq: seq,
		products: newMirror(seq, "products", func(p catalogapp.ProductResponse) uuid.UUID {
			return p.ID
		}),
		log: log,
	}
}

// Refresh reloads the product list
func (c *Catalog) Refresh(ctx context.Context, filter catalogapp.ProductListFilter) error {
	t := c.seq.Issue()
	products, err := c.api.ListProducts(ctx, filter)
	if err != nil {
		return err
	}
	if !c.products.replaceAll(t, products) {
		c.log.Debug("Dropped stale product listing", zap.Uint64("ticket", uint64(t)))
	}
	return nil
}

// Products returns the mirrored products in listing order
func (c *Catalog) Products() []catalogapp.ProductResponse {
	return c.products.all()
}

// Product returns one mirrored product
func (c *Catalog) Product(id uuid.UUID) (catalogapp.ProductResponse, bool) {
	return c.products.get(id)
}

// LowStock returns products that are running low but not sold out
func (c *Catalog) LowStock() []catalogapp.ProductResponse {
	var low []catalogapp.ProductResponse
	for _, p := range c.products.all() {
		if p.LowStock {
			low = append(low, p)
		}
	}
	return low
}

// Create adds a product; it appears locally once the server has stored it
func (c *Catalog) Create(ctx context.Context, req catalogapp.CreateProductRequest) (*catalogapp.ProductResponse, error) {
	t := c.seq.Issue()
	product, err := c.api.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	c.apply(t, product.ID, product)
	return product, nil
}

// Update merges fields into a product. A product the server no longer has is
// dropped locally and nil is returned.
func (c *Catalog) Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateProductRequest) (*catalogapp.ProductResponse, error) {
	t := c.seq.Issue()
	product, err := c.api.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}
	c.apply(t, id, product)
	return product, nil
}

// UpdateVariantStock sets one variant's stock
func (c *Catalog) UpdateVariantStock(ctx context.Context, id uuid.UUID, variantID string, req catalogapp.UpdateVariantStockRequest) (*catalogapp.ProductResponse, error) {
	t := c.seq.Issue()
	product, err := c.api.UpdateVariantStock(ctx, id, variantID, req)
	if err != nil {
		return nil, err
	}
	c.apply(t, id, product)
	return product, nil
}

// Delete removes a product on the server and then locally
func (c *Catalog) Delete(ctx context.Context, id uuid.UUID) error {
	t := c.seq.Issue()
	if err := c.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.apply(t, id, nil)
	return nil
}

func (c *Catalog) apply(t Ticket, id uuid.UUID, product *catalogapp.ProductResponse) {
	var applied bool
	if product == nil {
		applied = c.products.remove(t, id)
	} else {
		applied = c.products.put(t, *product)
	}
	if !applied {
		c.log.Debug("Dropped stale product response",
			zap.String("product_id", id.String()),
			zap.Uint64("ticket", uint64(t)),
		)
	}
}

// Ensure Client serves both mirrors
var (
	_ OrderAPI   = (*Client)(nil)
	_ ProductAPI = (*Client)(nil)
)
