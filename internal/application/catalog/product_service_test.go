package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/domain/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// capturingPublisher records every published event type
type capturingPublisher struct {
	types []string
}

func (p *capturingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.types = append(p.types, shared.EventTypes(events)...)
	return nil
}

func newTestProduct(t *testing.T, price int64, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(catalog.ProductDetails{Name: "Silk Saree", Category: "Sarees"}, valueobject.Money(price), stock)
	require.NoError(t, err)
	product.ClearDomainEvents()
	return product
}

func intPtr(v int) *int { return &v }

func TestProductService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with a default variant", func(t *testing.T) {
		repo := new(MockProductRepository)
		publisher := &capturingPublisher{}
		svc := NewProductService(repo)
		svc.SetEventPublisher(publisher)

		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.Create(ctx, CreateProductRequest{Name: "Silk Saree", Category: "Sarees", Price: 25000, Stock: 3})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, int64(25000), resp.Price)
		assert.Equal(t, "₹25,000", resp.PriceLabel)
		assert.Equal(t, 3, resp.Stock)
		assert.True(t, resp.InStock)
		assert.True(t, resp.LowStock)
		require.Len(t, resp.Variants, 1)
		assert.Equal(t, resp.DefaultVariantID, resp.Variants[0].ID)
		assert.Equal(t, catalog.DefaultImageURL, resp.ImageURL)
		assert.Equal(t, []string{catalog.EventTypeProductCreated}, publisher.types)
		repo.AssertExpectations(t)
	})

	t.Run("creates product with explicit variants", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		resp, err := svc.Create(ctx, CreateProductRequest{
			Name: "Kurta",
			Variants: []VariantInput{
				{ID: "s", Label: "Small", Price: 900, Stock: intPtr(0)},
				{ID: "m", Label: "Medium", Price: 1100},
			},
		})
		require.NoError(t, err)

		assert.True(t, resp.HasPriceRange)
		assert.Equal(t, int64(900), resp.Price)
		assert.True(t, resp.Purchasable)
		assert.False(t, resp.Variants[0].Available)
		assert.Nil(t, resp.Variants[1].Stock)
		assert.True(t, resp.Variants[1].Available)
	})

	t.Run("rejects duplicate variant ids without saving", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		_, err := svc.Create(ctx, CreateProductRequest{
			Name: "Kurta",
			Variants: []VariantInput{
				{ID: "s", Label: "Small", Price: 900},
				{ID: "s", Label: "Also small", Price: 900},
			},
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("returns repository error", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("db down"))

		_, err := svc.Create(ctx, CreateProductRequest{Name: "Saree", Price: 10, Stock: 1})
		assert.EqualError(t, err, "db down")
	})
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo)

	product := newTestProduct(t, 500, 0)
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(q catalog.ProductQuery) bool {
		return q.Category == "Sarees" && q.Search == "silk" &&
			q.Page == 1 && q.PageSize == defaultPageSize &&
			q.OrderBy == "created_at" && q.OrderDir == "desc"
	})).Return([]catalog.Product{*product}, nil)

	resp, err := svc.List(ctx, ProductListFilter{Category: " Sarees ", Search: "silk "})
	require.NoError(t, err)
	require.Len(t, resp, 1)
	assert.True(t, resp[0].SoldOut)
	assert.False(t, resp[0].Purchasable)
	repo.AssertExpectations(t)
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("merges provided fields", func(t *testing.T) {
		repo := new(MockProductRepository)
		publisher := &capturingPublisher{}
		svc := NewProductService(repo)
		svc.SetEventPublisher(publisher)

		product := newTestProduct(t, 500, 4)
		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)

		name := "Cotton Saree"
		price := int64(650)
		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{Name: &name, Price: &price})
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.Equal(t, "Cotton Saree", resp.Name)
		assert.Equal(t, "Sarees", resp.Category)
		assert.Equal(t, int64(650), resp.Price)
		assert.Equal(t, 4, resp.Stock)
		assert.Contains(t, publisher.types, catalog.EventTypeProductUpdated)
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		name := "Anything"
		resp, err := svc.Update(ctx, id, UpdateProductRequest{Name: &name})
		require.NoError(t, err)
		assert.Nil(t, resp)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("setting stock to zero sells the product out", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		product := newTestProduct(t, 500, 4)
		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)

		resp, err := svc.Update(ctx, product.ID, UpdateProductRequest{Stock: intPtr(0)})
		require.NoError(t, err)
		assert.False(t, resp.InStock)
		assert.True(t, resp.SoldOut)
	})

	t.Run("set image stores the url verbatim", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		product := newTestProduct(t, 500, 4)
		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)

		resp, err := svc.SetImage(ctx, product.ID, "https://cdn.example.com/products/x.jpg")
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/products/x.jpg", resp.ImageURL)
	})
}

func TestProductService_UpdateVariantStock(t *testing.T) {
	ctx := context.Background()

	t.Run("updates tracked stock and rederives availability", func(t *testing.T) {
		repo := new(MockProductRepository)
		publisher := &capturingPublisher{}
		svc := NewProductService(repo)
		svc.SetEventPublisher(publisher)

		product := newTestProduct(t, 500, 4)
		variantID := product.DefaultVariant().ID
		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)

		resp, err := svc.UpdateVariantStock(ctx, product.ID, variantID, UpdateVariantStockRequest{Stock: intPtr(0)})
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Stock)
		assert.False(t, resp.InStock)
		assert.Contains(t, publisher.types, catalog.EventTypeProductStockChanged)
	})

	t.Run("untracked variant keeps the flat stock", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		product := newTestProduct(t, 500, 4)
		variantID := product.DefaultVariant().ID
		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Save", mock.Anything, product).Return(nil)

		resp, err := svc.UpdateVariantStock(ctx, product.ID, variantID, UpdateVariantStockRequest{Untracked: true})
		require.NoError(t, err)
		assert.True(t, resp.Purchasable)
		assert.True(t, resp.Variants[0].Available)
		assert.Nil(t, resp.Variants[0].Stock)
	})

	t.Run("tracked stock requires a count", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		_, err := svc.UpdateVariantStock(ctx, uuid.New(), "default", UpdateVariantStockRequest{})
		assert.True(t, errors.Is(err, shared.ErrValidation))
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		_, err := svc.UpdateVariantStock(ctx, id, "default", UpdateVariantStockRequest{Stock: intPtr(2)})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("unknown variant is not found", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		product := newTestProduct(t, 500, 4)
		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := svc.UpdateVariantStock(ctx, product.ID, "xl", UpdateVariantStockRequest{Stock: intPtr(2)})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestProductService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and publishes", func(t *testing.T) {
		repo := new(MockProductRepository)
		publisher := &capturingPublisher{}
		svc := NewProductService(repo)
		svc.SetEventPublisher(publisher)

		product := newTestProduct(t, 500, 4)
		repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		repo.On("Delete", mock.Anything, product.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, product.ID))
		assert.Equal(t, []string{catalog.EventTypeProductDeleted}, publisher.types)
		repo.AssertExpectations(t)
	})

	t.Run("unknown product is a no-op", func(t *testing.T) {
		repo := new(MockProductRepository)
		svc := NewProductService(repo)

		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		require.NoError(t, svc.Delete(ctx, id))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
