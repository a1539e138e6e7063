package media

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/application/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	return m.Called(ctx, key, body, size, contentType).Error(0)
}

func (m *MockObjectStorage) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockObjectStorage) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// MockProductImages is a mock implementation of ProductImages
type MockProductImages struct {
	mock.Mock
}

func (m *MockProductImages) GetByID(ctx context.Context, id uuid.UUID) (*catalog.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductResponse), args.Error(1)
}

func (m *MockProductImages) SetImage(ctx context.Context, id uuid.UUID, imageURL string) (*catalog.ProductResponse, error) {
	args := m.Called(ctx, id, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductResponse), args.Error(1)
}

func newTestImageService(storage *MockObjectStorage, products *MockProductImages) *ImageService {
	svc := NewImageService(storage, products, 1024)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return svc
}

func TestImageService_Upload(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	wantKey := "products/" + productID.String() + "/1700000000123.png"

	t.Run("uploads under a timestamped key and returns the public url", func(t *testing.T) {
		storage := new(MockObjectStorage)
		products := new(MockProductImages)
		svc := newTestImageService(storage, products)
		storage.On("Upload", mock.Anything, wantKey, mock.Anything, int64(3), "image/png").Return(nil)

		resp, err := svc.Upload(ctx, UploadImageRequest{
			ProductID:   productID,
			FileName:    "Photo.PNG",
			ContentType: "image/png",
			Size:        3,
			Body:        strings.NewReader("png"),
		})
		require.NoError(t, err)
		assert.Equal(t, wantKey, resp.Key)
		assert.Equal(t, "https://cdn.example.com/"+wantKey, resp.URL)
		assert.Nil(t, resp.Product)
		products.AssertNotCalled(t, "SetImage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("extension comes from the content type, not the file name", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := newTestImageService(storage, new(MockProductImages))
		storage.On("Upload", mock.Anything, wantKey, mock.Anything, int64(3), "image/png").Return(nil)

		resp, err := svc.Upload(ctx, UploadImageRequest{
			ProductID:   productID,
			FileName:    "x.html",
			ContentType: "image/png",
			Size:        3,
			Body:        strings.NewReader("png"),
		})
		require.NoError(t, err)
		assert.Equal(t, wantKey, resp.Key)
		storage.AssertExpectations(t)
	})

	t.Run("attach stores the url on the product", func(t *testing.T) {
		storage := new(MockObjectStorage)
		products := new(MockProductImages)
		svc := newTestImageService(storage, products)
		url := "https://cdn.example.com/" + wantKey
		products.On("GetByID", mock.Anything, productID).Return(&catalog.ProductResponse{ID: productID}, nil)
		storage.On("Upload", mock.Anything, wantKey, mock.Anything, int64(3), "image/png").Return(nil)
		products.On("SetImage", mock.Anything, productID, url).Return(&catalog.ProductResponse{ID: productID, ImageURL: url}, nil)

		resp, err := svc.Upload(ctx, UploadImageRequest{
			ProductID:   productID,
			ContentType: "image/png",
			Size:        3,
			Body:        strings.NewReader("png"),
			Attach:      true,
		})
		require.NoError(t, err)
		require.NotNil(t, resp.Product)
		assert.Equal(t, url, resp.Product.ImageURL)
	})

	t.Run("attach to unknown product uploads nothing", func(t *testing.T) {
		storage := new(MockObjectStorage)
		products := new(MockProductImages)
		svc := newTestImageService(storage, products)
		products.On("GetByID", mock.Anything, productID).Return(nil, shared.ErrNotFound)

		_, err := svc.Upload(ctx, UploadImageRequest{
			ProductID:   productID,
			ContentType: "image/jpeg",
			Size:        3,
			Body:        strings.NewReader("jpg"),
			Attach:      true,
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed attach removes the uploaded object", func(t *testing.T) {
		storage := new(MockObjectStorage)
		products := new(MockProductImages)
		svc := newTestImageService(storage, products)
		products.On("GetByID", mock.Anything, productID).Return(&catalog.ProductResponse{ID: productID}, nil)
		storage.On("Upload", mock.Anything, wantKey, mock.Anything, int64(3), "image/png").Return(nil)
		products.On("SetImage", mock.Anything, productID, mock.Anything).Return(nil, shared.ErrNotFound)
		storage.On("Delete", mock.Anything, wantKey).Return(nil)

		_, err := svc.Upload(ctx, UploadImageRequest{
			ProductID:   productID,
			ContentType: "image/png",
			Size:        3,
			Body:        strings.NewReader("png"),
			Attach:      true,
		})
		assert.True(t, errors.Is(err, shared.ErrNotFound))
		storage.AssertCalled(t, "Delete", mock.Anything, wantKey)
	})

	t.Run("rejects disallowed content types and sizes", func(t *testing.T) {
		svc := newTestImageService(new(MockObjectStorage), new(MockProductImages))

		_, err := svc.Upload(ctx, UploadImageRequest{ProductID: productID, ContentType: "image/svg+xml", Size: 3})
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = svc.Upload(ctx, UploadImageRequest{ProductID: productID, ContentType: "image/png", Size: 0})
		assert.True(t, errors.Is(err, shared.ErrValidation))

		_, err = svc.Upload(ctx, UploadImageRequest{ProductID: productID, ContentType: "image/png", Size: 4096})
		assert.True(t, errors.Is(err, shared.ErrValidation))
	})

	t.Run("storage errors are returned as they are", func(t *testing.T) {
		storage := new(MockObjectStorage)
		svc := newTestImageService(storage, new(MockProductImages))
		storageErr := errors.New("access denied")
		storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(storageErr)

		_, err := svc.Upload(ctx, UploadImageRequest{ProductID: productID, ContentType: "image/webp", Size: 3, Body: strings.NewReader("abc")})
		assert.Same(t, storageErr, err)
	})
}

func TestImageKey(t *testing.T) {
	id := uuid.MustParse("7f9c24e8-3b12-4a4e-9f6a-0c9f1f2d8e11")
	assert.Equal(t, "products/7f9c24e8-3b12-4a4e-9f6a-0c9f1f2d8e11/1000.jpg", ImageKey(id, time.UnixMilli(1000), ".jpg"))
}
