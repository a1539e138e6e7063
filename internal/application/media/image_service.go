// Package media uploads product images to object storage.
package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prakruthi/storefront/internal/application/catalog"
	"github.com/prakruthi/storefront/internal/domain/shared"
	"github.com/prakruthi/storefront/internal/infrastructure/telemetry"
)

// ObjectStorage stores uploaded files under a key and serves them by public URL.
// Implemented by the infrastructure layer (S3-compatible storage or in-memory).
type ObjectStorage interface {
	// Upload writes body under key
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// Delete removes the object under key
	Delete(ctx context.Context, key string) error

	// PublicURL returns the URL at which key is served
	PublicURL(key string) string
}

// ProductImages is the part of the product service an upload needs
type ProductImages interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalog.ProductResponse, error)
	SetImage(ctx context.Context, id uuid.UUID, imageURL string) (*catalog.ProductResponse, error)
}

// AllowedImageTypes maps accepted image content types to their file extension.
// SVG is excluded because it can carry scripts.
var AllowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadImageRequest describes one uploaded file
type UploadImageRequest struct {
	ProductID   uuid.UUID
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	// Attach stores the resulting URL on the product
	Attach bool
}

// ImageResponse is the result of an upload
type ImageResponse struct {
	Key     string                   `json:"key"`
	URL     string                   `json:"url"`
	Product *catalog.ProductResponse `json:"product,omitempty"`
}

// ImageService handles product image uploads
type ImageService struct {
	storage  ObjectStorage
	products ProductImages
	maxSize  int64
	now      func() time.Time
}

// NewImageService creates a new ImageService. maxSize <= 0 disables the size check.
func NewImageService(storage ObjectStorage, products ProductImages, maxSize int64) *ImageService {
	return &ImageService{
		storage:  storage,
		products: products,
		maxSize:  maxSize,
		now:      time.Now,
	}
}

// Upload stores the image under products/<productID>/<unix-millis>.<ext> and
// returns its public URL. The extension follows the content type, never the file name. Storage errors are returned as they are. When attaching
// fails the uploaded object is removed again.
func (s *ImageService) Upload(ctx context.Context, req UploadImageRequest) (*ImageResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "media", "upload_image",
		telemetry.SpanAttrProductID, req.ProductID.String(),
	)
	defer span.End()

	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	ext, ok := AllowedImageTypes[contentType]
	if !ok {
		return nil, shared.NewValidationError("file", fmt.Sprintf("Content type '%s' is not allowed", req.ContentType))
	}
	if req.Size <= 0 {
		return nil, shared.NewValidationError("file", "File is empty")
	}
	if s.maxSize > 0 && req.Size > s.maxSize {
		return nil, shared.NewValidationError("file", fmt.Sprintf("File exceeds %d bytes", s.maxSize))
	}

	if req.Attach {
		if _, err := s.products.GetByID(ctx, req.ProductID); err != nil {
			return nil, err
		}
	}

	key := ImageKey(req.ProductID, s.now(), ext)
	if err := s.storage.Upload(ctx, key, req.Body, req.Size, contentType); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	response := &ImageResponse{Key: key, URL: s.storage.PublicURL(key)}
	if req.Attach {
		product, err := s.products.SetImage(ctx, req.ProductID, response.URL)
		if err != nil {
			// the object would be unreferenced
			if delErr := s.storage.Delete(ctx, key); delErr != nil {
				telemetry.RecordError(span, delErr)
			}
			return nil, err
		}
		response.Product = product
	}
	return response, nil
}

// ImageKey builds the storage key of a product image
func ImageKey(productID uuid.UUID, at time.Time, ext string) string {
	return fmt.Sprintf("products/%s/%d%s", productID, at.UnixMilli(), ext)
}
