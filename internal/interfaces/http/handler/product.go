package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/prakruthi/storefront/internal/application/catalog"
	"github.com/prakruthi/storefront/internal/application/media"
	"github.com/prakruthi/storefront/internal/interfaces/http/middleware"
)

// ProductHandler handles catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	imageService   *media.ImageService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, imageService *media.ImageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		imageService:   imageService,
	}
}

// List godoc
// @Summary      List products
// @Description  Storefront listing with optional category, search and best-selling filters
// @Tags         products
// @Produce      json
// @Param        category      query string false "Exact category"
// @Param        q             query string false "Search in name and category"
// @Param        best_selling  query bool   false "Only best sellers"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	products, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, products)
}

// GetByID godoc
// @Summary      Get product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create godoc
// @Summary      Create a product
// @Description  Without variants a single default variant is built from price and stock
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @Summary      Update a product
// @Description  Merges the given fields. Updating a missing product does nothing and answers 204.
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id      path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Success      204
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if product == nil {
		h.NoContent(c)
		return
	}
	h.Success(c, product)
}

// UpdateVariantStock godoc
// @Summary      Set one variant's stock
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id        path string true "Product ID" format(uuid)
// @Param        variantId path string true "Variant ID"
// @Param        request   body catalogapp.UpdateVariantStockRequest true "Stock"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/variants/{variantId}/stock [put]
func (h *ProductHandler) UpdateVariantStock(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req catalogapp.UpdateVariantStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.productService.UpdateVariantStock(c.Request.Context(), id, c.Param("variantId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Description  Permanent. Existing orders keep their item snapshots.
// @Tags         admin-products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UploadImage godoc
// @Summary      Upload a product image
// @Description  Stores the file in object storage. With attach=true (default) the URL is saved on the product.
// @Tags         admin-products
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path     string true  "Product ID" format(uuid)
// @Param        file   formData file   true  "Image"
// @Param        attach query    bool   false "Save the URL on the product"
// @Success      201 {object} dto.Response{data=media.ImageResponse}
// @Security     BearerAuth
// @Router       /admin/products/{id}/image [post]
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if middleware.IsBodyTooLarge(err) {
		middleware.AbortBodyTooLarge(c)
		return
	}
	if err != nil {
		h.BadRequest(c, "A file is required in the 'file' form field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file could not be read")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		sniff := make([]byte, 512)
		n, _ := file.Read(sniff)
		contentType = http.DetectContentType(sniff[:n])
		if _, err := file.Seek(0, io.SeekStart); err != nil {
			h.BadRequest(c, "Uploaded file could not be read")
			return
		}
	}

	image, err := h.imageService.Upload(c.Request.Context(), media.UploadImageRequest{
		ProductID:   id,
		FileName:    fileHeader.Filename,
		ContentType: contentType,
		Size:        fileHeader.Size,
		Body:        file,
		Attach:      c.DefaultQuery("attach", "true") != "false",
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, image)
}
