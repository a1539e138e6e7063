package handler

import (
	"github.com/gin-gonic/gin"
	storeapp "github.com/prakruthi/storefront/internal/application/store"
)

// StoreHandler serves the store profile
type StoreHandler struct {
	BaseHandler
	storeService *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Get godoc
// @Summary      Get the store profile
// @Description  Defaults are returned until the profile is first saved
// @Tags         store
// @Produce      json
// @Success      200 {object} dto.Response{data=storeapp.StoreResponse}
// @Router       /store [get]
func (h *StoreHandler) Get(c *gin.Context) {
	profile, err := h.storeService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// Update godoc
// @Summary      Update the store profile
// @Tags         admin-store
// @Accept       json
// @Produce      json
// @Param        request body storeapp.UpdateStoreRequest true "Fields to change"
// @Success      200 {object} dto.Response{data=storeapp.StoreResponse}
// @Security     BearerAuth
// @Router       /admin/store [put]
func (h *StoreHandler) Update(c *gin.Context) {
	var req storeapp.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.storeService.Update(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}
