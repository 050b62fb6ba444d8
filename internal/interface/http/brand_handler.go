package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/pkg/response"
)

type BrandHandler struct {
	Brands *application.BrandService
}

func NewBrandHandler(brands *application.BrandService) *BrandHandler {
	return &BrandHandler{Brands: brands}
}

type brandRequest struct {
	BrandName string `json:"brandName" form:"brandName" binding:"required"`
}

// List GET /brands, /api/brands?q=
func (h *BrandHandler) List(c *gin.Context) {
	brands, err := h.Brands.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, brands, "Brands", gin.H{"count": len(brands)})
}

// Get GET /api/brands/:id
func (h *BrandHandler) Get(c *gin.Context) {
	b, err := h.Brands.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b, "Brand", nil)
}

// Create POST /api/brands
func (h *BrandHandler) Create(c *gin.Context) {
	var req brandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	b, err := h.Brands.Create(c.Request.Context(), req.BrandName)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, b, "Brand created", nil)
}

// Update PUT /api/brands/:id
func (h *BrandHandler) Update(c *gin.Context) {
	var req brandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	b, err := h.Brands.Update(c.Request.Context(), c.Param("id"), req.BrandName)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b, "Brand updated", nil)
}

// Delete DELETE /api/brands/:id
func (h *BrandHandler) Delete(c *gin.Context) {
	b, err := h.Brands.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b, "Brand deleted", nil)
}
