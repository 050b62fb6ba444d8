package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/internal/interface/middleware"
	"github.com/oksasatya/perfume-catalog/pkg/response"
)

const maxImageBytes = 5 << 20

type PerfumeHandler struct {
	Perfumes *application.PerfumeService
	Logger   *logrus.Logger
}

func NewPerfumeHandler(perfumes *application.PerfumeService, logger *logrus.Logger) *PerfumeHandler {
	return &PerfumeHandler{Perfumes: perfumes, Logger: logger}
}

type perfumePage struct {
	page
	Perfume   *entity.Perfume
	MyComment *entity.Comment
}

func filterFrom(c *gin.Context) entity.PerfumeFilter {
	return entity.PerfumeFilter{Query: c.Query("q"), BrandID: c.Query("brand")}
}

// List GET /perfumes, /api/perfumes?q=&brand=
func (h *PerfumeHandler) List(c *gin.Context) {
	perfumes, err := h.Perfumes.List(c.Request.Context(), filterFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, perfumes, "Perfumes", gin.H{"count": len(perfumes)})
}

// Search GET /perfumes/search?q=&size=
func (h *PerfumeHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	hits, err := h.Perfumes.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "Search results", gin.H{"count": len(hits)})
}

// Detail GET /perfumes/:id. Browsers get the detail page, others JSON.
func (h *PerfumeHandler) Detail(c *gin.Context) {
	p, err := h.Perfumes.Get(c.Request.Context(), c.Param("id"))
	html := middleware.WantsHTML(c)
	if err != nil {
		if html {
			renderError(c, err, "/")
			return
		}
		respondError(c, err)
		return
	}
	if !html {
		response.Success(c, http.StatusOK, p, "Perfume", nil)
		return
	}
	data := perfumePage{page: newPage(c, p.PerfumeName), Perfume: p}
	if data.Identity != nil {
		if mine, ok := p.CommentBy(data.Identity.ID); ok {
			data.MyComment = mine
		}
	}
	c.HTML(http.StatusOK, "perfume.html", data)
}

// Get GET /api/perfumes/:id
func (h *PerfumeHandler) Get(c *gin.Context) {
	p, err := h.Perfumes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Perfume", nil)
}

// Create POST /api/perfumes
func (h *PerfumeHandler) Create(c *gin.Context) {
	var in application.PerfumeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.Perfumes.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, p, "Perfume created", nil)
}

// Update PUT /api/perfumes/:id. Absent fields keep their value.
func (h *PerfumeHandler) Update(c *gin.Context) {
	var in application.PerfumeInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	p, err := h.Perfumes.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Perfume updated", nil)
}

// Delete DELETE /api/perfumes/:id
func (h *PerfumeHandler) Delete(c *gin.Context) {
	p, err := h.Perfumes.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Perfume deleted", gin.H{"discardedComments": len(p.Comments)})
}

// UploadImage POST /api/perfumes/:id/image (multipart field "image")
func (h *PerfumeHandler) UploadImage(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		respondError(c, application.Validation("Image upload failed", map[string]string{"image": "is required (max 5MB)"}))
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		respondError(c, application.Validation("Image upload failed", map[string]string{"image": "must be an image"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, application.Internal(err))
		return
	}
	defer f.Close()

	p, err := h.Perfumes.UploadImage(c.Request.Context(), c.Param("id"), fh.Filename, contentType, f)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p, "Image uploaded", nil)
}
