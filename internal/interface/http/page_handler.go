package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/internal/interface/middleware"
	"github.com/oksasatya/perfume-catalog/pkg/response"
)

type PageHandler struct {
	Perfumes *application.PerfumeService
	Brands   *application.BrandService
}

func NewPageHandler(perfumes *application.PerfumeService, brands *application.BrandService) *PageHandler {
	return &PageHandler{Perfumes: perfumes, Brands: brands}
}

type homePage struct {
	page
	Perfumes []entity.Perfume
	Brands   []entity.Brand
	Query    string
	BrandID  string
}

type catalogIndex struct {
	Perfumes []entity.Perfume `json:"perfumes"`
	Brands   []entity.Brand   `json:"brands"`
}

// Home GET /. Renders the listing for browsers and a JSON index otherwise.
func (h *PageHandler) Home(c *gin.Context) {
	filter := filterFrom(c)
	var (
		perfumes []entity.Perfume
		brands   []entity.Brand
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		perfumes, err = h.Perfumes.List(ctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		brands, err = h.Brands.List(ctx, "")
		return err
	})
	err := g.Wait()

	if !middleware.WantsHTML(c) {
		if err != nil {
			respondError(c, err)
			return
		}
		response.Success(c, http.StatusOK, catalogIndex{Perfumes: perfumes, Brands: brands}, "Catalog", nil)
		return
	}
	if err != nil {
		renderError(c, err, "/")
		return
	}
	c.HTML(http.StatusOK, "home.html", homePage{
		page:     newPage(c, ""),
		Perfumes: perfumes,
		Brands:   brands,
		Query:    filter.Query,
		BrandID:  filter.BrandID,
	})
}
