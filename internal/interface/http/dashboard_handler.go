package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
)

// DashboardHandler serves the admin console: HTML forms over the same
// services the JSON API uses.
type DashboardHandler struct {
	Brands   *application.BrandService
	Perfumes *application.PerfumeService
	Members  *application.MemberService
}

func NewDashboardHandler(brands *application.BrandService, perfumes *application.PerfumeService, members *application.MemberService) *DashboardHandler {
	return &DashboardHandler{Brands: brands, Perfumes: perfumes, Members: members}
}

type dashboardPage struct {
	page
	Brands      []entity.Brand
	Perfumes    []entity.Perfume
	MemberCount int
}

type brandFormPage struct {
	page
	Brand  entity.Brand
	Error  string
	Errors map[string]string
}

type perfumeFormPage struct {
	page
	Perfume entity.Perfume
	Brands  []entity.Brand
	Error   string
	Errors  map[string]string
}

const dashboardPath = "/dashboard"

// Index GET /dashboard
func (h *DashboardHandler) Index(c *gin.Context) {
	data := dashboardPage{page: newPage(c, "Dashboard")}
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		data.Brands, err = h.Brands.List(ctx, "")
		return err
	})
	g.Go(func() error {
		var err error
		data.Perfumes, err = h.Perfumes.List(ctx, entity.PerfumeFilter{})
		return err
	})
	g.Go(func() error {
		var err error
		data.MemberCount, err = h.Members.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, err, "/")
		return
	}
	c.HTML(http.StatusOK, "dashboard.html", data)
}

// NewBrand GET /dashboard/brands/new
func (h *DashboardHandler) NewBrand(c *gin.Context) {
	c.HTML(http.StatusOK, "brand_form.html", brandFormPage{page: newPage(c, "New brand")})
}

// EditBrand GET /dashboard/brands/:id/edit
func (h *DashboardHandler) EditBrand(c *gin.Context) {
	b, err := h.Brands.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		renderError(c, err, dashboardPath)
		return
	}
	c.HTML(http.StatusOK, "brand_form.html", brandFormPage{page: newPage(c, "Edit brand"), Brand: *b})
}

// SaveBrand POST /dashboard/brands and /dashboard/brands/:id
func (h *DashboardHandler) SaveBrand(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	name := c.PostForm("brandName")
	var err error
	if id == "" {
		_, err = h.Brands.Create(ctx, name)
	} else {
		_, err = h.Brands.Update(ctx, id, name)
	}
	if err != nil {
		e := application.AsError(err)
		if e.Kind != application.KindValidation && e.Kind != application.KindConflict {
			renderError(c, err, dashboardPath)
			return
		}
		c.HTML(http.StatusBadRequest, "brand_form.html", brandFormPage{
			page:   newPage(c, "Brand"),
			Brand:  entity.Brand{ID: id, BrandName: name},
			Error:  e.Message,
			Errors: stringDetails(e),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// DeleteBrand POST /dashboard/brands/:id/delete
func (h *DashboardHandler) DeleteBrand(c *gin.Context) {
	if _, err := h.Brands.Delete(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err, dashboardPath)
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// NewPerfume GET /dashboard/perfumes/new
func (h *DashboardHandler) NewPerfume(c *gin.Context) {
	brands, err := h.Brands.List(c.Request.Context(), "")
	if err != nil {
		renderError(c, err, dashboardPath)
		return
	}
	c.HTML(http.StatusOK, "perfume_form.html", perfumeFormPage{page: newPage(c, "New perfume"), Brands: brands})
}

// EditPerfume GET /dashboard/perfumes/:id/edit
func (h *DashboardHandler) EditPerfume(c *gin.Context) {
	data := perfumeFormPage{page: newPage(c, "Edit perfume")}
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		p, err := h.Perfumes.Get(ctx, c.Param("id"))
		if err == nil {
			data.Perfume = *p
		}
		return err
	})
	g.Go(func() error {
		var err error
		data.Brands, err = h.Brands.List(ctx, "")
		return err
	})
	if err := g.Wait(); err != nil {
		renderError(c, err, dashboardPath)
		return
	}
	c.HTML(http.StatusOK, "perfume_form.html", data)
}

// SavePerfume POST /dashboard/perfumes and /dashboard/perfumes/:id
func (h *DashboardHandler) SavePerfume(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	in, fieldErrs := perfumeFromForm(c)

	var err error
	if len(fieldErrs) > 0 {
		err = application.Validation("Perfume validation failed", fieldErrs)
	} else if id == "" {
		_, err = h.Perfumes.Create(ctx, in)
	} else {
		_, err = h.Perfumes.Update(ctx, id, in)
	}
	if err == nil {
		c.Redirect(http.StatusSeeOther, dashboardPath)
		return
	}
	e := application.AsError(err)
	if e.Kind != application.KindValidation {
		renderError(c, err, dashboardPath)
		return
	}
	brands, lerr := h.Brands.List(ctx, "")
	if lerr != nil {
		renderError(c, lerr, dashboardPath)
		return
	}
	draft := entity.Perfume{ID: id}
	in.Apply(&draft)
	c.HTML(http.StatusBadRequest, "perfume_form.html", perfumeFormPage{
		page:    newPage(c, "Perfume"),
		Perfume: draft,
		Brands:  brands,
		Error:   e.Message,
		Errors:  stringDetails(e),
	})
}

// DeletePerfume POST /dashboard/perfumes/:id/delete
func (h *DashboardHandler) DeletePerfume(c *gin.Context) {
	if _, err := h.Perfumes.Delete(c.Request.Context(), c.Param("id")); err != nil {
		renderError(c, err, dashboardPath)
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardPath)
}

// perfumeFromForm reads the perfume form. Every field is submitted, so the
// result sets all of them.
func perfumeFromForm(c *gin.Context) (application.PerfumeInput, map[string]string) {
	str := func(k string) *string {
		v := c.PostForm(k)
		return &v
	}
	errs := map[string]string{}
	num := func(k string) *float64 {
		raw := strings.TrimSpace(c.PostForm(k))
		if raw == "" {
			errs[k] = "is required"
			return nil
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs[k] = "must be a number"
			return nil
		}
		return &f
	}
	in := application.PerfumeInput{
		PerfumeName:    str("perfumeName"),
		URI:            str("uri"),
		Price:          num("price"),
		Concentration:  str("concentration"),
		Description:    str("description"),
		Ingredients:    str("ingredients"),
		Volume:         num("volume"),
		TargetAudience: str("targetAudience"),
		Brand:          str("brand"),
	}
	return in, errs
}

func stringDetails(e *application.Error) map[string]string {
	out := make(map[string]string, len(e.Details))
	for k, v := range e.Details {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
