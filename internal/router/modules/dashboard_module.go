package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/perfume-catalog/internal/interface/http"
	"github.com/oksasatya/perfume-catalog/internal/interface/middleware"
)

// DashboardModule is the admin HTML console under /dashboard.
type DashboardModule struct {
	Handler *handlers.DashboardHandler
}

func NewDashboardModule(h *handlers.DashboardHandler) *DashboardModule {
	return &DashboardModule{Handler: h}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	d := rg.Group("/dashboard")
	d.Use(middleware.RequireAuthenticated(), middleware.RequireAdmin())
	{
		d.GET("", m.Handler.Index)

		d.GET("/brands/new", m.Handler.NewBrand)
		d.POST("/brands", m.Handler.SaveBrand)
		d.GET("/brands/:id/edit", m.Handler.EditBrand)
		d.POST("/brands/:id", m.Handler.SaveBrand)
		d.POST("/brands/:id/delete", m.Handler.DeleteBrand)

		d.GET("/perfumes/new", m.Handler.NewPerfume)
		d.POST("/perfumes", m.Handler.SavePerfume)
		d.GET("/perfumes/:id/edit", m.Handler.EditPerfume)
		d.POST("/perfumes/:id", m.Handler.SavePerfume)
		d.POST("/perfumes/:id/delete", m.Handler.DeletePerfume)
	}
}
