package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/perfume-catalog/internal/interface/http"
	"github.com/oksasatya/perfume-catalog/internal/interface/middleware"
)

// AdminModule is the JSON management API, mounted under /api.
type AdminModule struct {
	Brands   *handlers.BrandHandler
	Perfumes *handlers.PerfumeHandler
	Members  *handlers.MemberHandler
}

func NewAdminModule(brands *handlers.BrandHandler, perfumes *handlers.PerfumeHandler, members *handlers.MemberHandler) *AdminModule {
	return &AdminModule{Brands: brands, Perfumes: perfumes, Members: members}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	// Members may delete their own account.
	rg.DELETE("/members/:id", middleware.RequireSelfOrAdmin("id"), m.Members.Delete)

	admin := rg.Group("/")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/brands", m.Brands.List)
		admin.POST("/brands", m.Brands.Create)
		admin.GET("/brands/:id", m.Brands.Get)
		admin.PUT("/brands/:id", m.Brands.Update)
		admin.DELETE("/brands/:id", m.Brands.Delete)

		admin.GET("/perfumes", m.Perfumes.List)
		admin.POST("/perfumes", m.Perfumes.Create)
		admin.GET("/perfumes/:id", m.Perfumes.Get)
		admin.PUT("/perfumes/:id", m.Perfumes.Update)
		admin.DELETE("/perfumes/:id", m.Perfumes.Delete)
		admin.POST("/perfumes/:id/image", m.Perfumes.UploadImage)

		admin.GET("/members", m.Members.List)
	}
}
