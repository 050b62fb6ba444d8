package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/perfume-catalog/internal/interface/http"
	"github.com/oksasatya/perfume-catalog/internal/interface/middleware"
)

// CatalogModule serves the public catalog and member comments.
// Public: GET /, /perfumes, /perfumes/search, /perfumes/:id, /brands
// Authenticated: POST|DELETE /perfumes/:id/comments, POST /perfumes/:id/comments/delete
type CatalogModule struct {
	Pages    *handlers.PageHandler
	Perfumes *handlers.PerfumeHandler
	Brands   *handlers.BrandHandler
	Comments *handlers.CommentHandler
	Redis    *redis.Client
}

func NewCatalogModule(pages *handlers.PageHandler, perfumes *handlers.PerfumeHandler, brands *handlers.BrandHandler, comments *handlers.CommentHandler, rdb *redis.Client) *CatalogModule {
	return &CatalogModule{Pages: pages, Perfumes: perfumes, Brands: brands, Comments: comments, Redis: rdb}
}

func (m *CatalogModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Pages.Home)
	rg.GET("/perfumes", m.Perfumes.List)
	rg.GET("/perfumes/search", middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByIPAndPath(), nil), m.Perfumes.Search)
	rg.GET("/perfumes/:id", m.Perfumes.Detail)
	rg.GET("/brands", m.Brands.List)

	auth := rg.Group("/perfumes/:id/comments")
	auth.Use(
		middleware.RequireAuthenticatedNext(func(c *gin.Context) string { return "/perfumes/" + c.Param("id") }),
		middleware.RateLimit(m.Redis, 30, time.Minute, middleware.KeyByMember(), middleware.AnyOf(middleware.AllowPrivateIP(), middleware.AllowAdmin())),
	)
	{
		auth.POST("", m.Comments.Upsert)
		auth.DELETE("", m.Comments.Delete)
		auth.POST("/delete", m.Comments.Delete)
	}
}
