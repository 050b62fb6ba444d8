package router

import (
	"github.com/oksasatya/perfume-catalog/internal/container"
	handlers "github.com/oksasatya/perfume-catalog/internal/interface/http"
	"github.com/oksasatya/perfume-catalog/internal/router/modules"
)

// InitModules builds the handlers from c and registers every module.
// Call once during start-up, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	auth := handlers.NewAuthHandler(c.Members, c.Cookies, c.Logger)
	auth.GoogleEnabled = c.OAuth != nil

	oauth := handlers.NewOAuthHandler(c.Members, c.Cookies, c.Logger)
	oauth.Config = c.OAuth

	perfumes := handlers.NewPerfumeHandler(c.Perfumes, c.Logger)
	brands := handlers.NewBrandHandler(c.Brands)

	r.Add(modules.NewCatalogModule(
		handlers.NewPageHandler(c.Perfumes, c.Brands),
		perfumes,
		brands,
		handlers.NewCommentHandler(c.Perfumes),
		c.Redis,
	))
	r.Add(modules.NewAuthModule(auth, c.Redis, c.Config.AllowSelfAdminSeed))
	r.Add(modules.NewOAuthModule(oauth))
	r.Add(modules.NewDashboardModule(handlers.NewDashboardHandler(c.Brands, c.Perfumes, c.Members)))
	r.Add(modules.NewDocsModule())

	r.AddAPI(modules.NewAdminModule(brands, perfumes, handlers.NewMemberHandler(c.Members, c.Cookies)))
	if c.Config.DebugMetricsEnabled {
		r.AddAPI(modules.NewDebugModule(c.Redis))
	}
}
