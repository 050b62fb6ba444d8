package router

import "github.com/gin-gonic/gin"

// Module is a feature that mounts its routes on the group it is given.
type Module interface {
	Register(rg *gin.RouterGroup)
}

type mount struct {
	api    bool
	module Module
}

// Registry collects feature modules and mounts them on the site root or
// under /api.
type Registry struct {
	Engine      *gin.Engine
	Root        *gin.RouterGroup
	API         *gin.RouterGroup
	middlewares []gin.HandlerFunc
	mounts      []mount
}

func NewRegistry(engine *gin.Engine) *Registry {
	return &Registry{Engine: engine, Root: &engine.RouterGroup, API: engine.Group("/api")}
}

// Use adds middleware to the /api group only.
func (r *Registry) Use(mw ...gin.HandlerFunc) {
	r.middlewares = append(r.middlewares, mw...)
}

// Add mounts mod on the site root.
func (r *Registry) Add(mod Module) {
	r.mounts = append(r.mounts, mount{module: mod})
}

// AddAPI mounts mod under /api.
func (r *Registry) AddAPI(mod Module) {
	r.mounts = append(r.mounts, mount{api: true, module: mod})
}

func (r *Registry) RegisterAll() {
	if len(r.middlewares) > 0 {
		r.API.Use(r.middlewares...)
	}
	for _, m := range r.mounts {
		if m.api {
			m.module.Register(r.API)
			continue
		}
		m.module.Register(r.Root)
	}
}
