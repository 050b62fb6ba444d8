package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/perfume-catalog/internal/interface/http"
	"github.com/oksasatya/perfume-catalog/internal/interface/middleware"
)

type AuthModule struct {
	Handler   *handlers.AuthHandler
	Redis     *redis.Client
	SelfAdmin bool
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client, selfAdmin bool) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb, SelfAdmin: selfAdmin}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	registerLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.GET("/login", m.Handler.LoginPage)
	rg.POST("/auth/register", registerLimiter, m.Handler.Register)
	rg.POST("/auth/login", loginLimiter, m.Handler.Login)
	rg.POST("/auth/logout", m.Handler.Logout)

	auth := rg.Group("/")
	auth.Use(middleware.RequireAuthenticated())
	{
		auth.GET("/auth/me", m.Handler.Me)
		auth.PUT("/auth/me", m.Handler.UpdateMe)
		auth.POST("/auth/me/password", loginLimiter, m.Handler.ChangePassword)
		if m.SelfAdmin {
			auth.POST("/make-me-admin", m.Handler.MakeMeAdmin)
		}
	}
}
