package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/perfume-catalog/internal/interface/http"
)

type OAuthModule struct {
	Handler *handlers.OAuthHandler
}

func NewOAuthModule(h *handlers.OAuthHandler) *OAuthModule {
	return &OAuthModule{Handler: h}
}

func (m *OAuthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/oauth/google", m.Handler.Start)
	rg.GET("/oauth/google/callback", m.Handler.Callback)
}
