package modules

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/oksasatya/perfume-catalog/docs"
)

// DocsModule serves the OpenAPI document and Swagger UI at /swagger.
type DocsModule struct{}

func NewDocsModule() *DocsModule { return &DocsModule{} }

func (m *DocsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
