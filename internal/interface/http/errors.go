package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/internal/interface/middleware"
	"github.com/oksasatya/perfume-catalog/pkg/response"
	"github.com/oksasatya/perfume-catalog/pkg/validation"
)

// page carries the fields every HTML template reads.
type page struct {
	Title    string
	Identity *entity.Identity
}

func newPage(c *gin.Context, title string) page {
	return page{Title: title, Identity: middleware.CurrentIdentity(c)}
}

type errorPage struct {
	page
	Status  int
	Message string
	Code    string
	Back    string
}

// respondError writes the JSON envelope for a service error.
func respondError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// renderError writes the HTML error panel for a service error.
func renderError(c *gin.Context, err error, back string) {
	e := application.AsError(err)
	if e.Kind == application.KindInternal {
		_ = c.Error(err)
	}
	status := middleware.StatusOf(e.Kind)
	c.HTML(status, "error.html", errorPage{
		page:    newPage(c, "Error"),
		Status:  status,
		Message: e.Message,
		Code:    e.Code,
		Back:    back,
	})
	c.Abort()
}

// respondBindError reports a malformed or invalid request body.
func respondBindError(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "Invalid payload", validation.ToDetails(err))
}

func currentID(c *gin.Context) string {
	if id := middleware.CurrentIdentity(c); id != nil {
		return id.ID
	}
	return ""
}
