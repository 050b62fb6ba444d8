package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/perfume-catalog/internal/application"
	"github.com/oksasatya/perfume-catalog/pkg/response"
)

// ExposeInternalErrors adds the wrapped cause to InternalError responses.
// Set in development only.
var ExposeInternalErrors bool

// StatusOf maps an error kind to its HTTP status.
func StatusOf(k application.Kind) int {
	switch k {
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindValidation, application.KindBadRequest, application.KindConflict, application.KindInvalidCredentials:
		return http.StatusBadRequest
	case application.KindUnauthorized:
		return http.StatusUnauthorized
	case application.KindForbidden:
		return http.StatusForbidden
	case application.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the JSON error envelope for err and aborts the chain.
func AbortWithError(c *gin.Context, err error) {
	e := application.AsError(err)
	var details any
	if len(e.Details) > 0 {
		details = e.Details
	}
	if e.Kind == application.KindInternal {
		_ = c.Error(err)
		if ExposeInternalErrors && e.Err != nil {
			details = e.Err.Error()
		}
	}
	response.ErrorWithCode[any](c, StatusOf(e.Kind), e.Code, e.Message, details)
}
