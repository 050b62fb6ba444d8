package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
)

const CtxIdentityKey = "identity"

// IdentityVerifier resolves a session token; any failure yields no identity.
type IdentityVerifier interface {
	VerifyToken(ctx context.Context, token string) (*entity.Identity, bool)
}

// AttachIdentity reads the token cookie and stores the verified identity in
// the Gin context. It never rejects a request.
func AttachIdentity(v IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(helpers.TokenCookie); err == nil && token != "" {
			if id, ok := v.VerifyToken(c.Request.Context(), token); ok {
				c.Set(CtxIdentityKey, id)
			}
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity attached to c, or nil.
func CurrentIdentity(c *gin.Context) *entity.Identity {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*entity.Identity)
	return id
}
