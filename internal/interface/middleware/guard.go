package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/perfume-catalog/internal/application"
)

// RequireAuthenticated rejects anonymous requests. Browsers are redirected
// to the login page instead of receiving a 401.
func RequireAuthenticated() gin.HandlerFunc {
	return RequireAuthenticatedNext(nil)
}

// RequireAuthenticatedNext is RequireAuthenticated with next choosing where
// the login page returns to after a rejected form submission. A nil next
// uses the referring page on this site, or "/".
func RequireAuthenticatedNext(next func(*gin.Context) string) gin.HandlerFunc {
	policy := application.Authenticated()
	return func(c *gin.Context) {
		d := policy(CurrentIdentity(c), "")
		if d.Allowed() {
			c.Next()
			return
		}
		if WantsHTML(c) || IsForm(c) {
			status, target := http.StatusFound, c.Request.URL.RequestURI()
			if c.Request.Method != http.MethodGet {
				status, target = http.StatusSeeOther, formReturn(c, next)
			}
			c.Redirect(status, "/login?next="+url.QueryEscape(target))
			c.Abort()
			return
		}
		AbortWithError(c, d.Err)
	}
}

func formReturn(c *gin.Context, next func(*gin.Context) string) string {
	if next != nil {
		if t := next(c); t != "" {
			return t
		}
	}
	if ref, err := url.Parse(c.GetHeader("Referer")); err == nil && ref.Path != "" &&
		(ref.Host == "" || ref.Host == c.Request.Host) && !strings.HasPrefix(ref.Path, "//") {
		return ref.RequestURI()
	}
	return "/"
}

// RequireAdmin rejects requests whose identity is absent or not an admin.
func RequireAdmin() gin.HandlerFunc {
	policy := application.Admin()
	return func(c *gin.Context) {
		if d := policy(CurrentIdentity(c), ""); !d.Allowed() {
			AbortWithError(c, d.Err)
			return
		}
		c.Next()
	}
}

// RequireSelfOrAdmin lets admins through, and members whose id equals the
// target id. The target comes from route param idField, or the body's "id"
// or "_id".
func RequireSelfOrAdmin(idField string) gin.HandlerFunc {
	policy := application.SelfOrAdmin()
	return func(c *gin.Context) {
		if d := policy(CurrentIdentity(c), targetID(c, idField)); !d.Allowed() {
			AbortWithError(c, d.Err)
			return
		}
		c.Next()
	}
}

func targetID(c *gin.Context, idField string) string {
	if id := c.Param(idField); id != "" {
		return id
	}
	if c.Request.Body == nil {
		return ""
	}
	raw, err := io.ReadAll(c.Request.Body)
	// Restore the body for the handler.
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body struct {
		ID    string `json:"id"`
		AltID string `json:"_id"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	if body.ID != "" {
		return body.ID
	}
	return body.AltID
}
