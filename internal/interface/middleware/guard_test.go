package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
	"github.com/oksasatya/perfume-catalog/pkg/helpers"
)

type staticVerifier map[string]*entity.Identity

func (v staticVerifier) VerifyToken(_ context.Context, token string) (*entity.Identity, bool) {
	id, ok := v[token]
	return id, ok
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestIDMiddleware(), AttachIdentity(staticVerifier{
		"member": {ID: "m1", Email: "user@myteam.com"},
		"admin":  {ID: "a1", Email: "admin@myteam.com", IsAdmin: true},
	}))
	ok := func(c *gin.Context) { c.String(http.StatusOK, "ok") }
	r.GET("/open", ok)
	r.GET("/auth", append(mw, ok)...)
	r.GET("/members/:id", append(mw, ok)...)
	r.DELETE("/members", append(mw, ok)...)
	return r
}

func do(r *gin.Engine, method, path, token, accept, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.AddCookie(&http.Cookie{Name: helpers.TokenCookie, Value: token})
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAttachIdentityNeverRejects(t *testing.T) {
	r := newEngine()
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/open", "bogus", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/open", "", "", "").Code)
}

func TestRequireAuthenticated(t *testing.T) {
	r := newEngine(RequireAuthenticated())

	w := do(r, http.MethodGet, "/auth", "", "application/json", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])

	w = do(r, http.MethodGet, "/auth", "", "text/html,application/xhtml+xml", "")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/login"))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/auth", "member", "", "").Code)
}

func TestRequireAuthenticatedRedirectsFormPosts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachIdentity(staticVerifier{}))
	r.POST("/perfumes/:id/comments", RequireAuthenticatedNext(func(c *gin.Context) string {
		return "/perfumes/" + c.Param("id")
	}), func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/plain", RequireAuthenticated(), func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	post := func(path, contentType, accept, referer string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("rating=2&content=ok"))
		req.Header.Set("Content-Type", contentType)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		if referer != "" {
			req.Header.Set("Referer", referer)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/perfumes/p1/comments", "application/x-www-form-urlencoded", "text/html", "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fperfumes%2Fp1", w.Header().Get("Location"))

	w = post("/plain", "application/x-www-form-urlencoded", "", "http://example.com/perfumes/p2?x=1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login?next=%2Fperfumes%2Fp2%3Fx%3D1", w.Header().Get("Location"))

	w = post("/plain", "application/x-www-form-urlencoded", "", "http://evil.test/steal")
	assert.Equal(t, "/login?next=%2F", w.Header().Get("Location"))

	w = post("/plain", "application/json", "application/json", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r := newEngine(RequireAdmin())
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/auth", "", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/auth", "member", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/auth", "admin", "", "").Code)
}

func TestRequireSelfOrAdmin(t *testing.T) {
	r := newEngine(RequireSelfOrAdmin("id"))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/members/m1", "member", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/members/m2", "member", "", "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/members/m2", "admin", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/members/m1", "", "", "").Code)

	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/members", "member", "", `{"_id":"m1"}`).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/members", "member", "", `{"id":"m2"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/members", "member", "", "").Code)
}

func TestRequestIDEchoed(t *testing.T) {
	r := newEngine()
	w := do(r, http.MethodGet, "/open", "", "", "")
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set(HeaderRequestID, "0b8f6f5e-4a53-4f8a-9a1c-3f7d2c1e9b10")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "0b8f6f5e-4a53-4f8a-9a1c-3f7d2c1e9b10", w.Header().Get(HeaderRequestID))
}

func TestRateLimitWithoutRedisIsNoop(t *testing.T) {
	r := newEngine(RateLimit(nil, 1, 0, KeyByIPAndPath(), nil))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/auth", "", "", "").Code)
	}
}
