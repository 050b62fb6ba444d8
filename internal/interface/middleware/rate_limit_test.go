package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/perfume-catalog/internal/domain/entity"
)

// memCounter stands in for redis: EvalSha runs the INCR script against a map.
type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	fail   bool
}

func (m *memCounter) incr(keys []string) *redis.Cmd {
	if m.fail {
		return redis.NewCmdResult(nil, errors.New("connection refused"))
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	m.counts[keys[0]]++
	return redis.NewCmdResult(m.counts[keys[0]], nil)
}

func (m *memCounter) Eval(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return m.incr(keys)
}

func (m *memCounter) EvalSha(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return m.incr(keys)
}

func (m *memCounter) EvalRO(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return m.incr(keys)
}

func (m *memCounter) EvalShaRO(_ context.Context, _ string, keys []string, _ ...interface{}) *redis.Cmd {
	return m.incr(keys)
}

func (m *memCounter) ScriptExists(_ context.Context, hashes ...string) *redis.BoolSliceCmd {
	return redis.NewBoolSliceResult(make([]bool, len(hashes)), nil)
}

func (m *memCounter) ScriptLoad(_ context.Context, _ string) *redis.StringCmd {
	return redis.NewStringResult("sha", nil)
}

func (m *memCounter) TTL(_ context.Context, _ string) *redis.DurationCmd {
	return redis.NewDurationResult(30*time.Second, nil)
}

func limitedEngine(store counterStore, max int, allow AllowFunc, identity *entity.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if identity != nil {
			c.Set(CtxIdentityKey, identity)
		}
		c.Next()
	})
	r.POST("/perfumes/:id/comments", rateLimit(store, max, time.Minute, KeyByMember(), allow), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func hit(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = "203.0.113.9:4000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitCountsPerMemberAndRoute(t *testing.T) {
	store := &memCounter{}
	r := limitedEngine(store, 2, nil, &entity.Identity{ID: "m1"})

	for i := 1; i <= 2; i++ {
		w := hit(r, "/perfumes/p1/comments")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, strconv.Itoa(2-i), w.Header().Get("X-RateLimit-Remaining"))
	}

	w := hit(r, "/perfumes/p2/comments")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")

	assert.Equal(t, int64(3), store.counts["rl:path:/perfumes/:id/comments:member:m1"])
}

func TestRateLimitBypassAndFailOpen(t *testing.T) {
	admin := &entity.Identity{ID: "a1", IsAdmin: true}
	store := &memCounter{}
	r := limitedEngine(store, 1, AnyOf(AllowPrivateIP(), AllowAdmin()), admin)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "/perfumes/p1/comments").Code)
	}
	assert.Empty(t, store.counts)

	down := limitedEngine(&memCounter{fail: true}, 1, nil, &entity.Identity{ID: "m1"})
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(down, "/perfumes/p1/comments").Code)
	}
}

func TestAnyOf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "203.0.113.9:4000"

	no := func(*gin.Context) bool { return false }
	yes := func(*gin.Context) bool { return true }
	assert.False(t, AnyOf()(c))
	assert.False(t, AnyOf(no, AllowPrivateIP())(c))
	assert.True(t, AnyOf(no, yes)(c))

	c.Request.RemoteAddr = "10.0.0.4:4000"
	assert.True(t, AnyOf(no, AllowPrivateIP())(c))
}
