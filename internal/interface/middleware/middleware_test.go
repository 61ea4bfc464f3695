package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func limitedEngine(rdb *redis.Client, max int, allow AllowFunc) *gin.Engine {
	r := gin.New()
	r.Use(RealIP())
	rl := RateLimit(rdb, max, time.Minute, KeyByIPAndPath(), allow)
	r.POST("/api/auth/login", rl, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/auth/register", rl, func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func post(r http.Handler, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.Header.Set("X-Forwarded-For", ip)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	_, rdb := setupRedis(t)
	r := limitedEngine(rdb, 2, nil)

	for i := 0; i < 2; i++ {
		w := post(r, "/api/auth/login", "203.0.113.7")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	w := post(r, "/api/auth/login", "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), `"success":false`)

	// separate buckets per path and per client
	assert.Equal(t, http.StatusOK, post(r, "/api/auth/register", "203.0.113.7").Code)
	assert.Equal(t, http.StatusOK, post(r, "/api/auth/login", "198.51.100.1").Code)
}

func TestRateLimit_WindowExpires(t *testing.T) {
	mr, rdb := setupRedis(t)
	r := limitedEngine(rdb, 1, nil)

	assert.Equal(t, http.StatusOK, post(r, "/api/auth/login", "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/api/auth/login", "203.0.113.7").Code)

	mr.FastForward(61 * time.Second)
	assert.Equal(t, http.StatusOK, post(r, "/api/auth/login", "203.0.113.7").Code)
}

func TestRateLimit_PrivateBypass(t *testing.T) {
	_, rdb := setupRedis(t)
	r := limitedEngine(rdb, 1, AllowPrivateIP())

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r, "/api/auth/login", "192.168.1.20").Code)
	}
	assert.Equal(t, http.StatusOK, post(r, "/api/auth/login", "203.0.113.7").Code)
	assert.Equal(t, http.StatusTooManyRequests, post(r, "/api/auth/login", "203.0.113.7").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	mr, rdb := setupRedis(t)
	r := limitedEngine(rdb, 1, nil)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r, "/api/auth/login", "203.0.113.7").Code)
	}
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := limitedEngine(nil, 1, nil)
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, post(r, "/api/auth/login", "203.0.113.7").Code)
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = c.GetString(CtxRequestIDKey) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	var seen string
	r.GET("/", func(c *gin.Context) { seen = c.GetString(CtxRealIPKey) })

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "198.51.100.9", "X-Forwarded-For": "203.0.113.1"}, "198.51.100.9"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.1"}, "203.0.113.1"},
		{"garbage falls back", map[string]string{"X-Forwarded-For": "not-an-ip"}, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tc.want, seen)
		})
	}
}
