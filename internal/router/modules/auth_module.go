package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/health-referral-api/internal/interface/http"
	"github.com/oksasatya/health-referral-api/internal/interface/middleware"
)

// AuthModule serves POST /api/auth/register and POST /api/auth/login,
// each limited per client IP and route.
type AuthModule struct {
	Handler       *handlers.AuthHandler
	Redis         *redis.Client
	PerMinute     int
	BypassPrivate bool
}

func NewAuthModule(h *handlers.AuthHandler, rdb *redis.Client, perMinute int, bypassPrivate bool) *AuthModule {
	return &AuthModule{Handler: h, Redis: rdb, PerMinute: perMinute, BypassPrivate: bypassPrivate}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	var allow middleware.AllowFunc
	if m.BypassPrivate {
		allow = middleware.AllowPrivateIP()
	}
	limiter := middleware.RateLimit(m.Redis, m.PerMinute, time.Minute, middleware.KeyByIPAndPath(), allow)

	rg.POST("/auth/register", limiter, m.Handler.Register)
	rg.POST("/auth/login", limiter, m.Handler.Login)
}
