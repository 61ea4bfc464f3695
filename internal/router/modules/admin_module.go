package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/health-referral-api/internal/interface/http"
)

// AdminModule serves the worker approval routes under /api/admin, and again
// under /api/auth where older app builds call them.
// These routes carry no authentication.
type AdminModule struct {
	Handler *handlers.AdminHandler
}

func NewAdminModule(h *handlers.AdminHandler) *AdminModule {
	return &AdminModule{Handler: h}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	for _, prefix := range []string{"/admin", "/auth"} {
		g := rg.Group(prefix)
		g.GET("/pending-workers", m.Handler.PendingWorkers)
		g.POST("/approve-worker", m.Handler.ApproveWorker)
	}
}
