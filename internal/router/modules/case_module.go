package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/health-referral-api/internal/interface/http"
)

type CaseModule struct {
	Handler *handlers.CaseHandler
}

func NewCaseModule(h *handlers.CaseHandler) *CaseModule {
	return &CaseModule{Handler: h}
}

func (m *CaseModule) Register(rg *gin.RouterGroup) {
	cases := rg.Group("/cases")
	cases.POST("", m.Handler.Create)
	cases.GET("", m.Handler.List)
	cases.GET("/search", m.Handler.Search)
}
