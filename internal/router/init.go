package router

import (
	"github.com/oksasatya/health-referral-api/internal/container"
	handlers "github.com/oksasatya/health-referral-api/internal/interface/http"
	"github.com/oksasatya/health-referral-api/internal/router/modules"
)

// InitModules builds every feature module from the container and adds it to the registry.
// Call once during startup, before RegisterAll.
func InitModules(r *Registry, ct *container.Container) {
	cfg := ct.Config

	authHandler := handlers.NewAuthHandler(ct.AuthService(), ct.Logger)
	adminHandler := handlers.NewAdminHandler(ct.AdminService(), ct.Logger)
	caseHandler := handlers.NewCaseHandler(ct.CaseService(), ct.Logger, cfg.MaxUploadBytes)

	r.Add(modules.NewAuthModule(authHandler, ct.Redis, cfg.AuthRateLimit, cfg.RateLimitBypassPrivate))
	r.Add(modules.NewAdminModule(adminHandler))
	r.Add(modules.NewCaseModule(caseHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(ct.Redis))
	}
}
