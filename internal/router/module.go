package router

import "github.com/gin-gonic/gin"

// Module is a feature area (auth, admin, cases, debug) that mounts its routes on /api.
type Module interface {
	Register(rg *gin.RouterGroup)
}
