package http

import (
	"github.com/gin-gonic/gin"
)

// RouteGroup is a set of API routes registered under /api.
type RouteGroup interface {
	RegisterRoutes(rg *gin.RouterGroup)
}
