package http

import "github.com/gin-gonic/gin"

// RouterContext carries the route groups modules mount onto.
type RouterContext struct {
	// V1 is the bare /api/v1 group, no middleware beyond the global chain.
	V1 *gin.RouterGroup
	// Public is /api/v1/public with intake rate limiting, no auth.
	Public *gin.RouterGroup
	// Portal requires a valid customer access token.
	Portal *gin.RouterGroup
	// Admin requires a valid access token with the admin role.
	Admin *gin.RouterGroup
}

// Module is an HTTP-facing domain module.
type Module interface {
	// Name returns the module name for logging.
	Name() string
	// RegisterRoutes mounts the module's routes.
	RegisterRoutes(ctx *RouterContext)
}
