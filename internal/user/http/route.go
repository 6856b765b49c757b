package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts registration, login, the caller's profile and resident administration.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)

	me := g.Group("/me", authMiddleware)
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
		me.PUT("/password", h.ChangePassword)
	}

	admin := g.Group("/users", authMiddleware, adminMiddleware)
	{
		admin.GET("", h.List)
		admin.GET("/stats", h.Stats)
		admin.GET("/:id", h.Get)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
