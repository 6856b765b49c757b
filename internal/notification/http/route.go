package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/notifications")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/unread-count", h.UnreadCount)
		group.PUT("/mark-all-read", h.MarkAllRead)
		group.PUT("/:id/read", h.MarkRead)
	}

	// === Administration Routes ===
	adminGroup := group.Group("")
	adminGroup.Use(adminMiddleware)
	{
		adminGroup.GET("/all", h.ListAll)
		adminGroup.POST("", h.Create)
		adminGroup.DELETE("/:id", h.Delete)
	}
}
