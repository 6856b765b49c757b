package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.POST("", h.Create)
		group.GET("/me", h.ListMine)
		group.GET("/:id", h.Get)
		group.POST("/:id/cancel", h.Cancel)
	}

	g.GET("/resources/:id/available-slots", authMiddleware, h.AvailableSlots)

	// === Administration Routes ===
	adminGroup := g.Group("/admin/bookings")
	adminGroup.Use(authMiddleware, adminMiddleware)
	{
		adminGroup.GET("", h.ListAll)
		adminGroup.POST("/:id/cancel", h.AdminCancel)
	}
}
