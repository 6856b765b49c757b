package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/settings")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.Get)
		group.GET("/resource-types/:type/slots", h.ListTimeSlots)
	}

	// === Administration Routes ===
	adminGroup := group.Group("")
	adminGroup.Use(adminMiddleware)
	{
		adminGroup.POST("/resource-types", h.AddResourceType)
		adminGroup.DELETE("/resource-types/:type", h.RemoveResourceType)
		adminGroup.POST("/resource-types/:type/slots", h.AddTimeSlot)
		adminGroup.DELETE("/resource-types/:type/slots", h.RemoveTimeSlot)
		adminGroup.PUT("/booking-limits", h.UpdateBookingLimits)
	}
}
