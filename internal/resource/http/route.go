package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers resource-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Pictures are public so <img> tags can load them without a bearer token.
	files := g.Group("/files/resources")
	{
		files.GET("/:id/picture", h.ServePicture)
		files.GET("/:id/thumbnail", h.ServeThumbnail)
	}

	group := g.Group("/resources")

	// === Authenticated Routes ===
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.GET("/:id", h.Get)
	}

	// === Administration Routes ===
	adminGroup := group.Group("")
	adminGroup.Use(adminMiddleware)
	{
		adminGroup.POST("", h.Create)
		adminGroup.PATCH("/:id", h.Update)
		adminGroup.PATCH("/:id/status", h.UpdateStatus)
		adminGroup.POST("/:id/picture", h.UploadPicture)
		adminGroup.DELETE("/:id", h.Delete)
	}
}
