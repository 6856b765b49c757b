package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/residence-booking-backend/internal/auth"
	"github.com/nekogravitycat/residence-booking-backend/internal/notification"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/response"
)

type Handler struct {
	service notification.Service
}

func NewHandler(service notification.Service) *Handler {
	return &Handler{service: service}
}

// List returns live notifications addressed to the caller's role.
func (h *Handler) List(c *gin.Context) {
	h.list(c, notification.Filter{
		Role:     auth.GetUserRole(c),
		ReaderID: auth.GetUserID(c),
	})
}

// ListAll returns every notification. Admin only.
func (h *Handler) ListAll(c *gin.Context) {
	h.list(c, notification.Filter{})
}

func (h *Handler) list(c *gin.Context, filter notification.Filter) {
	var req ListNotificationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filter.Category = req.Category
	filter.Page = req.Page
	filter.PageSize = req.PageSize
	filter.SortOrder = strings.ToUpper(req.SortOrder)

	list, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list notifications"})
		return
	}

	items := make([]NotificationResponse, len(list))
	for i, n := range list {
		items[i] = NewResponse(n)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) UnreadCount(c *gin.Context) {
	count, err := h.service.UnreadCount(c.Request.Context(), auth.GetUserID(c), auth.GetUserRole(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count notifications"})
		return
	}

	c.JSON(http.StatusOK, UnreadCountResponse{UnreadCount: count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), req.ID, auth.GetUserID(c)); err != nil {
		switch {
		case errors.Is(err, notification.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notification"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), auth.GetUserID(c), auth.GetUserRole(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark notifications"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	n, err := h.service.Create(c.Request.Context(), notification.CreateRequest{
		Title:      body.Title,
		Message:    body.Message,
		Type:       body.Type,
		Category:   body.Category,
		TargetRole: body.TargetRole,
		ExpiresAt:  body.ExpiresAt,
	})
	if err != nil {
		switch {
		case errors.Is(err, notification.ErrTitleRequired),
			errors.Is(err, notification.ErrMessageRequired),
			errors.Is(err, notification.ErrInvalidType),
			errors.Is(err, notification.ErrInvalidCategory),
			errors.Is(err, notification.ErrInvalidTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create notification"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewResponse(n))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		switch {
		case errors.Is(err, notification.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete notification"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
