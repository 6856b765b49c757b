package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/residence-booking-backend/internal/settings"
)

type Handler struct {
	service settings.Service
}

func NewHandler(service settings.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(s))
}

// ListTimeSlots returns the catalog for one type, falling back to the default schedule.
func (h *Handler) ListTimeSlots(c *gin.Context) {
	var uri ResourceTypeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	slots := h.service.GetSlotsForType(c.Request.Context(), uri.Type)
	c.JSON(http.StatusOK, TimeSlotsResponse{ResourceType: uri.Type, TimeSlots: slots})
}

func (h *Handler) AddResourceType(c *gin.Context) {
	var body AddResourceTypeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.service.AddResourceType(c.Request.Context(), settings.AddResourceTypeRequest{
		Label: body.Label,
		Icon:  body.Icon,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(s))
}

func (h *Handler) RemoveResourceType(c *gin.Context) {
	var uri ResourceTypeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	s, err := h.service.RemoveResourceType(c.Request.Context(), uri.Type)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(s))
}

func (h *Handler) AddTimeSlot(c *gin.Context) {
	var uri ResourceTypeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body TimeSlotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	s, err := h.service.AddTimeSlot(c.Request.Context(), uri.Type, body.Slot)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(s))
}

func (h *Handler) RemoveTimeSlot(c *gin.Context) {
	var uri ResourceTypeURI
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body TimeSlotRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	s, err := h.service.RemoveTimeSlot(c.Request.Context(), uri.Type, body.Slot)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(s))
}

func (h *Handler) UpdateBookingLimits(c *gin.Context) {
	var body UpdateLimitsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if err := body.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.service.UpdateBookingLimits(c.Request.Context(), settings.BookingLimits{
		DailyLimit:          *body.DailyLimit,
		WeeklyLimit:         *body.WeeklyLimit,
		AdvanceBookingLimit: *body.AdvanceBookingLimit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(s))
}
