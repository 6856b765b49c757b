package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/residence-booking-backend/internal/auth"
	"github.com/nekogravitycat/residence-booking-backend/internal/booking"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.BookSlot(c.Request.Context(), booking.BookRequest{
		UserID:     auth.GetUserID(c),
		ResourceID: body.ResourceID,
		Date:       body.Date,
		Slot:       body.Slot,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) ListMine(c *gin.Context) {
	var req ListMyBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	list, total, err := h.service.ListUserBookings(c.Request.Context(), auth.GetUserID(c), req.Page, req.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.MapPage(list, NewBookingResponse, req.Page, req.PageSize, total))
}

func (h *Handler) ListAll(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, total, err := h.service.ListAll(c.Request.Context(), booking.Filter{
		UserID:     req.UserID,
		ResourceID: req.ResourceID,
		Status:     booking.Status(req.Status),
		DateFrom:   req.DateFrom,
		DateTo:     req.DateTo,
		Page:       req.Page,
		PageSize:   req.PageSize,
		SortOrder:  strings.ToUpper(req.SortOrder),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.MapPage(list, NewBookingResponse, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID, actor(c, auth.IsAdmin(c)))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// Cancel is the resident path: only the owner may cancel.
func (h *Handler) Cancel(c *gin.Context) {
	h.cancel(c, false, "Booking cancelled")
}

// AdminCancel skips the ownership check.
func (h *Handler) AdminCancel(c *gin.Context) {
	h.cancel(c, true, "Booking cancelled by admin")
}

func (h *Handler) cancel(c *gin.Context, asAdmin bool, message string) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.Cancel(c.Request.Context(), req.ID, actor(c, asAdmin))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, CancelResponse{Message: message, Booking: NewBookingResponse(b)})
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var req AvailableSlotsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	avail, err := h.service.ListAvailableSlots(c.Request.Context(), uri.ID, req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, AvailableSlotsResponse{
		Date:           avail.Date,
		ResourceID:     avail.ResourceID,
		ResourceType:   avail.ResourceType,
		AvailableSlots: avail.Slots,
	})
}

func actor(c *gin.Context, isAdmin bool) booking.Actor {
	return booking.Actor{UserID: auth.GetUserID(c), IsAdmin: isAdmin}
}
