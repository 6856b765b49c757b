package http

import (
	"errors"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/booking"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/request"
	resHttp "github.com/nekogravitycat/residence-booking-backend/internal/resource/http"
	userHttp "github.com/nekogravitycat/residence-booking-backend/internal/user/http"
)

type BookingResponse struct {
	ID          string              `json:"id"`
	Resource    resHttp.ResourceTag `json:"resource"`
	User        userHttp.UserTag    `json:"user"`
	Date        string              `json:"date"`
	Slot        string              `json:"slot"`
	Status      string              `json:"status"`
	IsPast      bool                `json:"is_past"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	CancelledAt *time.Time          `json:"cancelled_at,omitempty"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID: b.ID,
		Resource: resHttp.ResourceTag{
			ID:       b.ResourceID,
			Name:     b.ResourceName,
			Type:     b.ResourceType,
			Location: b.ResourceLocation,
		},
		User:        userHttp.UserTag{ID: b.UserID, Email: b.UserEmail, Name: b.UserName},
		Date:        b.Date,
		Slot:        b.Slot,
		Status:      string(b.Status),
		IsPast:      b.IsPast,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		CancelledAt: b.CancelledAt,
	}
}

// CreateBookingRequest leaves presence checks to the service so every
// rejection carries an admission error kind.
type CreateBookingRequest struct {
	ResourceID string `json:"resource_id"`
	Date       string `json:"date"`
	Slot       string `json:"slot"`
}

type ListMyBookingsRequest struct {
	request.ListParams
}

// ListBookingsRequest defines query parameters for the admin listing.
type ListBookingsRequest struct {
	request.ListParams
	ResourceID string `form:"resource_id" binding:"omitempty,uuid"`
	UserID     string `form:"user_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=active cancelled"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
}

// Validate performs custom validation for ListBookingsRequest.
func (r *ListBookingsRequest) Validate() error {
	if r.DateFrom != "" && !clock.IsValidDate(r.DateFrom) {
		return errors.New("date_from must be in YYYY-MM-DD format")
	}
	if r.DateTo != "" && !clock.IsValidDate(r.DateTo) {
		return errors.New("date_to must be in YYYY-MM-DD format")
	}
	if r.DateFrom != "" && r.DateTo != "" && r.DateFrom > r.DateTo {
		return errors.New("date_from must not be after date_to")
	}
	return nil
}

type AvailableSlotsRequest struct {
	Date string `form:"date"`
}

type AvailableSlotsResponse struct {
	Date           string   `json:"date"`
	ResourceID     string   `json:"resource_id"`
	ResourceType   string   `json:"resource_type"`
	AvailableSlots []string `json:"available_slots"`
}

type CancelResponse struct {
	Message string          `json:"message"`
	Booking BookingResponse `json:"booking"`
}
