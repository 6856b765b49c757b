package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/apperror"
)

// Admission and cancellation outcomes. Each carries a stable kind for API clients.
var (
	ErrInvalidInput        = apperror.NewKind(http.StatusBadRequest, "invalid_input", "resourceId, date and slot are required")
	ErrInvalidDate         = ErrInvalidInput.WithMessage("date must be in YYYY-MM-DD format")
	ErrResourceNotFound    = apperror.NewKind(http.StatusNotFound, "resource_not_found", "Resource not found")
	ErrResourceUnavailable = apperror.NewKind(http.StatusConflict, "resource_unavailable", "This resource is out of service. Please choose another resource.")
	ErrNotFound            = apperror.NewKind(http.StatusNotFound, "booking_not_found", "Booking not found")
	ErrInvalidSlot         = apperror.NewKind(http.StatusBadRequest, "invalid_slot", "Invalid slot for this resource type. Please refresh and select an available slot.")
	ErrPastSlot            = apperror.NewKind(http.StatusBadRequest, "past_slot", "Cannot book slots in the past. Please select a current or future slot.")
	ErrPastBooking         = apperror.NewKind(http.StatusBadRequest, "past_booking", "Cannot cancel past bookings")
	ErrAdvanceLimit        = apperror.NewKind(http.StatusBadRequest, "advance_limit_exceeded", "Advance booking limit reached for this resource type.")
	ErrDailyLimit          = apperror.NewKind(http.StatusBadRequest, "daily_limit_exceeded", "Daily booking limit reached for this resource type.")
	ErrWeeklyLimit         = apperror.NewKind(http.StatusBadRequest, "weekly_limit_exceeded", "Weekly booking limit reached for this resource type.")
	ErrSlotConflict        = apperror.NewKind(http.StatusConflict, "slot_conflict", "You already have a booking in this time slot. Only 1 resource per time slot is allowed.")
	ErrAlreadyBooked       = apperror.NewKind(http.StatusConflict, "slot_conflict", "This slot is already booked.")
	ErrContention          = apperror.NewKind(http.StatusConflict, "slot_conflict", "Booking is busy, please retry.")
	ErrForbidden           = apperror.NewKind(http.StatusForbidden, "forbidden", "Not allowed")
	ErrAlreadyCancelled    = apperror.NewKind(http.StatusBadRequest, "already_cancelled", "Booking is already cancelled")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

// Booking is one reservation of a resource slot on a civil date.
type Booking struct {
	ID          string
	UserID      string
	ResourceID  string
	Date        string // YYYY-MM-DD
	Slot        string // HH:MM-HH:MM
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CancelledAt *time.Time

	// Joined by the repository on reads.
	ResourceName     string
	ResourceType     string
	ResourceLocation string
	UserEmail        string
	UserName         *string

	// IsPast is computed by the service with the configured clock.
	IsPast bool
}

// Filter defines parameters for listing bookings.
type Filter struct {
	UserID     string
	ResourceID string
	Status     Status
	DateFrom   string
	DateTo     string
	Page       int
	PageSize   int
	SortOrder  string
}

// CountFilter selects a user's active bookings on resources of one type.
// Date bounds are optional; After is exclusive, From and To are inclusive.
type CountFilter struct {
	UserID       string
	ResourceType string
	After        string
	From         string
	To           string
}

// Actor is the user on whose behalf a cancellation runs.
type Actor struct {
	UserID  string
	IsAdmin bool
}
