package settings

import (
	"errors"
	"net/http"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/apperror"
)

// ErrNotFound is returned by the repository when no settings document exists yet.
var ErrNotFound = errors.New("settings not found")

var (
	ErrLabelRequired    = apperror.New(http.StatusBadRequest, "resource type label is required")
	ErrTypeExists       = apperror.New(http.StatusConflict, "resource type already exists")
	ErrTypeNotFound     = apperror.New(http.StatusNotFound, "resource type not found")
	ErrInvalidSlot      = apperror.New(http.StatusBadRequest, "invalid time slot format, use HH:MM-HH:MM (24-hour)")
	ErrInvalidSlotRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrSlotExists       = apperror.New(http.StatusConflict, "time slot already exists for this resource type")
	ErrSlotOverlap      = apperror.New(http.StatusBadRequest, "time slot overlaps with an existing slot")
	ErrSlotNotFound     = apperror.New(http.StatusNotFound, "time slot not found for this resource type")
	ErrInvalidLimits    = apperror.New(http.StatusBadRequest, "booking limits must be non-negative")
)

// ResourceType is a bookable category together with its slot catalog.
type ResourceType struct {
	Value     string   `json:"value" toml:"value"`
	Label     string   `json:"label" toml:"label"`
	Icon      string   `json:"icon" toml:"icon"`
	TimeSlots []string `json:"time_slots" toml:"time_slots"`
}

// BookingLimits are the per-user quotas enforced at admission.
type BookingLimits struct {
	DailyLimit          int `json:"daily_limit" toml:"daily_limit"`
	WeeklyLimit         int `json:"weekly_limit" toml:"weekly_limit"`
	AdvanceBookingLimit int `json:"advance_booking_limit" toml:"advance_booking_limit"`
}

// Settings is the single system-wide configuration document.
type Settings struct {
	ResourceTypes []ResourceType `json:"resource_types" toml:"resource_types"`
	BookingLimits BookingLimits  `json:"booking_limits" toml:"booking_limits"`
	UpdatedAt     time.Time      `json:"updated_at" toml:"-"`
}

// FindType returns the resource type with the given value, or nil.
func (s *Settings) FindType(value string) *ResourceType {
	for i := range s.ResourceTypes {
		if s.ResourceTypes[i].Value == value {
			return &s.ResourceTypes[i]
		}
	}
	return nil
}

// Clone returns a deep copy.
func (s *Settings) Clone() *Settings {
	out := &Settings{
		ResourceTypes: make([]ResourceType, len(s.ResourceTypes)),
		BookingLimits: s.BookingLimits,
		UpdatedAt:     s.UpdatedAt,
	}
	for i, rt := range s.ResourceTypes {
		rt.TimeSlots = append([]string(nil), rt.TimeSlots...)
		out.ResourceTypes[i] = rt
	}
	return out
}
