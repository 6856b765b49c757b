package http

import (
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/settings"
)

type ResourceTypeResponse struct {
	Value     string   `json:"value"`
	Label     string   `json:"label"`
	Icon      string   `json:"icon"`
	TimeSlots []string `json:"time_slots"`
}

type BookingLimitsResponse struct {
	DailyLimit          int `json:"daily_limit"`
	WeeklyLimit         int `json:"weekly_limit"`
	AdvanceBookingLimit int `json:"advance_booking_limit"`
}

type SettingsResponse struct {
	ResourceTypes []ResourceTypeResponse `json:"resource_types"`
	BookingLimits BookingLimitsResponse  `json:"booking_limits"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

func NewResponse(s *settings.Settings) SettingsResponse {
	types := make([]ResourceTypeResponse, len(s.ResourceTypes))
	for i, rt := range s.ResourceTypes {
		slots := rt.TimeSlots
		if slots == nil {
			slots = []string{}
		}
		types[i] = ResourceTypeResponse{
			Value:     rt.Value,
			Label:     rt.Label,
			Icon:      rt.Icon,
			TimeSlots: slots,
		}
	}

	return SettingsResponse{
		ResourceTypes: types,
		BookingLimits: BookingLimitsResponse{
			DailyLimit:          s.BookingLimits.DailyLimit,
			WeeklyLimit:         s.BookingLimits.WeeklyLimit,
			AdvanceBookingLimit: s.BookingLimits.AdvanceBookingLimit,
		},
		UpdatedAt: s.UpdatedAt,
	}
}

type TimeSlotsResponse struct {
	ResourceType string   `json:"resource_type"`
	TimeSlots    []string `json:"time_slots"`
}

type AddResourceTypeRequest struct {
	Label string `json:"label" binding:"required"`
	Icon  string `json:"icon"`
}

func (r *AddResourceTypeRequest) Validate() error {
	if strings.TrimSpace(r.Label) == "" {
		return errors.New("label cannot be empty")
	}
	return nil
}

type ResourceTypeURI struct {
	Type string `uri:"type" binding:"required"`
}

type TimeSlotRequest struct {
	Slot string `json:"slot" binding:"required"`
}

type UpdateLimitsRequest struct {
	DailyLimit          *int `json:"daily_limit" binding:"required"`
	WeeklyLimit         *int `json:"weekly_limit" binding:"required"`
	AdvanceBookingLimit *int `json:"advance_booking_limit" binding:"required"`
}

func (r *UpdateLimitsRequest) Validate() error {
	if *r.DailyLimit < 0 || *r.WeeklyLimit < 0 || *r.AdvanceBookingLimit < 0 {
		return errors.New("limits must be non-negative")
	}
	return nil
}
