package booking

import (
	"context"
	"strings"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/timeslot"
	"github.com/nekogravitycat/residence-booking-backend/internal/resource"
)

// Availability is the advisory free-slot list for one resource and date.
type Availability struct {
	Date         string
	ResourceID   string
	ResourceType string
	Slots        []string
}

// ListAvailableSlots subtracts active bookings from the catalog and drops slots that have started.
// Order follows the catalog, which is kept sorted by start time.
func (s *service) ListAvailableSlots(ctx context.Context, resourceID, date string) (*Availability, error) {
	res, err := s.findResource(ctx, strings.TrimSpace(resourceID))
	if err != nil {
		return nil, err
	}

	date = strings.TrimSpace(date)
	if date == "" || !clock.IsValidDate(date) {
		return nil, ErrInvalidDate
	}

	out := &Availability{
		Date:         date,
		ResourceID:   res.ID,
		ResourceType: res.Type,
		Slots:        []string{},
	}

	today := s.clock.Today()
	if date < today || res.Status == resource.StatusOutOfService {
		return out, nil
	}

	booked, err := s.repo.ActiveSlots(ctx, res.ID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(booked))
	for _, slot := range booked {
		taken[slot] = struct{}{}
	}

	for _, raw := range s.catalog.GetSlotsForType(ctx, res.Type) {
		if _, ok := taken[raw]; ok {
			continue
		}
		if date == today {
			slot, err := timeslot.Parse(raw)
			if err != nil || s.clock.IsPast(date, slot) {
				continue
			}
		}
		out.Slots = append(out.Slots, raw)
	}
	return out, nil
}
