package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nekogravitycat/residence-booking-backend/internal/db"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/timeslot"
)

type AddResourceTypeRequest struct {
	Label string
	Icon  string
}

// Service is the configuration repository consumed by resources and the admission controller.
type Service interface {
	Get(ctx context.Context) (*Settings, error)
	// GetSlotsForType never fails: a missing or empty catalog yields FallbackSlots.
	GetSlotsForType(ctx context.Context, resourceType string) []string
	// GetLimits never fails: a read error yields DefaultLimits.
	GetLimits(ctx context.Context) BookingLimits
	HasResourceType(ctx context.Context, value string) (bool, error)

	AddResourceType(ctx context.Context, req AddResourceTypeRequest) (*Settings, error)
	RemoveResourceType(ctx context.Context, value string) (*Settings, error)
	AddTimeSlot(ctx context.Context, resourceType, slot string) (*Settings, error)
	RemoveTimeSlot(ctx context.Context, resourceType, slot string) (*Settings, error)
	UpdateBookingLimits(ctx context.Context, limits BookingLimits) (*Settings, error)
}

type service struct {
	repo     Repository
	tx       db.TxManager
	defaults *Settings
	log      *logger.Logger
}

// NewService creates a settings Service. defaults seeds the document on first access.
func NewService(repo Repository, tx db.TxManager, defaults *Settings, log *logger.Logger) Service {
	if defaults == nil {
		defaults = DefaultSettings()
	}
	return &service{
		repo:     repo,
		tx:       tx,
		defaults: defaults,
		log:      log,
	}
}

func (s *service) Get(ctx context.Context) (*Settings, error) {
	current, err := s.repo.Get(ctx)
	if err == nil {
		return current, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	s.log.Info("seeding default settings", logger.Action("settings.seed"))
	if err := s.repo.Create(ctx, s.defaults.Clone()); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx)
}

func (s *service) GetSlotsForType(ctx context.Context, resourceType string) []string {
	current, err := s.Get(ctx)
	if err != nil {
		s.log.Warn("falling back to default slots", logger.F("TYPE", resourceType), logger.Error(err))
		return append([]string(nil), FallbackSlots...)
	}

	rt := current.FindType(resourceType)
	if rt == nil || len(rt.TimeSlots) == 0 {
		return append([]string(nil), FallbackSlots...)
	}
	return append([]string(nil), rt.TimeSlots...)
}

func (s *service) GetLimits(ctx context.Context) BookingLimits {
	current, err := s.Get(ctx)
	if err != nil {
		s.log.Warn("falling back to default booking limits", logger.Error(err))
		return DefaultLimits
	}
	return current.BookingLimits
}

func (s *service) HasResourceType(ctx context.Context, value string) (bool, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return false, err
	}
	return current.FindType(value) != nil, nil
}

func (s *service) AddResourceType(ctx context.Context, req AddResourceTypeRequest) (*Settings, error) {
	label := strings.TrimSpace(req.Label)
	value := NormalizeTypeValue(label)
	if value == "" {
		return nil, ErrLabelRequired
	}

	return s.mutate(ctx, func(current *Settings) error {
		if current.FindType(value) != nil {
			return ErrTypeExists
		}
		current.ResourceTypes = append(current.ResourceTypes, ResourceType{
			Value:     value,
			Label:     label,
			Icon:      strings.TrimSpace(req.Icon),
			TimeSlots: append([]string(nil), FallbackSlots...),
		})
		return nil
	})
}

func (s *service) RemoveResourceType(ctx context.Context, value string) (*Settings, error) {
	return s.mutate(ctx, func(current *Settings) error {
		for i, rt := range current.ResourceTypes {
			if rt.Value == value {
				current.ResourceTypes = append(current.ResourceTypes[:i], current.ResourceTypes[i+1:]...)
				return nil
			}
		}
		return ErrTypeNotFound
	})
}

func (s *service) AddTimeSlot(ctx context.Context, resourceType, slot string) (*Settings, error) {
	slot = strings.TrimSpace(slot)

	return s.mutate(ctx, func(current *Settings) error {
		rt := current.FindType(resourceType)
		if rt == nil {
			return ErrTypeNotFound
		}

		existing := make([]timeslot.Slot, 0, len(rt.TimeSlots))
		for _, raw := range rt.TimeSlots {
			if parsed, err := timeslot.Parse(raw); err == nil {
				existing = append(existing, parsed)
			}
		}

		if _, err := checkSlot(slot, existing); err != nil {
			return err
		}

		rt.TimeSlots = append(rt.TimeSlots, slot)
		timeslot.Sort(rt.TimeSlots)
		return nil
	})
}

// RemoveTimeSlot drops slot from the catalog. Existing bookings on it are left untouched.
func (s *service) RemoveTimeSlot(ctx context.Context, resourceType, slot string) (*Settings, error) {
	return s.mutate(ctx, func(current *Settings) error {
		rt := current.FindType(resourceType)
		if rt == nil {
			return ErrTypeNotFound
		}
		for i, existing := range rt.TimeSlots {
			if existing == slot {
				rt.TimeSlots = append(rt.TimeSlots[:i], rt.TimeSlots[i+1:]...)
				return nil
			}
		}
		return ErrSlotNotFound
	})
}

func (s *service) UpdateBookingLimits(ctx context.Context, limits BookingLimits) (*Settings, error) {
	if err := validateLimits(limits); err != nil {
		return nil, err
	}

	return s.mutate(ctx, func(current *Settings) error {
		current.BookingLimits = limits
		return nil
	})
}

// mutate applies fn to the locked settings row and persists the result.
func (s *service) mutate(ctx context.Context, fn func(current *Settings) error) (*Settings, error) {
	var result *Settings

	err := s.tx.Do(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetForUpdate(ctx)
		if errors.Is(err, ErrNotFound) {
			if err := s.repo.Create(ctx, s.defaults.Clone()); err != nil {
				return err
			}
			current, err = s.repo.GetForUpdate(ctx)
		}
		if err != nil {
			return err
		}

		if err := fn(current); err != nil {
			return err
		}

		if err := s.repo.Update(ctx, current); err != nil {
			return err
		}
		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if inv, ok := s.repo.(interface{ Invalidate(context.Context) }); ok {
		inv.Invalidate(ctx)
	}
	return result, nil
}

// NormalizeTypeValue turns a label such as "Study Room" into "study_room".
func NormalizeTypeValue(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), "_")
}

func validateLimits(l BookingLimits) error {
	if l.DailyLimit < 0 || l.WeeklyLimit < 0 || l.AdvanceBookingLimit < 0 {
		return ErrInvalidLimits
	}
	return nil
}

// checkSlot parses raw and rejects duplicates of, or overlaps with, existing.
func checkSlot(raw string, existing []timeslot.Slot) (timeslot.Slot, error) {
	slot, err := timeslot.Parse(raw)
	switch {
	case errors.Is(err, timeslot.ErrInvalidRange):
		return timeslot.Slot{}, ErrInvalidSlotRange
	case err != nil:
		return timeslot.Slot{}, ErrInvalidSlot
	}

	for _, other := range existing {
		if other == slot {
			return timeslot.Slot{}, ErrSlotExists
		}
		if slot.Overlaps(other) {
			return timeslot.Slot{}, ErrSlotOverlap.WithMessage(
				fmt.Sprintf("time slot %s overlaps with existing slot %s", slot, other),
			)
		}
	}
	return slot, nil
}
