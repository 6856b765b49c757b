package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/nekogravitycat/residence-booking-backend/internal/db"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/eventbus"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/timeslot"
	"github.com/nekogravitycat/residence-booking-backend/internal/resource"
	"github.com/nekogravitycat/residence-booking-backend/internal/settings"
)

// ResourceFinder looks resources up by id.
type ResourceFinder interface {
	GetByID(ctx context.Context, id string) (*resource.Resource, error)
}

// Catalog supplies the slot catalog and booking limits.
type Catalog interface {
	GetSlotsForType(ctx context.Context, resourceType string) []string
	GetLimits(ctx context.Context) settings.BookingLimits
}

type BookRequest struct {
	UserID     string
	ResourceID string
	Date       string
	Slot       string
}

type Service interface {
	BookSlot(ctx context.Context, req BookRequest) (*Booking, error)
	Cancel(ctx context.Context, id string, actor Actor) (*Booking, error)
	GetByID(ctx context.Context, id string, actor Actor) (*Booking, error)
	ListUserBookings(ctx context.Context, userID string, page, pageSize int) ([]*Booking, int, error)
	ListAll(ctx context.Context, filter Filter) ([]*Booking, int, error)
	ListAvailableSlots(ctx context.Context, resourceID, date string) (*Availability, error)
}

type service struct {
	repo      Repository
	resources ResourceFinder
	catalog   Catalog
	clock     *clock.Clock
	tx        db.TxManager
	publisher eventbus.Publisher
	metrics   *metrics.Metrics
	log       *logger.Logger
}

// NewService wires the admission controller. Steps after the temporal checks run
// inside tx.DoSerializable; pass db.NoopTxManager to rely on the unique indexes alone.
func NewService(
	repo Repository,
	resources ResourceFinder,
	catalog Catalog,
	clk *clock.Clock,
	tx db.TxManager,
	publisher eventbus.Publisher,
	m *metrics.Metrics,
	log *logger.Logger,
) Service {
	if tx == nil {
		tx = db.NoopTxManager{}
	}
	if publisher == nil {
		publisher = eventbus.NopPublisher{}
	}
	return &service{
		repo:      repo,
		resources: resources,
		catalog:   catalog,
		clock:     clk,
		tx:        tx,
		publisher: publisher,
		metrics:   m,
		log:       log,
	}
}

func (s *service) BookSlot(ctx context.Context, req BookRequest) (*Booking, error) {
	req.ResourceID = strings.TrimSpace(req.ResourceID)
	req.Date = strings.TrimSpace(req.Date)
	req.Slot = strings.TrimSpace(req.Slot)

	fields := []logger.Field{
		logger.Action("booking.create"),
		logger.User(req.UserID),
		logger.Resource(req.ResourceID),
		logger.Date(req.Date),
		logger.Slot(req.Slot),
	}

	b, err := s.admit(ctx, req)
	if err != nil {
		kind := apperror.KindOf(err)
		if kind == "" {
			s.log.Error("booking failed", append(fields, logger.Error(err))...)
			s.metrics.ObserveAdmission("internal")
			return nil, err
		}
		s.log.Warn("booking rejected", append(fields, logger.Reason(kind))...)
		s.metrics.ObserveAdmission(kind)
		return nil, err
	}

	s.log.Info("booking accepted", append(fields, logger.Booking(b.ID))...)
	s.metrics.ObserveAdmission("")
	s.publish(ctx, QueueBookingCreated, newEvent(b, ""))
	return b, nil
}

// admit runs the ordered admission checks. The first failing check wins.
func (s *service) admit(ctx context.Context, req BookRequest) (*Booking, error) {
	if req.ResourceID == "" || req.Date == "" || req.Slot == "" {
		return nil, ErrInvalidInput
	}
	if !clock.IsValidDate(req.Date) {
		return nil, ErrInvalidDate
	}

	res, err := s.findResource(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}
	if res.Status == resource.StatusOutOfService {
		return nil, ErrResourceUnavailable
	}

	if !slices.Contains(s.catalog.GetSlotsForType(ctx, res.Type), req.Slot) {
		return nil, ErrInvalidSlot
	}
	slot, err := timeslot.Parse(req.Slot)
	if err != nil {
		return nil, ErrInvalidSlot
	}

	if s.clock.IsPast(req.Date, slot) {
		return nil, ErrPastSlot
	}

	limits := s.catalog.GetLimits(ctx)
	b := &Booking{
		UserID:           req.UserID,
		ResourceID:       res.ID,
		Date:             req.Date,
		Slot:             req.Slot,
		ResourceName:     res.Name,
		ResourceType:     res.Type,
		ResourceLocation: res.Location,
	}

	err = s.tx.DoSerializable(ctx, func(ctx context.Context) error {
		if err := s.checkQuotas(ctx, b, limits); err != nil {
			return err
		}
		return s.repo.Create(ctx, b)
	})
	if err != nil {
		if errors.Is(err, db.ErrSerialization) {
			return nil, ErrContention
		}
		return nil, err
	}
	return b, nil
}

// checkQuotas enforces the advance cap, user slot exclusivity, then the daily and weekly caps.
func (s *service) checkQuotas(ctx context.Context, b *Booking, limits settings.BookingLimits) error {
	if s.clock.IsFuture(b.Date) {
		advance, err := s.repo.CountActive(ctx, CountFilter{
			UserID:       b.UserID,
			ResourceType: b.ResourceType,
			After:        s.clock.Today(),
		})
		if err != nil {
			return err
		}
		if advance >= limits.AdvanceBookingLimit {
			return ErrAdvanceLimit.WithMessage(fmt.Sprintf(
				"You already have %d advance %s booking(s). Maximum %d early booking(s) per resource type.",
				advance, b.ResourceType, limits.AdvanceBookingLimit,
			))
		}
	}

	taken, err := s.repo.HasUserSlot(ctx, b.UserID, b.Date, b.Slot)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlotConflict
	}

	daily, err := s.repo.CountActive(ctx, CountFilter{
		UserID:       b.UserID,
		ResourceType: b.ResourceType,
		From:         b.Date,
		To:           b.Date,
	})
	if err != nil {
		return err
	}
	if daily >= limits.DailyLimit {
		return ErrDailyLimit.WithMessage(fmt.Sprintf(
			"You already have %d %s bookings for this day. Max %d per day allowed.",
			daily, b.ResourceType, limits.DailyLimit,
		))
	}

	weekStart, err := clock.WeekStart(b.Date)
	if err != nil {
		return err
	}
	weekEnd, err := clock.WeekEnd(b.Date)
	if err != nil {
		return err
	}
	weekly, err := s.repo.CountActive(ctx, CountFilter{
		UserID:       b.UserID,
		ResourceType: b.ResourceType,
		From:         weekStart,
		To:           weekEnd,
	})
	if err != nil {
		return err
	}
	if weekly >= limits.WeeklyLimit {
		return ErrWeeklyLimit.WithMessage(fmt.Sprintf(
			"Reached weekly limit for %s. Max %d per week allowed.",
			b.ResourceType, limits.WeeklyLimit,
		))
	}
	return nil
}

func (s *service) findResource(ctx context.Context, id string) (*resource.Resource, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrResourceNotFound
	}
	res, err := s.resources.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, resource.ErrNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	return res, nil
}

// Cancel cancels a booking. Residents may only cancel their own; admins any.
// Cancelling twice is an error, as is cancelling a slot that has started.
func (s *service) Cancel(ctx context.Context, id string, actor Actor) (*Booking, error) {
	fields := []logger.Field{
		logger.Action("booking.cancel"),
		logger.User(actor.UserID),
		logger.Booking(id),
	}

	b, err := s.cancel(ctx, id, actor)
	if err != nil {
		kind := apperror.KindOf(err)
		if kind == "" {
			s.log.Error("cancellation failed", append(fields, logger.Error(err))...)
			s.metrics.ObserveCancellation("internal")
			return nil, err
		}
		s.log.Warn("cancellation rejected", append(fields, logger.Reason(kind))...)
		s.metrics.ObserveCancellation(kind)
		return nil, err
	}

	s.log.Info("booking cancelled", append(fields, logger.F("ADMIN", actor.IsAdmin))...)
	s.metrics.ObserveCancellation("")
	s.publish(ctx, QueueBookingCancelled, newEvent(b, actor.UserID))
	return b, nil
}

func (s *service) cancel(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && b.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if b.IsPast {
		return nil, ErrPastBooking
	}

	if err := s.repo.Cancel(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string, actor Actor) (*Booking, error) {
	b, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && b.UserID != actor.UserID {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *service) get(ctx context.Context, id string) (*Booking, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrNotFound
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.markPast(b)
	return b, nil
}

func (s *service) ListUserBookings(ctx context.Context, userID string, page, pageSize int) ([]*Booking, int, error) {
	return s.ListAll(ctx, Filter{UserID: userID, Page: page, PageSize: pageSize})
}

func (s *service) ListAll(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for _, b := range list {
		s.markPast(b)
	}
	return list, total, nil
}

// markPast applies the same start-time rule used for admission.
func (s *service) markPast(b *Booking) {
	slot, err := timeslot.Parse(b.Slot)
	if err != nil {
		b.IsPast = b.Date < s.clock.Today()
		return
	}
	b.IsPast = s.clock.IsPast(b.Date, slot)
}
