package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
)

const (
	QueueBookingCreated   = "booking.created"
	QueueBookingCancelled = "booking.cancelled"
)

// Event is the payload published after a booking commits or is cancelled.
type Event struct {
	EventID     string    `json:"event_id"`
	BookingID   string    `json:"booking_id"`
	UserID      string    `json:"user_id"`
	ResourceID  string    `json:"resource_id"`
	Resource    string    `json:"resource_name,omitempty"`
	Type        string    `json:"resource_type,omitempty"`
	Date        string    `json:"date"`
	Slot        string    `json:"slot"`
	Status      Status    `json:"status"`
	CancelledBy string    `json:"cancelled_by,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func newEvent(b *Booking, cancelledBy string) Event {
	return Event{
		EventID:     uuid.NewString(),
		BookingID:   b.ID,
		UserID:      b.UserID,
		ResourceID:  b.ResourceID,
		Resource:    b.ResourceName,
		Type:        b.ResourceType,
		Date:        b.Date,
		Slot:        b.Slot,
		Status:      b.Status,
		CancelledBy: cancelledBy,
		OccurredAt:  time.Now().UTC(),
	}
}

// publish never fails the caller; the booking is already committed.
func (s *service) publish(ctx context.Context, queue string, ev Event) {
	if err := s.publisher.Publish(ctx, queue, ev); err != nil {
		s.log.Warn("failed to publish booking event",
			logger.F("QUEUE", queue),
			logger.Booking(ev.BookingID),
			logger.Error(err),
		)
	}
}
