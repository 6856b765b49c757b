package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/clock"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/residence-booking-backend/internal/resource"
	"github.com/nekogravitycat/residence-booking-backend/internal/settings"
)

// memLedger mirrors the two partial unique indexes of the bookings table.
type memLedger struct {
	mu       sync.Mutex
	bookings map[string]*Booking
	types    map[string]string // resource id -> type
	seq      int
}

func newMemLedger(resources map[string]*resource.Resource) *memLedger {
	types := make(map[string]string, len(resources))
	for id, r := range resources {
		types[id] = r.Type
	}
	return &memLedger{bookings: map[string]*Booking{}, types: types}
}

func (m *memLedger) Create(ctx context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, other := range m.bookings {
		if other.Status != StatusActive || other.Date != b.Date || other.Slot != b.Slot {
			continue
		}
		if other.ResourceID == b.ResourceID {
			return ErrAlreadyBooked
		}
		if other.UserID == b.UserID {
			return ErrSlotConflict
		}
	}

	m.seq++
	b.ID = uuid.NewString()
	b.Status = StatusActive
	b.CreatedAt = time.Unix(int64(m.seq), 0)
	b.UpdatedAt = b.CreatedAt
	cp := *b
	m.bookings[b.ID] = &cp
	return nil
}

// seed stores b as-is, bypassing admission.
func (m *memLedger) seed(b Booking) *Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = StatusActive
	}
	m.bookings[b.ID] = &b
	cp := b
	return &cp
}

func (m *memLedger) GetByID(ctx context.Context, id string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *memLedger) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Booking
	for _, b := range m.bookings {
		if filter.UserID != "" && b.UserID != filter.UserID {
			continue
		}
		if filter.ResourceID != "" && b.ResourceID != filter.ResourceID {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, len(out), nil
}

func (m *memLedger) HasUserSlot(ctx context.Context, userID, date, slot string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.Status == StatusActive && b.UserID == userID && b.Date == date && b.Slot == slot {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLedger) CountActive(ctx context.Context, f CountFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		switch {
		case b.Status != StatusActive, b.UserID != f.UserID, m.types[b.ResourceID] != f.ResourceType:
			continue
		case f.After != "" && b.Date <= f.After:
			continue
		case f.From != "" && b.Date < f.From:
			continue
		case f.To != "" && b.Date > f.To:
			continue
		}
		n++
	}
	return n, nil
}

func (m *memLedger) ActiveSlots(ctx context.Context, resourceID, date string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, b := range m.bookings {
		if b.Status == StatusActive && b.ResourceID == resourceID && b.Date == date {
			out = append(out, b.Slot)
		}
	}
	return out, nil
}

func (m *memLedger) Cancel(ctx context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.bookings[b.ID]
	if !ok || stored.Status != StatusActive {
		return ErrAlreadyCancelled
	}
	now := time.Now()
	stored.Status = StatusCancelled
	stored.CancelledAt = &now
	b.Status = StatusCancelled
	b.CancelledAt = &now
	return nil
}

type staticResources map[string]*resource.Resource

func (s staticResources) GetByID(ctx context.Context, id string) (*resource.Resource, error) {
	r, ok := s[id]
	if !ok {
		return nil, resource.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

type staticCatalog struct {
	slots  map[string][]string
	limits settings.BookingLimits
}

func (c *staticCatalog) GetSlotsForType(ctx context.Context, resourceType string) []string {
	if s, ok := c.slots[resourceType]; ok && len(s) > 0 {
		return append([]string(nil), s...)
	}
	return append([]string(nil), settings.FallbackSlots...)
}

func (c *staticCatalog) GetLimits(ctx context.Context) settings.BookingLimits {
	return c.limits
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, queue string, payload any) error {
	return m.Called(ctx, queue, payload).Error(0)
}

// Fixed test calendar: Wednesday 2025-06-04, 12:30 in UTC+5.
var (
	testZone = time.FixedZone("PKT", 5*60*60)
	testNow  = time.Date(2025, 6, 4, 12, 30, 0, 0, testZone)
)

const (
	today     = "2025-06-04"
	tomorrow  = "2025-06-05"
	yesterday = "2025-06-03"
	friday    = "2025-06-06"
	nextMon   = "2025-06-09"
)

var (
	washer1 = uuid.NewString()
	washer2 = uuid.NewString()
	room1   = uuid.NewString()
	room2   = uuid.NewString()
	broken  = uuid.NewString()
	inUse   = uuid.NewString()
)

type fixture struct {
	svc       Service
	ledger    *memLedger
	catalog   *staticCatalog
	publisher *mockPublisher
	now       time.Time
}

func newFixture() *fixture {
	resources := staticResources{
		washer1: {ID: washer1, Name: "Washer 1", Type: "laundry", Status: resource.StatusAvailable, Location: "B1"},
		washer2: {ID: washer2, Name: "Washer 2", Type: "laundry", Status: resource.StatusAvailable, Location: "B1"},
		room1:   {ID: room1, Name: "Room A", Type: "study_room", Status: resource.StatusAvailable, Location: "2F"},
		room2:   {ID: room2, Name: "Room B", Type: "study_room", Status: resource.StatusAvailable, Location: "2F"},
		broken:  {ID: broken, Name: "Washer 3", Type: "laundry", Status: resource.StatusOutOfService, Location: "B1"},
		inUse:   {ID: inUse, Name: "Washer 4", Type: "laundry", Status: resource.StatusInUse, Location: "B1"},
	}

	f := &fixture{
		ledger: newMemLedger(resources),
		catalog: &staticCatalog{
			slots:  map[string][]string{"study_room": settings.DefaultSettings().FindType("study_room").TimeSlots},
			limits: settings.DefaultLimits,
		},
		publisher: &mockPublisher{},
		now:       testNow,
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	clk := clock.NewWithNow(testZone, func() time.Time { return f.now })
	f.svc = NewService(f.ledger, resources, f.catalog, clk, nil, f.publisher, nil, logger.Nop())
	return f
}

func (f *fixture) book(userID, resourceID, date, slot string) (*Booking, error) {
	return f.svc.BookSlot(context.Background(), BookRequest{
		UserID: userID, ResourceID: resourceID, Date: date, Slot: slot,
	})
}
