package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/residence-booking-backend/internal/db"
	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/logger"
)

// memRepository keeps the document in memory and hands out copies.
type memRepository struct {
	mu          sync.Mutex
	doc         *Settings
	getErr      error
	gets        int
	creates     int
	invalidated int
}

func (r *memRepository) Get(ctx context.Context) (*Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.doc == nil {
		return nil, ErrNotFound
	}
	return r.doc.Clone(), nil
}

func (r *memRepository) GetForUpdate(ctx context.Context) (*Settings, error) {
	return r.Get(ctx)
}

func (r *memRepository) Create(ctx context.Context, s *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.doc == nil {
		r.doc = s.Clone()
	}
	return nil
}

func (r *memRepository) Update(ctx context.Context, s *Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.doc == nil {
		return ErrNotFound
	}
	r.doc = s.Clone()
	return nil
}

func (r *memRepository) Invalidate(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invalidated++
}

func newTestService(repo *memRepository) Service {
	return NewService(repo, db.NoopTxManager{}, DefaultSettings(), logger.Nop())
}

func TestService_GetSeedsDefaults(t *testing.T) {
	repo := &memRepository{}
	svc := newTestService(repo)

	s, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates)
	assert.Len(t, s.ResourceTypes, 3)
	assert.Equal(t, DefaultLimits, s.BookingLimits)

	_, err = svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.creates, "second read must not seed again")
}

func TestService_GetSlotsForType(t *testing.T) {
	ctx := context.Background()

	t.Run("configured type", func(t *testing.T) {
		svc := newTestService(&memRepository{})
		slots := svc.GetSlotsForType(ctx, "sports")
		assert.Equal(t, []string{
			"17:00-18:00", "18:00-19:00", "19:00-20:00", "20:00-21:00", "21:00-22:00", "22:00-23:00",
		}, slots)
	})

	t.Run("unknown type falls back", func(t *testing.T) {
		svc := newTestService(&memRepository{})
		assert.Equal(t, FallbackSlots, svc.GetSlotsForType(ctx, "sauna"))
	})

	t.Run("empty catalog falls back", func(t *testing.T) {
		doc := DefaultSettings()
		doc.FindType("laundry").TimeSlots = nil
		svc := newTestService(&memRepository{doc: doc})
		assert.Equal(t, FallbackSlots, svc.GetSlotsForType(ctx, "laundry"))
	})

	t.Run("read failure falls back", func(t *testing.T) {
		svc := newTestService(&memRepository{getErr: errors.New("connection refused")})
		assert.Equal(t, FallbackSlots, svc.GetSlotsForType(ctx, "sports"))
	})

	t.Run("result is a copy", func(t *testing.T) {
		svc := newTestService(&memRepository{})
		slots := svc.GetSlotsForType(ctx, "sauna")
		slots[0] = "changed"
		assert.Equal(t, "08:00-09:00", FallbackSlots[0])
	})
}

func TestService_GetLimits(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(&memRepository{getErr: errors.New("timeout")})
	assert.Equal(t, DefaultLimits, svc.GetLimits(ctx))

	doc := DefaultSettings()
	doc.BookingLimits = BookingLimits{DailyLimit: 3, WeeklyLimit: 7, AdvanceBookingLimit: 2}
	svc = newTestService(&memRepository{doc: doc})
	assert.Equal(t, doc.BookingLimits, svc.GetLimits(ctx))
}

func TestService_AddResourceType(t *testing.T) {
	ctx := context.Background()
	repo := &memRepository{}
	svc := newTestService(repo)

	s, err := svc.AddResourceType(ctx, AddResourceTypeRequest{Label: "  Music  Room ", Icon: "🎵"})
	require.NoError(t, err)

	rt := s.FindType("music_room")
	require.NotNil(t, rt)
	assert.Equal(t, "Music  Room", rt.Label)
	assert.Equal(t, FallbackSlots, rt.TimeSlots)
	assert.Equal(t, 1, repo.invalidated)

	_, err = svc.AddResourceType(ctx, AddResourceTypeRequest{Label: "music room"})
	assert.ErrorIs(t, err, ErrTypeExists)

	_, err = svc.AddResourceType(ctx, AddResourceTypeRequest{Label: "   "})
	assert.ErrorIs(t, err, ErrLabelRequired)
}

func TestService_RemoveResourceType(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepository{})

	s, err := svc.RemoveResourceType(ctx, "laundry")
	require.NoError(t, err)
	assert.Nil(t, s.FindType("laundry"))

	_, err = svc.RemoveResourceType(ctx, "laundry")
	assert.ErrorIs(t, err, ErrTypeNotFound)
}

func TestService_AddTimeSlot(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		slot    string
		wantErr error
	}{
		{name: "valid slot is inserted in order", slot: "12:00-13:00"},
		{name: "bad format", slot: "12-13", wantErr: ErrInvalidSlot},
		{name: "start after end", slot: "13:00-12:00", wantErr: ErrInvalidSlotRange},
		{name: "duplicate", slot: "08:00-09:00", wantErr: ErrSlotExists},
		{name: "overlap", slot: "08:30-09:30", wantErr: ErrSlotOverlap},
		{name: "touching edges do not overlap", slot: "17:00-18:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(&memRepository{})

			s, err := svc.AddTimeSlot(ctx, "laundry", tt.slot)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			slots := s.FindType("laundry").TimeSlots
			assert.Contains(t, slots, tt.slot)
			for i := 1; i < len(slots); i++ {
				assert.Less(t, slots[i-1], slots[i])
			}
		})
	}

	t.Run("unknown type", func(t *testing.T) {
		svc := newTestService(&memRepository{})
		_, err := svc.AddTimeSlot(ctx, "sauna", "08:00-09:00")
		assert.ErrorIs(t, err, ErrTypeNotFound)
	})
}

func TestService_RemoveTimeSlot(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepository{})

	s, err := svc.RemoveTimeSlot(ctx, "sports", "17:00-18:00")
	require.NoError(t, err)
	assert.NotContains(t, s.FindType("sports").TimeSlots, "17:00-18:00")

	_, err = svc.RemoveTimeSlot(ctx, "sports", "17:00-18:00")
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_UpdateBookingLimits(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(&memRepository{})

	limits := BookingLimits{DailyLimit: 1, WeeklyLimit: 3, AdvanceBookingLimit: 0}
	s, err := svc.UpdateBookingLimits(ctx, limits)
	require.NoError(t, err)
	assert.Equal(t, limits, s.BookingLimits)
	assert.Equal(t, limits, svc.GetLimits(ctx))

	_, err = svc.UpdateBookingLimits(ctx, BookingLimits{DailyLimit: -1})
	assert.ErrorIs(t, err, ErrInvalidLimits)
}

func TestNormalizeTypeValue(t *testing.T) {
	assert.Equal(t, "study_room", NormalizeTypeValue("Study Room"))
	assert.Equal(t, "gym", NormalizeTypeValue("  GYM "))
	assert.Equal(t, "a_b_c", NormalizeTypeValue("a \t b\nc"))
	assert.Equal(t, "", NormalizeTypeValue("   "))
}
