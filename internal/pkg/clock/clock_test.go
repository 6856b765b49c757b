package clock

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/timeslot"
)

func karachi(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Karachi")
	require.NoError(t, err)
	return loc
}

func TestTodayUsesConfiguredZone(t *testing.T) {
	// 20:30 UTC on May 31 is already June 1 in Karachi (UTC+5).
	instant := time.Date(2025, 5, 31, 20, 30, 0, 0, time.UTC)
	c := NewWithNow(karachi(t), func() time.Time { return instant })

	assert.Equal(t, "2025-06-01", c.Today())
	assert.Equal(t, 1, c.Now().Hour())
}

func TestIsPast(t *testing.T) {
	loc := karachi(t)
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, loc)
	c := NewWithNow(loc, func() time.Time { return now })

	tests := []struct {
		name string
		date string
		slot string
		want bool
	}{
		{"yesterday", "2025-05-31", "22:00-23:00", true},
		{"tomorrow", "2025-06-02", "08:00-09:00", false},
		{"today earlier slot", "2025-06-01", "09:00-10:00", true},
		{"today slot starting now", "2025-06-01", "10:00-11:00", true},
		{"today later slot", "2025-06-01", "11:00-12:00", false},
		{"far past year", "2024-12-31", "23:00-23:59", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.IsPast(tt.date, timeslot.MustParse(tt.slot)))
		})
	}
}

func TestIsPastJustBeforeStart(t *testing.T) {
	loc := karachi(t)
	now := time.Date(2025, 6, 1, 9, 59, 59, 0, loc)
	c := NewWithNow(loc, func() time.Time { return now })

	assert.False(t, c.IsPast("2025-06-01", timeslot.MustParse("10:00-11:00")))
}

func TestIsFuture(t *testing.T) {
	loc := karachi(t)
	c := NewWithNow(loc, func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, loc) })

	assert.True(t, c.IsFuture("2025-06-02"))
	assert.False(t, c.IsFuture("2025-06-01"))
	assert.False(t, c.IsFuture("2025-05-31"))
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2025-06-01"))
	assert.True(t, IsValidDate("2024-02-29"))
	assert.False(t, IsValidDate("2025-02-30"))
	assert.False(t, IsValidDate("2025-6-1"))
	assert.False(t, IsValidDate("01-06-2025"))
	assert.False(t, IsValidDate("2025-06-01T00:00:00Z"))
	assert.False(t, IsValidDate(""))
}

func TestWeekBoundaries(t *testing.T) {
	// 2025-06-02 is a Monday.
	week := []string{
		"2025-06-02", "2025-06-03", "2025-06-04", "2025-06-05",
		"2025-06-06", "2025-06-07", "2025-06-08",
	}

	for _, d := range week {
		start, err := WeekStart(d)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-02", start, d)

		end, err := WeekEnd(d)
		require.NoError(t, err)
		assert.Equal(t, "2025-06-08", end, d)

		again, err := WeekStart(start)
		require.NoError(t, err)
		assert.Equal(t, start, again, "WeekStart must be idempotent")
	}
}

func TestWeekBoundariesAcrossMonthAndYear(t *testing.T) {
	start, err := WeekStart("2026-01-01") // Thursday
	require.NoError(t, err)
	assert.Equal(t, "2025-12-29", start)

	end, err := WeekEnd("2026-01-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-04", end)
}

func TestWeekStartRejectsMalformedDate(t *testing.T) {
	_, err := WeekStart("2025-13-01")
	assert.Error(t, err)
}
