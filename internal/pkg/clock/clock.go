// Package clock resolves "now", "today" and slot-past status in one configured time zone.
package clock

import (
	"fmt"
	"regexp"
	"time"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/timeslot"
)

// DateLayout is the civil date wire format.
const DateLayout = "2006-01-02"

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Clock answers calendar questions against a fixed location.
type Clock struct {
	loc *time.Location
	now func() time.Time
}

// New returns a Clock backed by the system time.
func New(loc *time.Location) *Clock {
	return NewWithNow(loc, time.Now)
}

// NewWithNow returns a Clock with an injected time source.
func NewWithNow(loc *time.Location, now func() time.Time) *Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &Clock{loc: loc, now: now}
}

// Location returns the configured zone.
func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current instant in the configured zone.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// Today returns the current civil date as YYYY-MM-DD.
func (c *Clock) Today() string {
	return c.Now().Format(DateLayout)
}

// IsPast reports whether the slot on date has started.
// Dates are compared lexicographically, which is valid for zero-padded YYYY-MM-DD.
func (c *Clock) IsPast(date string, slot timeslot.Slot) bool {
	today := c.Today()
	switch {
	case date < today:
		return true
	case date > today:
		return false
	}

	now := c.Now()
	return now.Hour()*60+now.Minute() >= slot.Start
}

// IsFuture reports whether date is strictly after today.
func (c *Clock) IsFuture(date string) bool {
	return date > c.Today()
}

// IsValidDate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// WeekStart returns the Monday on or before date.
func WeekStart(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}

	offset := (int(t.Weekday()) + 6) % 7 // Monday = 0
	return t.AddDate(0, 0, -offset).Format(DateLayout), nil
}

// WeekEnd returns the Sunday closing the week that contains date.
func WeekEnd(date string) (string, error) {
	start, err := WeekStart(date)
	if err != nil {
		return "", err
	}

	t, _ := time.Parse(DateLayout, start)
	return t.AddDate(0, 0, 6).Format(DateLayout), nil
}
