// Package timeslot parses and compares "HH:MM-HH:MM" slot strings.
package timeslot

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var pattern = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]-([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

var (
	ErrInvalidFormat = errors.New("time slot must be in HH:MM-HH:MM format (24-hour)")
	ErrInvalidRange  = errors.New("start time must be before end time")
)

// Slot is a time-of-day interval in minutes since midnight. End is exclusive.
type Slot struct {
	Start int
	End   int
}

// Parse validates s and returns the slot it describes.
func Parse(s string) (Slot, error) {
	if !pattern.MatchString(s) {
		return Slot{}, ErrInvalidFormat
	}

	start := minutes(s[0:5])
	end := minutes(s[6:11])
	if start >= end {
		return Slot{}, ErrInvalidRange
	}

	return Slot{Start: start, End: end}, nil
}

// MustParse is like Parse but panics on invalid input. Intended for constants and tests.
func MustParse(s string) Slot {
	slot, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("timeslot: %q: %v", s, err))
	}
	return slot
}

func (s Slot) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", s.Start/60, s.Start%60, s.End/60, s.End%60)
}

// Overlaps reports whether the two half-open intervals intersect.
func (s Slot) Overlaps(other Slot) bool {
	return s.Start < other.End && other.Start < s.End
}

// Sort orders slot strings by start time. Unparseable entries keep their
// relative order and go last.
func Sort(slots []string) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, errA := Parse(slots[i])
		b, errB := Parse(slots[j])
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return a.Start < b.Start
		}
	})
}

// minutes converts a validated "HH:MM" into minutes since midnight.
func minutes(hhmm string) int {
	h, _ := strconv.Atoi(hhmm[0:2])
	m, _ := strconv.Atoi(hhmm[3:5])
	return h*60 + m
}
