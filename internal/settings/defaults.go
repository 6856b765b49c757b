package settings

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nekogravitycat/residence-booking-backend/internal/pkg/timeslot"
)

// FallbackSlots is the schedule served for any type whose catalog is missing or empty.
var FallbackSlots = []string{
	"08:00-09:00",
	"09:00-10:00",
	"10:00-11:00",
	"11:00-12:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

// DefaultLimits are used when nothing else is configured.
var DefaultLimits = BookingLimits{
	DailyLimit:          2,
	WeeklyLimit:         4,
	AdvanceBookingLimit: 1,
}

// DefaultSettings returns the built-in catalog for laundry, study rooms and sports.
func DefaultSettings() *Settings {
	studySlots := append(append([]string(nil), FallbackSlots...), "18:00-19:00", "19:00-20:00", "20:00-21:00")

	return &Settings{
		ResourceTypes: []ResourceType{
			{Value: "laundry", Label: "Laundry", Icon: "🧺", TimeSlots: append([]string(nil), FallbackSlots...)},
			{Value: "study_room", Label: "Study Room", Icon: "📚", TimeSlots: studySlots},
			{Value: "sports", Label: "Sports", Icon: "⚽", TimeSlots: []string{
				"17:00-18:00", "18:00-19:00", "19:00-20:00", "20:00-21:00", "21:00-22:00", "22:00-23:00",
			}},
		},
		BookingLimits: DefaultLimits,
	}
}

// LoadSeedFile decodes the seed settings from a TOML file.
// A missing file yields DefaultSettings.
func LoadSeedFile(path string) (*Settings, error) {
	if path == "" {
		return DefaultSettings(), nil
	}

	var s Settings
	if _, err := toml.DecodeFile(path, &s); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultSettings(), nil
		}
		return nil, fmt.Errorf("decode settings seed %s: %w", path, err)
	}

	if err := validateSeed(&s); err != nil {
		return nil, fmt.Errorf("invalid settings seed %s: %w", path, err)
	}
	return &s, nil
}

func validateSeed(s *Settings) error {
	if err := validateLimits(s.BookingLimits); err != nil {
		return err
	}

	seen := make(map[string]bool)
	for i := range s.ResourceTypes {
		rt := &s.ResourceTypes[i]
		if rt.Value == "" {
			rt.Value = NormalizeTypeValue(rt.Label)
		}
		if rt.Value == "" {
			return ErrLabelRequired
		}
		if seen[rt.Value] {
			return fmt.Errorf("%w: %s", ErrTypeExists, rt.Value)
		}
		seen[rt.Value] = true

		var accepted []timeslot.Slot
		for _, raw := range rt.TimeSlots {
			slot, err := checkSlot(raw, accepted)
			if err != nil {
				return fmt.Errorf("%s: %s: %w", rt.Value, raw, err)
			}
			accepted = append(accepted, slot)
		}
		timeslot.Sort(rt.TimeSlots)
	}
	return nil
}
