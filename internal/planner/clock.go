package planner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/noah-isme/planify-api/internal/models"
)

var looseClockPattern = regexp.MustCompile(`^(\d{1,2})(?:h(\d{2})?|:(\d{2}))?$`)

// ParseClock parses a strict H:MM or HH:MM value.
func ParseClock(raw string) (models.Clock, error) {
	clock, ok := models.ParseClock(raw)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}
	return clock, nil
}

// NormalizeClock accepts the spoken forms found in free text (9h, 9h30, 09h05, 9:30, 9).
func NormalizeClock(raw string) (models.Clock, error) {
	m := looseClockPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(raw)))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}
	minute := m[2]
	if minute == "" {
		minute = m[3]
	}
	clock, ok := models.ClockFromParts(m[1], minute)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}
	return clock, nil
}

// ParseTimeSlot validates a structured free slot.
func ParseTimeSlot(day, start, end string) (models.TimeSlot, error) {
	parsedDay, ok := models.ParseDay(day)
	if !ok {
		return models.TimeSlot{}, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}
	startClock, err := ParseClock(start)
	if err != nil {
		return models.TimeSlot{}, err
	}
	endClock, err := ParseClock(end)
	if err != nil {
		return models.TimeSlot{}, err
	}
	if endClock <= startClock {
		return models.TimeSlot{}, fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, startClock, endClock)
	}
	return models.TimeSlot{Day: parsedDay, Start: startClock, End: endClock}, nil
}
