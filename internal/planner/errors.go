package planner

import "errors"

var (
	// ErrInvalidTimeFormat is returned when a time is not H:MM or HH:MM.
	ErrInvalidTimeFormat = errors.New("invalid time format")
	// ErrInvalidTimeRange is returned when a slot ends at or before its start.
	ErrInvalidTimeRange = errors.New("end time must be after start time")
	// ErrUnknownDay is returned for day names outside the week.
	ErrUnknownDay = errors.New("unknown day")
)
