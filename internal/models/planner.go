package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Day identifies one of the seven weekdays. Canonical values are the French names used as calendar keys.
type Day string

const (
	DayMonday    Day = "lundi"
	DayTuesday   Day = "mardi"
	DayWednesday Day = "mercredi"
	DayThursday  Day = "jeudi"
	DayFriday    Day = "vendredi"
	DaySaturday  Day = "samedi"
	DaySunday    Day = "dimanche"
)

var weekDays = []Day{DayMonday, DayTuesday, DayWednesday, DayThursday, DayFriday, DaySaturday, DaySunday}

var dayAliases = map[string]Day{
	"monday":    DayMonday,
	"tuesday":   DayTuesday,
	"wednesday": DayWednesday,
	"thursday":  DayThursday,
	"friday":    DayFriday,
	"saturday":  DaySaturday,
	"sunday":    DaySunday,
}

// Days returns the weekdays in Monday..Sunday order.
func Days() []Day {
	out := make([]Day, len(weekDays))
	copy(out, weekDays)
	return out
}

// ParseDay resolves French or English weekday names, case-insensitively.
func ParseDay(raw string) (Day, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, day := range weekDays {
		if string(day) == name {
			return day, true
		}
	}
	day, ok := dayAliases[name]
	return day, ok
}

// Index returns Monday=0 .. Sunday=6, or -1 for unknown values.
func (d Day) Index() int {
	for i, day := range weekDays {
		if day == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the seven canonical days.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// MinutesPerDay bounds Clock values.
const MinutesPerDay = 24 * 60

// Clock is a wall-clock time of day with minute granularity, stored as minutes since midnight.
type Clock int

var strictClockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// NewClock builds a clock from hour and minute components.
func NewClock(hour, minute int) Clock {
	return Clock(hour*60 + minute)
}

// ParseClock accepts H:MM or HH:MM with hour 0-23 and minute 0-59.
func ParseClock(raw string) (Clock, bool) {
	m := strictClockPattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, false
	}
	return clockFromParts(m[1], m[2])
}

func clockFromParts(hourRaw, minuteRaw string) (Clock, bool) {
	hour, err := strconv.Atoi(hourRaw)
	if err != nil || hour < 0 || hour > 23 {
		return 0, false
	}
	minute := 0
	if minuteRaw != "" {
		minute, err = strconv.Atoi(minuteRaw)
		if err != nil || minute < 0 || minute > 59 {
			return 0, false
		}
	}
	return NewClock(hour, minute), true
}

// ClockFromParts validates raw hour/minute digits; an empty minute defaults to 00.
func ClockFromParts(hourRaw, minuteRaw string) (Clock, bool) {
	return clockFromParts(hourRaw, minuteRaw)
}

// Hour returns the hour component.
func (c Clock) Hour() int { return int(c) / 60 }

// Minute returns the minute component.
func (c Clock) Minute() int { return int(c) % 60 }

// Add shifts the clock by the given minutes without wrapping.
func (c Clock) Add(minutes int) Clock { return c + Clock(minutes) }

// String renders the zero-padded HH:MM form.
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// MarshalJSON encodes the clock as "HH:MM".
func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON decodes "HH:MM".
func (c *Clock) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, ok := ParseClock(raw)
	if !ok {
		return fmt.Errorf("invalid clock %q", raw)
	}
	*c = parsed
	return nil
}

// TimeSlot is a free window on one day. End is always strictly after Start.
type TimeSlot struct {
	Day   Day   `json:"day"`
	Start Clock `json:"start"`
	End   Clock `json:"end"`
}

// DurationMinutes derives the slot length.
func (s TimeSlot) DurationMinutes() int {
	return int(s.End - s.Start)
}

// TaskType keys the task catalog.
type TaskType string

// TaskKind drives slot scoring and suggestion reasons.
type TaskKind string

const (
	TaskKindFocus    TaskKind = "focus"
	TaskKindFixed    TaskKind = "fixed"
	TaskKindMeeting  TaskKind = "meeting"
	TaskKindActivity TaskKind = "activity"
	TaskKindBreak    TaskKind = "break"
	TaskKindWork     TaskKind = "work"
)

// Priority orders tasks before assignment.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank maps high > medium > low; unknown values rank lowest.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// TaskProfile holds the defaults registered for a task type.
type TaskProfile struct {
	DefaultDurationMinutes int      `json:"defaultDuration"`
	Priority               Priority `json:"priority"`
	Kind                   TaskKind `json:"kind"`
}

// Task is a unit of work, optionally pinned to a day and time.
type Task struct {
	Type            TaskType `json:"type"`
	Text            string   `json:"text,omitempty"`
	Priority        Priority `json:"priority"`
	DurationMinutes int      `json:"duration"`
	Kind            TaskKind `json:"kind,omitempty"`
	Day             *Day     `json:"day,omitempty"`
	Start           *Clock   `json:"start,omitempty"`
	End             *Clock   `json:"end,omitempty"`
}

// Placed reports whether the task already carries an explicit day.
func (t Task) Placed() bool {
	return t.Day != nil
}

// Suggestion proposes a placement of a task into a free slot.
type Suggestion struct {
	TaskType TaskType `json:"taskType"`
	Slot     TimeSlot `json:"slot"`
	Reason   string   `json:"reason"`
}

// CalendarEntryType separates free windows from tasks.
type CalendarEntryType string

const (
	CalendarEntryFree CalendarEntryType = "free"
	CalendarEntryTask CalendarEntryType = "task"
)

// CalendarEntry is one renderable item on a day timeline.
type CalendarEntry struct {
	Type   CalendarEntryType `json:"type"`
	Start  string            `json:"start"`
	End    string            `json:"end"`
	Title  string            `json:"title"`
	Reason string            `json:"reason,omitempty"`
}

// Calendar maps every weekday to its start-ordered entries.
type Calendar map[Day][]CalendarEntry

// ScheduleResult bundles one generation run.
type ScheduleResult struct {
	ID          string       `json:"id,omitempty"`
	Calendar    Calendar     `json:"calendar"`
	Suggestions []Suggestion `json:"suggestions"`
	Tasks       []Task       `json:"tasks"`
	TotalSlots  int          `json:"totalSlots"`
	GeneratedAt time.Time    `json:"generatedAt"`
}
