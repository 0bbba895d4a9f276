package planner

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/noah-isme/planify-api/internal/models"
)

const (
	fallbackDurationMinutes = 60
	fallbackPriority        = models.PriorityMedium
)

// Entry registers one task type in a catalog.
type Entry struct {
	Type    models.TaskType
	Profile models.TaskProfile
}

// Catalog is an immutable TaskType -> TaskProfile table. Iteration follows registration order.
type Catalog struct {
	order    []models.TaskType
	profiles map[models.TaskType]models.TaskProfile
}

// NewCatalog validates and freezes the given entries.
func NewCatalog(entries ...Entry) (*Catalog, error) {
	c := &Catalog{
		order:    make([]models.TaskType, 0, len(entries)),
		profiles: make(map[models.TaskType]models.TaskProfile, len(entries)),
	}
	for _, entry := range entries {
		key := NormalizeTaskType(string(entry.Type))
		if key == "" {
			return nil, fmt.Errorf("catalog entry without type")
		}
		if _, exists := c.profiles[key]; exists {
			return nil, fmt.Errorf("duplicate task type %q", key)
		}
		if entry.Profile.DefaultDurationMinutes <= 0 {
			return nil, fmt.Errorf("task type %q: default duration must be positive", key)
		}
		if !entry.Profile.Priority.Valid() {
			return nil, fmt.Errorf("task type %q: invalid priority %q", key, entry.Profile.Priority)
		}
		c.order = append(c.order, key)
		c.profiles[key] = entry.Profile
	}
	return c, nil
}

// DefaultCatalog returns the built-in French task table.
func DefaultCatalog() *Catalog {
	catalog, err := NewCatalog(
		Entry{Type: "étude", Profile: models.TaskProfile{DefaultDurationMinutes: 120, Priority: models.PriorityHigh, Kind: models.TaskKindFocus}},
		Entry{Type: "révision", Profile: models.TaskProfile{DefaultDurationMinutes: 90, Priority: models.PriorityHigh, Kind: models.TaskKindFocus}},
		Entry{Type: "cours", Profile: models.TaskProfile{DefaultDurationMinutes: 60, Priority: models.PriorityHigh, Kind: models.TaskKindFixed}},
		Entry{Type: "réunion", Profile: models.TaskProfile{DefaultDurationMinutes: 60, Priority: models.PriorityMedium, Kind: models.TaskKindMeeting}},
		Entry{Type: "sport", Profile: models.TaskProfile{DefaultDurationMinutes: 90, Priority: models.PriorityMedium, Kind: models.TaskKindActivity}},
		Entry{Type: "pause", Profile: models.TaskProfile{DefaultDurationMinutes: 30, Priority: models.PriorityLow, Kind: models.TaskKindBreak}},
		Entry{Type: "projet", Profile: models.TaskProfile{DefaultDurationMinutes: 180, Priority: models.PriorityHigh, Kind: models.TaskKindWork}},
	)
	if err != nil {
		panic(err)
	}
	return catalog
}

// NormalizeTaskType lower-cases and NFC-normalizes a type key.
func NormalizeTaskType(raw string) models.TaskType {
	return models.TaskType(norm.NFC.String(strings.ToLower(strings.TrimSpace(raw))))
}

// Lookup returns the profile registered for a type.
func (c *Catalog) Lookup(taskType models.TaskType) (models.TaskProfile, bool) {
	profile, ok := c.profiles[NormalizeTaskType(string(taskType))]
	return profile, ok
}

// Types lists registered types in registration order.
func (c *Catalog) Types() []models.TaskType {
	out := make([]models.TaskType, len(c.order))
	copy(out, c.order)
	return out
}

// Entries lists registered types with their profiles.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, Entry{Type: key, Profile: c.profiles[key]})
	}
	return out
}

// Len reports the number of registered types.
func (c *Catalog) Len() int {
	return len(c.order)
}

// Resolve fills missing priority, duration and kind from the catalog.
// Unknown types fall back to medium priority and a one hour duration.
func (c *Catalog) Resolve(task models.Task) models.Task {
	task.Type = NormalizeTaskType(string(task.Type))
	profile, ok := c.profiles[task.Type]
	if !ok {
		if !task.Priority.Valid() {
			task.Priority = fallbackPriority
		}
		if task.DurationMinutes <= 0 {
			task.DurationMinutes = fallbackDurationMinutes
		}
		return task
	}
	if !task.Priority.Valid() {
		task.Priority = profile.Priority
	}
	if task.DurationMinutes <= 0 {
		task.DurationMinutes = profile.DefaultDurationMinutes
	}
	task.Kind = profile.Kind
	return task
}

func (c *Catalog) newTask(taskType models.TaskType, text string) models.Task {
	profile := c.profiles[taskType]
	return models.Task{
		Type:            taskType,
		Text:            text,
		Priority:        profile.Priority,
		DurationMinutes: profile.DefaultDurationMinutes,
		Kind:            profile.Kind,
	}
}
