package planner

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/noah-isme/planify-api/internal/models"
)

// FreeTimeTitle labels free windows on the calendar.
const FreeTimeTitle = "Temps libre"

// Assemble renders free slots, suggestions and day-pinned tasks into a per-day calendar.
func Assemble(free []models.TimeSlot, tasks []models.Task, suggestions []models.Suggestion) models.Calendar {
	calendar := make(models.Calendar, 7)
	for _, day := range models.Days() {
		calendar[day] = make([]models.CalendarEntry, 0)
	}
	add := func(day models.Day, entry models.CalendarEntry) {
		if _, ok := calendar[day]; ok {
			calendar[day] = append(calendar[day], entry)
		}
	}

	for _, slot := range free {
		add(slot.Day, models.CalendarEntry{
			Type:  models.CalendarEntryFree,
			Start: slot.Start.String(),
			End:   slot.End.String(),
			Title: FreeTimeTitle,
		})
	}
	for _, suggestion := range suggestions {
		add(suggestion.Slot.Day, models.CalendarEntry{
			Type:   models.CalendarEntryTask,
			Start:  suggestion.Slot.Start.String(),
			End:    suggestion.Slot.End.String(),
			Title:  TaskTitle(suggestion.TaskType),
			Reason: suggestion.Reason,
		})
	}
	for _, task := range tasks {
		if !task.Placed() {
			continue
		}
		entry := models.CalendarEntry{Type: models.CalendarEntryTask, Title: TaskTitle(task.Type)}
		if task.Start != nil {
			entry.Start = task.Start.String()
		}
		if task.End != nil {
			entry.End = task.End.String()
		}
		add(*task.Day, entry)
	}

	for day, entries := range calendar {
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].Start < entries[j].Start })
		calendar[day] = entries
	}
	return calendar
}

// TaskTitle title-cases a task type using French casing rules ("étude" -> "Étude").
func TaskTitle(taskType models.TaskType) string {
	return cases.Title(language.French).String(string(taskType))
}
