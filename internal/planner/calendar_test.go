package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/planify-api/internal/models"
)

func TestAssembleInitialisesEveryDay(t *testing.T) {
	calendar := Assemble(nil, nil, nil)

	require.Len(t, calendar, 7)
	for _, day := range models.Days() {
		entries, ok := calendar[day]
		require.True(t, ok, day)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	}
}

func TestAssembleOrdersEntriesByStart(t *testing.T) {
	monday := models.DayMonday
	start := models.NewClock(8, 0)
	free := []models.TimeSlot{
		mustSlot(t, "lundi", "14:00", "16:00"),
		mustSlot(t, "lundi", "09:00", "12:00"),
	}
	suggestions := []models.Suggestion{{
		TaskType: "étude",
		Slot:     models.TimeSlot{Day: models.DayMonday, Start: models.NewClock(9, 0), End: models.NewClock(11, 0)},
		Reason:   SuggestionReason(models.TaskKindFocus),
	}}
	tasks := []models.Task{
		{Type: "cours", Day: &monday},
		{Type: "réunion", Day: &monday, Start: &start},
	}

	calendar := Assemble(free, tasks, suggestions)
	entries := calendar[models.DayMonday]
	require.Len(t, entries, 5)

	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i-1].Start, entries[i].Start)
	}
	assert.Equal(t, "", entries[0].Start)
	assert.Equal(t, "Cours", entries[0].Title)
	assert.Equal(t, "08:00", entries[1].Start)
	assert.Equal(t, "", entries[1].End)
	assert.Equal(t, models.CalendarEntryFree, entries[2].Type, "free entry is added before the suggestion at the same time")
	assert.Equal(t, FreeTimeTitle, entries[2].Title)
	assert.Equal(t, models.CalendarEntryTask, entries[3].Type)
	assert.Equal(t, "Étude", entries[3].Title)
	assert.Equal(t, "Période optimale pour la concentration", entries[3].Reason)
	assert.Equal(t, "14:00", entries[4].Start)
}

func TestAssembleIgnoresUnknownDays(t *testing.T) {
	calendar := Assemble([]models.TimeSlot{{Day: "funday", Start: 60, End: 120}}, nil, nil)

	assert.Len(t, calendar, 7)
	_, ok := calendar["funday"]
	assert.False(t, ok)
}

func TestTaskTitle(t *testing.T) {
	assert.Equal(t, "Étude", TaskTitle("étude"))
	assert.Equal(t, "Réunion", TaskTitle("réunion"))
	assert.Equal(t, "Sport", TaskTitle("sport"))
}
