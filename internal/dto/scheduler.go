package dto

import (
	"time"

	"github.com/noah-isme/planify-api/internal/models"
)

// TimeSlotRequest declares a free window. Times are validated by the planner so format errors keep their own codes.
type TimeSlotRequest struct {
	Day   string `json:"day" validate:"required"`
	Start string `json:"start" validate:"required"`
	End   string `json:"end" validate:"required"`
}

// TaskRequest is an explicit task. Missing priority and duration come from the catalog.
type TaskRequest struct {
	Type     string `json:"type" validate:"required,max=64"`
	Text     string `json:"text" validate:"omitempty,max=500"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Duration int    `json:"duration" validate:"omitempty,min=1,max=1440"`
	Day      string `json:"day" validate:"omitempty,max=16"`
	Start    string `json:"start" validate:"omitempty,max=5"`
	End      string `json:"end" validate:"omitempty,max=5"`
}

// GenerateScheduleRequest asks the planner for a weekly calendar.
type GenerateScheduleRequest struct {
	Slots      []TimeSlotRequest `json:"slots" validate:"required,min=1,dive"`
	Tasks      []TaskRequest     `json:"tasks" validate:"omitempty,dive"`
	VoiceInput string            `json:"voice_input" validate:"omitempty,max=2000"`
}

// VoiceParseRequest carries free text to extract tasks from.
type VoiceParseRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// VoiceParseResponse lists the extracted tasks.
type VoiceParseResponse struct {
	Tasks []models.Task `json:"tasks"`
}

// TaskTypeResponse describes one catalog entry.
type TaskTypeResponse struct {
	Type            models.TaskType `json:"type"`
	Title           string          `json:"title"`
	DefaultDuration int             `json:"defaultDuration"`
	Priority        models.Priority `json:"priority"`
	Kind            models.TaskKind `json:"kind"`
	Reason          string          `json:"reason"`
}

// ExportRequest renders a stored or inline schedule.
type ExportRequest struct {
	Format     string                 `json:"format" validate:"required,oneof=json csv pdf"`
	ScheduleID string                 `json:"scheduleId" validate:"omitempty,uuid"`
	Schedule   *models.ScheduleResult `json:"schedule" validate:"required_without=ScheduleID"`
}

// ExportResponse holds either the inline JSON document or a signed download link.
type ExportResponse struct {
	Filename  string      `json:"filename"`
	Format    string      `json:"format"`
	Data      interface{} `json:"data,omitempty"`
	URL       string      `json:"url,omitempty"`
	ExpiresAt *time.Time  `json:"expiresAt,omitempty"`
}
