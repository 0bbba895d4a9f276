package dto

import "github.com/noah-isme/planify-api/internal/models"

// CreateEventRequest captures a new agenda event.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,clock"`
	EndTime     string `json:"endTime" validate:"required,clock"`
	Category    string `json:"category" validate:"omitempty,max=64"`
	Priority    string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateEventRequest applies a partial update; nil fields are left untouched.
type UpdateEventRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Date        *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime   *string `json:"startTime" validate:"omitempty,clock"`
	EndTime     *string `json:"endTime" validate:"omitempty,clock"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=64"`
	Priority    *string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// EventFilterQuery binds list query parameters.
type EventFilterQuery struct {
	StartDate string `form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Category  string `form:"category" validate:"omitempty,max=256"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"page_size" validate:"omitempty,min=1,max=200"`
}

// EventAnalyticsResponse summarises the event store.
type EventAnalyticsResponse struct {
	Categories   []models.CategoryCount `json:"categories"`
	WeeklyEvents int                    `json:"weeklyEvents"`
	TotalEvents  int                    `json:"totalEvents"`
}

// EventResponse renders an event with a calendar date.
type EventResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
	Category    string          `json:"category"`
	Priority    models.Priority `json:"priority"`
}

// NewEventResponse maps a stored event.
func NewEventResponse(event models.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		Date:        event.Date.Format("2006-01-02"),
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
		Category:    event.Category,
		Priority:    event.Priority,
	}
}
