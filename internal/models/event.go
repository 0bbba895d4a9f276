package models

import "time"

// DefaultEventCategory is applied when an event is created without a category.
const DefaultEventCategory = "general"

// Event is an agenda entry persisted in the events table.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Date        time.Time `db:"event_date" json:"date"`
	StartTime   string    `db:"start_time" json:"startTime"`
	EndTime     string    `db:"end_time" json:"endTime"`
	Category    string    `db:"category" json:"category"`
	Priority    Priority  `db:"priority" json:"priority"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// EventFilter narrows event listings.
type EventFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	Categories []string
	Page       int
	PageSize   int
}

// CategoryCount aggregates events per category.
type CategoryCount struct {
	Category string `db:"category" json:"category"`
	Count    int    `db:"count" json:"count"`
}
