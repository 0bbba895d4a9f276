package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/planify-api/internal/dto"
	"github.com/noah-isme/planify-api/internal/models"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
)

type eventRepoStub struct {
	events     map[string]*models.Event
	lastFilter models.EventFilter
	since      time.Time
	listErr    error
}

func newEventRepoStub() *eventRepoStub {
	return &eventRepoStub{events: map[string]*models.Event{}}
}

func (r *eventRepoStub) List(_ context.Context, filter models.EventFilter) ([]models.Event, int, error) {
	r.lastFilter = filter
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	out := make([]models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (r *eventRepoStub) GetByID(_ context.Context, id string) (*models.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *e
	return &copied, nil
}

func (r *eventRepoStub) Create(_ context.Context, event *models.Event) error {
	event.ID = "evt-" + event.Title
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *eventRepoStub) Update(_ context.Context, event *models.Event) error {
	if _, ok := r.events[event.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *event
	r.events[event.ID] = &copied
	return nil
}

func (r *eventRepoStub) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return sql.ErrNoRows
	}
	delete(r.events, id)
	return nil
}

func (r *eventRepoStub) CategoryCounts(context.Context) ([]models.CategoryCount, error) {
	return []models.CategoryCount{{Category: "general", Count: len(r.events)}}, nil
}

func (r *eventRepoStub) CountSince(_ context.Context, since time.Time) (int, error) {
	r.since = since
	return 1, nil
}

func (r *eventRepoStub) Count(context.Context) (int, error) {
	return len(r.events), nil
}

func TestEventServiceCreateAppliesDefaults(t *testing.T) {
	repo := newEventRepoStub()
	svc := NewEventService(repo, nil, nil, nil)

	event, err := svc.Create(context.Background(), dto.CreateEventRequest{
		Title:     "Révision",
		Date:      "2024-03-04",
		StartTime: "9:00",
		EndTime:   "10:30",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultEventCategory, event.Category)
	assert.Equal(t, models.PriorityMedium, event.Priority)
	assert.Equal(t, "09:00", event.StartTime)
	assert.Equal(t, "10:30", event.EndTime)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), event.Date)
	assert.Contains(t, repo.events, event.ID)
}

func TestEventServiceCreateRejectsBadTimes(t *testing.T) {
	svc := NewEventService(newEventRepoStub(), nil, nil, nil)
	base := dto.CreateEventRequest{Title: "Sport", Date: "2024-03-04", StartTime: "18:00", EndTime: "19:00"}

	bad := base
	bad.StartTime = "18h"
	_, err := svc.Create(context.Background(), bad)
	assertAppError(t, err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status)

	reversed := base
	reversed.EndTime = "17:00"
	_, err = svc.Create(context.Background(), reversed)
	assertAppError(t, err, appErrors.ErrInvalidTimeRange.Code, appErrors.ErrInvalidTimeRange.Status)

	noTitle := base
	noTitle.Title = ""
	_, err = svc.Create(context.Background(), noTitle)
	assertAppError(t, err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status)

	badDate := base
	badDate.Date = "04/03/2024"
	_, err = svc.Create(context.Background(), badDate)
	assertAppError(t, err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status)
}

func TestEventServiceUpdatePartial(t *testing.T) {
	repo := newEventRepoStub()
	svc := NewEventService(repo, nil, nil, nil)
	created, err := svc.Create(context.Background(), dto.CreateEventRequest{Title: "Cours", Date: "2024-03-04", StartTime: "08:00", EndTime: "10:00"})
	require.NoError(t, err)

	category := "study"
	end := "11:00"
	updated, err := svc.Update(context.Background(), created.ID, dto.UpdateEventRequest{Category: &category, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, "study", updated.Category)
	assert.Equal(t, "08:00", updated.StartTime)
	assert.Equal(t, "11:00", updated.EndTime)
	assert.Equal(t, "Cours", updated.Title)

	early := "07:00"
	_, err = svc.Update(context.Background(), created.ID, dto.UpdateEventRequest{EndTime: &early})
	assertAppError(t, err, appErrors.ErrInvalidTimeRange.Code, appErrors.ErrInvalidTimeRange.Status)

	_, err = svc.Update(context.Background(), "missing", dto.UpdateEventRequest{Category: &category})
	assertAppError(t, err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status)
}

func TestEventServiceGetAndDelete(t *testing.T) {
	repo := newEventRepoStub()
	svc := NewEventService(repo, nil, nil, nil)
	created, err := svc.Create(context.Background(), dto.CreateEventRequest{Title: "Pause", Date: "2024-03-04", StartTime: "12:00", EndTime: "12:30"})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Pause", got.Title)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assertAppError(t, svc.Delete(context.Background(), created.ID), appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status)
	_, err = svc.Get(context.Background(), created.ID)
	assertAppError(t, err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status)
}

func TestEventServiceListBuildsFilter(t *testing.T) {
	repo := newEventRepoStub()
	svc := NewEventService(repo, NewMetricsService(), nil, nil)

	_, pagination, err := svc.List(context.Background(), dto.EventFilterQuery{StartDate: "2024-03-01", Category: "study, sport,"})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 50, pagination.PageSize)
	assert.Equal(t, []string{"study", "sport"}, repo.lastFilter.Categories)
	require.NotNil(t, repo.lastFilter.StartDate)
	assert.Nil(t, repo.lastFilter.EndDate)

	_, _, err = svc.List(context.Background(), dto.EventFilterQuery{StartDate: "2024-03-10", EndDate: "2024-03-01"})
	assertAppError(t, err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status)

	repo.listErr = errors.New("db down")
	_, _, err = svc.List(context.Background(), dto.EventFilterQuery{})
	assertAppError(t, err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status)
}

func TestEventServiceAnalytics(t *testing.T) {
	repo := newEventRepoStub()
	svc := NewEventService(repo, nil, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 3, 11, 15, 0, 0, 0, time.UTC) }
	_, err := svc.Create(context.Background(), dto.CreateEventRequest{Title: "Sport", Date: "2024-03-10", StartTime: "18:00", EndTime: "19:00"})
	require.NoError(t, err)

	stats, err := svc.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalEvents)
	assert.Equal(t, 1, stats.WeeklyEvents)
	require.Len(t, stats.Categories, 1)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), repo.since)
}
