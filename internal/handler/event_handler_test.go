package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/planify-api/internal/dto"
	"github.com/noah-isme/planify-api/internal/models"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
)

type eventServiceMock struct {
	query   dto.EventFilterQuery
	created dto.CreateEventRequest
	deleted string
}

var sampleEvent = models.Event{
	ID:        "evt-1",
	Title:     "Sport",
	Date:      time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
	StartTime: "18:00",
	EndTime:   "19:00",
	Category:  "general",
	Priority:  models.PriorityMedium,
}

func (m *eventServiceMock) List(_ context.Context, query dto.EventFilterQuery) ([]models.Event, *models.Pagination, error) {
	m.query = query
	return []models.Event{sampleEvent}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, nil
}

func (m *eventServiceMock) Get(_ context.Context, id string) (*models.Event, error) {
	if id != sampleEvent.ID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
	}
	e := sampleEvent
	return &e, nil
}

func (m *eventServiceMock) Create(_ context.Context, req dto.CreateEventRequest) (*models.Event, error) {
	m.created = req
	e := sampleEvent
	e.Title = req.Title
	return &e, nil
}

func (m *eventServiceMock) Update(ctx context.Context, id string, _ dto.UpdateEventRequest) (*models.Event, error) {
	return m.Get(ctx, id)
}

func (m *eventServiceMock) Delete(_ context.Context, id string) error {
	m.deleted = id
	return nil
}

func (m *eventServiceMock) Analytics(context.Context) (*dto.EventAnalyticsResponse, error) {
	return &dto.EventAnalyticsResponse{Categories: []models.CategoryCount{{Category: "general", Count: 1}}, WeeklyEvents: 1, TotalEvents: 1}, nil
}

func newEventRouter(mock *eventServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEventHandler(mock)
	r := gin.New()
	r.GET("/api/events", h.List)
	r.POST("/api/events", h.Create)
	r.GET("/api/events/:id", h.Get)
	r.PUT("/api/events/:id", h.Update)
	r.DELETE("/api/events/:id", h.Delete)
	r.GET("/api/analytics", h.Analytics)
	return r
}

func TestEventHandlerList(t *testing.T) {
	mock := &eventServiceMock{}
	rec := serve(newEventRouter(mock), http.MethodGet, "/api/events?category=study,sport&page=2&start_date=2024-03-01", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "study,sport", mock.query.Category)
	assert.Equal(t, 2, mock.query.Page)
	assert.Equal(t, "2024-03-01", mock.query.StartDate)

	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Pagination)
	var events []dto.EventResponse
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "2024-03-04", events[0].Date)
}

func TestEventHandlerCRUD(t *testing.T) {
	mock := &eventServiceMock{}
	r := newEventRouter(mock)

	rec := serve(r, http.MethodPost, "/api/events", []byte(`{"title":"Révision","date":"2024-03-04","startTime":"09:00","endTime":"10:00"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Révision", mock.created.Title)

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/api/events/evt-1", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/api/events/missing", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodPut, "/api/events/evt-1", []byte(`{"category":"study"}`)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(r, http.MethodPut, "/api/events/evt-1", []byte(`{`)).Code)

	rec = serve(r, http.MethodDelete, "/api/events/evt-1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "evt-1", mock.deleted)
}

func TestEventHandlerAnalytics(t *testing.T) {
	rec := serve(newEventRouter(&eventServiceMock{}), http.MethodGet, "/api/analytics", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats dto.EventAnalyticsResponse
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &stats))
	assert.Equal(t, 1, stats.TotalEvents)
	assert.Equal(t, 1, stats.WeeklyEvents)
}
