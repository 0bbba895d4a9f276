package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/planify-api/internal/dto"
	"github.com/noah-isme/planify-api/internal/models"
	"github.com/noah-isme/planify-api/internal/planner"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
)

const (
	eventDateLayout   = "2006-01-02"
	analyticsWindow   = 7 * 24 * time.Hour
	defaultEventsPage = 50
)

type eventRepository interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, int, error)
	GetByID(ctx context.Context, id string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id string) error
	CategoryCounts(ctx context.Context) ([]models.CategoryCount, error)
	CountSince(ctx context.Context, since time.Time) (int, error)
	Count(ctx context.Context) (int, error)
}

// EventService manages agenda events and their analytics.
type EventService struct {
	repo      eventRepository
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewEventService constructs the service and registers the clock validation rule.
func NewEventService(repo eventRepository, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *EventService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := planner.ParseClock(fl.Field().String())
		return err == nil
	})
	return &EventService{repo: repo, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// List returns events matching the query with pagination metadata.
func (s *EventService) List(ctx context.Context, query dto.EventFilterQuery) ([]models.Event, *models.Pagination, error) {
	if err := s.validate(query); err != nil {
		return nil, nil, err
	}
	filter := models.EventFilter{Page: query.Page, PageSize: query.PageSize}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultEventsPage
	}
	if query.StartDate != "" {
		start, _ := time.Parse(eventDateLayout, query.StartDate)
		filter.StartDate = &start
	}
	if query.EndDate != "" {
		end, _ := time.Parse(eventDateLayout, query.EndDate)
		filter.EndDate = &end
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "end_date must be on or after start_date")
	}
	for _, category := range strings.Split(query.Category, ",") {
		if category = strings.TrimSpace(category); category != "" {
			filter.Categories = append(filter.Categories, category)
		}
	}

	start := time.Now()
	events, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("events_list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list events")
	}
	return events, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns an event by id.
func (s *EventService) Get(ctx context.Context, id string) (*models.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get event")
	}
	return event, nil
}

// Create registers a new event. Category defaults to general and priority to medium.
func (s *EventService) Create(ctx context.Context, req dto.CreateEventRequest) (*models.Event, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	date, _ := time.Parse(eventDateLayout, req.Date)
	event := &models.Event{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Category:    req.Category,
		Priority:    models.Priority(req.Priority),
	}
	if err := normalizeEvent(event); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create event")
	}
	s.logger.Debug("event created", zap.String("event_id", event.ID), zap.String("category", event.Category))
	return event, nil
}

// Update applies the non-nil fields of req to an existing event.
func (s *EventService) Update(ctx context.Context, id string, req dto.UpdateEventRequest) (*models.Event, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		event.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Date != nil {
		event.Date, _ = time.Parse(eventDateLayout, *req.Date)
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.Priority != nil {
		event.Priority = models.Priority(*req.Priority)
	}
	if err := normalizeEvent(event); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update event")
	}
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "event not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete event")
	}
	return nil
}

// Analytics reports counts per category, events dated within the last seven days and the total.
func (s *EventService) Analytics(ctx context.Context) (*dto.EventAnalyticsResponse, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveDBQuery("events_analytics", time.Since(start)) }()

	categories, err := s.repo.CategoryCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load analytics")
	}
	since := s.now().UTC().Add(-analyticsWindow).Truncate(24 * time.Hour)
	weekly, err := s.repo.CountSince(ctx, since)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load analytics")
	}
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load analytics")
	}
	return &dto.EventAnalyticsResponse{Categories: categories, WeeklyEvents: weekly, TotalEvents: total}, nil
}

func (s *EventService) validate(payload interface{}) error {
	err := s.validator.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if fe.Tag() == "clock" {
				return appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, fe.Field()+": time must use HH:MM")
			}
		}
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
}

func normalizeEvent(event *models.Event) error {
	if event.Title == "" {
		return appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if event.Category == "" {
		event.Category = models.DefaultEventCategory
	}
	if event.Priority == "" {
		event.Priority = models.PriorityMedium
	}
	start, err := planner.ParseClock(event.StartTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, "startTime: "+err.Error())
	}
	end, err := planner.ParseClock(event.EndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInvalidTimeFormat.Code, appErrors.ErrInvalidTimeFormat.Status, "endTime: "+err.Error())
	}
	if end <= start {
		return appErrors.Clone(appErrors.ErrInvalidTimeRange, "endTime must be after startTime")
	}
	event.StartTime, event.EndTime = start.String(), end.String()
	return nil
}
