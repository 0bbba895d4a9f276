package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/planify-api/internal/dto"
	"github.com/noah-isme/planify-api/internal/models"
	"github.com/noah-isme/planify-api/internal/planner"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
)

type schedulePlanner interface {
	Generate(free []models.TimeSlot, explicit []models.Task, freeText string) models.ScheduleResult
	ExtractTasks(text string) []models.Task
	Catalog() *planner.Catalog
	Policy() planner.SlotPolicy
}

// ScheduleGeneratorService validates requests, runs the planner and retains results.
type ScheduleGeneratorService struct {
	planner   schedulePlanner
	store     ScheduleStore
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScheduleGeneratorConfig
}

// ScheduleGeneratorConfig bounds request sizes.
type ScheduleGeneratorConfig struct {
	MaxSlots int
	MaxTasks int
}

// NewScheduleGeneratorService wires the generator dependencies.
func NewScheduleGeneratorService(
	p schedulePlanner,
	store ScheduleStore,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ScheduleGeneratorConfig,
) *ScheduleGeneratorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewMemoryScheduleStore(0, 0)
	}
	if cfg.MaxSlots <= 0 {
		cfg.MaxSlots = 64
	}
	if cfg.MaxTasks <= 0 {
		cfg.MaxTasks = 64
	}
	return &ScheduleGeneratorService{
		planner:   p,
		store:     store,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Generate builds a calendar from the declared free slots, explicit tasks and voice input.
func (s *ScheduleGeneratorService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*models.ScheduleResult, error) {
	if len(req.Slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one time slot is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule request")
	}
	if len(req.Slots) > s.cfg.MaxSlots {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d time slots are allowed", s.cfg.MaxSlots))
	}
	if len(req.Tasks) > s.cfg.MaxTasks {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d tasks are allowed", s.cfg.MaxTasks))
	}

	free := make([]models.TimeSlot, 0, len(req.Slots))
	for i, raw := range req.Slots {
		slot, err := planner.ParseTimeSlot(raw.Day, raw.Start, raw.End)
		if err != nil {
			return nil, translatePlannerError(err, fmt.Sprintf("slots[%d]", i))
		}
		free = append(free, slot)
	}

	tasks := make([]models.Task, 0, len(req.Tasks))
	for i, raw := range req.Tasks {
		task, err := taskFromRequest(raw)
		if err != nil {
			return nil, translatePlannerError(err, fmt.Sprintf("tasks[%d]", i))
		}
		tasks = append(tasks, task)
	}

	start := time.Now()
	result := s.planner.Generate(free, tasks, req.VoiceInput)
	elapsed := time.Since(start)
	result.ID = uuid.NewString()

	s.metrics.ObserveGeneration(string(s.planner.Policy()), len(result.Tasks), len(result.Suggestions), elapsed)
	s.logger.Debug("schedule generated",
		zap.String("schedule_id", result.ID),
		zap.Int("slots", len(free)),
		zap.Int("tasks", len(result.Tasks)),
		zap.Int("suggestions", len(result.Suggestions)),
		zap.Duration("elapsed", elapsed),
	)

	if err := s.store.Save(ctx, result); err != nil {
		// the schedule is still returned; only later retrieval by id is lost
		s.logger.Warn("failed to retain schedule", zap.String("schedule_id", result.ID), zap.Error(err))
	}
	return &result, nil
}

// Get returns a previously generated schedule.
func (s *ScheduleGeneratorService) Get(ctx context.Context, id string) (*models.ScheduleResult, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found or expired")
	}
	return s.store.Get(ctx, id)
}

// ParseVoice extracts tasks from free text without scheduling them.
func (s *ScheduleGeneratorService) ParseVoice(_ context.Context, req dto.VoiceParseRequest) (*dto.VoiceParseResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "text is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid voice payload")
	}
	tasks := s.planner.ExtractTasks(req.Text)
	s.logger.Debug("voice input parsed", zap.Int("tasks", len(tasks)))
	return &dto.VoiceParseResponse{Tasks: tasks}, nil
}

// TaskTypes lists the catalog in registration order.
func (s *ScheduleGeneratorService) TaskTypes() []dto.TaskTypeResponse {
	entries := s.planner.Catalog().Entries()
	out := make([]dto.TaskTypeResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.TaskTypeResponse{
			Type:            entry.Type,
			Title:           planner.TaskTitle(entry.Type),
			DefaultDuration: entry.Profile.DefaultDurationMinutes,
			Priority:        entry.Profile.Priority,
			Kind:            entry.Profile.Kind,
			Reason:          planner.SuggestionReason(entry.Profile.Kind),
		})
	}
	return out
}

func taskFromRequest(raw dto.TaskRequest) (models.Task, error) {
	task := models.Task{
		Type:            models.TaskType(raw.Type),
		Text:            raw.Text,
		Priority:        models.Priority(raw.Priority),
		DurationMinutes: raw.Duration,
	}
	if raw.Day != "" {
		day, ok := models.ParseDay(raw.Day)
		if !ok {
			return models.Task{}, fmt.Errorf("%w: %q", planner.ErrUnknownDay, raw.Day)
		}
		task.Day = &day
	}
	if raw.Start != "" {
		start, err := planner.ParseClock(raw.Start)
		if err != nil {
			return models.Task{}, err
		}
		task.Start = &start
	}
	if raw.End != "" {
		end, err := planner.ParseClock(raw.End)
		if err != nil {
			return models.Task{}, err
		}
		task.End = &end
	}
	if task.Start != nil && task.End != nil {
		if *task.End <= *task.Start {
			return models.Task{}, fmt.Errorf("%w: %s-%s", planner.ErrInvalidTimeRange, task.Start, task.End)
		}
		if task.DurationMinutes == 0 {
			task.DurationMinutes = int(*task.End - *task.Start)
		}
	}
	return task, nil
}

func translatePlannerError(err error, field string) error {
	var base *appErrors.Error
	switch {
	case errors.Is(err, planner.ErrInvalidTimeFormat):
		base = appErrors.ErrInvalidTimeFormat
	case errors.Is(err, planner.ErrInvalidTimeRange):
		base = appErrors.ErrInvalidTimeRange
	case errors.Is(err, planner.ErrUnknownDay):
		base = appErrors.ErrUnknownDay
	default:
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, field+": "+err.Error())
	}
	return appErrors.Wrap(err, base.Code, base.Status, field+": "+err.Error())
}
