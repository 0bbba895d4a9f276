package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/planify-api/internal/dto"
	"github.com/noah-isme/planify-api/internal/models"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
	"github.com/noah-isme/planify-api/pkg/response"
)

type scheduleGenerator interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*models.ScheduleResult, error)
	Get(ctx context.Context, id string) (*models.ScheduleResult, error)
	ParseVoice(ctx context.Context, req dto.VoiceParseRequest) (*dto.VoiceParseResponse, error)
	TaskTypes() []dto.TaskTypeResponse
}

// ScheduleGeneratorHandler exposes the planner endpoints.
type ScheduleGeneratorHandler struct {
	service scheduleGenerator
}

// NewScheduleGeneratorHandler constructs the handler.
func NewScheduleGeneratorHandler(svc scheduleGenerator) *ScheduleGeneratorHandler {
	return &ScheduleGeneratorHandler{service: svc}
}

// Generate godoc
// @Summary Generate a weekly calendar
// @Description Places explicit tasks and tasks extracted from voice_input into the declared free slots.
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Free slots, tasks and optional voice input"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /generate [post]
func (h *ScheduleGeneratorHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// GetSchedule godoc
// @Summary Fetch a generated calendar
// @Tags Planner
// @Produce json
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleGeneratorHandler) GetSchedule(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// VoiceParse godoc
// @Summary Extract tasks from free text
// @Tags Planner
// @Accept json
// @Produce json
// @Param payload body dto.VoiceParseRequest true "Transcript"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /voice-parse [post]
func (h *ScheduleGeneratorHandler) VoiceParse(c *gin.Context) {
	var req dto.VoiceParseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid voice payload"))
		return
	}
	result, err := h.service.ParseVoice(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// TaskTypes godoc
// @Summary List the task catalog
// @Tags Planner
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /task-types [get]
func (h *ScheduleGeneratorHandler) TaskTypes(c *gin.Context) {
	types := h.service.TaskTypes()
	response.OK(c, types, map[string]interface{}{"count": len(types)})
}
