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

type scheduleExporter interface {
	Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportResponse, error)
	Download(ctx context.Context, token string) (*models.ExportFile, error)
}

// ExportHandler renders calendars and serves signed downloads.
type ExportHandler struct {
	service scheduleExporter
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc scheduleExporter) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Export godoc
// @Summary Export a calendar
// @Description json returns the document inline; csv and pdf return a signed download URL.
// @Tags Export
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Format and schedule"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /export [post]
func (h *ExportHandler) Export(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	result, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Download godoc
// @Summary Download a rendered export
// @Tags Export
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ExportHandler) Download(c *gin.Context) {
	file, err := h.service.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Data)
}
