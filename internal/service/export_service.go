package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/planify-api/internal/dto"
	"github.com/noah-isme/planify-api/internal/models"
	"github.com/noah-isme/planify-api/internal/planner"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
	"github.com/noah-isme/planify-api/pkg/export"
	"github.com/noah-isme/planify-api/pkg/storage"
)

const (
	exportTitle       = "Planning de la semaine"
	exportDayHeader   = "Jour"
	exportFilePrefix  = "planning"
	exportStampLayout = "20060102_150405"
)

var exportHeaders = []string{"Début", "Fin", "Type", "Titre", "Raison"}

type scheduleReader interface {
	Get(ctx context.Context, id string) (*models.ScheduleResult, error)
}

type fileStorage interface {
	Save(relPath string, data []byte) (string, error)
	Read(relPath string) ([]byte, error)
	Delete(relPath string) error
	CleanupOlderThan(now time.Time, ttl time.Duration) ([]string, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders schedules as JSON, CSV or PDF and serves stored files through signed tokens.
type ExportService struct {
	schedules scheduleReader
	storage   fileStorage
	signer    *storage.SignedURLSigner
	renderers map[models.ExportFormat]datasetRenderer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(
	schedules scheduleReader,
	files fileStorage,
	signer *storage.SignedURLSigner,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg ExportConfig,
) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = signer.TTL()
	}
	return &ExportService{
		schedules: schedules,
		storage:   files,
		signer:    signer,
		renderers: map[models.ExportFormat]datasetRenderer{
			models.ExportFormatCSV: export.NewCSVExporter(),
			models.ExportFormatPDF: export.NewPDFExporter(),
		},
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Export renders the requested schedule. JSON is returned inline; CSV and PDF are stored and signed.
func (s *ExportService) Export(ctx context.Context, req dto.ExportRequest) (*dto.ExportResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	format := models.ExportFormat(req.Format)

	result, err := s.resolveSchedule(ctx, req)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s_%s.%s", exportFilePrefix, s.now().UTC().Format(exportStampLayout), format)
	if format == models.ExportFormatJSON {
		s.metrics.RecordExport(string(format), nil)
		return &dto.ExportResponse{Filename: filename, Format: string(format), Data: result}, nil
	}

	resp, err := s.renderAndStore(format, filename, *result)
	s.metrics.RecordExport(string(format), err)
	if err != nil {
		s.logger.Error("export failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return resp, nil
}

// Download resolves a signed token to the stored file.
func (s *ExportService) Download(_ context.Context, token string) (*models.ExportFile, error) {
	claims, err := s.signer.Parse(token, false)
	if err != nil {
		if !errors.Is(err, storage.ErrTokenExpired) && !errors.Is(err, storage.ErrInvalidToken) {
			return nil, appErrors.FromError(err)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found or expired")
	}
	data, err := s.storage.Read(claims.Path)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found or expired")
	}
	filename := path.Base(claims.Path)
	format := models.ExportFormat(strings.TrimPrefix(path.Ext(filename), "."))
	return &models.ExportFile{
		Filename:    filename,
		ContentType: format.ContentType(),
		Data:        data,
		ExpiresAt:   claims.ExpiresAt,
	}, nil
}

// Cleanup removes stored exports older than the configured TTL.
func (s *ExportService) Cleanup(_ context.Context) ([]string, error) {
	deleted, err := s.storage.CleanupOlderThan(s.now(), s.cfg.ResultTTL)
	if err != nil {
		return nil, err
	}
	if len(deleted) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(deleted)))
	}
	return deleted, nil
}

func (s *ExportService) resolveSchedule(ctx context.Context, req dto.ExportRequest) (*models.ScheduleResult, error) {
	if req.ScheduleID != "" {
		return s.schedules.Get(ctx, req.ScheduleID)
	}
	if req.Schedule == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "schedule or scheduleId is required")
	}
	return req.Schedule, nil
}

func (s *ExportService) renderAndStore(format models.ExportFormat, filename string, result models.ScheduleResult) (*dto.ExportResponse, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %s", format)
	}
	payload, err := renderer.Render(CalendarDataset(result))
	if err != nil {
		return nil, err
	}

	exportID := uuid.NewString()
	relPath, err := s.storage.Save(exportID+"/"+filename, payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(exportID, relPath)
	if err != nil {
		_ = s.storage.Delete(relPath)
		return nil, err
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api"
	}
	return &dto.ExportResponse{
		Filename:  filename,
		Format:    string(format),
		URL:       fmt.Sprintf("%s/export/%s", prefix, token),
		ExpiresAt: &expiresAt,
	}, nil
}

// CalendarDataset flattens a schedule into one group per weekday, Monday first.
func CalendarDataset(result models.ScheduleResult) export.Dataset {
	groups := make([]export.Group, 0, 7)
	for _, day := range models.Days() {
		entries := result.Calendar[day]
		rows := make([][]string, 0, len(entries))
		for _, entry := range entries {
			rows = append(rows, []string{entry.Start, entry.End, entryTypeLabel(entry.Type), entry.Title, entry.Reason})
		}
		groups = append(groups, export.Group{Label: planner.TaskTitle(models.TaskType(day)), Rows: rows})
	}
	return export.Dataset{
		Title:       exportTitle,
		GroupHeader: exportDayHeader,
		Headers:     exportHeaders,
		Groups:      groups,
	}
}

func entryTypeLabel(t models.CalendarEntryType) string {
	if t == models.CalendarEntryFree {
		return "Libre"
	}
	return "Tâche"
}
