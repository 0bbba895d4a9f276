package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/planify-api/internal/dto"
	"github.com/noah-isme/planify-api/internal/models"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
	"github.com/noah-isme/planify-api/pkg/storage"
)

func sampleSchedule() models.ScheduleResult {
	return models.ScheduleResult{
		ID: uuid.NewString(),
		Calendar: models.Calendar{
			models.DayMonday: {
				{Type: models.CalendarEntryFree, Start: "09:00", End: "12:00", Title: "Temps libre"},
				{Type: models.CalendarEntryTask, Start: "09:00", End: "11:00", Title: "Étude", Reason: "Période optimale pour la concentration"},
			},
		},
		TotalSlots: 1,
	}
}

type exportFixture struct {
	svc     *ExportService
	files   *storage.LocalStorage
	signer  *storage.SignedURLSigner
	store   ScheduleStore
	metrics *MetricsService
}

func newExportFixture(t *testing.T) exportFixture {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	store := NewMemoryScheduleStore(8, time.Minute)
	metrics := NewMetricsService()
	svc := NewExportService(store, files, signer, metrics, nil, zap.NewNop(), ExportConfig{APIPrefix: "/api/"})
	svc.now = func() time.Time { return time.Date(2024, 3, 4, 8, 30, 15, 0, time.UTC) }
	return exportFixture{svc: svc, files: files, signer: signer, store: store, metrics: metrics}
}

func TestExportServiceJSONInline(t *testing.T) {
	fx := newExportFixture(t)
	schedule := sampleSchedule()

	resp, err := fx.svc.Export(context.Background(), dto.ExportRequest{Format: "json", Schedule: &schedule})
	require.NoError(t, err)
	assert.Equal(t, "planning_20240304_083015.json", resp.Filename)
	assert.Equal(t, "json", resp.Format)
	assert.Empty(t, resp.URL)
	data, ok := resp.Data.(*models.ScheduleResult)
	require.True(t, ok)
	assert.Equal(t, schedule.ID, data.ID)
	assert.Contains(t, scrape(t, fx.metrics), `schedule_exports_total{format="json",outcome="ok"} 1`)
}

func TestExportServiceCSVFromStoredSchedule(t *testing.T) {
	fx := newExportFixture(t)
	schedule := sampleSchedule()
	require.NoError(t, fx.store.Save(context.Background(), schedule))

	resp, err := fx.svc.Export(context.Background(), dto.ExportRequest{Format: "csv", ScheduleID: schedule.ID})
	require.NoError(t, err)
	assert.Equal(t, "planning_20240304_083015.csv", resp.Filename)
	require.True(t, strings.HasPrefix(resp.URL, "/api/export/"))
	require.NotNil(t, resp.ExpiresAt)

	token := strings.TrimPrefix(resp.URL, "/api/export/")
	file, err := fx.svc.Download(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "planning_20240304_083015.csv", file.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", file.ContentType)
	body := string(file.Data)
	assert.Contains(t, body, "Jour,Début,Fin,Type,Titre,Raison")
	assert.Contains(t, body, "Lundi,09:00,11:00,Tâche,Étude,Période optimale pour la concentration")
}

func TestExportServicePDF(t *testing.T) {
	fx := newExportFixture(t)
	schedule := sampleSchedule()

	resp, err := fx.svc.Export(context.Background(), dto.ExportRequest{Format: "pdf", Schedule: &schedule})
	require.NoError(t, err)

	file, err := fx.svc.Download(context.Background(), strings.TrimPrefix(resp.URL, "/api/export/"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Data), "%PDF"))
}

func TestExportServiceValidation(t *testing.T) {
	fx := newExportFixture(t)
	schedule := sampleSchedule()

	_, err := fx.svc.Export(context.Background(), dto.ExportRequest{Format: "xml", Schedule: &schedule})
	assertAppError(t, err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status)

	_, err = fx.svc.Export(context.Background(), dto.ExportRequest{Format: "csv"})
	assertAppError(t, err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status)

	_, err = fx.svc.Export(context.Background(), dto.ExportRequest{Format: "csv", ScheduleID: uuid.NewString()})
	assertAppError(t, err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status)
}

func TestExportServiceDownloadRejectsBadTokens(t *testing.T) {
	fx := newExportFixture(t)

	_, err := fx.svc.Download(context.Background(), "not-a-token")
	assertAppError(t, err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status)

	token, _, err := fx.signer.Generate("missing", "missing/planning.csv")
	require.NoError(t, err)
	_, err = fx.svc.Download(context.Background(), token)
	assertAppError(t, err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status)
}

func TestExportServiceCleanup(t *testing.T) {
	fx := newExportFixture(t)
	_, err := fx.files.Save("old/planning.csv", []byte("x"))
	require.NoError(t, err)

	fx.svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	deleted, err := fx.svc.Cleanup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"old/planning.csv"}, deleted)
}

func TestCalendarDatasetCoversWeek(t *testing.T) {
	data := CalendarDataset(sampleSchedule())
	require.Len(t, data.Groups, 7)
	assert.Equal(t, "Lundi", data.Groups[0].Label)
	assert.Equal(t, "Dimanche", data.Groups[6].Label)
	assert.Len(t, data.Groups[0].Rows, 2)
	assert.Equal(t, "Libre", data.Groups[0].Rows[0][2])
	assert.Equal(t, 2, data.RowCount())
}
