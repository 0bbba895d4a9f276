package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/planify-api/internal/dto"
	"github.com/noah-isme/planify-api/internal/models"
	appErrors "github.com/noah-isme/planify-api/pkg/errors"
)

type exporterMock struct {
	captured dto.ExportRequest
}

func (m *exporterMock) Export(_ context.Context, req dto.ExportRequest) (*dto.ExportResponse, error) {
	m.captured = req
	return &dto.ExportResponse{Filename: "planning_20240304_080000.csv", Format: req.Format, URL: "/api/export/tok"}, nil
}

func (m *exporterMock) Download(_ context.Context, token string) (*models.ExportFile, error) {
	if token != "tok" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found or expired")
	}
	return &models.ExportFile{Filename: "planning_20240304_080000.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("Jour,Début\n")}, nil
}

func newExportRouter(mock *exporterMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewExportHandler(mock)
	r := gin.New()
	r.POST("/api/export", h.Export)
	r.GET("/api/export/:token", h.Download)
	return r
}

func TestExportHandlerExport(t *testing.T) {
	mock := &exporterMock{}
	r := newExportRouter(mock)

	rec := serve(r, http.MethodPost, "/api/export", []byte(`{"format":"csv","scheduleId":"7f1c0c2e-3a4b-4c5d-8e9f-0a1b2c3d4e5f"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "csv", mock.captured.Format)
	assert.Equal(t, "7f1c0c2e-3a4b-4c5d-8e9f-0a1b2c3d4e5f", mock.captured.ScheduleID)

	rec = serve(r, http.MethodPost, "/api/export", []byte(`not json`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerDownload(t *testing.T) {
	r := newExportRouter(&exporterMock{})

	rec := serve(r, http.MethodGet, "/api/export/tok", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "planning_20240304_080000.csv")
	assert.Equal(t, "Jour,Début\n", rec.Body.String())

	rec = serve(r, http.MethodGet, "/api/export/bad", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
