package handler

import (
	"io"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

func TestUpload_RejectsBadFiles(t *testing.T) {
	tests := []struct {
		name     string
		filename string
	}{
		{"missing file field", ""},
		{"csv instead of xlsx", "posters.csv"},
		{"legacy xls", "posters.xls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uploads := new(MockUploads)
			handler := NewUploadHandler(uploads)

			c, w := newUploadContext(t, "/api/events/x/uploads/posters", tt.filename, []byte("data"))
			c.Set(ContextEventID, uuid.New())
			handler.UploadPosters(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			uploads.AssertNotCalled(t, "UploadPosters", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUploadPosters_Created(t *testing.T) {
	// Arrange
	uploads := new(MockUploads)
	handler := NewUploadHandler(uploads)
	eventID := uuid.New()

	uploads.On("UploadPosters", mock.Anything, eventID, mock.MatchedBy(func(r io.Reader) bool {
		data, err := io.ReadAll(r)
		return err == nil && string(data) == "workbook-bytes"
	})).Return(&service.PosterUploadResult{Created: 3, Skipped: 1}, nil)

	c, w := newUploadContext(t, "/api/events/x/uploads/posters", "Posters.XLSX", []byte("workbook-bytes"))
	c.Set(ContextEventID, eventID)

	// Act
	handler.UploadPosters(c)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, float64(3), resp["created"])
	uploads.AssertExpectations(t)
}

func TestUploadJudges_UnknownEvent(t *testing.T) {
	uploads := new(MockUploads)
	handler := NewUploadHandler(uploads)
	eventID := uuid.New()
	uploads.On("UploadEventJudges", mock.Anything, eventID, mock.Anything).Return(nil, apperrors.ErrNotFound)

	c, w := newUploadContext(t, "/api/events/x/uploads/judges", "judges.xlsx", []byte("x"))
	c.Set(ContextEventID, eventID)
	handler.UploadJudges(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadJudgeMaster_BrokenWorkbook(t *testing.T) {
	uploads := new(MockUploads)
	handler := NewUploadHandler(uploads)
	uploads.On("UploadJudgeMaster", mock.Anything, mock.Anything).Return(nil, apperrors.ErrValidation)

	c, w := newUploadContext(t, "/api/judges-master/upload", "master.xlsx", []byte("not a zip"))
	handler.UploadJudgeMaster(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUploadStatus(t *testing.T) {
	uploads := new(MockUploads)
	handler := NewUploadHandler(uploads)
	eventID := uuid.New()
	uploads.On("Status", mock.Anything, eventID).Return(&service.UploadStatus{HasJudges: true}, nil)

	c, w := newTestGinContext("GET", "/api/events/x/uploads/status", nil)
	c.Set(ContextEventID, eventID)
	handler.Status(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, true, resp["has_judges"])
	assert.Equal(t, false, resp["has_posters"])
}
