package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/middleware"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

// maxUploadSize ограничивает размер загружаемой книги xlsx
const maxUploadSize = 10 << 20

// Uploads - импорт таблиц судей и постеров
type Uploads interface {
	UploadJudgeMaster(ctx context.Context, r io.Reader) (*service.JudgeMasterUploadResult, error)
	UploadEventJudges(ctx context.Context, eventID uuid.UUID, r io.Reader) (*service.JudgeUploadResult, error)
	UploadPosters(ctx context.Context, eventID uuid.UUID, r io.Reader) (*service.PosterUploadResult, error)
	Status(ctx context.Context, eventID uuid.UUID) (*service.UploadStatus, error)
}

// UploadHandler принимает xlsx файлы из multipart поля "file"
type UploadHandler struct {
	uploads Uploads
}

// NewUploadHandler создает обработчик загрузок
func NewUploadHandler(uploads Uploads) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// openUpload открывает загруженный файл. При ошибке ответ уже отправлен.
func openUpload(c *gin.Context) (io.ReadCloser, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required in form field 'file'", "details": err.Error()})
		return nil, false
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unsupported file type %q, expected .xlsx", ext)})
		return nil, false
	}
	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot read uploaded file", "details": err.Error()})
		return nil, false
	}
	return f, true
}

// UploadJudgeMaster POST /api/judges-master/upload
func (h *UploadHandler) UploadJudgeMaster(c *gin.Context) {
	f, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	result, err := h.uploads.UploadJudgeMaster(c.Request.Context(), f)
	if err != nil {
		respondError(c, "UploadHandler", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadJudges POST /api/events/:eventId/uploads/judges
func (h *UploadHandler) UploadJudges(c *gin.Context) {
	eventID := middleware.UUIDFromContext(c, ContextEventID)
	f, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	result, err := h.uploads.UploadEventJudges(c.Request.Context(), eventID, f)
	if err != nil {
		respondError(c, "UploadHandler", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UploadPosters POST /api/events/:eventId/uploads/posters
func (h *UploadHandler) UploadPosters(c *gin.Context) {
	eventID := middleware.UUIDFromContext(c, ContextEventID)
	f, ok := openUpload(c)
	if !ok {
		return
	}
	defer f.Close()

	result, err := h.uploads.UploadPosters(c.Request.Context(), eventID, f)
	if err != nil {
		respondError(c, "UploadHandler", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Status GET /api/events/:eventId/uploads/status
func (h *UploadHandler) Status(c *gin.Context) {
	status, err := h.uploads.Status(c.Request.Context(), middleware.UUIDFromContext(c, ContextEventID))
	if err != nil {
		respondError(c, "UploadHandler", err)
		return
	}
	c.JSON(http.StatusOK, status)
}
