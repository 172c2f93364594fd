package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/handler/dto"
	"github.com/yourusername/cuse-rank-api/internal/middleware"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

// Assignments - назначение постеров судьям
type Assignments interface {
	GetByEvent(ctx context.Context, eventID uuid.UUID) (*service.EventAssignments, error)
	CreateBulk(ctx context.Context, eventID uuid.UUID, inputs []service.AssignmentInput) (int64, error)
	AutoAssign(ctx context.Context, eventID uuid.UUID) (*service.AutoAssignResult, error)
}

// AssignmentHandler обрабатывает запросы назначений
type AssignmentHandler struct {
	assignments Assignments
}

// NewAssignmentHandler создает обработчик назначений
func NewAssignmentHandler(assignments Assignments) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// GetAssignments GET /api/events/:eventId/assignments
func (h *AssignmentHandler) GetAssignments(c *gin.Context) {
	result, err := h.assignments.GetByEvent(c.Request.Context(), middleware.UUIDFromContext(c, ContextEventID))
	if err != nil {
		respondError(c, "AssignmentHandler", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CreateAssignments POST /api/events/:eventId/assignments
func (h *AssignmentHandler) CreateAssignments(c *gin.Context) {
	var req dto.CreateAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.assignments.CreateBulk(c.Request.Context(), middleware.UUIDFromContext(c, ContextEventID), req.ToInputs())
	if err != nil {
		respondError(c, "AssignmentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"created":   created,
		"requested": len(req.Assignments),
	})
}

// AutoAssign POST /api/events/:eventId/assignments/auto
func (h *AssignmentHandler) AutoAssign(c *gin.Context) {
	result, err := h.assignments.AutoAssign(c.Request.Context(), middleware.UUIDFromContext(c, ContextEventID))
	if err != nil {
		respondError(c, "AssignmentHandler", err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
