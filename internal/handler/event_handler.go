package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/handler/dto"
	"github.com/yourusername/cuse-rank-api/internal/middleware"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

// ContextEventID - ключ контекста для ID мероприятия из пути
const ContextEventID = "eventID"

// Events - операции с мероприятиями
type Events interface {
	ListEvents(ctx context.Context, actor service.Actor) ([]entity.Event, error)
	CreateEvent(ctx context.Context, actor service.Actor, input service.EventInput) (*entity.Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	UpdateEvent(ctx context.Context, actor service.Actor, id uuid.UUID, input service.EventInput) (*entity.Event, error)
	DeleteEvent(ctx context.Context, actor service.Actor, id uuid.UUID) error
	AuthorizeEvent(ctx context.Context, actor service.Actor, id uuid.UUID) error
}

// EventHandler обрабатывает запросы, связанные с мероприятиями
type EventHandler struct {
	events Events
}

// NewEventHandler создает новый обработчик мероприятий
func NewEventHandler(events Events) *EventHandler {
	return &EventHandler{events: events}
}

// actorFrom собирает Actor из данных AuthMiddleware
func actorFrom(c *gin.Context) (service.Actor, bool) {
	userID, role, ok := middleware.CurrentUser(c)
	if !ok {
		return service.Actor{}, false
	}
	return service.Actor{UserID: userID, Role: role}, true
}

// bindEvent разбирает тело запроса. Ошибки критериев отдаются как 422.
func bindEvent(c *gin.Context) (dto.EventRequest, bool) {
	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, apperrors.ErrInvalidConfiguration) {
			respondError(c, "EventHandler", err)
		} else {
			badRequest(c, err)
		}
		return req, false
	}
	return req, true
}

// ListEvents GET /api/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	events, err := h.events.ListEvents(c.Request.Context(), actor)
	if err != nil {
		respondError(c, "EventHandler", err)
		return
	}
	c.JSON(http.StatusOK, dto.EventListResponse{Events: events, Total: len(events)})
}

// CreateEvent POST /api/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	req, ok := bindEvent(c)
	if !ok {
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), actor, req.ToInput())
	if err != nil {
		respondError(c, "EventHandler", err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetEvent GET /api/events/:eventId
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID := middleware.UUIDFromContext(c, ContextEventID)

	event, err := h.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, "EventHandler", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// UpdateEvent PUT /api/events/:eventId
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	req, ok := bindEvent(c)
	if !ok {
		return
	}

	event, err := h.events.UpdateEvent(c.Request.Context(), actor, middleware.UUIDFromContext(c, ContextEventID), req.ToInput())
	if err != nil {
		respondError(c, "EventHandler", err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent DELETE /api/events/:eventId
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.events.DeleteEvent(c.Request.Context(), actor, middleware.UUIDFromContext(c, ContextEventID)); err != nil {
		respondError(c, "EventHandler", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// RequireEventAccess пропускает запрос к мероприятию из ContextEventID только
// его создателю или администратору
func (h *EventHandler) RequireEventAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := actorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if err := h.events.AuthorizeEvent(c.Request.Context(), actor, middleware.UUIDFromContext(c, ContextEventID)); err != nil {
			respondError(c, "EventHandler", err)
			c.Abort()
			return
		}
		c.Next()
	}
}
