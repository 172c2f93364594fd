package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

func eventBody(criteria interface{}) map[string]interface{} {
	return map[string]interface{}{
		"name":       "Spring Symposium",
		"start_date": "2026-04-10T00:00:00Z",
		"end_date":   "2026-04-10T00:00:00Z",
		"criteria":   criteria,
	}
}

func TestCreateEvent_RequiresUser(t *testing.T) {
	events := new(MockEvents)
	handler := NewEventHandler(events)

	c, w := newTestGinContext("POST", "/api/events", eventBody(map[string]float64{"Innovation": 1}))
	handler.CreateEvent(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateEvent_Success(t *testing.T) {
	// Arrange
	events := new(MockEvents)
	handler := NewEventHandler(events)
	userID := uuid.New()
	actor := service.Actor{UserID: userID, Role: entity.RoleOrganizer}

	events.On("CreateEvent", mock.Anything, actor, mock.MatchedBy(func(in service.EventInput) bool {
		// Массив {name, weight} приводится к карте
		return in.Name == "Spring Symposium" && in.Criteria["Innovation"] == 2 && in.Criteria["Clarity"] == 1
	})).Return(&entity.Event{ID: uuid.New(), Name: "Spring Symposium"}, nil)

	c, w := newTestGinContext("POST", "/api/events", eventBody([]map[string]interface{}{
		{"name": "Innovation", "weight": 2},
		{"name": "Clarity", "weight": "1"},
	}))
	asUser(c, userID, entity.RoleOrganizer)

	// Act
	handler.CreateEvent(c)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	events.AssertExpectations(t)
}

func TestCreateEvent_InvalidCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria interface{}
	}{
		{"negative weight", map[string]float64{"Innovation": -1}},
		{"empty name", []map[string]interface{}{{"name": " ", "weight": 1}}},
		{"not an object", "Innovation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := new(MockEvents)
			handler := NewEventHandler(events)

			c, w := newTestGinContext("POST", "/api/events", eventBody(tt.criteria))
			asUser(c, uuid.New(), entity.RoleOrganizer)
			handler.CreateEvent(c)

			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, "invalid_configuration", resp["error_type"])
			events.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCreateEvent_MissingName(t *testing.T) {
	handler := NewEventHandler(new(MockEvents))
	body := eventBody(map[string]float64{"Innovation": 1})
	delete(body, "name")

	c, w := newTestGinContext("POST", "/api/events", body)
	asUser(c, uuid.New(), entity.RoleOrganizer)
	handler.CreateEvent(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvent_NotFound(t *testing.T) {
	events := new(MockEvents)
	handler := NewEventHandler(events)
	eventID := uuid.New()
	events.On("GetEvent", mock.Anything, eventID).Return(nil, apperrors.ErrNotFound)

	c, w := newTestGinContext("GET", "/api/events/"+eventID.String(), nil)
	c.Set(ContextEventID, eventID)
	handler.GetEvent(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateEvent_ForeignEventIsForbidden(t *testing.T) {
	events := new(MockEvents)
	handler := NewEventHandler(events)
	eventID := uuid.New()
	events.On("UpdateEvent", mock.Anything, mock.Anything, eventID, mock.Anything).Return(nil, apperrors.ErrForbidden)

	c, w := newTestGinContext("PUT", "/api/events/"+eventID.String(), eventBody(map[string]float64{"Innovation": 1}))
	c.Set(ContextEventID, eventID)
	asUser(c, uuid.New(), entity.RoleOrganizer)
	handler.UpdateEvent(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteEvent_NoContent(t *testing.T) {
	events := new(MockEvents)
	handler := NewEventHandler(events)
	eventID := uuid.New()
	userID := uuid.New()
	events.On("DeleteEvent", mock.Anything, service.Actor{UserID: userID, Role: entity.RoleAdmin}, eventID).Return(nil)

	c, w := newTestGinContext("DELETE", "/api/events/"+eventID.String(), nil)
	c.Set(ContextEventID, eventID)
	asUser(c, userID, entity.RoleAdmin)
	handler.DeleteEvent(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Empty(t, w.Body.String())
	events.AssertExpectations(t)
}

func TestListEvents_ReturnsTotal(t *testing.T) {
	events := new(MockEvents)
	handler := NewEventHandler(events)
	userID := uuid.New()
	events.On("ListEvents", mock.Anything, service.Actor{UserID: userID, Role: entity.RoleOrganizer}).
		Return([]entity.Event{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	c, w := newTestGinContext("GET", "/api/events", nil)
	asUser(c, userID, entity.RoleOrganizer)
	handler.ListEvents(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := parseJSONResponse(t, w)
	assert.Equal(t, float64(2), resp["total"])
}

func TestRequireEventAccess(t *testing.T) {
	eventID := uuid.New()
	owner := uuid.New()

	tests := []struct {
		name        string
		authErr     error
		wantCode    int
		wantAborted bool
	}{
		{"создатель проходит", nil, http.StatusOK, false},
		{"чужой организатор", apperrors.ErrForbidden, http.StatusForbidden, true},
		{"мероприятие не найдено", apperrors.ErrNotFound, http.StatusNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := new(MockEvents)
			handler := NewEventHandler(events)
			events.On("AuthorizeEvent", mock.Anything, service.Actor{UserID: owner, Role: entity.RoleOrganizer}, eventID).
				Return(tt.authErr)

			c, w := newTestGinContext("POST", "/api/events/x/uploads/posters", nil)
			asUser(c, owner, entity.RoleOrganizer)
			c.Set(ContextEventID, eventID)

			handler.RequireEventAccess()(c)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantAborted, c.IsAborted())
			events.AssertExpectations(t)
		})
	}
}

func TestRequireEventAccess_Anonymous(t *testing.T) {
	events := new(MockEvents)
	handler := NewEventHandler(events)

	c, w := newTestGinContext("POST", "/api/scoring/x", nil)
	c.Set(ContextEventID, uuid.New())
	handler.RequireEventAccess()(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	events.AssertNotCalled(t, "AuthorizeEvent", mock.Anything, mock.Anything, mock.Anything)
}
