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

func TestJudgeGetAssignments_QueryValidation(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing netid", "/api/judges/assignments?code=123456"},
		{"missing code", "/api/judges/assignments?netid=jdoe"},
		{"short code", "/api/judges/assignments?netid=jdoe&code=12345"},
		{"non numeric code", "/api/judges/assignments?netid=jdoe&code=12ab56"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portal := new(MockJudgePortal)
			handler := NewJudgeHandler(portal)

			c, w := newTestGinContext("GET", tt.path, nil)
			handler.GetAssignments(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			portal.AssertNotCalled(t, "GetAssignments", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestJudgeGetAssignments(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		portal := new(MockJudgePortal)
		handler := NewJudgeHandler(portal)
		portal.On("GetAssignments", mock.Anything, "jdoe", "123456").Return(&service.PortalAssignments{
			Name:    "Jane Doe",
			Posters: map[int][]service.PortalPoster{1: {}},
		}, nil)

		c, w := newTestGinContext("GET", "/api/judges/assignments?netid=jdoe&code=123456", nil)
		handler.GetAssignments(c)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := parseJSONResponse(t, w)
		assert.Equal(t, "Jane Doe", resp["name"])
	})

	t.Run("wrong code", func(t *testing.T) {
		portal := new(MockJudgePortal)
		handler := NewJudgeHandler(portal)
		portal.On("GetAssignments", mock.Anything, "jdoe", "654321").Return(nil, apperrors.ErrUnauthorized)

		c, w := newTestGinContext("GET", "/api/judges/assignments?netid=jdoe&code=654321", nil)
		handler.GetAssignments(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func evaluationBody(posterID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"netid":     "jdoe",
		"code":      "123456",
		"poster_id": posterID.String(),
		"scores":    map[string]interface{}{"Innovation": 8, "Clarity": 7.5},
		"comments":  "Strong methods",
	}
}

func TestSubmitEvaluation_Created(t *testing.T) {
	// Arrange
	portal := new(MockJudgePortal)
	handler := NewJudgeHandler(portal)
	posterID := uuid.New()

	portal.On("SubmitEvaluation", mock.Anything, mock.MatchedBy(func(in service.EvaluationInput) bool {
		return in.NetID == "jdoe" && in.Code == "123456" && in.PosterID == posterID &&
			in.Scores["Innovation"] == 8 && in.Scores["Clarity"] == 7.5
	})).Return(&entity.Evaluation{ID: uuid.New(), PosterID: posterID}, nil)

	c, w := newTestGinContext("POST", "/api/judges/evaluations", evaluationBody(posterID))

	// Act
	handler.SubmitEvaluation(c)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	portal.AssertExpectations(t)
}

func TestSubmitEvaluation_ServiceErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"already evaluated", apperrors.ErrConflict, http.StatusConflict},
		{"poster from another event", apperrors.ErrForbidden, http.StatusForbidden},
		{"judging window closed", apperrors.ErrForbidden, http.StatusForbidden},
		{"unknown criterion", apperrors.ErrValidation, http.StatusUnprocessableEntity},
		{"bad credentials", apperrors.ErrUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			portal := new(MockJudgePortal)
			handler := NewJudgeHandler(portal)
			portal.On("SubmitEvaluation", mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := newTestGinContext("POST", "/api/judges/evaluations", evaluationBody(uuid.New()))
			handler.SubmitEvaluation(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestSubmitEvaluation_MissingScores(t *testing.T) {
	portal := new(MockJudgePortal)
	handler := NewJudgeHandler(portal)
	body := evaluationBody(uuid.New())
	delete(body, "scores")

	c, w := newTestGinContext("POST", "/api/judges/evaluations", body)
	handler.SubmitEvaluation(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	portal.AssertNotCalled(t, "SubmitEvaluation", mock.Anything, mock.Anything)
}
