package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"not found", fmt.Errorf("event: %w", apperrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"invalid configuration", fmt.Errorf("criteria: %w", apperrors.ErrInvalidConfiguration), http.StatusUnprocessableEntity, "invalid_configuration"},
		{"validation", fmt.Errorf("scores: %w", apperrors.ErrValidation), http.StatusUnprocessableEntity, "validation_error"},
		{"conflict", fmt.Errorf("evaluation: %w", apperrors.ErrConflict), http.StatusConflict, "conflict"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "internal_server_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestGinContext("GET", "/", nil)

			respondError(c, "Test", tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := parseJSONResponse(t, w)
			assert.Equal(t, tt.wantType, resp["error_type"])
		})
	}
}

func TestRespondError_InternalErrorHidesDetails(t *testing.T) {
	c, w := newTestGinContext("GET", "/", nil)

	respondError(c, "Test", errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password", "Детали внутренней ошибки не должны уходить клиенту")
}
