package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/handler/dto"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

// JudgePortal - операции портала судьи
type JudgePortal interface {
	GetAssignments(ctx context.Context, netID, code string) (*service.PortalAssignments, error)
	SubmitEvaluation(ctx context.Context, input service.EvaluationInput) (*entity.Evaluation, error)
}

// JudgeHandler обслуживает портал судьи. Аутентификация по netid и коду доступа
// передается в каждом запросе, JWT не используется.
type JudgeHandler struct {
	portal JudgePortal
}

// NewJudgeHandler создает обработчик портала судьи
func NewJudgeHandler(portal JudgePortal) *JudgeHandler {
	return &JudgeHandler{portal: portal}
}

// GetAssignments GET /api/judges/assignments?netid=&code=
func (h *JudgeHandler) GetAssignments(c *gin.Context) {
	var q dto.JudgeCredentialsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.portal.GetAssignments(c.Request.Context(), q.NetID, q.Code)
	if err != nil {
		respondError(c, "JudgeHandler", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SubmitEvaluation POST /api/judges/evaluations
func (h *JudgeHandler) SubmitEvaluation(c *gin.Context) {
	var req dto.EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	evaluation, err := h.portal.SubmitEvaluation(c.Request.Context(), req.ToInput())
	if err != nil {
		respondError(c, "JudgeHandler", err)
		return
	}
	c.JSON(http.StatusCreated, evaluation)
}
