package dto

import (
	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

// AssignmentItem - одно назначение в запросе на массовое создание
type AssignmentItem struct {
	JudgeID        uuid.UUID `json:"judge_id" binding:"required"`
	PosterID       uuid.UUID `json:"poster_id" binding:"required"`
	RelevanceScore *float64  `json:"relevance_score"`
}

// CreateAssignmentsRequest - тело POST /api/events/:id/assignments
type CreateAssignmentsRequest struct {
	Assignments []AssignmentItem `json:"assignments" binding:"required,min=1,dive"`
}

// ToInputs переводит запрос во входные данные сервиса
func (r CreateAssignmentsRequest) ToInputs() []service.AssignmentInput {
	inputs := make([]service.AssignmentInput, len(r.Assignments))
	for i, a := range r.Assignments {
		inputs[i] = service.AssignmentInput{
			JudgeID:        a.JudgeID,
			PosterID:       a.PosterID,
			RelevanceScore: a.RelevanceScore,
		}
	}
	return inputs
}

// JudgeCredentialsQuery - учетные данные судьи в query параметрах портала
type JudgeCredentialsQuery struct {
	NetID string `form:"netid" binding:"required"`
	Code  string `form:"code" binding:"required,len=6,numeric"`
}

// EvaluationRequest - оценка постера, отправленная из портала судьи
type EvaluationRequest struct {
	NetID    string        `json:"netid" binding:"required"`
	Code     string        `json:"code" binding:"required,len=6,numeric"`
	PosterID uuid.UUID     `json:"poster_id" binding:"required"`
	Scores   entity.Scores `json:"scores" binding:"required"`
	Comments string        `json:"comments" binding:"omitempty,max=5000"`
}

// ToInput переводит запрос во входные данные сервиса
func (r EvaluationRequest) ToInput() service.EvaluationInput {
	return service.EvaluationInput{
		NetID:    r.NetID,
		Code:     r.Code,
		PosterID: r.PosterID,
		Scores:   r.Scores,
		Comments: r.Comments,
	}
}
