package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// EvaluationRepository определяет методы для работы с оценками
type EvaluationRepository interface {
	// Create сохраняет оценку; повторная оценка того же постера тем же судьей дает ErrConflict
	Create(ctx context.Context, evaluation *entity.Evaluation) error
	ListByPosters(ctx context.Context, posterIDs []uuid.UUID) ([]entity.Evaluation, error)
}
