package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// AssignmentRepository определяет методы для работы с назначениями постеров судьям
type AssignmentRepository interface {
	// CreateBatch вставляет назначения, пропуская уже существующие пары (судья, постер).
	// Возвращает число реально созданных записей.
	CreateBatch(ctx context.Context, assignments []entity.JudgeAssignment) (int64, error)
	GetByJudgeAndPoster(ctx context.Context, judgeID, posterID uuid.UUID) (*entity.JudgeAssignment, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.JudgeAssignment, error)
	ListByJudge(ctx context.Context, judgeID uuid.UUID) ([]entity.JudgeAssignment, error)
}
