package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// EvaluationRepo реализует repository.EvaluationRepository
type EvaluationRepo struct {
	db *gorm.DB
}

// NewEvaluationRepo создает новый репозиторий оценок
func NewEvaluationRepo(db *gorm.DB) *EvaluationRepo {
	return &EvaluationRepo{db: db}
}

// Create сохраняет оценку
func (r *EvaluationRepo) Create(ctx context.Context, evaluation *entity.Evaluation) error {
	return translateError(r.db.WithContext(ctx).Create(evaluation).Error, "evaluation")
}

// ListByPosters возвращает оценки указанных постеров
func (r *EvaluationRepo) ListByPosters(ctx context.Context, posterIDs []uuid.UUID) ([]entity.Evaluation, error) {
	if len(posterIDs) == 0 {
		return []entity.Evaluation{}, nil
	}
	var evaluations []entity.Evaluation
	err := r.db.WithContext(ctx).
		Where("poster_id IN ?", posterIDs).
		Order("poster_id, created_at, id").
		Find(&evaluations).Error
	return evaluations, err
}
