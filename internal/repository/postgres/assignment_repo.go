package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// AssignmentRepo реализует repository.AssignmentRepository
type AssignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo создает новый репозиторий назначений
func NewAssignmentRepo(db *gorm.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// CreateBatch вставляет назначения с ON CONFLICT (judge_id, poster_id) DO NOTHING
func (r *AssignmentRepo) CreateBatch(ctx context.Context, assignments []entity.JudgeAssignment) (int64, error) {
	if len(assignments) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "judge_id"}, {Name: "poster_id"}},
			DoNothing: true,
		}).
		CreateInBatches(assignments, 200)
	return result.RowsAffected, result.Error
}

// GetByJudgeAndPoster возвращает назначение для пары (судья, постер)
func (r *AssignmentRepo) GetByJudgeAndPoster(ctx context.Context, judgeID, posterID uuid.UUID) (*entity.JudgeAssignment, error) {
	var assignment entity.JudgeAssignment
	err := r.db.WithContext(ctx).
		Where("judge_id = ? AND poster_id = ?", judgeID, posterID).
		First(&assignment).Error
	if err != nil {
		return nil, translateError(err, "assignment")
	}
	return &assignment, nil
}

// ListByEvent возвращает назначения мероприятия вместе с судьями и постерами
func (r *AssignmentRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.JudgeAssignment, error) {
	var assignments []entity.JudgeAssignment
	err := r.db.WithContext(ctx).
		Preload("Judge.JudgeMaster").
		Preload("Poster").
		Where("event_id = ?", eventID).
		Order("judge_id, assigned_at").
		Find(&assignments).Error
	return assignments, err
}

// ListByJudge возвращает назначения судьи вместе с постерами и их руководителями
func (r *AssignmentRepo) ListByJudge(ctx context.Context, judgeID uuid.UUID) ([]entity.JudgeAssignment, error) {
	var assignments []entity.JudgeAssignment
	err := r.db.WithContext(ctx).
		Preload("Poster.Advisor").
		Where("judge_id = ?", judgeID).
		Order("assigned_at").
		Find(&assignments).Error
	return assignments, err
}
