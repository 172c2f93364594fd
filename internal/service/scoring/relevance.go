package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

// DefaultRelevance используется, когда для пары (судья, постер) нет назначения
// или коэффициент релевантности в нем не задан.
const DefaultRelevance = 0.5

// AssignmentReader читает назначение судьи на постер.
// Отсутствие записи сообщается через apperrors.ErrNotFound.
type AssignmentReader interface {
	GetByJudgeAndPoster(ctx context.Context, judgeID, posterID uuid.UUID) (*entity.JudgeAssignment, error)
}

// RelevanceResolver определяет вес вклада судьи в итоговый балл постера
type RelevanceResolver struct {
	assignments AssignmentReader
}

// NewRelevanceResolver создает резолвер релевантности
func NewRelevanceResolver(assignments AssignmentReader) *RelevanceResolver {
	return &RelevanceResolver{assignments: assignments}
}

// Resolve возвращает релевантность в [0,1], округленную до 2 знаков
func (r *RelevanceResolver) Resolve(ctx context.Context, judgeID, posterID uuid.UUID) (float64, error) {
	assignment, err := r.assignments.GetByJudgeAndPoster(ctx, judgeID, posterID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return DefaultRelevance, nil
		}
		return 0, fmt.Errorf("resolve relevance for judge %s poster %s: %w", judgeID, posterID, err)
	}
	if assignment == nil || assignment.RelevanceScore == nil || math.IsNaN(*assignment.RelevanceScore) {
		return DefaultRelevance, nil
	}
	return round2(clamp01(*assignment.RelevanceScore)), nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// round2 округляет до 2 знаков после запятой (половина от нуля)
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
