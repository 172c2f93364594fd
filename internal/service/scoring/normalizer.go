package scoring

import (
	"fmt"
	"math"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

// NormalizeWeights превращает веса критериев в распределение с суммой 1.
//
// Пустые критерии дают пустую карту без ошибки: все оценки судей такого
// мероприятия вносят 0. Нулевая сумма весов, отрицательные и нечисловые
// веса считаются ошибкой конфигурации мероприятия.
func NormalizeWeights(criteria entity.Criteria) (map[string]float64, error) {
	normalized := make(map[string]float64, len(criteria))
	if len(criteria) == 0 {
		return normalized, nil
	}

	names := criteria.Names()
	total := 0.0
	for _, name := range names {
		w := criteria[name]
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, fmt.Errorf("%w: criterion %q has invalid weight %v", apperrors.ErrInvalidConfiguration, name, w)
		}
		total += w
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: criteria weights sum to zero", apperrors.ErrInvalidConfiguration)
	}

	for _, name := range names {
		normalized[name] = criteria[name] / total
	}
	return normalized, nil
}
