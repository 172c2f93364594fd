package scoring

import (
	"time"

	"github.com/google/uuid"
)

// Report описывает результат одного прогона подсчета
type Report struct {
	EventID             uuid.UUID       `json:"event_id"`
	RequiredEvaluations int             `json:"required_evaluations"`
	TotalPosters        int             `json:"total_posters"`
	Scored              []RankedPoster  `json:"scored"`
	Skipped             []SkippedPoster `json:"skipped"`
	Duration            time.Duration   `json:"-"`
}

// HasScores сообщает, попал ли хотя бы один постер в рейтинг
func (r *Report) HasScores() bool {
	return r != nil && len(r.Scored) > 0
}

// SkippedByReason группирует число пропущенных постеров по причине
func (r *Report) SkippedByReason() map[SkipReason]int {
	counts := make(map[SkipReason]int)
	if r == nil {
		return counts
	}
	for _, s := range r.Skipped {
		counts[s.Reason]++
	}
	return counts
}
