package scoring

import (
	"bytes"
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// DefaultConcurrency - сколько постеров агрегируется одновременно, если не задано иное
const DefaultConcurrency = 8

// SkipReason объясняет, почему постер не попал в рейтинг
type SkipReason string

const (
	// SkipInsufficientEvaluations - оценок меньше, чем требует мероприятие
	SkipInsufficientEvaluations SkipReason = "insufficient_evaluations"
	// SkipExcessEvaluations - оценок больше, чем требует мероприятие
	SkipExcessEvaluations SkipReason = "excess_evaluations"
)

// PosterScore - итог агрегации оценок одного постера
type PosterScore struct {
	PosterID      uuid.UUID `json:"poster_id"`
	FinalScore    float64   `json:"final_score"`
	WeightedScore float64   `json:"weighted_score"`
}

// SkippedPoster - постер, исключенный из подсчета
type SkippedPoster struct {
	PosterID    uuid.UUID  `json:"poster_id"`
	Reason      SkipReason `json:"reason"`
	Evaluations int        `json:"evaluations"`
}

// Aggregator сводит оценки судей в итоговый и взвешенный баллы постера
type Aggregator struct {
	relevance   *RelevanceResolver
	concurrency int
}

// NewAggregator создает агрегатор; concurrency <= 0 заменяется на DefaultConcurrency
func NewAggregator(relevance *RelevanceResolver, concurrency int) *Aggregator {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Aggregator{relevance: relevance, concurrency: concurrency}
}

// Aggregate считает баллы для каждого постера, у которого ровно required оценок.
// Результаты и пропуски возвращаются в порядке posters независимо от
// порядка завершения горутин.
func (a *Aggregator) Aggregate(
	ctx context.Context,
	posters []entity.Poster,
	evaluations []entity.Evaluation,
	weights map[string]float64,
	required int,
) ([]PosterScore, []SkippedPoster, error) {
	byPoster := make(map[uuid.UUID][]entity.Evaluation, len(posters))
	for _, ev := range evaluations {
		byPoster[ev.PosterID] = append(byPoster[ev.PosterID], ev)
	}

	criteria := sortedKeys(weights)
	scores := make([]*PosterScore, len(posters))
	skips := make([]*SkippedPoster, len(posters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, poster := range posters {
		posterEvals := byPoster[poster.ID]

		if len(posterEvals) != required {
			reason := SkipInsufficientEvaluations
			if len(posterEvals) > required {
				reason = SkipExcessEvaluations
			}
			skips[i] = &SkippedPoster{PosterID: poster.ID, Reason: reason, Evaluations: len(posterEvals)}
			continue
		}

		g.Go(func() error {
			score, err := a.scorePoster(gctx, poster.ID, posterEvals, criteria, weights, required)
			if err != nil {
				return err
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	scored := make([]PosterScore, 0, len(posters))
	skipped := make([]SkippedPoster, 0)
	for i := range posters {
		if scores[i] != nil {
			scored = append(scored, *scores[i])
		}
		if skips[i] != nil {
			skipped = append(skipped, *skips[i])
		}
	}
	return scored, skipped, nil
}

func (a *Aggregator) scorePoster(
	ctx context.Context,
	posterID uuid.UUID,
	evaluations []entity.Evaluation,
	criteria []string,
	weights map[string]float64,
	required int,
) (*PosterScore, error) {
	// порядок суммирования не зависит от порядка выборки оценок
	ordered := make([]entity.Evaluation, len(evaluations))
	copy(ordered, evaluations)
	sort.Slice(ordered, func(i, j int) bool {
		return bytes.Compare(ordered[i].JudgeID[:], ordered[j].JudgeID[:]) < 0
	})

	weightedSum, relevanceSum := 0.0, 0.0
	for _, ev := range ordered {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		relevance, err := a.relevance.Resolve(ctx, ev.JudgeID, posterID)
		if err != nil {
			return nil, err
		}
		weightedSum += JudgeScore(ev.Scores, criteria, weights) * relevance
		relevanceSum += relevance
	}

	finalScore := 0.0
	if relevanceSum != 0 {
		finalScore = round2(weightedSum / relevanceSum)
	}

	return &PosterScore{
		PosterID:      posterID,
		FinalScore:    finalScore,
		WeightedScore: round2(weightedSum / float64(required)),
	}, nil
}

// JudgeScore - взвешенная сумма оценок судьи по критериям.
// Отсутствующие критерии и ключи вне критериев мероприятия вносят 0.
func JudgeScore(scores entity.Scores, criteria []string, weights map[string]float64) float64 {
	total := 0.0
	for _, name := range criteria {
		total += scores[name] * weights[name]
	}
	return total
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
