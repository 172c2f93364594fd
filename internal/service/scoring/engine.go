package scoring

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

// EventReader читает настройки мероприятия
type EventReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
}

// PosterReader читает постеры мероприятия по порядковому номеру (Poster.Sequence)
type PosterReader interface {
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Poster, error)
}

// EvaluationReader читает оценки набора постеров
type EvaluationReader interface {
	ListByPosters(ctx context.Context, posterIDs []uuid.UUID) ([]entity.Evaluation, error)
}

// RankingStore хранит рейтинг мероприятия
type RankingStore interface {
	ReplaceForEvent(ctx context.Context, eventID uuid.UUID, rankings []entity.Ranking) error
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Ranking, error)
}

// Stores - хранилища, с которыми работает движок
type Stores struct {
	Events      EventReader
	Posters     PosterReader
	Evaluations EvaluationReader
	Assignments AssignmentReader
	Rankings    RankingStore
}

// Option настраивает Engine
type Option func(*Engine)

// WithConcurrency задает число постеров, агрегируемых параллельно
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithTracer подменяет трассировщик (по умолчанию глобальный otel)
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// Engine подсчитывает баллы постеров мероприятия и строит рейтинг
type Engine struct {
	stores      Stores
	concurrency int
	tracer      trace.Tracer
	now         func() time.Time
}

// NewEngine создает движок подсчета баллов
func NewEngine(stores Stores, opts ...Option) *Engine {
	e := &Engine{
		stores:      stores,
		concurrency: DefaultConcurrency,
		tracer:      otel.Tracer("scoring-engine"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunScoring пересчитывает рейтинг мероприятия и атомарно заменяет прежний.
//
// Мероприятие без постеров дает apperrors.ErrNotFound. Если ни один постер
// не набрал нужное число оценок, прежний рейтинг очищается, а отчет
// содержит пустой Scored и причины пропуска в Skipped.
func (e *Engine) RunScoring(ctx context.Context, eventID uuid.UUID) (report *Report, err error) {
	ctx, span := e.tracer.Start(ctx, "scoring.RunScoring",
		trace.WithAttributes(attribute.String("event_id", eventID.String())))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "scoring completed")
		}
		span.End()
	}()

	started := e.now()

	event, err := e.stores.Events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load event %s: %w", eventID, err)
	}

	posters, err := e.stores.Posters.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("load posters for event %s: %w", eventID, err)
	}
	if len(posters) == 0 {
		return nil, fmt.Errorf("event %s has no posters: %w", eventID, apperrors.ErrNotFound)
	}

	weights, err := NormalizeWeights(event.Criteria)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", eventID, err)
	}

	posterIDs := make([]uuid.UUID, len(posters))
	for i, p := range posters {
		posterIDs[i] = p.ID
	}
	evaluations, err := e.stores.Evaluations.ListByPosters(ctx, posterIDs)
	if err != nil {
		return nil, fmt.Errorf("load evaluations for event %s: %w", eventID, err)
	}

	required := event.RequiredEvaluations()
	aggregator := NewAggregator(NewRelevanceResolver(e.stores.Assignments), e.concurrency)
	scored, skipped, err := aggregator.Aggregate(ctx, posters, evaluations, weights, required)
	if err != nil {
		return nil, fmt.Errorf("aggregate scores for event %s: %w", eventID, err)
	}

	ranked := AssignRanks(scored)
	rows := make([]entity.Ranking, len(ranked))
	for i, r := range ranked {
		rows[i] = entity.Ranking{
			EventID:       eventID,
			PosterID:      r.PosterID,
			Rank:          r.Rank,
			FinalScore:    r.FinalScore,
			WeightedScore: r.WeightedScore,
		}
	}
	if err := e.stores.Rankings.ReplaceForEvent(ctx, eventID, rows); err != nil {
		return nil, fmt.Errorf("store rankings for event %s: %w", eventID, err)
	}

	report = &Report{
		EventID:             eventID,
		RequiredEvaluations: required,
		TotalPosters:        len(posters),
		Scored:              ranked,
		Skipped:             skipped,
		Duration:            e.now().Sub(started),
	}

	span.SetAttributes(
		attribute.Int("posters.total", len(posters)),
		attribute.Int("posters.scored", len(ranked)),
		attribute.Int("posters.skipped", len(skipped)),
		attribute.Int("evaluations.required", required),
	)
	log.Printf("[ScoringEngine] Мероприятие %s: оценено %d из %d постеров, пропущено %d (требуется оценок: %d)",
		eventID, len(ranked), len(posters), len(skipped), required)

	return report, nil
}

// ScoreEntry - строка рейтинга при чтении
type ScoreEntry struct {
	PosterID      uuid.UUID `json:"poster_id"`
	FinalScore    float64   `json:"final_score"`
	WeightedScore float64   `json:"weighted_score"`
	Rank          int       `json:"rank"`
}

// GetScoresAndRanks возвращает сохраненный рейтинг по возрастанию места.
// Пустой рейтинг дает apperrors.ErrNotFound.
func (e *Engine) GetScoresAndRanks(ctx context.Context, eventID uuid.UUID) ([]ScoreEntry, error) {
	ctx, span := e.tracer.Start(ctx, "scoring.GetScoresAndRanks",
		trace.WithAttributes(attribute.String("event_id", eventID.String())))
	defer span.End()

	rows, err := e.stores.Rankings.ListByEvent(ctx, eventID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("load rankings for event %s: %w", eventID, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rankings for event %s: %w", eventID, apperrors.ErrNotFound)
	}

	entries := make([]ScoreEntry, len(rows))
	for i, r := range rows {
		entries[i] = ScoreEntry{
			PosterID:      r.PosterID,
			FinalScore:    r.FinalScore,
			WeightedScore: r.WeightedScore,
			Rank:          r.Rank,
		}
	}
	return entries, nil
}
