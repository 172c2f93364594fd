package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/repository"
	"github.com/yourusername/cuse-rank-api/internal/metrics"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
	"github.com/yourusername/cuse-rank-api/internal/service/scoring"
	"github.com/yourusername/cuse-rank-api/internal/websocket"
)

// ScoringEngine - движок подсчета баллов
type ScoringEngine interface {
	RunScoring(ctx context.Context, eventID uuid.UUID) (*scoring.Report, error)
	GetScoresAndRanks(ctx context.Context, eventID uuid.UUID) ([]scoring.ScoreEntry, error)
}

// RankedPosterView - строка рейтинга вместе с данными постера
type RankedPosterView struct {
	Rank          int       `json:"rank"`
	PosterID      uuid.UUID `json:"poster_id"`
	Title         string    `json:"title"`
	Abstract      string    `json:"abstract"`
	Program       string    `json:"program"`
	AdvisorName   string    `json:"advisor_name,omitempty"`
	EventID       uuid.UUID `json:"event_id"`
	EventName     string    `json:"event_name"`
	FinalScore    float64   `json:"final_score"`
	WeightedScore float64   `json:"weighted_score"`
}

// ScoreService запускает подсчет и отдает рейтинг с кешированием в Redis
type ScoreService struct {
	engine      ScoringEngine
	eventRepo   repository.EventRepository
	rankingRepo repository.RankingRepository
	cache       repository.CacheRepository
	cacheTTL    time.Duration
	broadcaster websocket.Broadcaster
	metrics     *metrics.Recorder

	// generations растет после каждого пересчета мероприятия: чтение, начатое
	// до пересчета, не оставляет в кеше устаревший рейтинг
	mu          sync.Mutex
	generations map[uuid.UUID]uint64
}

// NewScoreService создает сервис рейтинга. cache и broadcaster могут быть nil.
func NewScoreService(
	engine ScoringEngine,
	eventRepo repository.EventRepository,
	rankingRepo repository.RankingRepository,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	broadcaster websocket.Broadcaster,
	recorder *metrics.Recorder,
) *ScoreService {
	return &ScoreService{
		engine:      engine,
		eventRepo:   eventRepo,
		rankingRepo: rankingRepo,
		cache:       cache,
		cacheTTL:    cacheTTL,
		broadcaster: broadcaster,
		metrics:     recorder,
		generations: make(map[uuid.UUID]uint64),
	}
}

func (s *ScoreService) generation(eventID uuid.UUID) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generations[eventID]
}

func (s *ScoreService) bumpGeneration(eventID uuid.UUID) {
	s.mu.Lock()
	s.generations[eventID]++
	s.mu.Unlock()
}

func scoresCacheKey(eventID uuid.UUID) string {
	return "scores:event:" + eventID.String()
}

// RunScoring пересчитывает рейтинг мероприятия, сбрасывает кеш и уведомляет подписчиков
func (s *ScoreService) RunScoring(ctx context.Context, eventID uuid.UUID) (*scoring.Report, error) {
	start := time.Now()
	report, err := s.engine.RunScoring(ctx, eventID)
	if err != nil {
		s.metrics.ObserveScoringRun(metrics.OutcomeFailure, time.Since(start), 0, nil)
		return nil, err
	}

	s.bumpGeneration(eventID)
	if s.cache != nil {
		if err := s.cache.Delete(ctx, scoresCacheKey(eventID)); err != nil {
			log.Printf("[ScoreService] Не удалось сбросить кеш рейтинга мероприятия %s: %v", eventID, err)
		}
	}

	outcome := metrics.OutcomeScored
	if !report.HasScores() {
		outcome = metrics.OutcomeEmpty
	}
	skipped := make(map[string]int)
	for reason, n := range report.SkippedByReason() {
		skipped[string(reason)] = n
	}
	s.metrics.ObserveScoringRun(outcome, report.Duration, len(report.Scored), skipped)

	if s.broadcaster != nil {
		msg := websocket.Message{
			Type:    websocket.RANKINGS_UPDATED,
			EventID: eventID,
			Data: map[string]int{
				"scored":  len(report.Scored),
				"skipped": len(report.Skipped),
			},
		}
		if err := s.broadcaster.BroadcastToEvent(eventID, msg); err != nil {
			log.Printf("[ScoreService] Не удалось разослать обновление рейтинга %s: %v", eventID, err)
		}
	}

	return report, nil
}

// GetScoresAndRanks возвращает рейтинг мероприятия, читая сначала из кеша.
// Если пока рейтинг читался из базы завершился пересчет, записанное значение
// удаляется из кеша.
func (s *ScoreService) GetScoresAndRanks(ctx context.Context, eventID uuid.UUID) ([]scoring.ScoreEntry, error) {
	key := scoresCacheKey(eventID)
	gen := s.generation(eventID)
	if s.cache != nil {
		var cached []scoring.ScoreEntry
		err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err == nil:
			s.metrics.CacheHit()
			return cached, nil
		case errors.Is(err, apperrors.ErrNotFound):
			s.metrics.CacheMiss()
		default:
			log.Printf("[ScoreService] Ошибка чтения кеша %s: %v", key, err)
		}
	}

	entries, err := s.engine.GetScoresAndRanks(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, entries, s.cacheTTL); err != nil {
			log.Printf("[ScoreService] Не удалось сохранить рейтинг в кеш %s: %v", key, err)
		} else if s.generation(eventID) != gen {
			log.Printf("[ScoreService] Рейтинг %s пересчитан во время чтения, кеш сброшен", eventID)
			if err := s.cache.Delete(ctx, key); err != nil {
				log.Printf("[ScoreService] Не удалось сбросить кеш рейтинга мероприятия %s: %v", eventID, err)
			}
		}
	}
	return entries, nil
}

// RankedPosters возвращает рейтинг вместе с постерами, мероприятием и руководителями
func (s *ScoreService) RankedPosters(ctx context.Context, eventID uuid.UUID) ([]RankedPosterView, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rows, err := s.rankingRepo.ListWithPosters(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ranked posters: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rankings for event %s: %w", eventID, apperrors.ErrNotFound)
	}

	views := make([]RankedPosterView, len(rows))
	for i, r := range rows {
		v := RankedPosterView{
			Rank:          r.Rank,
			PosterID:      r.PosterID,
			EventID:       event.ID,
			EventName:     event.Name,
			FinalScore:    r.FinalScore,
			WeightedScore: r.WeightedScore,
		}
		if r.Poster != nil {
			v.Title = r.Poster.Title
			v.Abstract = r.Poster.Abstract
			v.Program = r.Poster.Program
			if r.Poster.Advisor != nil {
				v.AdvisorName = r.Poster.Advisor.Name
			}
		}
		views[i] = v
	}
	return views, nil
}
