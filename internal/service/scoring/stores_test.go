package scoring_test

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
	"github.com/yourusername/cuse-rank-api/internal/service/scoring"
)

// memoryStore - хранилище в памяти, реализующее все интерфейсы scoring.Stores
type memoryStore struct {
	mu          sync.Mutex
	events      map[uuid.UUID]*entity.Event
	posters     []entity.Poster
	evaluations []entity.Evaluation
	assignments map[[2]uuid.UUID]entity.JudgeAssignment
	rankings    map[uuid.UUID][]entity.Ranking

	assignmentErr error
	replaceErr    error
	listErr       error
	replaceCalls  int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		events:      map[uuid.UUID]*entity.Event{},
		assignments: map[[2]uuid.UUID]entity.JudgeAssignment{},
		rankings:    map[uuid.UUID][]entity.Ranking{},
	}
}

func (s *memoryStore) stores() scoring.Stores {
	return scoring.Stores{Events: s, Posters: s, Evaluations: s, Assignments: s, Rankings: rankingView{s}}
}

func (s *memoryStore) addEvent(criteria entity.Criteria, judgesPerPoster int) *entity.Event {
	event := &entity.Event{ID: uuid.New(), Name: "Research Day", Criteria: criteria, JudgesPerPoster: judgesPerPoster}
	s.events[event.ID] = event
	return event
}

func (s *memoryStore) addPoster(eventID uuid.UUID) entity.Poster {
	poster := entity.Poster{ID: uuid.New(), EventID: eventID}
	s.posters = append(s.posters, poster)
	return poster
}

// addEvaluation добавляет оценку; relevance < 0 означает отсутствие назначения
func (s *memoryStore) addEvaluation(posterID uuid.UUID, scores entity.Scores, relevance float64) uuid.UUID {
	judgeID := uuid.New()
	s.evaluations = append(s.evaluations, entity.Evaluation{ID: uuid.New(), JudgeID: judgeID, PosterID: posterID, Scores: scores})
	if relevance >= 0 {
		r := relevance
		s.assignments[[2]uuid.UUID{judgeID, posterID}] = entity.JudgeAssignment{JudgeID: judgeID, PosterID: posterID, RelevanceScore: &r}
	}
	return judgeID
}

func (s *memoryStore) GetByID(_ context.Context, id uuid.UUID) (*entity.Event, error) {
	event, ok := s.events[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return event, nil
}

func (s *memoryStore) ListByEvent(_ context.Context, eventID uuid.UUID) ([]entity.Poster, error) {
	var result []entity.Poster
	for _, p := range s.posters {
		if p.EventID == eventID {
			result = append(result, p)
		}
	}
	return result, nil
}

func (s *memoryStore) ListByPosters(_ context.Context, posterIDs []uuid.UUID) ([]entity.Evaluation, error) {
	wanted := map[uuid.UUID]bool{}
	for _, id := range posterIDs {
		wanted[id] = true
	}
	var result []entity.Evaluation
	for _, ev := range s.evaluations {
		if wanted[ev.PosterID] {
			result = append(result, ev)
		}
	}
	return result, nil
}

func (s *memoryStore) GetByJudgeAndPoster(_ context.Context, judgeID, posterID uuid.UUID) (*entity.JudgeAssignment, error) {
	if s.assignmentErr != nil {
		return nil, s.assignmentErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[[2]uuid.UUID{judgeID, posterID}]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &a, nil
}

func (s *memoryStore) ReplaceForEvent(_ context.Context, eventID uuid.UUID, rankings []entity.Ranking) error {
	s.replaceCalls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	stored := make([]entity.Ranking, len(rankings))
	copy(stored, rankings)
	s.rankings[eventID] = stored
	return nil
}

func (s *memoryStore) rankingsOf(eventID uuid.UUID) []entity.Ranking {
	return s.rankings[eventID]
}

// rankingView отдает рейтинг через ListByEvent, у memoryStore этот метод занят постерами
type rankingView struct {
	*memoryStore
}

func (v rankingView) ListByEvent(_ context.Context, eventID uuid.UUID) ([]entity.Ranking, error) {
	if v.listErr != nil {
		return nil, v.listErr
	}
	return v.rankings[eventID], nil
}

var errStoreDown = errors.New("store unavailable")
