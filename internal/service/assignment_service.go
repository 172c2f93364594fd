package service

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/domain/repository"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
	"github.com/yourusername/cuse-rank-api/internal/service/matching"
)

// AssignmentInput - одно назначение постера судье
type AssignmentInput struct {
	JudgeID        uuid.UUID
	PosterID       uuid.UUID
	RelevanceScore *float64
}

// AssignedPoster - постер в списке назначений судьи
type AssignedPoster struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Abstract string    `json:"abstract"`
	Slot     int       `json:"slot"`
}

// JudgeAssignments - назначения одного судьи мероприятия
type JudgeAssignments struct {
	JudgeID    uuid.UUID        `json:"judge_id"`
	JudgeName  string           `json:"judge_name"`
	AccessCode string           `json:"access_code"`
	Posters    []AssignedPoster `json:"posters"`
}

// EventAssignments - назначения мероприятия, сгруппированные по судьям
type EventAssignments struct {
	EventID     uuid.UUID          `json:"event_id"`
	Assignments []JudgeAssignments `json:"assignments"`
}

// AssignmentService управляет назначением постеров судьям
type AssignmentService struct {
	eventRepo      repository.EventRepository
	judgeRepo      repository.EventJudgeRepository
	posterRepo     repository.PosterRepository
	assignmentRepo repository.AssignmentRepository
}

// NewAssignmentService создает сервис назначений
func NewAssignmentService(
	eventRepo repository.EventRepository,
	judgeRepo repository.EventJudgeRepository,
	posterRepo repository.PosterRepository,
	assignmentRepo repository.AssignmentRepository,
) *AssignmentService {
	return &AssignmentService{
		eventRepo:      eventRepo,
		judgeRepo:      judgeRepo,
		posterRepo:     posterRepo,
		assignmentRepo: assignmentRepo,
	}
}

// GetByEvent возвращает назначения мероприятия, сгруппированные по судьям в порядке появления
func (s *AssignmentService) GetByEvent(ctx context.Context, eventID uuid.UUID) (*EventAssignments, error) {
	rows, err := s.assignmentRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no assignments for event %s: %w", eventID, apperrors.ErrNotFound)
	}

	result := &EventAssignments{EventID: eventID}
	index := make(map[uuid.UUID]int)
	for _, a := range rows {
		pos, ok := index[a.JudgeID]
		if !ok {
			group := JudgeAssignments{JudgeID: a.JudgeID}
			if a.Judge != nil {
				group.AccessCode = a.Judge.AccessCode
				if a.Judge.JudgeMaster != nil {
					group.JudgeName = a.Judge.JudgeMaster.Name
				}
			}
			result.Assignments = append(result.Assignments, group)
			pos = len(result.Assignments) - 1
			index[a.JudgeID] = pos
		}

		poster := AssignedPoster{ID: a.PosterID}
		if a.Poster != nil {
			poster.Title = a.Poster.Title
			poster.Abstract = a.Poster.Abstract
			poster.Slot = a.Poster.SlotNumber
		}
		result.Assignments[pos].Posters = append(result.Assignments[pos].Posters, poster)
	}
	return result, nil
}

// CreateBulk сохраняет назначения. Судья и постер должны принадлежать мероприятию,
// релевантность лежит в [0,1], судья доступен в слоте постера и не является его
// научным руководителем. Нагрузка с учетом уже сохраненных назначений не превышает
// MaxPostersPerJudge на судью и JudgesPerPoster на постер. Уже существующие пары
// пропускаются. Возвращает число созданных назначений.
func (s *AssignmentService) CreateBulk(ctx context.Context, eventID uuid.UUID, inputs []AssignmentInput) (int64, error) {
	if len(inputs) == 0 {
		return 0, fmt.Errorf("%w: assignments must not be empty", apperrors.ErrValidation)
	}
	data, err := s.loadEventData(ctx, eventID)
	if err != nil {
		return 0, err
	}
	limits := matching.LimitsFor(data.event)

	judges := make(map[uuid.UUID]*entity.EventJudge, len(data.judges))
	for i := range data.judges {
		judges[data.judges[i].ID] = &data.judges[i]
	}
	posters := make(map[uuid.UUID]*entity.Poster, len(data.posters))
	for i := range data.posters {
		posters[data.posters[i].ID] = &data.posters[i]
	}

	type pair struct{ judge, poster uuid.UUID }
	seen := make(map[pair]bool, len(data.existing)+len(inputs))
	judgeLoad := make(map[uuid.UUID]int)
	posterLoad := make(map[uuid.UUID]int)
	for _, a := range data.existing {
		if seen[pair{a.JudgeID, a.PosterID}] {
			continue
		}
		seen[pair{a.JudgeID, a.PosterID}] = true
		judgeLoad[a.JudgeID]++
		posterLoad[a.PosterID]++
	}

	batch := make([]entity.JudgeAssignment, 0, len(inputs))
	for i, in := range inputs {
		judge, ok := judges[in.JudgeID]
		if !ok {
			return 0, fmt.Errorf("%w: assignment %d: judge %s does not belong to event", apperrors.ErrValidation, i, in.JudgeID)
		}
		poster, ok := posters[in.PosterID]
		if !ok {
			return 0, fmt.Errorf("%w: assignment %d: poster %s does not belong to event", apperrors.ErrValidation, i, in.PosterID)
		}
		if r := in.RelevanceScore; r != nil && (math.IsNaN(*r) || *r < 0 || *r > 1) {
			return 0, fmt.Errorf("%w: assignment %d: relevance_score must be between 0 and 1", apperrors.ErrValidation, i)
		}
		if !judge.AvailableForSlot(poster.SlotNumber) {
			return 0, fmt.Errorf("%w: assignment %d: judge %s is not available in slot %d", apperrors.ErrValidation, i, in.JudgeID, poster.SlotNumber)
		}
		if poster.AdvisedBy(judge.JudgeMasterID) {
			return 0, fmt.Errorf("%w: assignment %d: judge %s is the advisor of poster %s", apperrors.ErrValidation, i, in.JudgeID, in.PosterID)
		}

		key := pair{in.JudgeID, in.PosterID}
		if !seen[key] {
			seen[key] = true
			judgeLoad[in.JudgeID]++
			posterLoad[in.PosterID]++
			if judgeLoad[in.JudgeID] > limits.MaxPostersPerJudge {
				return 0, fmt.Errorf("%w: assignment %d: judge %s would exceed %d posters", apperrors.ErrValidation, i, in.JudgeID, limits.MaxPostersPerJudge)
			}
			if posterLoad[in.PosterID] > limits.JudgesPerPoster {
				return 0, fmt.Errorf("%w: assignment %d: poster %s would exceed %d judges", apperrors.ErrValidation, i, in.PosterID, limits.JudgesPerPoster)
			}
		}

		batch = append(batch, entity.JudgeAssignment{
			EventID:        eventID,
			JudgeID:        in.JudgeID,
			PosterID:       in.PosterID,
			RelevanceScore: in.RelevanceScore,
		})
	}

	created, err := s.assignmentRepo.CreateBatch(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("failed to save assignments: %w", err)
	}
	log.Printf("[AssignmentService] Мероприятие %s: создано назначений %d из %d", eventID, created, len(batch))
	return created, nil
}

// AutoAssignResult - итог автоматического распределения
type AutoAssignResult struct {
	EventID           uuid.UUID            `json:"event_id"`
	Planned           int                  `json:"planned"`
	Created           int64                `json:"created"`
	Assignments       []matching.Pair      `json:"assignments"`
	UnfilledPosters   []matching.Shortfall `json:"unfilled_posters"`
	UnderloadedJudges []matching.Underload `json:"underloaded_judges"`
}

// AutoAssign распределяет постеры между судьями мероприятия по близости
// экспертизы судьи (JudgeMaster.Details) к аннотации постера. Близость
// нормируется на [0,1] и сохраняется как релевантность назначения.
// Уже сохраненные назначения остаются и учитываются в нагрузке.
func (s *AssignmentService) AutoAssign(ctx context.Context, eventID uuid.UUID) (*AutoAssignResult, error) {
	data, err := s.loadEventData(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if len(data.judges) == 0 {
		return nil, fmt.Errorf("%w: event has no judges", apperrors.ErrValidation)
	}
	if len(data.posters) == 0 {
		return nil, fmt.Errorf("%w: event has no posters", apperrors.ErrValidation)
	}

	expertise := make([]string, len(data.judges))
	for i, j := range data.judges {
		if j.JudgeMaster != nil {
			expertise[i] = j.JudgeMaster.Details
		}
	}
	abstracts := make([]string, len(data.posters))
	for k, p := range data.posters {
		abstracts[k] = p.Abstract
	}
	similarity := matching.SimilarityMatrix(expertise, abstracts)
	matching.NormalizeMatrix(similarity)

	plan := matching.Solve(matching.Problem{
		Judges:     data.judges,
		Posters:    data.posters,
		Similarity: similarity,
		Existing:   data.existing,
		Limits:     matching.LimitsFor(data.event),
	})

	result := &AutoAssignResult{
		EventID:           eventID,
		Planned:           len(plan.Pairs),
		Assignments:       make([]matching.Pair, 0, len(plan.Pairs)),
		UnfilledPosters:   plan.Unfilled,
		UnderloadedJudges: plan.Underloaded,
	}
	if len(plan.Pairs) == 0 {
		log.Printf("[AssignmentService] Мероприятие %s: автоматическое распределение не добавило назначений", eventID)
		return result, nil
	}

	batch := make([]entity.JudgeAssignment, 0, len(plan.Pairs))
	for _, p := range plan.Pairs {
		relevance := math.Round(p.Similarity*100) / 100
		p.Similarity = relevance
		result.Assignments = append(result.Assignments, p)
		batch = append(batch, entity.JudgeAssignment{
			EventID:        eventID,
			JudgeID:        p.JudgeID,
			PosterID:       p.PosterID,
			RelevanceScore: &relevance,
		})
	}

	result.Created, err = s.assignmentRepo.CreateBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to save assignments: %w", err)
	}
	log.Printf("[AssignmentService] Мероприятие %s: автоматически создано назначений %d, без полного состава постеров %d, судей ниже минимума %d",
		eventID, result.Created, len(result.UnfilledPosters), len(result.UnderloadedJudges))
	return result, nil
}

type eventData struct {
	event    *entity.Event
	judges   []entity.EventJudge
	posters  []entity.Poster
	existing []entity.JudgeAssignment
}

func (s *AssignmentService) loadEventData(ctx context.Context, eventID uuid.UUID) (*eventData, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	judges, err := s.judgeRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event judges: %w", err)
	}
	posters, err := s.posterRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posters: %w", err)
	}
	existing, err := s.assignmentRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return &eventData{event: event, judges: judges, posters: posters, existing: existing}, nil
}
