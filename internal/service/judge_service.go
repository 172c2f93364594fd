package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/domain/repository"
	"github.com/yourusername/cuse-rank-api/internal/metrics"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

// PortalAdvisor - научный руководитель постера в портале судьи
type PortalAdvisor struct {
	ID   uuid.UUID `json:"advisor_id"`
	Name string    `json:"name"`
}

// PortalPoster - назначенный судье постер
type PortalPoster struct {
	ID             uuid.UUID      `json:"id"`
	Title          string         `json:"title"`
	Abstract       string         `json:"abstract"`
	Program        string         `json:"program"`
	RelevanceScore *float64       `json:"relevance_score"`
	Advisor        *PortalAdvisor `json:"advisor"`
}

// PortalAssignments - ответ портала судьи: данные судьи и постеры по слотам
type PortalAssignments struct {
	JudgeID      uuid.UUID              `json:"judge_id"`
	EventJudgeID uuid.UUID              `json:"event_judge_id"`
	Name         string                 `json:"name"`
	Email        string                 `json:"email"`
	Department   string                 `json:"dept"`
	EventID      uuid.UUID              `json:"event_id"`
	Posters      map[int][]PortalPoster `json:"posters"`
}

// EvaluationInput - оценка, отправленная судьей через портал
type EvaluationInput struct {
	NetID    string
	Code     string
	PosterID uuid.UUID
	Scores   entity.Scores
	Comments string
}

// JudgeService обслуживает портал судьи: вход по netid и коду, просмотр назначений, оценки
type JudgeService struct {
	eventRepo      repository.EventRepository
	posterRepo     repository.PosterRepository
	masterRepo     repository.JudgeMasterRepository
	judgeRepo      repository.EventJudgeRepository
	assignmentRepo repository.AssignmentRepository
	evaluationRepo repository.EvaluationRepository
	metrics        *metrics.Recorder
	now            func() time.Time
}

// NewJudgeService создает сервис портала судьи
func NewJudgeService(
	eventRepo repository.EventRepository,
	posterRepo repository.PosterRepository,
	masterRepo repository.JudgeMasterRepository,
	judgeRepo repository.EventJudgeRepository,
	assignmentRepo repository.AssignmentRepository,
	evaluationRepo repository.EvaluationRepository,
) *JudgeService {
	return &JudgeService{
		eventRepo:      eventRepo,
		posterRepo:     posterRepo,
		masterRepo:     masterRepo,
		judgeRepo:      judgeRepo,
		assignmentRepo: assignmentRepo,
		evaluationRepo: evaluationRepo,
		now:            time.Now,
	}
}

// SetMetrics подключает учет принятых оценок
func (s *JudgeService) SetMetrics(m *metrics.Recorder) {
	s.metrics = m
}

// authenticate находит судью мероприятия по netid и коду доступа.
// Любое несовпадение дает ErrUnauthorized без уточнения причины.
func (s *JudgeService) authenticate(ctx context.Context, netID, code string) (*entity.JudgeMaster, *entity.EventJudge, error) {
	netID = strings.TrimSpace(netID)
	code = strings.TrimSpace(code)
	if netID == "" || code == "" {
		return nil, nil, fmt.Errorf("%w: netid and code are required", apperrors.ErrValidation)
	}

	master, err := s.masterRepo.GetByNetID(ctx, netID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, fmt.Errorf("%w: invalid netid or access code", apperrors.ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("failed to find judge: %w", err)
	}
	judge, err := s.judgeRepo.GetByAccessCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, fmt.Errorf("%w: invalid netid or access code", apperrors.ErrUnauthorized)
		}
		return nil, nil, fmt.Errorf("failed to find event judge: %w", err)
	}
	if judge.JudgeMasterID != master.ID {
		log.Printf("[JudgeService] Код доступа не принадлежит судье netid=%s", netID)
		return nil, nil, fmt.Errorf("%w: invalid netid or access code", apperrors.ErrUnauthorized)
	}
	return master, judge, nil
}

// GetAssignments возвращает назначенные судье постеры, сгруппированные по слоту
func (s *JudgeService) GetAssignments(ctx context.Context, netID, code string) (*PortalAssignments, error) {
	master, judge, err := s.authenticate(ctx, netID, code)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignmentRepo.ListByJudge(ctx, judge.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list judge assignments: %w", err)
	}

	resp := &PortalAssignments{
		JudgeID:      master.ID,
		EventJudgeID: judge.ID,
		Name:         master.Name,
		Department:   master.Department,
		EventID:      judge.EventID,
		Posters:      make(map[int][]PortalPoster),
	}
	if master.Email != nil {
		resp.Email = *master.Email
	}

	for _, a := range assignments {
		if a.Poster == nil {
			continue
		}
		p := PortalPoster{
			ID:             a.Poster.ID,
			Title:          a.Poster.Title,
			Abstract:       a.Poster.Abstract,
			Program:        a.Poster.Program,
			RelevanceScore: a.RelevanceScore,
		}
		if a.Poster.Advisor != nil {
			p.Advisor = &PortalAdvisor{ID: a.Poster.Advisor.ID, Name: a.Poster.Advisor.Name}
		}
		resp.Posters[a.Poster.SlotNumber] = append(resp.Posters[a.Poster.SlotNumber], p)
	}
	return resp, nil
}

// SubmitEvaluation сохраняет оценку судьи.
// Постер должен относиться к мероприятию судьи, а оценка приниматься только в окне судейства.
func (s *JudgeService) SubmitEvaluation(ctx context.Context, input EvaluationInput) (*entity.Evaluation, error) {
	_, judge, err := s.authenticate(ctx, input.NetID, input.Code)
	if err != nil {
		return nil, err
	}

	poster, err := s.posterRepo.GetByID(ctx, input.PosterID)
	if err != nil {
		return nil, err
	}
	if poster.EventID != judge.EventID {
		return nil, fmt.Errorf("%w: poster does not belong to the judge's event", apperrors.ErrForbidden)
	}

	event, err := s.eventRepo.GetByID(ctx, judge.EventID)
	if err != nil {
		return nil, err
	}
	if !event.IsJudgingOpen(s.now()) {
		return nil, fmt.Errorf("%w: judging is closed for this event", apperrors.ErrForbidden)
	}

	if err := input.Scores.ValidateAgainst(event.Criteria); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	evaluation := &entity.Evaluation{
		JudgeID:  judge.ID,
		PosterID: poster.ID,
		Scores:   input.Scores,
	}
	if c := strings.TrimSpace(input.Comments); c != "" {
		evaluation.Comments = &c
	}
	if err := s.evaluationRepo.Create(ctx, evaluation); err != nil {
		return nil, fmt.Errorf("failed to save evaluation: %w", err)
	}

	s.metrics.EvaluationSubmitted()
	log.Printf("[JudgeService] Судья %s оценил постер %s", judge.ID, poster.ID)
	return evaluation, nil
}
