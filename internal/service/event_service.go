package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/domain/repository"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
	"github.com/yourusername/cuse-rank-api/internal/service/scoring"
)

// EventInput содержит данные для создания или изменения мероприятия
type EventInput struct {
	Name               string
	Description        string
	StartDate          time.Time
	EndDate            time.Time
	JudgingStartTime   *time.Time
	JudgingEndTime     *time.Time
	MinPostersPerJudge int
	MaxPostersPerJudge int
	JudgesPerPoster    int
	Criteria           entity.Criteria
}

// Actor - пользователь, от имени которого выполняется операция
type Actor struct {
	UserID uuid.UUID
	Role   string
}

func (a Actor) isAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// EventService управляет мероприятиями
type EventService struct {
	eventRepo repository.EventRepository
}

// NewEventService создает новый сервис мероприятий
func NewEventService(eventRepo repository.EventRepository) *EventService {
	return &EventService{eventRepo: eventRepo}
}

// ListEvents возвращает все мероприятия для администратора и только связанные
// мероприятия для организатора
func (s *EventService) ListEvents(ctx context.Context, actor Actor) ([]entity.Event, error) {
	var (
		events []entity.Event
		err    error
	)
	if actor.isAdmin() {
		events, err = s.eventRepo.List(ctx)
	} else {
		events, err = s.eventRepo.ListByOrganizer(ctx, actor.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no events found: %w", apperrors.ErrNotFound)
	}
	return events, nil
}

// CreateEvent проверяет входные данные и создает мероприятие вместе со связью с организатором
func (s *EventService) CreateEvent(ctx context.Context, actor Actor, input EventInput) (*entity.Event, error) {
	event := &entity.Event{}
	if err := applyEventInput(event, input); err != nil {
		return nil, err
	}
	creator := actor.UserID
	event.CreatedBy = &creator

	if err := s.eventRepo.CreateWithOrganizer(ctx, event, actor.UserID); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	log.Printf("[EventService] Создано мероприятие ID=%s (%s) пользователем %s", event.ID, event.Name, actor.UserID)
	return event, nil
}

// GetEvent возвращает мероприятие по ID
func (s *EventService) GetEvent(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// UpdateEvent изменяет мероприятие. Доступно создателю и администратору.
func (s *EventService) UpdateEvent(ctx context.Context, actor Actor, id uuid.UUID, input EventInput) (*entity.Event, error) {
	event, err := s.authorizedEvent(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := applyEventInput(event, input); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	log.Printf("[EventService] Мероприятие ID=%s обновлено пользователем %s", event.ID, actor.UserID)
	return event, nil
}

// DeleteEvent удаляет мероприятие. Доступно создателю и администратору.
func (s *EventService) DeleteEvent(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.authorizedEvent(ctx, actor, id); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	log.Printf("[EventService] Мероприятие ID=%s удалено пользователем %s", id, actor.UserID)
	return nil
}

// AuthorizeEvent проверяет, что actor может управлять мероприятием:
// загружать данные, назначать судей и запускать подсчет
func (s *EventService) AuthorizeEvent(ctx context.Context, actor Actor, id uuid.UUID) error {
	_, err := s.authorizedEvent(ctx, actor, id)
	return err
}

func (s *EventService) authorizedEvent(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.isAdmin() {
		return event, nil
	}
	if event.CreatedBy == nil || *event.CreatedBy != actor.UserID {
		return nil, fmt.Errorf("%w: only the creator or an admin can modify this event", apperrors.ErrForbidden)
	}
	return event, nil
}

// applyEventInput проверяет данные и переносит их в мероприятие.
// Нулевые числовые настройки заменяются значениями по умолчанию.
func applyEventInput(event *entity.Event, input EventInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if input.StartDate.IsZero() || input.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", apperrors.ErrValidation)
	}
	if input.EndDate.Before(input.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", apperrors.ErrValidation)
	}
	if input.JudgingStartTime != nil && input.JudgingEndTime != nil &&
		input.JudgingEndTime.Before(*input.JudgingStartTime) {
		return fmt.Errorf("%w: judging_end_time must not be before judging_start_time", apperrors.ErrValidation)
	}

	minPosters := valueOrDefault(input.MinPostersPerJudge, entity.DefaultMinPostersPerJudge)
	maxPosters := valueOrDefault(input.MaxPostersPerJudge, entity.DefaultMaxPostersPerJudge)
	judgesPerPoster := valueOrDefault(input.JudgesPerPoster, entity.DefaultJudgesPerPoster)
	if minPosters < 1 || maxPosters < 1 || judgesPerPoster < 1 {
		return fmt.Errorf("%w: posters per judge and judges per poster must be at least 1", apperrors.ErrValidation)
	}
	if minPosters > maxPosters {
		return fmt.Errorf("%w: min_posters_per_judge must not exceed max_posters_per_judge", apperrors.ErrValidation)
	}

	if len(input.Criteria) == 0 {
		return fmt.Errorf("criteria must not be empty: %w", apperrors.ErrInvalidConfiguration)
	}
	if _, err := scoring.NormalizeWeights(input.Criteria); err != nil {
		return err
	}

	event.Name = name
	event.Description = strings.TrimSpace(input.Description)
	event.StartDate = input.StartDate
	event.EndDate = input.EndDate
	event.JudgingStartTime = input.JudgingStartTime
	event.JudgingEndTime = input.JudgingEndTime
	event.MinPostersPerJudge = minPosters
	event.MaxPostersPerJudge = maxPosters
	event.JudgesPerPoster = judgesPerPoster
	event.Criteria = input.Criteria
	return nil
}

func valueOrDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}

// isNotFound сообщает, что ошибка означает отсутствие записи
func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
