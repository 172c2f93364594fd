package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

// EventRepo реализует repository.EventRepository
type EventRepo struct {
	db *gorm.DB
}

// NewEventRepo создает новый репозиторий мероприятий
func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{db: db}
}

// CreateWithOrganizer создает мероприятие и связь с организатором
func (r *EventRepo) CreateWithOrganizer(ctx context.Context, event *entity.Event, organizerID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return translateError(err, "event")
		}
		link := &entity.Organizer{UserID: organizerID, EventID: event.ID}
		if err := tx.Create(link).Error; err != nil {
			return translateError(err, "organizer link")
		}
		return nil
	})
}

// GetByID возвращает мероприятие по ID
func (r *EventRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	var event entity.Event
	if err := r.db.WithContext(ctx).First(&event, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "event")
	}
	return &event, nil
}

// List возвращает все мероприятия, новые первыми
func (r *EventRepo) List(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.WithContext(ctx).Order("start_date DESC, created_at DESC").Find(&events).Error
	return events, err
}

// ListByOrganizer возвращает мероприятия, связанные с организатором
func (r *EventRepo) ListByOrganizer(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	var events []entity.Event
	err := r.db.WithContext(ctx).
		Joins("JOIN organizers o ON o.event_id = events.id").
		Where("o.user_id = ?", userID).
		Order("events.start_date DESC, events.created_at DESC").
		Find(&events).Error
	return events, err
}

// Update обновляет мероприятие
func (r *EventRepo) Update(ctx context.Context, event *entity.Event) error {
	result := r.db.WithContext(ctx).Model(event).Select("*").Omit("id", "created_by", "created_at").Updates(event)
	if result.Error != nil {
		return translateError(result.Error, "event")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет мероприятие вместе с зависимыми записями (ON DELETE CASCADE в схеме)
func (r *EventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&entity.Event{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
