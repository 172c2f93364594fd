package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// EventRepository определяет методы для работы с мероприятиями
type EventRepository interface {
	// CreateWithOrganizer создает мероприятие и связь с организатором в одной транзакции
	CreateWithOrganizer(ctx context.Context, event *entity.Event, organizerID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	List(ctx context.Context) ([]entity.Event, error)
	ListByOrganizer(ctx context.Context, userID uuid.UUID) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}
