package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// PosterRepository определяет методы для работы с постерами
type PosterRepository interface {
	CreateBatch(ctx context.Context, posters []entity.Poster) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Poster, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Poster, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}
