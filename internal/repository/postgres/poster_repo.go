package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// PosterRepo реализует repository.PosterRepository
type PosterRepo struct {
	db *gorm.DB
}

// NewPosterRepo создает новый репозиторий постеров
func NewPosterRepo(db *gorm.DB) *PosterRepo {
	return &PosterRepo{db: db}
}

// CreateBatch сохраняет постеры пачками
func (r *PosterRepo) CreateBatch(ctx context.Context, posters []entity.Poster) error {
	if len(posters) == 0 {
		return nil
	}
	return translateError(r.db.WithContext(ctx).CreateInBatches(posters, 100).Error, "poster")
}

// GetByID возвращает постер по ID
func (r *PosterRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Poster, error) {
	var poster entity.Poster
	if err := r.db.WithContext(ctx).Preload("Advisor").First(&poster, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "poster")
	}
	return &poster, nil
}

// ListByEvent возвращает постеры мероприятия по порядковому номеру.
// Одна загрузка вставляется одним батчем с общим created_at, поэтому порядок держится на sequence.
func (r *PosterRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Poster, error) {
	var posters []entity.Poster
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("sequence, created_at, id").
		Find(&posters).Error
	return posters, err
}

// CountByEvent возвращает число постеров мероприятия
func (r *PosterRepo) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Poster{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
