package postgres

import (
	"context"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// RankingRepo реализует repository.RankingRepository
type RankingRepo struct {
	db *gorm.DB
}

// NewRankingRepo создает новый репозиторий рейтинга
func NewRankingRepo(db *gorm.DB) *RankingRepo {
	return &RankingRepo{db: db}
}

// ReplaceForEvent удаляет прежний рейтинг мероприятия и вставляет новый в одной транзакции.
// Пустой список просто очищает рейтинг.
func (r *RankingRepo) ReplaceForEvent(ctx context.Context, eventID uuid.UUID, rankings []entity.Ranking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("event_id = ?", eventID).Delete(&entity.Ranking{})
		if deleted.Error != nil {
			return deleted.Error
		}
		if deleted.RowsAffected > 0 {
			log.Printf("[RankingRepo] Удалено %d прежних записей рейтинга для мероприятия %s", deleted.RowsAffected, eventID)
		}

		if len(rankings) == 0 {
			return nil
		}
		for i := range rankings {
			rankings[i].EventID = eventID
		}
		return translateError(tx.CreateInBatches(rankings, 200).Error, "ranking")
	})
}

// ListByEvent возвращает рейтинг мероприятия по возрастанию ранга
func (r *RankingRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Ranking, error) {
	var rankings []entity.Ranking
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("rank ASC, poster_id ASC").
		Find(&rankings).Error
	return rankings, err
}

// ListWithPosters возвращает рейтинг вместе с постерами и их руководителями
func (r *RankingRepo) ListWithPosters(ctx context.Context, eventID uuid.UUID) ([]entity.Ranking, error) {
	var rankings []entity.Ranking
	err := r.db.WithContext(ctx).
		Preload("Poster.Advisor").
		Where("event_id = ?", eventID).
		Order("rank ASC, poster_id ASC").
		Find(&rankings).Error
	return rankings, err
}
