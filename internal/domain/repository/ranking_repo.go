package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// RankingRepository определяет методы для работы с рейтингом постеров
type RankingRepository interface {
	// ReplaceForEvent атомарно заменяет рейтинг мероприятия (удаление и вставка в одной транзакции)
	ReplaceForEvent(ctx context.Context, eventID uuid.UUID, rankings []entity.Ranking) error
	// ListByEvent возвращает рейтинг мероприятия по возрастанию ранга
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Ranking, error)
	// ListWithPosters возвращает рейтинг вместе с постерами и научными руководителями
	ListWithPosters(ctx context.Context, eventID uuid.UUID) ([]entity.Ranking, error)
}
