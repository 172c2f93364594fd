package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
)

// JudgeMasterRepository определяет методы для работы со справочником судей
type JudgeMasterRepository interface {
	// Upsert создает запись или обновляет существующую с тем же email (или именем, если email пуст)
	Upsert(ctx context.Context, judge *entity.JudgeMaster) error
	FindByName(ctx context.Context, firstName, lastName string) (*entity.JudgeMaster, error)
	GetByNetID(ctx context.Context, netID string) (*entity.JudgeMaster, error)
	List(ctx context.Context) ([]entity.JudgeMaster, error)
}

// EventJudgeRepository определяет методы для работы с судьями мероприятия
type EventJudgeRepository interface {
	Create(ctx context.Context, judge *entity.EventJudge) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.EventJudge, error)
	GetByEventAndMaster(ctx context.Context, eventID, judgeMasterID uuid.UUID) (*entity.EventJudge, error)
	GetByAccessCode(ctx context.Context, code string) (*entity.EventJudge, error)
	AccessCodeExists(ctx context.Context, code string) (bool, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.EventJudge, error)
	CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error)
}
