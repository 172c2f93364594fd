package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

// JudgeMasterRepo реализует repository.JudgeMasterRepository
type JudgeMasterRepo struct {
	db *gorm.DB
}

// NewJudgeMasterRepo создает новый репозиторий справочника судей
func NewJudgeMasterRepo(db *gorm.DB) *JudgeMasterRepo {
	return &JudgeMasterRepo{db: db}
}

// Upsert создает или обновляет запись справочника.
// Ключ поиска - email, а при его отсутствии имя (без учета регистра).
func (r *JudgeMasterRepo) Upsert(ctx context.Context, judge *entity.JudgeMaster) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.JudgeMaster
		query := tx.Model(&entity.JudgeMaster{})
		if judge.Email != nil && *judge.Email != "" {
			query = query.Where("LOWER(email) = ?", strings.ToLower(*judge.Email))
		} else {
			query = query.Where("LOWER(name) = ? AND email IS NULL", strings.ToLower(judge.Name))
		}

		err := query.First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return translateError(tx.Create(judge).Error, "judge master")
		case err != nil:
			return err
		}

		judge.ID = existing.ID
		judge.CreatedAt = existing.CreatedAt
		return translateError(tx.Save(judge).Error, "judge master")
	})
}

// FindByName ищет судью по имени и фамилии (ILIKE '%first%last%')
func (r *JudgeMasterRepo) FindByName(ctx context.Context, firstName, lastName string) (*entity.JudgeMaster, error) {
	pattern := "%" + strings.TrimSpace(firstName) + "%" + strings.TrimSpace(lastName) + "%"
	var judge entity.JudgeMaster
	err := r.db.WithContext(ctx).
		Where("name ILIKE ?", pattern).
		Order("name").
		First(&judge).Error
	if err != nil {
		return nil, translateError(err, "judge master")
	}
	return &judge, nil
}

// GetByNetID ищет судью по локальной части email
func (r *JudgeMasterRepo) GetByNetID(ctx context.Context, netID string) (*entity.JudgeMaster, error) {
	netID = strings.ToLower(strings.TrimSpace(netID))
	if netID == "" {
		return nil, apperrors.ErrNotFound
	}
	var judge entity.JudgeMaster
	err := r.db.WithContext(ctx).
		Where("LOWER(email) LIKE ?", netID+"@%").
		First(&judge).Error
	if err != nil {
		return nil, translateError(err, "judge master")
	}
	return &judge, nil
}

// List возвращает весь справочник судей
func (r *JudgeMasterRepo) List(ctx context.Context) ([]entity.JudgeMaster, error) {
	var judges []entity.JudgeMaster
	err := r.db.WithContext(ctx).Order("name").Find(&judges).Error
	return judges, err
}

// EventJudgeRepo реализует repository.EventJudgeRepository
type EventJudgeRepo struct {
	db *gorm.DB
}

// NewEventJudgeRepo создает новый репозиторий судей мероприятия
func NewEventJudgeRepo(db *gorm.DB) *EventJudgeRepo {
	return &EventJudgeRepo{db: db}
}

// Create добавляет судью в мероприятие
func (r *EventJudgeRepo) Create(ctx context.Context, judge *entity.EventJudge) error {
	return translateError(r.db.WithContext(ctx).Create(judge).Error, "event judge")
}

// GetByID возвращает судью мероприятия вместе с записью справочника
func (r *EventJudgeRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.EventJudge, error) {
	var judge entity.EventJudge
	if err := r.db.WithContext(ctx).Preload("JudgeMaster").First(&judge, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "event judge")
	}
	return &judge, nil
}

// GetByEventAndMaster ищет участие судьи из справочника в мероприятии
func (r *EventJudgeRepo) GetByEventAndMaster(ctx context.Context, eventID, judgeMasterID uuid.UUID) (*entity.EventJudge, error) {
	var judge entity.EventJudge
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND judge_master_id = ?", eventID, judgeMasterID).
		First(&judge).Error
	if err != nil {
		return nil, translateError(err, "event judge")
	}
	return &judge, nil
}

// GetByAccessCode ищет судью мероприятия по коду доступа
func (r *EventJudgeRepo) GetByAccessCode(ctx context.Context, code string) (*entity.EventJudge, error) {
	var judge entity.EventJudge
	err := r.db.WithContext(ctx).
		Preload("JudgeMaster").
		Where("access_code = ?", strings.TrimSpace(code)).
		First(&judge).Error
	if err != nil {
		return nil, translateError(err, "event judge")
	}
	return &judge, nil
}

// AccessCodeExists проверяет, занят ли код доступа
func (r *EventJudgeRepo) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.EventJudge{}).Where("access_code = ?", code).Count(&count).Error
	return count > 0, err
}

// ListByEvent возвращает судей мероприятия
func (r *EventJudgeRepo) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.EventJudge, error) {
	var judges []entity.EventJudge
	err := r.db.WithContext(ctx).
		Preload("JudgeMaster").
		Where("event_id = ?", eventID).
		Order("created_at, id").
		Find(&judges).Error
	return judges, err
}

// CountByEvent возвращает число судей мероприятия
func (r *EventJudgeRepo) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.EventJudge{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}
