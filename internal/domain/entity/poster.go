package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Poster представляет постер, представленный на мероприятии
type Poster struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	EventID    uuid.UUID    `gorm:"type:uuid;not null;index" json:"event_id"`
	Title      string       `gorm:"type:text;not null;default:''" json:"title"`
	Abstract   string       `gorm:"type:text;not null;default:''" json:"abstract"`
	Program    string       `gorm:"size:255;not null;default:''" json:"program"`
	AdvisorID  *uuid.UUID   `gorm:"type:uuid;index" json:"advisor_id,omitempty"`
	Advisor    *JudgeMaster `gorm:"foreignKey:AdvisorID" json:"advisor,omitempty"`
	SlotNumber int          `gorm:"not null;default:1" json:"slot_number"` // 1 или 2
	Sequence   int          `gorm:"not null;default:0" json:"sequence"`    // порядковый номер в мероприятии, с 1
	CreatedAt  time.Time    `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Poster) TableName() string {
	return "posters"
}

// BeforeCreate назначает идентификатор
func (p *Poster) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AdvisedBy сообщает, что судья из справочника masterID - научный руководитель постера
func (p *Poster) AdvisedBy(masterID uuid.UUID) bool {
	return p.AdvisorID != nil && *p.AdvisorID == masterID
}

// SlotForSequence возвращает слот по порядковому номеру постера: нечетные в слот 1, четные в слот 2
func SlotForSequence(seq int) int {
	if seq%2 == 0 {
		return 2
	}
	return 1
}
