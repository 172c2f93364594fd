package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Значения доступности судьи по слотам
const (
	AvailabilitySlot1 = "1"
	AvailabilitySlot2 = "2"
	AvailabilityBoth  = "both"
)

// JudgeMaster - справочник преподавателей, которые могут судить или быть научными руководителями
type JudgeMaster struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null;index" json:"name"`
	Department   string    `gorm:"size:255;not null;default:''" json:"department"`
	Email        *string   `gorm:"size:255;uniqueIndex" json:"email,omitempty"`
	Phone        string    `gorm:"size:50;not null;default:''" json:"phone"`
	Degree       string    `gorm:"size:100;not null;default:''" json:"degree"`
	Details      string    `gorm:"type:text;not null;default:''" json:"details"`
	ProfileImage string    `gorm:"size:255;not null;default:''" json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (JudgeMaster) TableName() string {
	return "judges_master"
}

// BeforeCreate назначает идентификатор
func (j *JudgeMaster) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// NetID возвращает локальную часть email (до @), по которой судья входит в портал
func (j *JudgeMaster) NetID() string {
	if j.Email == nil {
		return ""
	}
	local, _, _ := strings.Cut(*j.Email, "@")
	return strings.ToLower(local)
}

// EventJudge - участие судьи из справочника в конкретном мероприятии
type EventJudge struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	EventID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_event_judge_master" json:"event_id"`
	JudgeMasterID uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_event_judge_master" json:"judge_master_id"`
	JudgeMaster   *JudgeMaster `gorm:"foreignKey:JudgeMasterID" json:"judge_master,omitempty"`
	AccessCode    string       `gorm:"size:6;not null;uniqueIndex" json:"access_code"`
	Availability  string       `gorm:"size:10;not null;default:'both'" json:"availability"`
	CreatedAt     time.Time    `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (EventJudge) TableName() string {
	return "event_judges"
}

// BeforeCreate назначает идентификатор
func (j *EventJudge) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Availability == "" {
		j.Availability = AvailabilityBoth
	}
	return nil
}

// NormalizeAvailability приводит значение доступности из таблицы к одному из "1", "2", "both".
// Неизвестные значения трактуются как "both".
func NormalizeAvailability(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "1", "slot 1", "slot1":
		return AvailabilitySlot1
	case "2", "slot 2", "slot2":
		return AvailabilitySlot2
	default:
		return AvailabilityBoth
	}
}

// AvailableForSlot проверяет, может ли судья оценивать постеры слота slot
func (j *EventJudge) AvailableForSlot(slot int) bool {
	switch NormalizeAvailability(j.Availability) {
	case AvailabilitySlot1:
		return slot == 1
	case AvailabilitySlot2:
		return slot == 2
	}
	return true
}

// JudgeAssignment - назначение постера судье с коэффициентом релевантности
type JudgeAssignment struct {
	ID             uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	EventID        uuid.UUID   `gorm:"type:uuid;not null;index" json:"event_id"`
	JudgeID        uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_judge_poster" json:"judge_id"`
	Judge          *EventJudge `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`
	PosterID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_judge_poster" json:"poster_id"`
	Poster         *Poster     `gorm:"foreignKey:PosterID" json:"poster,omitempty"`
	RelevanceScore *float64    `json:"relevance_score,omitempty"`
	AssignedAt     time.Time   `gorm:"autoCreateTime" json:"assigned_at"`
}

// TableName определяет имя таблицы для GORM
func (JudgeAssignment) TableName() string {
	return "judge_assignments"
}

// BeforeCreate назначает идентификатор
func (a *JudgeAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
