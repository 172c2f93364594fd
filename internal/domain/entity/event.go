package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Значения по умолчанию для настроек мероприятия
const (
	DefaultMinPostersPerJudge = 2
	DefaultMaxPostersPerJudge = 6
	DefaultJudgesPerPoster    = 2
)

// Event представляет мероприятие с постерной сессией
type Event struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name               string     `gorm:"size:255;not null" json:"name"`
	Description        string     `gorm:"type:text;not null;default:''" json:"description"`
	StartDate          time.Time  `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time  `gorm:"type:date;not null" json:"end_date"`
	JudgingStartTime   *time.Time `json:"judging_start_time,omitempty"`
	JudgingEndTime     *time.Time `json:"judging_end_time,omitempty"`
	MinPostersPerJudge int        `gorm:"not null;default:2" json:"min_posters_per_judge"`
	MaxPostersPerJudge int        `gorm:"not null;default:6" json:"max_posters_per_judge"`
	JudgesPerPoster    int        `gorm:"not null;default:2" json:"judges_per_poster"`
	Criteria           Criteria   `gorm:"type:jsonb;not null" json:"criteria"`
	CreatedBy          *uuid.UUID `gorm:"type:uuid;index" json:"created_by,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Event) TableName() string {
	return "events"
}

// BeforeCreate назначает идентификатор и значения по умолчанию
func (e *Event) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.applyDefaults()
	return nil
}

func (e *Event) applyDefaults() {
	if e.MinPostersPerJudge == 0 {
		e.MinPostersPerJudge = DefaultMinPostersPerJudge
	}
	if e.MaxPostersPerJudge == 0 {
		e.MaxPostersPerJudge = DefaultMaxPostersPerJudge
	}
	if e.JudgesPerPoster == 0 {
		e.JudgesPerPoster = DefaultJudgesPerPoster
	}
	if e.Criteria == nil {
		e.Criteria = Criteria{}
	}
}

// RequiredEvaluations возвращает число оценок, необходимых для подсчета постера
func (e *Event) RequiredEvaluations() int {
	if e.JudgesPerPoster <= 0 {
		return DefaultJudgesPerPoster
	}
	return e.JudgesPerPoster
}

// PostersPerJudgeLimits возвращает границы нагрузки судьи с учетом значений по умолчанию
func (e *Event) PostersPerJudgeLimits() (minLoad, maxLoad int) {
	minLoad, maxLoad = e.MinPostersPerJudge, e.MaxPostersPerJudge
	if minLoad <= 0 {
		minLoad = DefaultMinPostersPerJudge
	}
	if maxLoad <= 0 {
		maxLoad = DefaultMaxPostersPerJudge
	}
	return minLoad, maxLoad
}

// IsJudgingOpen проверяет, попадает ли момент now в окно судейства.
// Незаданная граница окна считается открытой.
func (e *Event) IsJudgingOpen(now time.Time) bool {
	if e.JudgingStartTime != nil && now.Before(*e.JudgingStartTime) {
		return false
	}
	if e.JudgingEndTime != nil && now.After(*e.JudgingEndTime) {
		return false
	}
	return true
}

// Organizer связывает пользователя-организатора с мероприятием
type Organizer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_organizer_user_event" json:"user_id"`
	EventID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_organizer_user_event;index" json:"event_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Organizer) TableName() string {
	return "organizers"
}

// BeforeCreate назначает идентификатор
func (o *Organizer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
