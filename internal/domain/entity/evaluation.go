package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Допустимый диапазон оценки по критерию
const (
	MinCriterionScore = 0.0
	MaxCriterionScore = 10.0
)

// Scores - оценки судьи по критериям: имя критерия -> балл в [0,10]
type Scores map[string]float64

// Scan реализует интерфейс sql.Scanner для Scores
func (s *Scores) Scan(value interface{}) error {
	if value == nil {
		*s = Scores{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("failed to unmarshal JSONB scores: unexpected type")
	}

	if len(data) == 0 {
		*s = Scores{}
		return nil
	}

	raw := map[string]flexFloat{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	result := make(Scores, len(raw))
	for k, v := range raw {
		result[k] = float64(v)
	}
	*s = result
	return nil
}

// Value реализует интерфейс driver.Valuer для Scores
func (s Scores) Value() (driver.Value, error) {
	if len(s) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]float64(s))
}

// ValidateAgainst проверяет, что каждый ключ является критерием мероприятия,
// а каждое значение лежит в [0,10].
func (s Scores) ValidateAgainst(criteria Criteria) error {
	if len(s) == 0 {
		return errors.New("scores are empty")
	}
	for name, value := range s {
		if _, ok := criteria[name]; !ok {
			return fmt.Errorf("unknown criterion %q", name)
		}
		if math.IsNaN(value) || value < MinCriterionScore || value > MaxCriterionScore {
			return fmt.Errorf("score for %q must be between %.0f and %.0f", name, MinCriterionScore, MaxCriterionScore)
		}
	}
	return nil
}

// Evaluation - оценка постера одним судьей
type Evaluation struct {
	ID        uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	JudgeID   uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_evaluation_judge_poster" json:"judge_id"`
	Judge     *EventJudge `gorm:"foreignKey:JudgeID" json:"judge,omitempty"`
	PosterID  uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_evaluation_judge_poster;index" json:"poster_id"`
	Scores    Scores      `gorm:"type:jsonb;not null" json:"scores"`
	Comments  *string     `gorm:"type:text" json:"comments,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Evaluation) TableName() string {
	return "evaluations"
}

// BeforeCreate назначает идентификатор
func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Ranking - результат подсчета баллов постера в рамках мероприятия
type Ranking struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EventID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ranking_event_poster;index:idx_ranking_event_rank" json:"event_id"`
	PosterID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ranking_event_poster" json:"poster_id"`
	Poster        *Poster   `gorm:"foreignKey:PosterID" json:"poster,omitempty"`
	Rank          int       `gorm:"not null;index:idx_ranking_event_rank" json:"rank"`
	FinalScore    float64   `gorm:"not null" json:"final_score"`
	WeightedScore float64   `gorm:"not null" json:"weighted_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Ranking) TableName() string {
	return "rankings"
}

// BeforeCreate назначает идентификатор
func (r *Ranking) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
