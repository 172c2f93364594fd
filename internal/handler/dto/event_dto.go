package dto

import (
	"time"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

// EventRequest - тело запроса на создание или изменение мероприятия.
// Criteria принимает объект {"имя": вес} или массив {name, weight}.
type EventRequest struct {
	Name               string          `json:"name" binding:"required,max=255"`
	Description        string          `json:"description" binding:"omitempty,max=5000"`
	StartDate          time.Time       `json:"start_date" binding:"required"`
	EndDate            time.Time       `json:"end_date" binding:"required"`
	JudgingStartTime   *time.Time      `json:"judging_start_time"`
	JudgingEndTime     *time.Time      `json:"judging_end_time"`
	MinPostersPerJudge int             `json:"min_posters_per_judge" binding:"omitempty,min=0"`
	MaxPostersPerJudge int             `json:"max_posters_per_judge" binding:"omitempty,min=0"`
	JudgesPerPoster    int             `json:"judges_per_poster" binding:"omitempty,min=0"`
	Criteria           entity.Criteria `json:"criteria"`
}

// ToInput переводит запрос во входные данные сервиса
func (r EventRequest) ToInput() service.EventInput {
	return service.EventInput{
		Name:               r.Name,
		Description:        r.Description,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		JudgingStartTime:   r.JudgingStartTime,
		JudgingEndTime:     r.JudgingEndTime,
		MinPostersPerJudge: r.MinPostersPerJudge,
		MaxPostersPerJudge: r.MaxPostersPerJudge,
		JudgesPerPoster:    r.JudgesPerPoster,
		Criteria:           r.Criteria,
	}
}

// EventListResponse - список мероприятий
type EventListResponse struct {
	Events []entity.Event `json:"events"`
	Total  int            `json:"total"`
}

// OrganizerDTO - организатор в списке для администратора
type OrganizerDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewOrganizerList строит список организаторов без паролей и служебных полей
func NewOrganizerList(users []entity.User) []OrganizerDTO {
	out := make([]OrganizerDTO, len(users))
	for i, u := range users {
		out[i] = OrganizerDTO{ID: u.ID.String(), Name: u.Name, Email: u.Email}
	}
	return out
}
