package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"log"
	"math/big"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/domain/repository"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

const (
	accessCodeAttempts = 10
	posterNumberHeader = "poster #"
)

// Колонки таблицы судей мероприятия: [#, имя, фамилия, кафедра, доступность]
const (
	judgeColFirst = iota + 1
	judgeColLast
	judgeColDepartment
	judgeColAvailability
)

// Колонки таблицы постеров (номер постера ищется по заголовку)
const (
	posterColTitle = iota + 1
	posterColAbstract
	posterColAdvisorFirst
	posterColAdvisorLast
	posterColProgram
)

// RowIssue описывает строку таблицы, которую не удалось обработать.
// Row - номер строки в книге, начиная с 1.
type RowIssue struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// JudgeMasterUploadResult - итог загрузки справочника судей
type JudgeMasterUploadResult struct {
	Upserted int        `json:"upserted"`
	Invalid  []RowIssue `json:"invalid"`
}

// JudgeUploadResult - итог загрузки судей мероприятия
type JudgeUploadResult struct {
	Added      int        `json:"added"`
	Existing   int        `json:"existing"`
	Skipped    int        `json:"skipped"`
	Unmatched  []RowIssue `json:"unmatched"`
	EmailsSent int        `json:"emails_sent"`
}

// PosterUploadResult - итог загрузки постеров
type PosterUploadResult struct {
	Created          int        `json:"created"`
	Skipped          int        `json:"skipped"`
	AdvisorsNotFound []RowIssue `json:"advisors_not_found"`
}

// UploadStatus сообщает, загружены ли судьи и постеры мероприятия
type UploadStatus struct {
	HasJudges  bool `json:"has_judges"`
	HasPosters bool `json:"has_posters"`
}

// judgeMasterRow - строка справочника судей после очистки
type judgeMasterRow struct {
	Name       string `validate:"required,max=255"`
	Department string `validate:"max=255"`
	Email      string `validate:"omitempty,email,max=255"`
	Phone      string `validate:"max=50"`
	Degree     string `validate:"max=100"`
	Details    string
}

// UploadService импортирует справочник судей, судей мероприятия и постеры из xlsx
type UploadService struct {
	eventRepo  repository.EventRepository
	posterRepo repository.PosterRepository
	masterRepo repository.JudgeMasterRepository
	judgeRepo  repository.EventJudgeRepository
	email      EmailService
	validate   *validator.Validate
	newCode    func() (string, error)
}

// NewUploadService создает сервис загрузок
func NewUploadService(
	eventRepo repository.EventRepository,
	posterRepo repository.PosterRepository,
	masterRepo repository.JudgeMasterRepository,
	judgeRepo repository.EventJudgeRepository,
	email EmailService,
) *UploadService {
	if email == nil {
		email = &NoopEmailService{}
	}
	return &UploadService{
		eventRepo:  eventRepo,
		posterRepo: posterRepo,
		masterRepo: masterRepo,
		judgeRepo:  judgeRepo,
		email:      email,
		validate:   validator.New(),
		newCode:    randomAccessCode,
	}
}

// UploadJudgeMaster загружает справочник: name, department, email, phone, degree, details.
// Первая строка - заголовок. Строки, не прошедшие проверку, попадают в Invalid.
func (s *UploadService) UploadJudgeMaster(ctx context.Context, r io.Reader) (*JudgeMasterUploadResult, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	result := &JudgeMasterUploadResult{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) {
			continue
		}

		rec := judgeMasterRow{
			Name:       displayName(cell(row, 0)),
			Department: cell(row, 1),
			Email:      strings.ToLower(cell(row, 2)),
			Phone:      cell(row, 3),
			Degree:     cell(row, 4),
			Details:    cell(row, 5),
		}
		if err := s.validate.Struct(rec); err != nil {
			result.Invalid = append(result.Invalid, RowIssue{Row: rowNum, Reason: err.Error()})
			continue
		}

		judge := &entity.JudgeMaster{
			Name:       rec.Name,
			Department: rec.Department,
			Phone:      rec.Phone,
			Degree:     rec.Degree,
			Details:    rec.Details,
		}
		if rec.Email != "" {
			email := rec.Email
			judge.Email = &email
		}
		if err := s.masterRepo.Upsert(ctx, judge); err != nil {
			return nil, fmt.Errorf("failed to upsert judge master at row %d: %w", rowNum, err)
		}
		result.Upserted++
	}

	log.Printf("[UploadService] Справочник судей: сохранено %d, отклонено %d", result.Upserted, len(result.Invalid))
	return result, nil
}

// UploadEventJudges добавляет судей в мероприятие и рассылает им коды доступа.
// Уже добавленные судьи не изменяются.
func (s *UploadService) UploadEventJudges(ctx context.Context, eventID uuid.UUID, r io.Reader) (*JudgeUploadResult, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	matcher := newNameMatcher(s.masterRepo)
	result := &JudgeUploadResult{}

	for i, row := range rows[1:] {
		rowNum := i + 2
		first := cell(row, judgeColFirst)
		last := cell(row, judgeColLast)
		department := cell(row, judgeColDepartment)
		availability := cell(row, judgeColAvailability)
		if first == "" || last == "" || department == "" || availability == "" {
			result.Skipped++
			continue
		}

		master, err := matcher.match(ctx, first, last)
		if err != nil {
			return nil, err
		}
		if master == nil {
			result.Unmatched = append(result.Unmatched, RowIssue{
				Row:    rowNum,
				Reason: fmt.Sprintf("judge %q not found in judge master", first+" "+last),
			})
			continue
		}

		_, err = s.judgeRepo.GetByEventAndMaster(ctx, eventID, master.ID)
		if err == nil {
			result.Existing++
			continue
		}
		if !isNotFound(err) {
			return nil, fmt.Errorf("failed to check event judge: %w", err)
		}

		code, err := s.uniqueAccessCode(ctx)
		if err != nil {
			return nil, err
		}
		judge := &entity.EventJudge{
			EventID:       eventID,
			JudgeMasterID: master.ID,
			AccessCode:    code,
			Availability:  entity.NormalizeAvailability(availability),
		}
		if err := s.judgeRepo.Create(ctx, judge); err != nil {
			return nil, fmt.Errorf("failed to add judge at row %d: %w", rowNum, err)
		}
		result.Added++

		if master.Email == nil || *master.Email == "" {
			continue
		}
		msg := AccessCodeMessage{
			ToEmail:    *master.Email,
			JudgeName:  master.Name,
			EventName:  event.Name,
			NetID:      master.NetID(),
			AccessCode: code,
		}
		if err := s.email.SendAccessCode(ctx, msg); err != nil {
			log.Printf("[UploadService] Не удалось отправить код доступа судье %s: %v", *master.Email, err)
			continue
		}
		result.EmailsSent++
	}

	log.Printf("[UploadService] Судьи мероприятия %s: добавлено %d, уже были %d, пропущено %d, не найдено %d",
		eventID, result.Added, result.Existing, result.Skipped, len(result.Unmatched))
	return result, nil
}

// UploadPosters загружает постеры мероприятия. Заголовок обязан содержать колонку
// "Poster #". Постеры нумеруются по порядку: нечетные в слот 1, четные в слот 2.
// Sequence продолжает нумерацию уже загруженных постеров мероприятия.
func (s *UploadService) UploadPosters(ctx context.Context, eventID uuid.UUID, r io.Reader) (*PosterUploadResult, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, err
	}

	numberCol := -1
	for i, h := range rows[0] {
		if strings.Contains(strings.ToLower(h), posterNumberHeader) {
			numberCol = i
			break
		}
	}
	if numberCol < 0 {
		return nil, fmt.Errorf("%w: column 'Poster #' not found in the uploaded file", apperrors.ErrValidation)
	}

	existing, err := s.posterRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count posters: %w", err)
	}

	matcher := newNameMatcher(s.masterRepo)
	result := &PosterUploadResult{}
	var posters []entity.Poster

	for i, row := range rows[1:] {
		rowNum := i + 2
		if isBlankRow(row) || cell(row, numberCol) == "" {
			result.Skipped++
			continue
		}

		poster := entity.Poster{
			EventID:    eventID,
			Title:      cell(row, posterColTitle),
			Abstract:   cell(row, posterColAbstract),
			Program:    cell(row, posterColProgram),
			SlotNumber: entity.SlotForSequence(len(posters) + 1),
			Sequence:   int(existing) + len(posters) + 1,
		}

		first, last := cell(row, posterColAdvisorFirst), cell(row, posterColAdvisorLast)
		if first != "" || last != "" {
			advisor, err := matcher.match(ctx, first, last)
			if err != nil {
				return nil, err
			}
			if advisor != nil {
				id := advisor.ID
				poster.AdvisorID = &id
			} else {
				result.AdvisorsNotFound = append(result.AdvisorsNotFound, RowIssue{
					Row:    rowNum,
					Reason: fmt.Sprintf("advisor %q not found, poster saved without advisor", strings.TrimSpace(first+" "+last)),
				})
			}
		}
		posters = append(posters, poster)
	}

	if len(posters) > 0 {
		if err := s.posterRepo.CreateBatch(ctx, posters); err != nil {
			return nil, fmt.Errorf("failed to save posters: %w", err)
		}
	}
	result.Created = len(posters)

	log.Printf("[UploadService] Постеры мероприятия %s: создано %d, пропущено %d", eventID, result.Created, result.Skipped)
	return result, nil
}

// Status сообщает, загружены ли судьи и постеры мероприятия
func (s *UploadService) Status(ctx context.Context, eventID uuid.UUID) (*UploadStatus, error) {
	judges, err := s.judgeRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count judges: %w", err)
	}
	posters, err := s.posterRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count posters: %w", err)
	}
	return &UploadStatus{HasJudges: judges > 0, HasPosters: posters > 0}, nil
}

func (s *UploadService) uniqueAccessCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < accessCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", fmt.Errorf("failed to generate access code: %w", err)
		}
		exists, err := s.judgeRepo.AccessCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check access code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique access code after %d attempts", accessCodeAttempts)
}

// randomAccessCode возвращает случайный шестизначный код от 100000 до 999999
func randomAccessCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
