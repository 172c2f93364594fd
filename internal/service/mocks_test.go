package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/service/scoring"
)

// ============================================================================
// Моки репозиториев
// ============================================================================

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) ListByRole(ctx context.Context, role string) ([]entity.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

// MockEventRepository реализует repository.EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) CreateWithOrganizer(ctx context.Context, event *entity.Event, organizerID uuid.UUID) error {
	args := m.Called(ctx, event, organizerID)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context) ([]entity.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Event), args.Error(1)
}

func (m *MockEventRepository) ListByOrganizer(ctx context.Context, userID uuid.UUID) ([]entity.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *entity.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockPosterRepository реализует repository.PosterRepository
type MockPosterRepository struct {
	mock.Mock
}

func (m *MockPosterRepository) CreateBatch(ctx context.Context, posters []entity.Poster) error {
	args := m.Called(ctx, posters)
	return args.Error(0)
}

func (m *MockPosterRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Poster, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Poster), args.Error(1)
}

func (m *MockPosterRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Poster, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Poster), args.Error(1)
}

func (m *MockPosterRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

// MockJudgeMasterRepository реализует repository.JudgeMasterRepository
type MockJudgeMasterRepository struct {
	mock.Mock
}

func (m *MockJudgeMasterRepository) Upsert(ctx context.Context, judge *entity.JudgeMaster) error {
	args := m.Called(ctx, judge)
	return args.Error(0)
}

func (m *MockJudgeMasterRepository) FindByName(ctx context.Context, firstName, lastName string) (*entity.JudgeMaster, error) {
	args := m.Called(ctx, firstName, lastName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.JudgeMaster), args.Error(1)
}

func (m *MockJudgeMasterRepository) GetByNetID(ctx context.Context, netID string) (*entity.JudgeMaster, error) {
	args := m.Called(ctx, netID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.JudgeMaster), args.Error(1)
}

func (m *MockJudgeMasterRepository) List(ctx context.Context) ([]entity.JudgeMaster, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.JudgeMaster), args.Error(1)
}

// MockEventJudgeRepository реализует repository.EventJudgeRepository
type MockEventJudgeRepository struct {
	mock.Mock
}

func (m *MockEventJudgeRepository) Create(ctx context.Context, judge *entity.EventJudge) error {
	args := m.Called(ctx, judge)
	return args.Error(0)
}

func (m *MockEventJudgeRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.EventJudge, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EventJudge), args.Error(1)
}

func (m *MockEventJudgeRepository) GetByEventAndMaster(ctx context.Context, eventID, judgeMasterID uuid.UUID) (*entity.EventJudge, error) {
	args := m.Called(ctx, eventID, judgeMasterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EventJudge), args.Error(1)
}

func (m *MockEventJudgeRepository) GetByAccessCode(ctx context.Context, code string) (*entity.EventJudge, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.EventJudge), args.Error(1)
}

func (m *MockEventJudgeRepository) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockEventJudgeRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.EventJudge, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.EventJudge), args.Error(1)
}

func (m *MockEventJudgeRepository) CountByEvent(ctx context.Context, eventID uuid.UUID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}

// MockAssignmentRepository реализует repository.AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) CreateBatch(ctx context.Context, assignments []entity.JudgeAssignment) (int64, error) {
	args := m.Called(ctx, assignments)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignmentRepository) GetByJudgeAndPoster(ctx context.Context, judgeID, posterID uuid.UUID) (*entity.JudgeAssignment, error) {
	args := m.Called(ctx, judgeID, posterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.JudgeAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.JudgeAssignment, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.JudgeAssignment), args.Error(1)
}

func (m *MockAssignmentRepository) ListByJudge(ctx context.Context, judgeID uuid.UUID) ([]entity.JudgeAssignment, error) {
	args := m.Called(ctx, judgeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.JudgeAssignment), args.Error(1)
}

// MockEvaluationRepository реализует repository.EvaluationRepository
type MockEvaluationRepository struct {
	mock.Mock
}

func (m *MockEvaluationRepository) Create(ctx context.Context, evaluation *entity.Evaluation) error {
	args := m.Called(ctx, evaluation)
	return args.Error(0)
}

func (m *MockEvaluationRepository) ListByPosters(ctx context.Context, posterIDs []uuid.UUID) ([]entity.Evaluation, error) {
	args := m.Called(ctx, posterIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Evaluation), args.Error(1)
}

// MockRankingRepository реализует repository.RankingRepository
type MockRankingRepository struct {
	mock.Mock
}

func (m *MockRankingRepository) ReplaceForEvent(ctx context.Context, eventID uuid.UUID, rankings []entity.Ranking) error {
	args := m.Called(ctx, eventID, rankings)
	return args.Error(0)
}

func (m *MockRankingRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Ranking, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Ranking), args.Error(1)
}

func (m *MockRankingRepository) ListWithPosters(ctx context.Context, eventID uuid.UUID) ([]entity.Ranking, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Ranking), args.Error(1)
}

// MockCacheRepository реализует repository.CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCacheRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	args := m.Called(ctx, key, dest)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// ============================================================================
// Моки зависимостей сервисов
// ============================================================================

// MockEmailService реализует EmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAccessCode(ctx context.Context, msg AccessCodeMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// MockTokenIssuer реализует TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID uuid.UUID, email, role string) (string, time.Time, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

// MockScoringEngine реализует ScoringEngine
type MockScoringEngine struct {
	mock.Mock
}

func (m *MockScoringEngine) RunScoring(ctx context.Context, eventID uuid.UUID) (*scoring.Report, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scoring.Report), args.Error(1)
}

func (m *MockScoringEngine) GetScoresAndRanks(ctx context.Context, eventID uuid.UUID) ([]scoring.ScoreEntry, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scoring.ScoreEntry), args.Error(1)
}

// MockBroadcaster реализует websocket.Broadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) BroadcastToEvent(eventID uuid.UUID, v interface{}) error {
	args := m.Called(eventID, v)
	return args.Error(0)
}
