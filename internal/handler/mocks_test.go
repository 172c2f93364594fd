package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/middleware"
	"github.com/yourusername/cuse-rank-api/internal/service"
	"github.com/yourusername/cuse-rank-api/internal/service/scoring"
	"github.com/yourusername/cuse-rank-api/pkg/auth"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestGinContext создает *gin.Context для тестов с JSON body
func newTestGinContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()

	var req *http.Request
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, path, bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, path, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// newUploadContext создает *gin.Context с multipart формой и файлом в поле "file"
func newUploadContext(t *testing.T, path, filename string, content []byte) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

// asUser кладет в контекст данные, которые выставляет AuthMiddleware
func asUser(c *gin.Context, userID uuid.UUID, role string) {
	c.Set(middleware.ContextUserID, userID)
	c.Set(middleware.ContextRole, role)
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

// ============================================================================
// MockAccounts
// ============================================================================

type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) RegisterUser(ctx context.Context, input service.RegisterInput) (*entity.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAccounts) LoginUser(ctx context.Context, email, password string) (*service.AuthResponse, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthResponse), args.Error(1)
}

func (m *MockAccounts) GetUserByID(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAccounts) ListOrganizers(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

// ============================================================================
// MockEvents
// ============================================================================

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) ListEvents(ctx context.Context, actor service.Actor) ([]entity.Event, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Event), args.Error(1)
}

func (m *MockEvents) CreateEvent(ctx context.Context, actor service.Actor, input service.EventInput) (*entity.Event, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEvents) GetEvent(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEvents) UpdateEvent(ctx context.Context, actor service.Actor, id uuid.UUID, input service.EventInput) (*entity.Event, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEvents) DeleteEvent(ctx context.Context, actor service.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockEvents) AuthorizeEvent(ctx context.Context, actor service.Actor, id uuid.UUID) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

// ============================================================================
// MockUploads
// ============================================================================

type MockUploads struct {
	mock.Mock
}

func (m *MockUploads) UploadJudgeMaster(ctx context.Context, r io.Reader) (*service.JudgeMasterUploadResult, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JudgeMasterUploadResult), args.Error(1)
}

func (m *MockUploads) UploadEventJudges(ctx context.Context, eventID uuid.UUID, r io.Reader) (*service.JudgeUploadResult, error) {
	args := m.Called(ctx, eventID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.JudgeUploadResult), args.Error(1)
}

func (m *MockUploads) UploadPosters(ctx context.Context, eventID uuid.UUID, r io.Reader) (*service.PosterUploadResult, error) {
	args := m.Called(ctx, eventID, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PosterUploadResult), args.Error(1)
}

func (m *MockUploads) Status(ctx context.Context, eventID uuid.UUID) (*service.UploadStatus, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadStatus), args.Error(1)
}

// ============================================================================
// MockAssignments
// ============================================================================

type MockAssignments struct {
	mock.Mock
}

func (m *MockAssignments) GetByEvent(ctx context.Context, eventID uuid.UUID) (*service.EventAssignments, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.EventAssignments), args.Error(1)
}

func (m *MockAssignments) CreateBulk(ctx context.Context, eventID uuid.UUID, inputs []service.AssignmentInput) (int64, error) {
	args := m.Called(ctx, eventID, inputs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAssignments) AutoAssign(ctx context.Context, eventID uuid.UUID) (*service.AutoAssignResult, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AutoAssignResult), args.Error(1)
}

// ============================================================================
// MockJudgePortal
// ============================================================================

type MockJudgePortal struct {
	mock.Mock
}

func (m *MockJudgePortal) GetAssignments(ctx context.Context, netID, code string) (*service.PortalAssignments, error) {
	args := m.Called(ctx, netID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PortalAssignments), args.Error(1)
}

func (m *MockJudgePortal) SubmitEvaluation(ctx context.Context, input service.EvaluationInput) (*entity.Evaluation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Evaluation), args.Error(1)
}

// ============================================================================
// MockScores
// ============================================================================

type MockScores struct {
	mock.Mock
}

func (m *MockScores) RunScoring(ctx context.Context, eventID uuid.UUID) (*scoring.Report, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scoring.Report), args.Error(1)
}

func (m *MockScores) GetScoresAndRanks(ctx context.Context, eventID uuid.UUID) ([]scoring.ScoreEntry, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]scoring.ScoreEntry), args.Error(1)
}

func (m *MockScores) RankedPosters(ctx context.Context, eventID uuid.UUID) ([]service.RankedPosterView, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.RankedPosterView), args.Error(1)
}

// ============================================================================
// MockTokenParser
// ============================================================================

type MockTokenParser struct {
	mock.Mock
}

func (m *MockTokenParser) ParseToken(tokenString string) (*auth.JWTCustomClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.JWTCustomClaims), args.Error(1)
}
