package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/domain/repository"
	apperrors "github.com/yourusername/cuse-rank-api/internal/pkg/errors"
)

const minPasswordLength = 8

var accountValidator = validator.New()

// TokenIssuer выпускает JWT для пользователя
type TokenIssuer interface {
	GenerateToken(userID uuid.UUID, email, role string) (string, time.Time, error)
}

// AuthService предоставляет методы для работы с аутентификацией и пользователями
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// RegisterInput содержит все данные для регистрации
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResponse содержит данные для ответа на запрос авторизации
type AuthResponse struct {
	User      *entity.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, tokens TokenIssuer) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if tokens == nil {
		return nil, fmt.Errorf("TokenIssuer is required for AuthService")
	}
	return &AuthService{userRepo: userRepo, tokens: tokens}, nil
}

// RegisterUser регистрирует нового организатора
func (s *AuthService) RegisterUser(ctx context.Context, input RegisterInput) (*entity.User, error) {
	input.Email = normalizeEmail(input.Email)
	input.Name = strings.TrimSpace(input.Name)

	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if err := accountValidator.Var(input.Email, "required,email,max=100"); err != nil {
		return nil, fmt.Errorf("%w: invalid email", apperrors.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	// Проверяем, существует ли пользователь с таким email
	_, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil {
		return nil, fmt.Errorf("%w: user with this email already exists", apperrors.ErrConflict)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}

	user := &entity.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     entity.RoleOrganizer,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован организатор ID=%s (%s)", user.ID, user.Email)
	return user, nil
}

// LoginUser аутентифицирует пользователя и выпускает токен доступа
func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := s.AuthenticateUser(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации токена для пользователя ID=%s: %v", user.ID, err)
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Пользователь ID=%s (%s) успешно вошел в систему", user.ID, user.Email)
	return &AuthResponse{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// AuthenticateUser проверяет учетные данные пользователя без создания токенов
func (s *AuthService) AuthenticateUser(ctx context.Context, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		log.Printf("[AuthService] Пользователь с email %s не найден", email)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	if !user.CheckPassword(password) {
		log.Printf("[AuthService] Неверный пароль для пользователя с email %s", email)
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return user, nil
}

// GetUserByID возвращает пользователя по ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// ListOrganizers возвращает всех пользователей с ролью организатора
func (s *AuthService) ListOrganizers(ctx context.Context) ([]entity.User, error) {
	users, err := s.userRepo.ListByRole(ctx, entity.RoleOrganizer)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizers: %w", err)
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
