package handler

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/cuse-rank-api/internal/domain/entity"
	"github.com/yourusername/cuse-rank-api/internal/handler/dto"
	"github.com/yourusername/cuse-rank-api/internal/middleware"
	"github.com/yourusername/cuse-rank-api/internal/service"
)

// Accounts - операции с учетными записями организаторов
type Accounts interface {
	RegisterUser(ctx context.Context, input service.RegisterInput) (*entity.User, error)
	LoginUser(ctx context.Context, email, password string) (*service.AuthResponse, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*entity.User, error)
	ListOrganizers(ctx context.Context) ([]entity.User, error)
}

// AuthHandler обрабатывает запросы, связанные с аутентификацией
type AuthHandler struct {
	accounts Accounts
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(accounts Accounts) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// RegisterRequest представляет запрос на регистрацию
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register обрабатывает запрос на регистрацию организатора
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.accounts.RegisterUser(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}

	log.Printf("[AuthHandler] Пользователь ID=%s (%s) успешно зарегистрирован", user.ID, user.Email)
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login обрабатывает запрос на вход
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.accounts.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":       resp.User,
		"token":      resp.Token,
		"token_type": "Bearer",
		"expires_at": resp.ExpiresAt,
	})
}

// Me возвращает текущего пользователя
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.accounts.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// ListOrganizers возвращает организаторов (только администратор)
// GET /api/organizers
func (h *AuthHandler) ListOrganizers(c *gin.Context) {
	users, err := h.accounts.ListOrganizers(c.Request.Context())
	if err != nil {
		respondError(c, "AuthHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"organizers": dto.NewOrganizerList(users)})
}
