package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/cuse-rank-api/internal/middleware"
	"github.com/yourusername/cuse-rank-api/internal/websocket"
)

// WSHandler подписывает клиентов на обновления рейтинга мероприятия
type WSHandler struct {
	hub      *websocket.Hub
	tokens   middleware.TokenParser
	events   Events
	upgrader gorillaws.Upgrader
}

// NewWSHandler создает обработчик WebSocket. allowedOrigins синхронизирован с CORS.
func NewWSHandler(hub *websocket.Hub, tokens middleware.TokenParser, events Events, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &WSHandler{
		hub:    hub,
		tokens: tokens,
		events: events,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Не браузерный клиент (curl, скрипты)
				if origin == "" {
					return true
				}
				if _, ok := allowed[origin]; ok {
					return true
				}
				log.Printf("[WSHandler] Отклонен origin: %s", origin)
				return false
			},
		},
	}
}

// SubscribeRankings GET /ws/events/:eventId/rankings?token=
// Браузер не может передать заголовок Authorization при открытии WebSocket,
// поэтому JWT передается в query параметре token.
func (h *WSHandler) SubscribeRankings(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token parameter"})
		return
	}
	claims, err := h.tokens.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	eventID := middleware.UUIDFromContext(c, ContextEventID)
	if _, err := h.events.GetEvent(c.Request.Context(), eventID); err != nil {
		respondError(c, "WSHandler", err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade уже записал ответ клиенту
		log.Printf("[WSHandler] Ошибка upgrade соединения: %v", err)
		return
	}

	log.Printf("[WSHandler] Пользователь %s подписан на рейтинг мероприятия %s", claims.UserID, eventID)
	websocket.NewClient(h.hub, conn, eventID).StartPumps()
}
