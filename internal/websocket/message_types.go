package websocket

import "github.com/google/uuid"

// Типы сообщений для подписчиков рейтинга
const (
	// RANKINGS_UPDATED сообщает о пересчете рейтинга мероприятия
	RANKINGS_UPDATED = "rankings_updated"
)

// Message - конверт сообщения, отправляемого клиентам
type Message struct {
	Type    string      `json:"type"`
	EventID uuid.UUID   `json:"event_id"`
	Data    interface{} `json:"data,omitempty"`
}
