package websocket

import "github.com/google/uuid"

// Broadcaster рассылает сообщения подписчикам мероприятия
type Broadcaster interface {
	BroadcastToEvent(eventID uuid.UUID, v interface{}) error
}

// ConnectionObserver получает уведомления о подключении и отключении клиентов
type ConnectionObserver interface {
	WSConnected()
	WSDisconnected()
}
