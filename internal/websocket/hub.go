package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
)

type eventMessage struct {
	eventID uuid.UUID
	payload []byte
}

// Hub раздает обновления рейтинга клиентам, подписанным на мероприятие.
// Все изменения комнат выполняются в одной горутине Run.
type Hub struct {
	rooms      map[uuid.UUID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan eventMessage
	done       chan struct{}
	observer   ConnectionObserver
	clients    atomic.Int64
}

// NewHub создает хаб. observer может быть nil.
func NewHub(observer ConnectionObserver) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan eventMessage, 64),
		done:       make(chan struct{}),
		observer:   observer,
	}
}

// Run обрабатывает регистрацию клиентов и рассылку до отмены ctx
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.handleRegister(client)
		case client := <-h.unregister:
			h.handleUnregister(client)
		case msg := <-h.broadcast:
			h.handleBroadcast(msg)
		case <-ctx.Done():
			log.Printf("[Hub] Получен сигнал завершения работы, отключаем %d клиентов", h.ClientCount())
			h.closeAll()
			return
		}
	}
}

// BroadcastToEvent сериализует v и ставит его в очередь на рассылку подписчикам мероприятия
func (h *Hub) BroadcastToEvent(eventID uuid.UUID, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal websocket message: %w", err)
	}
	select {
	case h.broadcast <- eventMessage{eventID: eventID, payload: payload}:
		return nil
	case <-h.done:
		return fmt.Errorf("websocket hub is stopped")
	}
}

// ClientCount возвращает количество подключенных клиентов
func (h *Hub) ClientCount() int {
	return int(h.clients.Load())
}

func (h *Hub) registerClient(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) unregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) handleRegister(c *Client) {
	room, ok := h.rooms[c.EventID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.EventID] = room
	}
	room[c] = struct{}{}
	h.clients.Add(1)
	if h.observer != nil {
		h.observer.WSConnected()
	}
}

func (h *Hub) handleUnregister(c *Client) {
	room, ok := h.rooms[c.EventID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	h.remove(room, c)
}

func (h *Hub) remove(room map[*Client]struct{}, c *Client) {
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.EventID)
	}
	c.closeSend()
	h.clients.Add(-1)
	if h.observer != nil {
		h.observer.WSDisconnected()
	}
}

func (h *Hub) handleBroadcast(msg eventMessage) {
	room := h.rooms[msg.eventID]
	for c := range room {
		select {
		case c.send <- msg.payload:
		default:
			// Медленный клиент отключается, чтобы не задерживать остальных
			log.Printf("[Hub] Буфер клиента %s переполнен, отключаем", c.ConnectionID)
			h.remove(room, c)
		}
	}
}

func (h *Hub) closeAll() {
	for _, room := range h.rooms {
		for c := range room {
			h.remove(room, c)
		}
	}
}
