package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingObserver struct {
	connected    atomic.Int32
	disconnected atomic.Int32
}

func (o *countingObserver) WSConnected()    { o.connected.Add(1) }
func (o *countingObserver) WSDisconnected() { o.disconnected.Add(1) }

// startServer поднимает HTTP сервер, подписывающий клиентов на eventID из query
func startServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventID := uuid.MustParse(r.URL.Query().Get("event"))
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, conn, eventID).StartPumps()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, eventID uuid.UUID) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?event=" + eventID.String()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_BroadcastReachesOnlyEventSubscribers(t *testing.T) {
	// Arrange
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	observer := &countingObserver{}
	hub := NewHub(observer)
	go hub.Run(ctx)
	srv := startServer(t, hub)

	eventA, eventB := uuid.New(), uuid.New()
	subscriberA := dial(t, srv, eventA)
	subscriberB := dial(t, srv, eventB)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, 2*time.Second, 10*time.Millisecond)

	// Act
	require.NoError(t, hub.BroadcastToEvent(eventA, Message{Type: RANKINGS_UPDATED, EventID: eventA}))

	// Assert: подписчик A получает сообщение
	subscriberA.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := subscriberA.ReadMessage()
	require.NoError(t, err)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, RANKINGS_UPDATED, msg.Type)
	assert.Equal(t, eventA, msg.EventID)

	// Assert: подписчик B ничего не получает
	subscriberB.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	_, _, err = subscriberB.ReadMessage()
	assert.Error(t, err, "подписчик другого мероприятия не должен получать сообщение")
	assert.Equal(t, int32(2), observer.connected.Load())
}

func TestHub_UnregistersOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub(nil)
	go hub.Run(ctx)
	srv := startServer(t, hub)

	conn := dial(t, srv, uuid.New())
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastAfterStopFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()
	cancel()
	<-stopped

	// Буфер рассылки может принять сообщение, поэтому заполняем его до отказа
	var err error
	for i := 0; i < 100 && err == nil; i++ {
		err = hub.BroadcastToEvent(uuid.New(), Message{Type: RANKINGS_UPDATED})
	}
	assert.Error(t, err)
}
