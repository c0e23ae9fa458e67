package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/amimagid/ami-super-app/internal/upload"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WebSocket message types
const (
	// Client -> Server
	MsgTypePing = "ping"

	// Server -> Client
	MsgTypeConnected = "connected"
	MsgTypePong      = "pong"
	MsgTypeError     = "error"

	EventHealthImported = upload.EventImported
	EventHealthChanged  = "health:changed"
	EventTasksChanged   = "tasks:changed"
	EventWorkChanged    = "work:changed"
)

const (
	sendBuffer = 16
	writeWait  = 10 * time.Second
)

// WSMessage is the envelope of every websocket frame.
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans data-change events out to every connected websocket client.
type Hub struct {
	upgrader       websocket.Upgrader
	maxMessageSize int64
	log            *zap.Logger

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// NewHub creates an event hub. maxMessageSize bounds inbound frames; zero
// means no limit.
func NewHub(log *zap.Logger, maxMessageSize int64) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		maxMessageSize: maxMessageSize,
		log:            log.Named("ws"),
		clients:        make(map[*wsClient]struct{}),
	}
}

// Publish broadcasts an event. Clients whose buffer is full are dropped.
func (h *Hub) Publish(eventType string, payload any) {
	data, err := encodeMessage(eventType, payload)
	if err != nil {
		h.log.Error("failed to encode event", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			h.log.Warn("dropping slow client")
			delete(h.clients, cl)
			close(cl.send)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for cl := range h.clients {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// HandleWebSocket upgrades the connection and serves it until the client
// goes away.
func (h *Hub) HandleWebSocket(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	if h.maxMessageSize > 0 {
		conn.SetReadLimit(h.maxMessageSize)
	}

	cl := &wsClient{conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(cl)
	h.log.Debug("client connected", zap.String("remote", c.RealIP()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writeLoop(cl)
	}()

	if data, err := encodeMessage(MsgTypeConnected, nil); err == nil {
		h.trySend(cl, data)
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("connection error", zap.Error(err))
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			if data, err := encodeMessage(MsgTypePong, nil); err == nil {
				h.trySend(cl, data)
			}
		default:
			if data, err := encodeMessage(MsgTypeError, map[string]string{
				"message": "Unknown message type: " + msg.Type,
				"code":    "INVALID_TYPE",
			}); err == nil {
				h.trySend(cl, data)
			}
		}
	}

	h.unregister(cl)
	<-done
	h.log.Debug("client disconnected")
	return nil
}

// writeLoop is the only writer on the connection. It closes the
// connection when the send channel is closed.
func (h *Hub) writeLoop(cl *wsClient) {
	defer cl.conn.Close()
	for data := range cl.send {
		cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("write failed", zap.Error(err))
			h.unregister(cl)
			for range cl.send {
			}
			return
		}
	}
	cl.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

func (h *Hub) register(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[cl] = struct{}{}
}

func (h *Hub) unregister(cl *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}

// trySend queues a direct reply; it is a no-op for a dropped client.
func (h *Hub) trySend(cl *wsClient, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	select {
	case cl.send <- data:
	default:
	}
}

func encodeMessage(msgType string, payload any) ([]byte, error) {
	msg := WSMessage{Type: msgType, Timestamp: time.Now().UnixMilli()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		msg.Payload = raw
	}
	return json.Marshal(msg)
}
