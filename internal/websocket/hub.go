package websocket

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/healspace/server/internal/auth"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Hub maintains the set of connected clients keyed by their anonymous
// subject ID and pushes match/session events to them. It implements
// usecase.EventPublisher.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if old, ok := h.clients[client.subjectID]; ok {
				old.closeSend()
			}
			h.clients[client.subjectID] = client
			h.mu.Unlock()
			h.logger.Info("Client registered", zap.String("subjectID", client.subjectID))

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.subjectID]; ok && current == client {
				delete(h.clients, client.subjectID)
				client.closeSend()
			}
			h.mu.Unlock()
			h.logger.Info("Client unregistered", zap.String("subjectID", client.subjectID))
		}
	}
}

// Publish implements usecase.EventPublisher. A subject with no connected
// client simply misses the event; the REST surface remains authoritative.
func (h *Hub) Publish(subjectID string, eventType string, payload interface{}) {
	h.mu.RLock()
	client, ok := h.clients[subjectID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := NewEvent(eventType, payload).Marshal()
	if err != nil {
		h.logger.Error("Failed to marshal event",
			zap.String("type", eventType),
			zap.Error(err))
		return
	}

	if !client.enqueue(data) {
		h.logger.Warn("Dropping event for slow or disconnected client",
			zap.String("subjectID", subjectID),
			zap.String("type", eventType))
	}
}

// Client is a middleman between one websocket connection and the hub
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	subjectID string
	logger    *zap.Logger

	// mu guards send and closed so a publish can never race the channel
	// close that happens on reconnect or unregister.
	mu     sync.Mutex
	send   chan []byte
	closed bool
}

// enqueue queues a message for the write pump. It reports false when the
// client is gone or its buffer is full.
func (c *Client) enqueue(message []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		return false
	}
}

// closeSend shuts the send channel exactly once
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// HandleWebSocket upgrades the connection after validating the caller's
// anonymous token (Authorization header or token query parameter).
func HandleWebSocket(hub *Hub, c echo.Context, logger *zap.Logger) error {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}
	if token == "" {
		token = c.QueryParam("token")
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		logger.Warn("WebSocket auth failed", zap.Error(err))
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed", zap.Error(err))
		return err
	}

	client := &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 64),
		subjectID: claims.SubjectID,
		logger:    logger,
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}

// readPump drains the connection; clients only receive, so inbound
// messages beyond pings are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump pumps events from the hub to the websocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
