package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Connection is one upgraded socket, pinned to a single room within
// its Hub's namespace, grounded on the teacher's Connection
// (internal/delivery/websocket/connection.go) generalized from a
// GameID field to an arbitrary Room string.
type Connection struct {
	ID       string
	Username string
	Room     string

	Conn *websocket.Conn
	hub  *Hub
	send chan dto.WebSocketMessage
	log  *zap.Logger
}

func newConnection(conn *websocket.Conn, hub *Hub, username, room string) *Connection {
	id := uuid.NewString()
	return &Connection{
		ID:       id,
		Username: username,
		Room:     room,
		Conn:     conn,
		hub:      hub,
		send:     make(chan dto.WebSocketMessage, 32),
		log:      logger.WithSocket(hub.Namespace, id),
	}
}

func (c *Connection) enqueue(msg dto.WebSocketMessage) {
	select {
	case c.send <- msg:
	default:
		c.log.Warn("websocket send buffer full, dropping connection", zap.String("connection_id", c.ID))
		go func() { c.hub.unregister <- c }()
	}
}

func (c *Connection) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg dto.WebSocketMessage
		if err := c.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn("websocket read error", zap.Error(err), zap.String("connection_id", c.ID))
			}
			return
		}
		select {
		case c.hub.inbound <- inbound{conn: c, message: msg}:
		default:
			c.log.Warn("hub inbound channel full, dropping message", zap.String("connection_id", c.ID))
		}
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Serve upgrades an incoming gin request into a Connection in hub's
// namespace, attaches it to room under username, and blocks the
// calling goroutine (via readPump) until the socket closes.
func Serve(hub *Hub, c *gin.Context, username, room string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Get().Error("websocket upgrade failed", zap.Error(err))
		return
	}

	connection := newConnection(conn, hub, username, room)
	hub.register <- connection

	go connection.writePump()
	connection.readPump()
}

// Handler returns the gin route handler that upgrades a request into
// hub's room, named by the :id path parameter and identified by the
// caller's username cookie.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		room := c.Param("id")
		username, _ := c.Cookie("username")
		Serve(hub, c, username, room)
	}
}
