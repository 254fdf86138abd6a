// Package websocket implements the realtime fan-out and voice-signaling
// layer from spec.md §4.8: three namespaced rooms (lobby, game, voice)
// built on one generalized Hub, grounded on the teacher's
// internal/delivery/websocket/hub.go and connection.go but keyed by an
// arbitrary room string instead of a single gameID so the same Hub
// type serves all three namespaces.
package websocket

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/logger"
)

// inbound pairs a received message with the connection it arrived on.
type inbound struct {
	conn    *Connection
	message dto.WebSocketMessage
}

// outbound addresses a message at every connection in a room, or at
// one specific connection when target is set.
type outbound struct {
	room    string
	message dto.WebSocketMessage
	target  *Connection
}

// MessageHandler reacts to one namespace's inbound messages and to
// connections joining/leaving a room. Each namespace (lobby, game,
// voice) supplies its own implementation; the Hub itself stays
// transport-only, matching the teacher's separation of Hub (transport)
// from the hello/game-specific hub variants (hello_hub.go, game_hub.go).
type MessageHandler interface {
	OnJoin(h *Hub, conn *Connection)
	OnMessage(h *Hub, conn *Connection, msg dto.WebSocketMessage)
	OnLeave(h *Hub, conn *Connection)
}

// Hub maintains every live connection for one namespace, grouped by
// room, and serializes all registration/broadcast traffic through a
// single goroutine (Run), mirroring the teacher's Hub.Run select loop.
type Hub struct {
	handler MessageHandler

	// Namespace names which of the three channels (lobby, game, voice)
	// this Hub serves, tagged onto every connection's logger.
	Namespace string

	rooms       map[string]map[*Connection]bool
	connections map[*Connection]bool

	register   chan *Connection
	unregister chan *Connection
	inbound    chan inbound
	outbound   chan outbound

	mu  sync.RWMutex
	log *zap.Logger
}

// NewHub returns a Hub whose inbound traffic is dispatched to handler.
// namespace identifies this hub in logs (e.g. "lobby", "game", "voice").
func NewHub(handler MessageHandler, namespace string) *Hub {
	return &Hub{
		handler:     handler,
		Namespace:   namespace,
		rooms:       make(map[string]map[*Connection]bool),
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		inbound:     make(chan inbound, 64),
		outbound:    make(chan outbound, 64),
		log:         logger.Get(),
	}
}

// Run drives the hub until ctx is cancelled, exactly mirroring the
// teacher's context-cancellation-driven loop.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case conn := <-h.register:
			h.addConnection(conn)
		case conn := <-h.unregister:
			h.removeConnection(conn)
		case in := <-h.inbound:
			h.handler.OnMessage(h, in.conn, in.message)
		case out := <-h.outbound:
			h.deliver(out)
		}
	}
}

func (h *Hub) addConnection(conn *Connection) {
	h.mu.Lock()
	h.connections[conn] = true
	if h.rooms[conn.Room] == nil {
		h.rooms[conn.Room] = make(map[*Connection]bool)
	}
	h.rooms[conn.Room][conn] = true
	h.mu.Unlock()
	h.log.Info("websocket connection joined", zap.String("room", conn.Room), zap.String("username", conn.Username))
	h.handler.OnJoin(h, conn)
}

func (h *Hub) removeConnection(conn *Connection) {
	h.mu.Lock()
	if _, ok := h.connections[conn]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.connections, conn)
	if room := h.rooms[conn.Room]; room != nil {
		delete(room, conn)
		if len(room) == 0 {
			delete(h.rooms, conn.Room)
		}
	}
	h.mu.Unlock()
	close(conn.send)
	h.log.Info("websocket connection left", zap.String("room", conn.Room), zap.String("username", conn.Username))
	h.handler.OnLeave(h, conn)
}

func (h *Hub) deliver(out outbound) {
	if out.target != nil {
		out.target.enqueue(out.message)
		return
	}
	h.mu.RLock()
	room := h.rooms[out.room]
	targets := make([]*Connection, 0, len(room))
	for c := range room {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		c.enqueue(out.message)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.connections {
		close(conn.send)
		conn.Conn.Close()
	}
	h.connections = make(map[*Connection]bool)
	h.rooms = make(map[string]map[*Connection]bool)
}

// Broadcast queues message for delivery to every connection in room.
func (h *Hub) Broadcast(room string, message dto.WebSocketMessage) {
	h.outbound <- outbound{room: room, message: message}
}

// SendTo queues message for delivery to a single connection.
func (h *Hub) SendTo(conn *Connection, message dto.WebSocketMessage) {
	h.outbound <- outbound{target: conn, message: message}
}

// RoomMembers returns the usernames currently connected to room.
func (h *Hub) RoomMembers(room string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := h.rooms[room]
	out := make([]string, 0, len(conns))
	for c := range conns {
		out = append(out, c.Username)
	}
	return out
}

// Peer identifies one connection for roster-style responses.
type Peer struct {
	ID       string
	Username string
}

// RoomPeers returns the (connection ID, username) pair for every
// connection currently in room.
func (h *Hub) RoomPeers(room string) []Peer {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := h.rooms[room]
	out := make([]Peer, 0, len(conns))
	for c := range conns {
		out = append(out, Peer{ID: c.ID, Username: c.Username})
	}
	return out
}

// SendToUsername queues message for the connection in room whose
// Username matches target, if any is currently connected there. Used
// by the voice namespace to relay an addressed offer/answer/ICE
// candidate to one peer.
func (h *Hub) SendToUsername(room, target string, message dto.WebSocketMessage) {
	h.mu.RLock()
	var dest *Connection
	for c := range h.rooms[room] {
		if c.Username == target {
			dest = c
			break
		}
	}
	h.mu.RUnlock()
	if dest != nil {
		h.SendTo(dest, message)
	}
}

// SendToConnectionID queues message for the connection in room whose
// ID matches target, if still connected there.
func (h *Hub) SendToConnectionID(room, target string, message dto.WebSocketMessage) {
	h.mu.RLock()
	var dest *Connection
	for c := range h.rooms[room] {
		if c.ID == target {
			dest = c
			break
		}
	}
	h.mu.RUnlock()
	if dest != nil {
		h.SendTo(dest, message)
	}
}

// BroadcastPerConnection queues a per-recipient message for every
// connection in room, built by build from that connection's Username.
// Used where the payload carries hidden information that differs by
// viewer (spec.md §4.7), unlike Broadcast's identical-payload fan-out.
func (h *Hub) BroadcastPerConnection(room string, build func(username string) dto.WebSocketMessage) {
	h.mu.RLock()
	conns := h.rooms[room]
	targets := make([]*Connection, 0, len(conns))
	for c := range conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	for _, c := range targets {
		h.SendTo(c, build(c.Username))
	}
}
