package websocket

import (
	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/lobby"
)

const messageTypeLobbyUpdate = "lobby:update"

// LobbyBroadcaster reacts to presence changes on the /lobby namespace
// by pushing the lobby's current status to every connected member,
// replacing HTTP polling of GET /lobby/{id}/status once a socket is
// open. Grounded on the teacher's hello_hub.go pattern of a thin
// handler delegating straight to a service lookup.
type LobbyBroadcaster struct {
	lobbies *lobby.Manager
}

func NewLobbyBroadcaster(lobbies *lobby.Manager) *LobbyBroadcaster {
	return &LobbyBroadcaster{lobbies: lobbies}
}

func (b *LobbyBroadcaster) OnJoin(h *Hub, conn *Connection) {
	b.pushStatus(h, conn.Room)
}

func (b *LobbyBroadcaster) OnMessage(h *Hub, conn *Connection, msg dto.WebSocketMessage) {
	// The lobby namespace is push-only; clients send nothing meaningful.
}

func (b *LobbyBroadcaster) OnLeave(h *Hub, conn *Connection) {
	b.pushStatus(h, conn.Room)
}

func (b *LobbyBroadcaster) pushStatus(h *Hub, lobbyID string) {
	rec, ok := b.lobbies.Get(lobbyID)
	if !ok {
		return
	}
	rec.Lock()
	status := rec.Lobby.Status("")
	rec.Unlock()

	h.Broadcast(lobbyID, dto.WebSocketMessage{
		Type: messageTypeLobbyUpdate,
		Payload: dto.LobbyStatusResponse{
			Players:           status.Players,
			IsFull:            status.IsFull,
			HasExpired:        status.HasExpired,
			IsPossibleToStart: status.IsPossibleToStart,
			Host:              status.Host,
		},
	})
}
