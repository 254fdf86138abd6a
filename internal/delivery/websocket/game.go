package websocket

import (
	"acquire-server/internal/boardgame"
	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/lobby"
)

const (
	messageTypeGameStatus = "game:status"
	messageTypeGameEnd    = "game:end"
)

// GameBroadcaster pushes a per-viewer game snapshot to every member of
// a /game/:id room whenever PushStatus is called by the HTTP layer
// after a mutating action, replacing client-side polling of
// GET /game/{id}/status. Grounded on the teacher's game_hub.go, which
// plays the same "push full state after every mutation" role for the
// original delivery stack.
type GameBroadcaster struct {
	lobbies *lobby.Manager
}

func NewGameBroadcaster(lobbies *lobby.Manager) *GameBroadcaster {
	return &GameBroadcaster{lobbies: lobbies}
}

func (b *GameBroadcaster) OnJoin(h *Hub, conn *Connection) {
	b.pushStatus(h, conn.Room)
}

func (b *GameBroadcaster) OnMessage(h *Hub, conn *Connection, msg dto.WebSocketMessage) {
	// The game namespace is push-only; every mutation arrives over HTTP.
}

func (b *GameBroadcaster) OnLeave(h *Hub, conn *Connection) {}

func (b *GameBroadcaster) pushStatus(h *Hub, lobbyID string) {
	rec, ok := b.lobbies.Get(lobbyID)
	if !ok {
		return
	}
	rec.Lock()
	g := rec.Game
	rec.Unlock()
	if g == nil {
		return
	}

	h.BroadcastPerConnection(lobbyID, func(username string) dto.WebSocketMessage {
		return dto.WebSocketMessage{Type: messageTypeGameStatus, Payload: dto.GameStatus(g, username)}
	})

	if g.SM.Current() == boardgame.StateGameEnd {
		h.Broadcast(lobbyID, dto.WebSocketMessage{
			Type:    messageTypeGameEnd,
			Payload: dto.GameEndPayload{Result: dto.EndResult(g)},
		})
	}
}

// PushStatus is the entry point HTTP handlers call after a successful
// mutation so every connected player sees the new state immediately.
func (b *GameBroadcaster) PushStatus(h *Hub, lobbyID string) {
	b.pushStatus(h, lobbyID)
}
