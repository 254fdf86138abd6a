package websocket

import (
	"encoding/json"

	"go.uber.org/zap"

	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/logger"
)

const (
	messageTypeVoiceJoin         = "voice:join"
	messageTypeVoiceOffer        = "voice:offer"
	messageTypeVoiceAnswer       = "voice:answer"
	messageTypeVoiceIceCandidate = "voice:ice-candidate"
	messageTypeVoiceLeave        = "voice:leave"
	messageTypeVoiceRoomUsers    = "voice:room-users"
)

// VoiceSignaling relays WebRTC offer/answer/ICE-candidate messages
// between peers in the same /voice/:id room and maintains the room
// roster, per spec.md §4.8's signaling-relay-only scope (no media ever
// passes through the server). It never inspects SDP or candidate
// contents, only the TargetID addressing envelope.
type VoiceSignaling struct{}

func NewVoiceSignaling() *VoiceSignaling { return &VoiceSignaling{} }

func (v *VoiceSignaling) OnJoin(h *Hub, conn *Connection) {
	h.SendTo(conn, dto.WebSocketMessage{
		Type:    messageTypeVoiceJoin,
		Payload: dto.VoiceJoinAck{SocketID: conn.ID, RoomID: conn.Room},
	})
	v.broadcastRoster(h, conn.Room)
}

func (v *VoiceSignaling) OnLeave(h *Hub, conn *Connection) {
	h.Broadcast(conn.Room, dto.WebSocketMessage{
		Type:    messageTypeVoiceLeave,
		Payload: dto.VoiceUser{SocketID: conn.ID, Username: conn.Username},
	})
	v.broadcastRoster(h, conn.Room)
}

func (v *VoiceSignaling) OnMessage(h *Hub, conn *Connection, msg dto.WebSocketMessage) {
	switch msg.Type {
	case messageTypeVoiceOffer, messageTypeVoiceAnswer, messageTypeVoiceIceCandidate:
		v.relay(h, conn, msg)
	default:
		logger.Get().Warn("unhandled voice message type", zap.String("type", msg.Type))
	}
}

// relay decodes the addressed envelope and forwards the original
// message type and payload to the named target connection only.
func (v *VoiceSignaling) relay(h *Hub, from *Connection, msg dto.WebSocketMessage) {
	raw, err := json.Marshal(msg.Payload)
	if err != nil {
		return
	}
	var envelope dto.VoiceSignalPayload
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logger.Get().Warn("malformed voice signal payload", zap.Error(err))
		return
	}
	h.SendToConnectionID(from.Room, envelope.TargetID, dto.WebSocketMessage{
		Type: msg.Type,
		Payload: dto.VoiceSignalPayload{
			TargetID: from.ID,
			Payload:  envelope.Payload,
		},
	})
}

func (v *VoiceSignaling) broadcastRoster(h *Hub, room string) {
	h.Broadcast(room, dto.WebSocketMessage{
		Type:    messageTypeVoiceRoomUsers,
		Payload: dto.RoomUsersPayload{Users: v.roster(h, room)},
	})
}

func (v *VoiceSignaling) roster(h *Hub, room string) []dto.VoiceUser {
	peers := h.RoomPeers(room)
	out := make([]dto.VoiceUser, len(peers))
	for i, p := range peers {
		out[i] = dto.VoiceUser{SocketID: p.ID, Username: p.Username}
	}
	return out
}
