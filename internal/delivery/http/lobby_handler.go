package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"acquire-server/internal/apperrors"
	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/lobby"
	"acquire-server/internal/router"
)

// LobbyHandler implements spec.md §6.1's lobby-lifecycle routes.
type LobbyHandler struct {
	BaseHandler
	lobbies *lobby.Manager
	router  *router.Router
}

func NewLobbyHandler(lobbies *lobby.Manager, rt *router.Router) *LobbyHandler {
	return &LobbyHandler{BaseHandler: NewBaseHandler(), lobbies: lobbies, router: rt}
}

// ListLobbies handles GET /list.
func (h *LobbyHandler) ListLobbies(c *gin.Context) {
	summaries := h.lobbies.ListLobbies()
	resp := dto.ListLobbiesResponse{Lobbies: make([]dto.LobbySummaryDTO, len(summaries))}
	for i, s := range summaries {
		resp.Lobbies[i] = dto.LobbySummaryDTO{
			ID:          s.ID,
			Host:        s.Host,
			PlayerCount: s.PlayerCount,
			MaxPlayers:  s.MaxPlayers,
			IsFull:      s.IsFull,
			CreatedAt:   s.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

type hostRequest struct {
	Username string `json:"username"`
}

// Host handles POST /host.
func (h *LobbyHandler) Host(c *gin.Context) {
	var req hostRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		h.Fail(c, apperrors.Validation("missing or empty username"))
		return
	}

	rec, err := h.lobbies.CreateLobby(req.Username, lobby.DefaultSize)
	if err != nil {
		h.Fail(c, router.TranslateLobbyError(err))
		return
	}

	setIdentityCookies(c, req.Username, rec.ID)
	c.JSON(http.StatusCreated, dto.HostResponse{LobbyID: rec.ID})
}

type joinRequest struct {
	Username string `json:"username"`
}

// JoinLobby handles POST /lobby/{id}/players.
func (h *LobbyHandler) JoinLobby(c *gin.Context) {
	id := c.Param("id")
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		h.Fail(c, apperrors.Validation("missing or empty username"))
		return
	}

	rec, err := h.router.ResolveLobby(id)
	if err != nil {
		h.Fail(c, err)
		return
	}

	rec.Lock()
	err = rec.Lobby.Join(req.Username, time.Now())
	rec.Unlock()
	if err != nil {
		h.Fail(c, router.TranslateLobbyError(err))
		return
	}

	setIdentityCookies(c, req.Username, id)
	c.Redirect(http.StatusFound, "/lobby/"+id)
}

// LobbyStatus handles GET /lobby/{id}/status.
func (h *LobbyHandler) LobbyStatus(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.router.ResolveLobby(id)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	username := usernameFromCookie(c)
	rec.Lock()
	if err := h.router.RequireMember(rec, username); err != nil {
		rec.Unlock()
		c.Redirect(http.StatusFound, "/")
		return
	}
	status := rec.Lobby.Status(username)
	rec.Unlock()

	c.JSON(http.StatusOK, dto.LobbyStatusResponse{
		Players:           status.Players,
		IsFull:            status.IsFull,
		HasExpired:        status.HasExpired,
		IsPossibleToStart: status.IsPossibleToStart,
		Host:              status.Host,
		Self:              status.Self,
	})
}

// LeaveLobby handles POST /lobby/{id}/leave.
func (h *LobbyHandler) LeaveLobby(c *gin.Context) {
	id := c.Param("id")
	username := usernameFromCookie(c)

	rec, err := h.router.ResolveLobby(id)
	if err != nil {
		h.Fail(c, err)
		return
	}

	rec.Lock()
	if rec.Game != nil {
		rec.Unlock()
		h.Fail(c, apperrors.Validation("cannot leave after the game has started"))
		return
	}
	rec.Lobby.Leave(username, time.Now())
	rec.Unlock()

	clearIdentityCookies(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
