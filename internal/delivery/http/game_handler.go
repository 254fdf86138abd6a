package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"acquire-server/internal/apperrors"
	"acquire-server/internal/boardgame"
	"acquire-server/internal/delivery/dto"
	"acquire-server/internal/lobby"
	"acquire-server/internal/logger"
	"acquire-server/internal/router"
)

// GameHandler implements spec.md §6.1's in-game routes. Every handler
// resolves the owning lobby.Record, locks it for the duration of the
// mutation, and translates boardgame sentinel errors through
// router.TranslateGameError before they reach the wire.
type GameHandler struct {
	BaseHandler
	lobbies    *lobby.Manager
	router     *router.Router
	newShuffle func() boardgame.ShuffleFunc
	pushStatus func(lobbyID string)
}

// NewGameHandler wires pushStatus as an injected callback rather than
// importing the websocket package directly, so this package stays
// free of any realtime-transport dependency (spec.md §2's layering).
// pushStatus may be nil when realtime fan-out is not wired.
func NewGameHandler(lobbies *lobby.Manager, rt *router.Router, newShuffle func() boardgame.ShuffleFunc, pushStatus func(lobbyID string)) *GameHandler {
	return &GameHandler{BaseHandler: NewBaseHandler(), lobbies: lobbies, router: rt, newShuffle: newShuffle, pushStatus: pushStatus}
}

func (h *GameHandler) notify(lobbyID string) {
	if h.pushStatus != nil {
		h.pushStatus(lobbyID)
	}
}

// resolveMember resolves id's record and verifies username is seated
// in it, leaving the record locked on success.
func (h *GameHandler) resolveMember(c *gin.Context) (*lobby.Record, string, bool) {
	id := c.Param("id")
	rec, err := h.router.ResolveLobby(id)
	if err != nil {
		h.Fail(c, err)
		return nil, "", false
	}
	username := usernameFromCookie(c)
	rec.Lock()
	if err := h.router.RequireMember(rec, username); err != nil {
		rec.Unlock()
		h.Fail(c, err)
		return nil, "", false
	}
	return rec, username, true
}

// Start handles POST /game/{id}/start: the host begins the game once
// enough players have joined, per spec.md §4.6.
func (h *GameHandler) Start(c *gin.Context) {
	rec, username, ok := h.resolveMember(c)
	if !ok {
		return
	}

	if err := h.router.RequireHost(rec, username); err != nil {
		rec.Unlock()
		h.Fail(c, err)
		return
	}
	if rec.Game != nil {
		rec.Unlock()
		h.Fail(c, apperrors.Conflict("game already started"))
		return
	}
	if len(rec.Lobby.Players) < rec.Lobby.Size.Min {
		rec.Unlock()
		h.Fail(c, apperrors.Validation("not enough players to start"))
		return
	}

	g := boardgame.NewGame(rec.Lobby.Players, h.newShuffle())
	if err := h.lobbies.AttachGame(rec.ID, g); err != nil {
		rec.Unlock()
		h.Fail(c, router.TranslateLobbyError(err))
		return
	}
	rec.Lobby.Expire(rec.Lobby.LastActivityAt)
	rec.Unlock()

	h.notify(rec.ID)
	c.JSON(http.StatusOK, dto.GameStatus(g, username))
}

// Status handles GET /game/{id}/status.
func (h *GameHandler) Status(c *gin.Context) {
	rec, username, ok := h.resolveMember(c)
	if !ok {
		return
	}
	defer rec.Unlock()

	g, err := h.router.RequireGame(rec)
	if err != nil {
		h.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GameStatus(g, username))
}

// EndResult handles GET /game/{id}/end-result.
func (h *GameHandler) EndResult(c *gin.Context) {
	rec, _, ok := h.resolveMember(c)
	if !ok {
		return
	}
	defer rec.Unlock()

	g, err := h.router.RequireGame(rec)
	if err != nil {
		h.Fail(c, err)
		return
	}
	if g.SM.Current() != boardgame.StateGameEnd {
		h.Fail(c, apperrors.State("game has not ended"))
		return
	}
	c.JSON(http.StatusOK, dto.EndResult(g))
	h.lobbies.MarkFinished(rec.ID)
}

type placeTileRequest struct {
	Position dto.PositionDTO `json:"position"`
}

// PlaceTile handles POST /game/{id}/tile.
func (h *GameHandler) PlaceTile(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		var req placeTileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return apperrors.Validation("invalid position")
		}
		return g.PlaceTile(username, boardgame.Position{Row: req.Position.Row, Col: req.Position.Col})
	})
}

type establishRequest struct {
	Corporation string `json:"corporation"`
}

// Establish handles POST /game/{id}/establish.
func (h *GameHandler) Establish(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		var req establishRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Corporation == "" {
			return apperrors.Validation("missing corporation")
		}
		return g.Establish(username, boardgame.CorporationID(req.Corporation))
	})
}

type buyStocksRequest struct {
	Purchases []string `json:"purchases"`
}

// BuyStocks handles POST /game/{id}/buy-stocks.
func (h *GameHandler) BuyStocks(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		var req buyStocksRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return apperrors.Validation("invalid purchases")
		}
		reqs := make([]boardgame.BuyRequest, len(req.Purchases))
		for i, corp := range req.Purchases {
			reqs[i] = boardgame.BuyRequest{Corporation: boardgame.CorporationID(corp)}
		}
		return g.BuyStocks(username, router.TruncatePurchases(reqs))
	})
}

// EndTurn handles POST /game/{id}/end-turn.
func (h *GameHandler) EndTurn(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		return g.EndTurn(username)
	})
}

type resolveConflictRequest struct {
	Acquirer string `json:"acquirer"`
	Defunct  string `json:"defunct"`
}

// ResolveConflict handles POST /game/{id}/merger/resolve-conflict.
func (h *GameHandler) ResolveConflict(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		var req resolveConflictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return apperrors.Validation("invalid conflict resolution")
		}
		return g.ResolveConflict(username, boardgame.CorporationID(req.Acquirer), boardgame.CorporationID(req.Defunct))
	})
}

type resolveAcquirerRequest struct {
	Acquirer string `json:"acquirer"`
}

// ResolveAcquirer handles POST /game/{id}/merger/resolve-acquirer.
func (h *GameHandler) ResolveAcquirer(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		var req resolveAcquirerRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Acquirer == "" {
			return apperrors.Validation("missing acquirer")
		}
		return g.ResolveAcquirer(username, boardgame.CorporationID(req.Acquirer))
	})
}

type confirmDefunctRequest struct {
	Defunct string `json:"defunct"`
}

// ConfirmDefunct handles POST /game/{id}/merger/confirm-defunct.
func (h *GameHandler) ConfirmDefunct(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		var req confirmDefunctRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Defunct == "" {
			return apperrors.Validation("missing defunct corporation")
		}
		return g.ConfirmDefunct(username, boardgame.CorporationID(req.Defunct))
	})
}

type mergerDealRequest struct {
	Sell  int `json:"sell"`
	Trade int `json:"trade"`
}

// SubmitMergerDeal handles POST /game/{id}/merger/deal.
func (h *GameHandler) SubmitMergerDeal(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		var req mergerDealRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return apperrors.Validation("invalid deal")
		}
		return g.SubmitMergerDeal(username, boardgame.MergerDeal{Sell: req.Sell, Trade: req.Trade})
	})
}

// EndMergerTurn handles POST /game/{id}/merger/end-turn: the current
// shareholder passes without submitting a deal.
func (h *GameHandler) EndMergerTurn(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		return g.EndMergerTurn(username)
	})
}

// EndMerge handles POST /game/{id}/end-merge.
func (h *GameHandler) EndMerge(c *gin.Context) {
	h.mutate(c, func(g *boardgame.Game, username string) error {
		return g.EndMerge(username)
	})
}

// mutate centralizes the resolve-lock-apply-respond sequence every
// in-game action shares.
func (h *GameHandler) mutate(c *gin.Context, apply func(g *boardgame.Game, username string) error) {
	rec, username, ok := h.resolveMember(c)
	if !ok {
		return
	}

	g, err := h.router.RequireGame(rec)
	if err != nil {
		rec.Unlock()
		h.Fail(c, err)
		return
	}
	applyErr := apply(g, username)
	rec.Unlock()
	if applyErr != nil {
		h.Fail(c, router.TranslateGameError(applyErr))
		return
	}
	h.lobbies.TouchGameActivity(rec.ID)
	logger.WithGame(rec.ID).Debug("game mutation applied", zap.String("username", username))

	h.notify(rec.ID)
	c.JSON(http.StatusOK, dto.GameStatus(g, username))
}
