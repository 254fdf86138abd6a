// Package router owns only identity and turn validation, mapping
// external requests onto the boardgame.Game and lobby.Record they
// target (spec.md §2's "Router layer" row). HTTP/websocket wire
// concerns stay in the delivery packages; engine rule enforcement
// stays in boardgame.
package router

import (
	"errors"

	"acquire-server/internal/apperrors"
	"acquire-server/internal/boardgame"
	"acquire-server/internal/lobby"
)

// MaxPurchasesPerTurn caps a single buy-stocks submission, per
// spec.md §4.2.
const MaxPurchasesPerTurn = 3

// Router resolves lobby/game identifiers and enforces caller identity
// before a request reaches the engine.
type Router struct {
	Lobbies *lobby.Manager
}

func New(lobbies *lobby.Manager) *Router {
	return &Router{Lobbies: lobbies}
}

// ResolveLobby looks up id, returning a not-found apperror if absent.
func (rt *Router) ResolveLobby(id string) (*lobby.Record, error) {
	rec, ok := rt.Lobbies.Get(id)
	if !ok {
		return nil, apperrors.NotFound("lobby not found")
	}
	return rec, nil
}

// RequireMember verifies username is seated in rec's lobby. Caller
// must hold rec's lock.
func (rt *Router) RequireMember(rec *lobby.Record, username string) error {
	if username == "" {
		return apperrors.Unauthorized("missing username")
	}
	for _, p := range rec.Lobby.Players {
		if p == username {
			return nil
		}
	}
	return apperrors.Unauthorized("not a lobby member")
}

// RequireHost verifies username is the current host (players[0]).
// Caller must hold rec's lock.
func (rt *Router) RequireHost(rec *lobby.Record, username string) error {
	if len(rec.Lobby.Players) == 0 || rec.Lobby.Players[0] != username {
		return apperrors.Forbidden("host only")
	}
	return nil
}

// RequireGame returns rec's Game or a not-found error if the game has
// not started yet. Caller must hold rec's lock.
func (rt *Router) RequireGame(rec *lobby.Record) (*boardgame.Game, error) {
	if rec.Game == nil {
		return nil, apperrors.NotFound("game not started")
	}
	return rec.Game, nil
}

// TruncatePurchases enforces MaxPurchasesPerTurn at the request
// boundary before the batch ever reaches StockMarket.BuyBatch.
func TruncatePurchases(reqs []boardgame.BuyRequest) []boardgame.BuyRequest {
	if len(reqs) <= MaxPurchasesPerTurn {
		return reqs
	}
	return reqs[:MaxPurchasesPerTurn]
}

// TranslateGameError maps a boardgame sentinel error onto the
// client-visible apperrors taxonomy (spec.md §7's "state" kind).
func TranslateGameError(err error) *apperrors.Error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, boardgame.ErrUnknownPlayer):
		return apperrors.Unauthorized(err.Error())
	case errors.Is(err, boardgame.ErrNotYourTurn),
		errors.Is(err, boardgame.ErrWrongState),
		errors.Is(err, boardgame.ErrInvalidTile),
		errors.Is(err, boardgame.ErrInvalidCorp),
		errors.Is(err, boardgame.ErrInvalidDeal),
		errors.Is(err, boardgame.ErrMergeNotDone):
		return apperrors.State(err.Error())
	default:
		return apperrors.Internal(err)
	}
}

// TranslateLobbyError maps a lobby-package sentinel error.
func TranslateLobbyError(err error) *apperrors.Error {
	switch {
	case err == nil:
		return nil
	case lobby.IsConflict(err):
		return apperrors.Conflict(err.Error())
	case lobby.IsFull(err):
		return apperrors.New(apperrors.CodeUnauthorized, err.Error())
	case errors.Is(err, lobby.ErrAtCapacity), errors.Is(err, lobby.ErrTooManyActive):
		return apperrors.Capacity(err.Error())
	case errors.Is(err, lobby.ErrNotFound):
		return apperrors.NotFound(err.Error())
	default:
		return apperrors.Internal(err)
	}
}
