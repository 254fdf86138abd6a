package dto

import (
	"acquire-server/internal/boardgame"
)

func positionDTO(p boardgame.Position) PositionDTO {
	return PositionDTO{Row: p.Row, Col: p.Col}
}

func sharesDTO(shares map[boardgame.CorporationID]int) map[string]int {
	out := make(map[string]int, len(shares))
	for id, n := range shares {
		if n > 0 {
			out[string(id)] = n
		}
	}
	return out
}

func corporationDTO(c *boardgame.Corporation) CorporationDTO {
	stats := c.Stats()
	return CorporationDTO{
		ID:              string(c.ID),
		Tier:            tierName(c.Tier),
		Active:          c.Active,
		Size:            c.Size,
		RemainingShares: c.RemainingShares,
		Safe:            c.Safe,
		Price:           stats.Price,
		MajorityBonus:   stats.MajorityBonus,
		MinorityBonus:   stats.MinorityBonus,
	}
}

func tierName(t boardgame.Tier) string {
	switch t {
	case boardgame.TierPremium:
		return "premium"
	case boardgame.TierStandard:
		return "standard"
	default:
		return "budget"
	}
}

func corpIDs(ids []boardgame.CorporationID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// GameStatus builds the per-caller snapshot for GET /game/{id}/status,
// per spec.md §4.7's rule that a player only ever sees their own hand
// and balance in full.
func GameStatus(g *boardgame.Game, forUsername string) GameStatusResponse {
	resp := GameStatusResponse{
		State: string(g.SM.Current()),
	}
	if len(g.Players) > 0 {
		resp.CurrentPlayer = g.Players[g.CurrentPlayer].Username
	}

	for pos, tile := range g.Board.AllPlaced() {
		resp.Board = append(resp.Board, PlacedTileDTO{
			Position:  positionDTO(pos),
			BelongsTo: string(tile.BelongsTo),
		})
	}

	for _, id := range boardgame.AllCorporations {
		if c := g.Ledger.Get(id); c != nil {
			resp.Corporations = append(resp.Corporations, corporationDTO(c))
		}
	}

	for _, p := range g.Players {
		if p.Username == forUsername {
			hand := make([]HandTileDTO, len(p.Hand))
			for i, t := range p.Hand {
				hand[i] = HandTileDTO{
					Position:     positionDTO(t.Position),
					Placed:       t.Placed,
					Exchangeable: t.Exchangeable,
				}
			}
			var refilled *PositionDTO
			if p.NewlyRefilledTile != nil {
				d := positionDTO(*p.NewlyRefilledTile)
				refilled = &d
			}
			resp.Self = SelfDTO{
				Username:          p.Username,
				Balance:           p.Balance,
				Hand:              hand,
				Shares:            sharesDTO(p.Shares),
				TakingTurn:        p.TakingTurn,
				NewlyRefilledTile: refilled,
			}
			continue
		}
		resp.Players = append(resp.Players, PublicPlayerDTO{
			Username:   p.Username,
			Shares:     sharesDTO(p.Shares),
			HandSize:   len(p.Hand),
			TakingTurn: p.TakingTurn,
		})
	}

	switch g.SM.Current() {
	case boardgame.StateMerge, boardgame.StateMergeConflict, boardgame.StateAcquirerSelection, boardgame.StateDefunctSelection:
		meta := g.SM.Meta()
		m := &MergerStateDTO{
			Acquirer:           string(meta.Acquirer),
			AcquirerCandidates: corpIDs(meta.AcquirerCandidates),
			Defunct:            string(meta.Defunct),
			DefunctsRemaining:  corpIDs(meta.DefunctsRemaining),
		}
		if g.Merger != nil {
			if sh := g.Merger.CurrentShareholder(); sh != nil {
				m.CurrentShareholder = sh.Username
			}
		}
		resp.Merger = m
	}

	if g.SM.Current() == boardgame.StateGameEnd {
		for _, r := range g.Ranking {
			resp.Ranking = append(resp.Ranking, RankedPlayerDTO{Username: r.Username, Balance: r.Balance})
		}
	}

	return resp
}

// EndResult builds GET /game/{id}/end-result's body.
func EndResult(g *boardgame.Game) EndResultResponse {
	resp := EndResultResponse{Bonuses: map[string]int{}}
	for _, r := range g.Ranking {
		resp.Players = append(resp.Players, RankedPlayerDTO{Username: r.Username, Balance: r.Balance})
	}
	return resp
}
