package boardgame

import "sort"

// MergerDeal is a shareholder's one submission during a merger: sell
// n shares at the defunct price, trade 2m shares for m acquirer
// shares (2:1, an odd residual share is discarded), and keep
// whatever is left over. Any amount left over after Sell+Trade is
// discarded once the defunct corporation is fully dissolved, since an
// inactive corporation's shares must be zero for every player
// (spec.md §8 invariant 2).
type MergerDeal struct {
	Sell  int
	Trade int
}

// MergerProcess drives the per-shareholder deal sub-loop for one or
// more defunct corporations being absorbed by a single acquirer, per
// spec.md §4.5. A multi-merge is modelled as a queue of defuncts
// processed smallest-to-largest; each defunct is fully resolved
// (bonuses, every shareholder's deal, tile reassignment) before the
// next begins.
type MergerProcess struct {
	Acquirer   CorporationID
	TriggerPos Position

	remaining map[CorporationID]bool

	CurrentDefunct CorporationID
	turnOrder      []*Player
	pending        []*Player
}

// NewMergerProcess starts a merge of defuncts into acquirer. turnOrder
// must already be rotated to start at the tile-placing player, per
// spec.md §4.5.
func NewMergerProcess(acquirer CorporationID, defuncts []CorporationID, turnOrder []*Player, triggerPos Position) *MergerProcess {
	remaining := make(map[CorporationID]bool, len(defuncts))
	for _, d := range defuncts {
		remaining[d] = true
	}
	return &MergerProcess{
		Acquirer:   acquirer,
		TriggerPos: triggerPos,
		remaining:  remaining,
		turnOrder:  turnOrder,
	}
}

// Done reports whether every defunct has been fully processed.
func (mp *MergerProcess) Done() bool {
	return len(mp.remaining) == 0
}

// NextDefunctTie returns every remaining defunct tied for the
// smallest size, when there is more than one such corporation — the
// ambiguity spec.md §4.5 resolves via a defunct-selection prompt. A
// single-element or empty result means no selection is needed.
func (mp *MergerProcess) NextDefunctTie(ledger *Ledger) []CorporationID {
	if len(mp.remaining) == 0 {
		return nil
	}
	ids := make([]CorporationID, 0, len(mp.remaining))
	for id := range mp.remaining {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	minSize := ledger.Get(ids[0]).Size
	for _, id := range ids[1:] {
		if s := ledger.Get(id).Size; s < minSize {
			minSize = s
		}
	}
	tied := make([]CorporationID, 0, len(ids))
	for _, id := range ids {
		if ledger.Get(id).Size == minSize {
			tied = append(tied, id)
		}
	}
	if len(tied) <= 1 {
		return nil
	}
	return tied
}

// StartNextDefunct begins processing a defunct corporation: choice
// selects it explicitly (after a defunct-selection prompt); otherwise
// the sole smallest remaining defunct is used. It distributes
// majority/minority bonuses on the defunct immediately and computes
// the ordered queue of shareholders who still need to submit a deal.
// It returns false if choice is invalid or a tie remains unresolved.
func (mp *MergerProcess) StartNextDefunct(ledger *Ledger, market *StockMarket, players []*Player, choice CorporationID) bool {
	if choice == "" {
		if tie := mp.NextDefunctTie(ledger); len(tie) > 0 {
			return false
		}
		for id := range mp.remaining {
			choice = id
			break
		}
		for id := range mp.remaining {
			if ledger.Get(id).Size < ledger.Get(choice).Size {
				choice = id
			}
		}
	}
	if !mp.remaining[choice] {
		return false
	}

	mp.CurrentDefunct = choice
	market.DistributeBonuses(choice, players)

	mp.pending = mp.pending[:0]
	for _, p := range mp.turnOrder {
		if p.Shares[choice] > 0 {
			mp.pending = append(mp.pending, p)
		}
	}
	return true
}

// CurrentShareholder returns the next player who must submit a deal
// for the current defunct, or nil once all have acted.
func (mp *MergerProcess) CurrentShareholder() *Player {
	if len(mp.pending) == 0 {
		return nil
	}
	return mp.pending[0]
}

// SubmitDeal applies player's deal against the current defunct and
// advances the shareholder queue. It returns false without mutating
// anything if player is not the expected shareholder, the deal
// exceeds their holdings, or the acquirer cannot supply the traded
// shares.
func (mp *MergerProcess) SubmitDeal(market *StockMarket, player *Player, deal MergerDeal) bool {
	if mp.CurrentShareholder() != player {
		return false
	}
	held := player.Shares[mp.CurrentDefunct]
	if deal.Sell < 0 || deal.Trade < 0 || deal.Sell+deal.Trade > held {
		return false
	}
	if deal.Trade > 0 {
		if acq := market.ledger.Get(mp.Acquirer); acq == nil || deal.Trade/2 > acq.RemainingShares {
			return false
		}
	}
	if deal.Sell > 0 {
		if !market.Sell(player, mp.CurrentDefunct, deal.Sell) {
			return false
		}
	}
	if deal.Trade > 0 {
		if !market.Trade(player, mp.CurrentDefunct, mp.Acquirer, deal.Trade) {
			return false
		}
	}
	mp.pending = mp.pending[1:]
	return true
}

// FinishCurrentDefunct reassigns the current defunct's placed tiles
// plus any incorporated tiles now connected to the trigger position,
// grows the acquirer by that count, discards every player's remaining
// shares in the defunct, deactivates it, and removes it from the
// queue. It returns the number of tiles assigned to the acquirer.
func (mp *MergerProcess) FinishCurrentDefunct(board *Board, ledger *Ledger, players []*Player) int {
	component := board.ConnectedComponent(mp.TriggerPos)
	groups := GroupByCorporation(component)

	toAssign := append([]*PlacedTile{}, groups[Incorporated]...)
	toAssign = append(toAssign, groups[mp.CurrentDefunct]...)
	Assign(toAssign, mp.Acquirer)

	acquirer := ledger.Get(mp.Acquirer)
	acquirer.Grow(len(toAssign))

	for _, p := range players {
		p.Shares[mp.CurrentDefunct] = 0
	}
	ledger.Get(mp.CurrentDefunct).Liquidate()
	delete(mp.remaining, mp.CurrentDefunct)

	return len(toAssign)
}
