package boardgame

import (
	"errors"
	"sort"
)

// Game orchestrates the board, tile stack, corporation ledger, stock
// market, turn recorder and state machine for one table. It is the
// single entry point every player action must go through; every
// method either fully applies its mutation or rejects it before
// touching any state (spec.md §7's propagation policy).
type Game struct {
	Board    *Board
	Stack    *TileStack
	Ledger   *Ledger
	Market   *StockMarket
	Recorder *TurnRecorder
	SM       *GameStateMachine

	Players       []*Player
	CurrentPlayer int

	Merger *Merger

	Ranking []RankedPlayer
}

// RankedPlayer is one row of the final standings computed at game end.
type RankedPlayer struct {
	Username string
	Balance  int
}

// Merger is an alias kept local to this package to avoid stuttering
// (boardgame.MergerProcess read from the router layer as
// boardgame.Game.Merger).
type Merger = MergerProcess

var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrWrongState      = errors.New("action not valid in the current game state")
	ErrInvalidTile     = errors.New("tile is not in hand, already placed, or exchangeable")
	ErrInvalidCorp     = errors.New("invalid or unavailable corporation")
	ErrInvalidDeal     = errors.New("deal exceeds held shares")
	ErrMergeNotDone    = errors.New("merger is not finished")
	ErrUnknownPlayer   = errors.New("unknown player")
)

// NewGame sets up a fresh game per spec.md §4.3 "Setup": every tile is
// created and shuffled, each player gets a starting balance and six
// tiles, then each player draws one order tile; players are reordered
// by ascending (row, col) of their order tile, and every order tile
// is placed on the board as incorporated.
func NewGame(usernames []string, shuffle ShuffleFunc) *Game {
	g := &Game{
		Board:    NewBoard(),
		Stack:    NewTileStack(shuffle),
		Ledger:   NewLedger(),
		Recorder: NewTurnRecorder(),
		SM:       NewGameStateMachine(),
	}
	g.Market = NewStockMarket(g.Ledger)

	players := make([]*Player, len(usernames))
	for i, u := range usernames {
		p := NewPlayer(u)
		for _, pos := range g.Stack.DrawMany(maxTilesInHand) {
			p.Hand = append(p.Hand, Tile{Position: pos})
		}
		players[i] = p
	}

	type orderDraw struct {
		player *Player
		pos    Position
	}
	draws := make([]orderDraw, 0, len(players))
	for _, p := range players {
		pos, ok := g.Stack.Draw()
		if !ok {
			break
		}
		draws = append(draws, orderDraw{p, pos})
	}
	sort.Slice(draws, func(i, j int) bool {
		if draws[i].pos.Row != draws[j].pos.Row {
			return draws[i].pos.Row < draws[j].pos.Row
		}
		return draws[i].pos.Col < draws[j].pos.Col
	})

	ordered := make([]*Player, len(draws))
	for i, d := range draws {
		ordered[i] = d.player
		g.Board.Place(d.pos, Incorporated)
	}
	g.Players = ordered

	g.SM.Transition(StatePlaceTile)
	if len(g.Players) > 0 {
		g.Players[0].TakingTurn = true
	}
	return g
}

func (g *Game) findPlayer(username string) (*Player, int) {
	for i, p := range g.Players {
		if p.Username == username {
			return p, i
		}
	}
	return nil, -1
}

func (g *Game) requireCurrentPlayer(username string) (*Player, error) {
	p, idx := g.findPlayer(username)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if idx != g.CurrentPlayer {
		return nil, ErrNotYourTurn
	}
	return p, nil
}

// rotatedFromCurrent returns the player order starting at the current
// tile-placing player, per spec.md §4.5.
func (g *Game) rotatedFromCurrent() []*Player {
	n := len(g.Players)
	out := make([]*Player, n)
	for i := 0; i < n; i++ {
		out[i] = g.Players[(g.CurrentPlayer+i)%n]
	}
	return out
}

// recomputeUnplayable marks every unplaced hand tile across all
// players exchangeable if it neighbors two or more safe corporations,
// per spec.md §4.3. Safe to call redundantly: it only ever sets
// Exchangeable to true, never back to false.
func (g *Game) recomputeUnplayable() {
	for _, p := range g.Players {
		for i := range p.Hand {
			t := &p.Hand[i]
			if t.Placed || t.Exchangeable {
				continue
			}
			safeNeighbors := 0
			for id := range g.Board.NeighborCorporations(t.Position) {
				if id == Incorporated {
					continue
				}
				if c := g.Ledger.Get(id); c != nil && c.Safe {
					safeNeighbors++
				}
			}
			if safeNeighbors >= 2 {
				t.Exchangeable = true
			}
		}
	}
}

// PlaceTile applies a tile-place action and resolves the resulting
// connected component into the correct next state, per spec.md §4.3.
func (g *Game) PlaceTile(username string, pos Position) error {
	if g.SM.Current() != StatePlaceTile {
		return ErrWrongState
	}
	player, err := g.requireCurrentPlayer(username)
	if err != nil {
		return err
	}
	handIdx := player.HandTile(pos)
	if handIdx < 0 || player.Hand[handIdx].Exchangeable || g.Board.IsPlaced(pos) {
		return ErrInvalidTile
	}

	player.Hand[handIdx].Placed = true
	g.Board.Place(pos, Incorporated)
	g.Recorder.Record(Activity{Kind: ActivityTilePlace, Position: pos})

	component := g.Board.ConnectedComponent(pos)
	if len(component) == 1 {
		g.SM.Transition(StateBuyStocks)
		return nil
	}

	groups := GroupByCorporation(component)
	var activeIDs []CorporationID
	for id := range groups {
		if id != Incorporated {
			activeIDs = append(activeIDs, id)
		}
	}
	sort.Slice(activeIDs, func(i, j int) bool { return activeIDs[i] < activeIDs[j] })

	switch len(activeIDs) {
	case 0:
		if len(g.Ledger.Inactive()) == 0 {
			g.SM.Transition(StateBuyStocks)
			return nil
		}
		g.SM.Transition(StateEstablishCorporation)
		g.SM.SetMeta(Metadata{TriggerPosition: pos})
		return nil

	case 1:
		id := activeIDs[0]
		corp := g.Ledger.Get(id)
		tiles := groups[Incorporated]
		corp.Grow(len(tiles))
		Assign(tiles, id)
		g.recomputeUnplayable()
		g.SM.Transition(StateBuyStocks)
		return nil

	default:
		g.resolveMergeRoles(activeIDs, pos)
		return nil
	}
}

// resolveMergeRoles decides the acquirer (directly, or via a
// conflict/selection prompt) for a component touching two or more
// active corporations, per spec.md §4.3/§4.5.
func (g *Game) resolveMergeRoles(activeIDs []CorporationID, pos Position) {
	corps := make([]*Corporation, len(activeIDs))
	for i, id := range activeIDs {
		corps[i] = g.Ledger.Get(id)
	}
	sort.Slice(corps, func(i, j int) bool { return corps[i].Size > corps[j].Size })

	maxSize := corps[0].Size
	var tied []CorporationID
	for _, c := range corps {
		if c.Size == maxSize {
			tied = append(tied, c.ID)
		}
	}

	if len(tied) > 1 {
		meta := Metadata{AcquirerCandidates: tied, TriggerPosition: pos}
		meta.DefunctsRemaining = activeIDs
		if len(activeIDs) == 3 {
			g.SM.Transition(StateMergeConflict)
		} else {
			g.SM.Transition(StateAcquirerSelection)
		}
		g.SM.SetMeta(meta)
		return
	}

	acquirer := corps[0].ID
	defuncts := make([]CorporationID, 0, len(activeIDs)-1)
	for _, id := range activeIDs {
		if id != acquirer {
			defuncts = append(defuncts, id)
		}
	}
	g.SM.Transition(StateMerge)
	g.startMerger(acquirer, defuncts, pos, "")
}

// startMerger creates the MergerProcess and either begins the first
// defunct step immediately or, if it is tied with another defunct for
// smallest size, opens a defunct-selection prompt.
func (g *Game) startMerger(acquirer CorporationID, defuncts []CorporationID, pos Position, presetDefunct CorporationID) {
	mp := NewMergerProcess(acquirer, defuncts, g.rotatedFromCurrent(), pos)
	g.Merger = mp

	if presetDefunct != "" {
		mp.StartNextDefunct(g.Ledger, g.Market, g.Players, presetDefunct)
		g.SM.SetMeta(Metadata{Acquirer: acquirer, Defunct: mp.CurrentDefunct, TriggerPosition: pos})
		return
	}
	g.advanceMergeStep()
}

// advanceMergeStep picks (or prompts for) the next defunct in an
// in-progress merger. Precondition: g.SM is currently in a state from
// which both merge and defunct-selection are reachable (merge,
// acquirer-selection) per the transition table.
func (g *Game) advanceMergeStep() {
	mp := g.Merger
	if tie := mp.NextDefunctTie(g.Ledger); len(tie) > 1 {
		g.SM.Transition(StateDefunctSelection)
		meta := g.SM.Meta()
		meta.Acquirer = mp.Acquirer
		meta.DefunctsRemaining = tie
		g.SM.SetMeta(meta)
		return
	}
	mp.StartNextDefunct(g.Ledger, g.Market, g.Players, "")
	g.SM.Transition(StateMerge)
	meta := g.SM.Meta()
	meta.Acquirer = mp.Acquirer
	meta.Defunct = mp.CurrentDefunct
	meta.DefunctsRemaining = nil
	g.SM.SetMeta(meta)
}

// ResolveConflict handles the merge-conflict prompt used only for the
// exactly-three-active-corporations tie, per spec.md §4.3: the caller
// names both the chosen acquirer and which of the remaining two
// corporations is processed first.
func (g *Game) ResolveConflict(username string, acquirer, defunct CorporationID) error {
	if g.SM.Current() != StateMergeConflict {
		return ErrWrongState
	}
	if _, err := g.requireCurrentPlayer(username); err != nil {
		return err
	}
	meta := g.SM.Meta()
	if !containsCorp(meta.AcquirerCandidates, acquirer) || !containsCorp(meta.DefunctsRemaining, defunct) || defunct == acquirer {
		return ErrInvalidCorp
	}
	defuncts := make([]CorporationID, 0, len(meta.DefunctsRemaining)-1)
	for _, id := range meta.DefunctsRemaining {
		if id != acquirer {
			defuncts = append(defuncts, id)
		}
	}
	g.SM.Transition(StateMerge)
	g.startMerger(acquirer, defuncts, meta.TriggerPosition, defunct)
	return nil
}

// ResolveAcquirer handles the general acquirer-selection prompt, opened
// for a tie for largest when the component touches two or four active
// corporations (a tie among exactly three goes through merge-conflict
// instead), per spec.md §4.5.
func (g *Game) ResolveAcquirer(username string, acquirer CorporationID) error {
	if g.SM.Current() != StateAcquirerSelection {
		return ErrWrongState
	}
	if _, err := g.requireCurrentPlayer(username); err != nil {
		return err
	}
	meta := g.SM.Meta()
	if !containsCorp(meta.AcquirerCandidates, acquirer) {
		return ErrInvalidCorp
	}
	defuncts := make([]CorporationID, 0, len(meta.DefunctsRemaining)-1)
	for _, id := range meta.DefunctsRemaining {
		if id != acquirer {
			defuncts = append(defuncts, id)
		}
	}
	mp := NewMergerProcess(acquirer, defuncts, g.rotatedFromCurrent(), meta.TriggerPosition)
	g.Merger = mp
	g.advanceMergeStep()
	return nil
}

// ConfirmDefunct resolves a defunct-selection tie by naming which
// equally-sized defunct corporation is processed now.
func (g *Game) ConfirmDefunct(username string, defunct CorporationID) error {
	if g.SM.Current() != StateDefunctSelection {
		return ErrWrongState
	}
	if _, err := g.requireCurrentPlayer(username); err != nil {
		return err
	}
	meta := g.SM.Meta()
	if !containsCorp(meta.DefunctsRemaining, defunct) {
		return ErrInvalidCorp
	}
	g.SM.Transition(StateMerge)
	g.Merger.StartNextDefunct(g.Ledger, g.Market, g.Players, defunct)
	m := g.SM.Meta()
	m.Defunct = defunct
	m.DefunctsRemaining = nil
	g.SM.SetMeta(m)
	return nil
}

// SubmitMergerDeal applies the current shareholder's deal for the
// defunct corporation currently being processed, then advances to the
// next shareholder or, if none remain, finishes the defunct step.
func (g *Game) SubmitMergerDeal(username string, deal MergerDeal) error {
	if g.SM.Current() != StateMerge || g.Merger == nil {
		return ErrWrongState
	}
	shareholder := g.Merger.CurrentShareholder()
	if shareholder == nil || shareholder.Username != username {
		return ErrNotYourTurn
	}
	if !g.Merger.SubmitDeal(g.Market, shareholder, deal) {
		return ErrInvalidDeal
	}
	g.advanceAfterDeal()
	return nil
}

// EndMergerTurn passes the current shareholder's deal for this defunct
// corporation without selling or trading any shares, equivalent to
// SubmitMergerDeal with a zero deal but named for the explicit
// pass-turn operation spec.md §6.1 exposes separately from submitting
// an actual deal.
func (g *Game) EndMergerTurn(username string) error {
	return g.SubmitMergerDeal(username, MergerDeal{})
}

func (g *Game) advanceAfterDeal() {
	if g.Merger.CurrentShareholder() != nil {
		return
	}
	g.Merger.FinishCurrentDefunct(g.Board, g.Ledger, g.Players)
	g.recomputeUnplayable()
	g.Recorder.Record(Activity{Kind: ActivityMerge, Acquirer: g.Merger.Acquirer, Defunct: g.Merger.CurrentDefunct})
	if g.Merger.Done() {
		return
	}
	g.advanceMergeStep()
}

// EndMerge closes out a fully-resolved merger and returns to
// buy-stocks, per the merge → buy-stocks edge in the transition table.
func (g *Game) EndMerge(username string) error {
	if g.SM.Current() != StateMerge || g.Merger == nil {
		return ErrWrongState
	}
	if _, err := g.requireCurrentPlayer(username); err != nil {
		return err
	}
	if !g.Merger.Done() || g.Merger.CurrentShareholder() != nil {
		return ErrMergeNotDone
	}
	g.Merger = nil
	g.SM.Transition(StateBuyStocks)
	return nil
}

// Establish founds an inactive corporation over the triggering
// component's incorporated tiles, per spec.md §4.3.
func (g *Game) Establish(username string, corpID CorporationID) error {
	if g.SM.Current() != StateEstablishCorporation {
		return ErrWrongState
	}
	player, err := g.requireCurrentPlayer(username)
	if err != nil {
		return err
	}
	corp := g.Ledger.Get(corpID)
	if corp == nil || corp.Active || !IsTradeable(corpID) {
		return ErrInvalidCorp
	}

	pos := g.SM.Meta().TriggerPosition
	component := g.Board.ConnectedComponent(pos)
	groups := GroupByCorporation(component)
	tiles := groups[Incorporated]

	corp.Establish(len(tiles))
	Assign(tiles, corpID)
	if corp.RemainingShares > 0 {
		player.Shares[corpID]++
		corp.RemainingShares--
	}
	g.recomputeUnplayable()
	g.Recorder.Record(Activity{Kind: ActivityEstablish, Corporation: corpID, Position: pos})
	g.SM.Transition(StateBuyStocks)
	return nil
}

// BuyStocks applies an ordered batch of purchases (already truncated
// to at most three by the router layer, per spec.md §4.2) and ends
// the buy-stocks phase.
func (g *Game) BuyStocks(username string, requests []BuyRequest) error {
	if g.SM.Current() != StateBuyStocks {
		return ErrWrongState
	}
	player, err := g.requireCurrentPlayer(username)
	if err != nil {
		return err
	}
	g.Market.BuyBatch(player, requests)
	g.Recorder.Record(Activity{Kind: ActivityBuyStocks, Purchases: requests})
	g.SM.Transition(StateTilePlaced)
	return nil
}

// EndTurn closes out the current player's turn: if the game-end
// condition holds it terminates the game, otherwise it refills the
// player's hand, rotates to the next player, and opens a new
// tile-place phase.
func (g *Game) EndTurn(username string) error {
	if g.SM.Current() != StateTilePlaced {
		return ErrWrongState
	}
	player, err := g.requireCurrentPlayer(username)
	if err != nil {
		return err
	}

	if g.gameEndCondition() {
		g.finish()
		g.SM.Transition(StateGameEnd)
		return nil
	}

	g.refillHand(player)
	player.TakingTurn = false
	g.CurrentPlayer = (g.CurrentPlayer + 1) % len(g.Players)
	g.Players[g.CurrentPlayer].TakingTurn = true
	g.SM.Transition(StatePlaceTile)
	g.Recorder.Advance()
	return nil
}

func (g *Game) refillHand(p *Player) {
	kept := make([]Tile, 0, maxTilesInHand)
	for _, t := range p.Hand {
		if !t.Placed && !t.Exchangeable {
			kept = append(kept, t)
		}
	}
	var lastDrawn *Position
	for len(kept) < maxTilesInHand {
		pos, ok := g.Stack.Draw()
		if !ok {
			break
		}
		kept = append(kept, Tile{Position: pos})
		posCopy := pos
		lastDrawn = &posCopy
	}
	p.Hand = kept
	p.NewlyRefilledTile = lastDrawn
}

func (g *Game) gameEndCondition() bool {
	active := g.Ledger.Active()
	if len(active) == 0 {
		return false
	}
	if g.Ledger.AnyActiveSizeAtLeast(41) {
		return true
	}
	return g.Ledger.AllActiveSafe()
}

func (g *Game) finish() {
	active := g.Ledger.Active()
	for _, c := range active {
		g.Market.DistributeBonuses(c.ID, g.Players)
		g.Market.Liquidate(c.ID, g.Players)
	}

	ranking := make([]RankedPlayer, len(g.Players))
	for i, p := range g.Players {
		ranking[i] = RankedPlayer{Username: p.Username, Balance: p.Balance}
	}
	sort.Slice(ranking, func(i, j int) bool { return ranking[i].Balance > ranking[j].Balance })
	g.Ranking = ranking
}

func containsCorp(ids []CorporationID, target CorporationID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}
