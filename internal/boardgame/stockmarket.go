package boardgame

import "sort"

// StockMarket is the sole authority for every share movement: buying,
// selling, trading during a merger, majority/minority bonus payouts,
// and liquidation. No other component in this package mutates
// Player.Shares or Corporation.RemainingShares directly.
type StockMarket struct {
	ledger *Ledger
}

// NewStockMarket returns a market backed by ledger.
func NewStockMarket(ledger *Ledger) *StockMarket {
	return &StockMarket{ledger: ledger}
}

// Buy attempts a single-share purchase. A failed purchase is a no-op:
// it returns false and mutates nothing.
func (m *StockMarket) Buy(p *Player, id CorporationID) bool {
	c := m.ledger.Get(id)
	if c == nil || !c.Active || c.RemainingShares < 1 {
		return false
	}
	price := c.Stats().Price
	if p.Balance < price {
		return false
	}
	p.Balance -= price
	p.Shares[id]++
	c.RemainingShares--
	return true
}

// BuyRequest is one line of a buy-stocks submission.
type BuyRequest struct {
	Corporation CorporationID
	Price       int // echoed back to the caller; the market always charges the live price
}

// BuyBatch applies each request in order, skipping any that would
// fail at that point in the sequence (so shares already purchased
// earlier in the batch count against availability and balance for
// later entries). It returns how many of the requests actually
// succeeded; skipped purchases are not reported as errors.
func (m *StockMarket) BuyBatch(p *Player, requests []BuyRequest) int {
	done := 0
	for _, req := range requests {
		if m.Buy(p, req.Corporation) {
			done++
		}
	}
	return done
}

// Sell converts n shares of id back into cash at the corporation's
// current price. It fails (false, no mutation) if the player does not
// hold n shares.
func (m *StockMarket) Sell(p *Player, id CorporationID, n int) bool {
	if n <= 0 {
		return false
	}
	c := m.ledger.Get(id)
	if c == nil || p.Shares[id] < n {
		return false
	}
	price := c.Stats().Price
	p.Shares[id] -= n
	p.Balance += n * price
	c.RemainingShares += n
	return true
}

// Trade converts n defunct shares into floor(n/2) acquirer shares at
// a fixed 2:1 ratio; an odd share is discarded. It fails if the
// player does not hold n defunct shares or the acquirer cannot supply
// floor(n/2) shares.
func (m *StockMarket) Trade(p *Player, defunct, acquirer CorporationID, n int) bool {
	if n <= 0 {
		return false
	}
	if p.Shares[defunct] < n {
		return false
	}
	acq := m.ledger.Get(acquirer)
	if acq == nil {
		return false
	}
	converted := n / 2
	if converted > acq.RemainingShares {
		return false
	}
	p.Shares[defunct] -= n
	p.Shares[acquirer] += converted
	acq.RemainingShares -= converted
	return true
}

// ShareholderGroup is a set of players tied at the same share count.
type ShareholderGroup struct {
	Count   int
	Players []*Player
}

// ShareholderGroups partitions every player holding at least one
// share of id by share count and returns the top two groups as
// {majority, minority}, per spec.md §4.2's tie rules:
//
//   - majority is every player tied for the top count (one or more).
//   - minority is every player tied for the next distinct (lower)
//     count, or — if nobody holds a lower count — the same players as
//     majority again, whether or not majority is tied (the frozen,
//     deliberately unusual rule from spec.md §9).
func (m *StockMarket) ShareholderGroups(id CorporationID, players []*Player) (majority, minority ShareholderGroup) {
	byCount := make(map[int][]*Player)
	for _, p := range players {
		if n := p.Shares[id]; n > 0 {
			byCount[n] = append(byCount[n], p)
		}
	}
	if len(byCount) == 0 {
		return ShareholderGroup{}, ShareholderGroup{}
	}

	counts := make([]int, 0, len(byCount))
	for n := range byCount {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	top := counts[0]
	majority = ShareholderGroup{Count: top, Players: byCount[top]}

	if len(counts) >= 2 {
		second := counts[1]
		minority = ShareholderGroup{Count: second, Players: byCount[second]}
		return majority, minority
	}

	// Nobody holds a lower count: minority collapses onto the majority
	// player(s), per spec.md §9.
	return majority, majority
}

// DistributeBonuses pays out majority/minority bonuses for id and
// returns the amount paid to each player. All arithmetic is integer
// division; residuals are dropped, per spec.md §4.2.
func (m *StockMarket) DistributeBonuses(id CorporationID, players []*Player) map[*Player]int {
	c := m.ledger.Get(id)
	paid := make(map[*Player]int)
	if c == nil {
		return paid
	}
	stats := c.Stats()
	majority, minority := m.ShareholderGroups(id, players)
	if len(majority.Players) == 0 {
		return paid
	}

	if len(majority.Players) > 1 || len(minority.Players) == 0 {
		pool := stats.MajorityBonus + stats.MinorityBonus
		share := pool / len(majority.Players)
		for _, p := range majority.Players {
			p.Balance += share
			paid[p] += share
		}
		return paid
	}

	sole := majority.Players[0]
	sole.Balance += stats.MajorityBonus
	paid[sole] += stats.MajorityBonus

	if len(minority.Players) > 0 {
		share := stats.MinorityBonus / len(minority.Players)
		for _, p := range minority.Players {
			p.Balance += share
			paid[p] += share
		}
	}
	return paid
}

// Liquidate forces every shareholder of id to sell their entire
// position at the current price, then deactivates the corporation.
func (m *StockMarket) Liquidate(id CorporationID, players []*Player) {
	c := m.ledger.Get(id)
	if c == nil {
		return
	}
	price := c.Stats().Price
	for _, p := range players {
		if n := p.Shares[id]; n > 0 {
			p.Shares[id] = 0
			p.Balance += n * price
		}
	}
	c.Liquidate()
}
