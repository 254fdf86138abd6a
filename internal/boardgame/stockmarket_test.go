package boardgame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"acquire-server/internal/boardgame"
)

func establishedLedger() (*boardgame.Ledger, *boardgame.StockMarket) {
	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Phoenix).Establish(3)
	market := boardgame.NewStockMarket(ledger)
	return ledger, market
}

func TestStockMarket_Buy_DeductsBalanceAndShare(t *testing.T) {
	ledger, market := establishedLedger()
	p := boardgame.NewPlayer("alice")
	price := ledger.Get(boardgame.Phoenix).Stats().Price
	before := p.Balance

	ok := market.Buy(p, boardgame.Phoenix)

	assert.True(t, ok)
	assert.Equal(t, before-price, p.Balance)
	assert.Equal(t, 1, p.Shares[boardgame.Phoenix])
}

func TestStockMarket_Buy_FailsWithoutFunds(t *testing.T) {
	_, market := establishedLedger()
	p := boardgame.NewPlayer("alice")
	p.Balance = 0

	assert.False(t, market.Buy(p, boardgame.Phoenix))
	assert.Equal(t, 0, p.Shares[boardgame.Phoenix])
}

func TestStockMarket_Buy_FailsForInactiveCorporation(t *testing.T) {
	ledger := boardgame.NewLedger()
	market := boardgame.NewStockMarket(ledger)
	p := boardgame.NewPlayer("alice")

	assert.False(t, market.Buy(p, boardgame.Quantum))
}

func TestStockMarket_BuyBatch_SkipsFailingEntriesWithoutStopping(t *testing.T) {
	ledger, market := establishedLedger()
	p := boardgame.NewPlayer("alice")
	p.Balance = ledger.Get(boardgame.Phoenix).Stats().Price // exactly one share's worth

	done := market.BuyBatch(p, []boardgame.BuyRequest{
		{Corporation: boardgame.Phoenix},
		{Corporation: boardgame.Phoenix},
	})

	assert.Equal(t, 1, done)
	assert.Equal(t, 1, p.Shares[boardgame.Phoenix])
}

func TestStockMarket_Sell_CreditsBalance(t *testing.T) {
	ledger, market := establishedLedger()
	p := boardgame.NewPlayer("alice")
	p.Shares[boardgame.Phoenix] = 2
	before := p.Balance

	ok := market.Sell(p, boardgame.Phoenix, 2)

	assert.True(t, ok)
	assert.Equal(t, 0, p.Shares[boardgame.Phoenix])
	price := ledger.Get(boardgame.Phoenix).Stats().Price
	assert.Equal(t, before+2*price, p.Balance)
}

func TestStockMarket_Sell_FailsWithoutEnoughShares(t *testing.T) {
	_, market := establishedLedger()
	p := boardgame.NewPlayer("alice")
	p.Shares[boardgame.Phoenix] = 1

	assert.False(t, market.Sell(p, boardgame.Phoenix, 2))
	assert.Equal(t, 1, p.Shares[boardgame.Phoenix])
}

func TestStockMarket_Trade_TwoToOneRatioDropsOddShare(t *testing.T) {
	ledger, market := establishedLedger()
	ledger.Get(boardgame.Quantum).Establish(2)
	p := boardgame.NewPlayer("alice")
	p.Shares[boardgame.Phoenix] = 5

	ok := market.Trade(p, boardgame.Phoenix, boardgame.Quantum, 5)

	assert.True(t, ok)
	assert.Equal(t, 0, p.Shares[boardgame.Phoenix])
	assert.Equal(t, 2, p.Shares[boardgame.Quantum])
}

func TestStockMarket_Trade_FailsIfAcquirerLacksShares(t *testing.T) {
	ledger, market := establishedLedger()
	ledger.Get(boardgame.Quantum).Establish(2)
	ledger.Get(boardgame.Quantum).RemainingShares = 0
	p := boardgame.NewPlayer("alice")
	p.Shares[boardgame.Phoenix] = 4

	assert.False(t, market.Trade(p, boardgame.Phoenix, boardgame.Quantum, 4))
	assert.Equal(t, 4, p.Shares[boardgame.Phoenix])
}

func TestStockMarket_ShareholderGroups_NoTieSecondCollapsesToMajority(t *testing.T) {
	_, market := establishedLedger()
	alice := boardgame.NewPlayer("alice")
	alice.Shares[boardgame.Phoenix] = 3

	majority, minority := market.ShareholderGroups(boardgame.Phoenix, []*boardgame.Player{alice})

	assert.ElementsMatch(t, []*boardgame.Player{alice}, majority.Players)
	assert.ElementsMatch(t, []*boardgame.Player{alice}, minority.Players)
}

func TestStockMarket_ShareholderGroups_TiedMajorityWithNoSecondCountCollapsesToMajority(t *testing.T) {
	_, market := establishedLedger()
	alice := boardgame.NewPlayer("alice")
	bob := boardgame.NewPlayer("bob")
	alice.Shares[boardgame.Phoenix] = 3
	bob.Shares[boardgame.Phoenix] = 3

	majority, minority := market.ShareholderGroups(boardgame.Phoenix, []*boardgame.Player{alice, bob})

	assert.Len(t, majority.Players, 2)
	assert.ElementsMatch(t, []*boardgame.Player{alice, bob}, minority.Players)
}

func TestStockMarket_DistributeBonuses_PaysMajorityAndMinority(t *testing.T) {
	ledger, market := establishedLedger()
	alice := boardgame.NewPlayer("alice")
	bob := boardgame.NewPlayer("bob")
	alice.Shares[boardgame.Phoenix] = 5
	bob.Shares[boardgame.Phoenix] = 2
	aliceBefore, bobBefore := alice.Balance, bob.Balance

	paid := market.DistributeBonuses(boardgame.Phoenix, []*boardgame.Player{alice, bob})

	stats := ledger.Get(boardgame.Phoenix).Stats()
	assert.Equal(t, stats.MajorityBonus, paid[alice])
	assert.Equal(t, stats.MinorityBonus, paid[bob])
	assert.Equal(t, aliceBefore+stats.MajorityBonus, alice.Balance)
	assert.Equal(t, bobBefore+stats.MinorityBonus, bob.Balance)
}
