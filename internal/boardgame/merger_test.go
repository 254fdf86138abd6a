package boardgame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"acquire-server/internal/boardgame"
)

func TestMergerProcess_NextDefunctTie_SingleSmallestNeedsNoPrompt(t *testing.T) {
	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Quantum).Establish(5)
	ledger.Get(boardgame.Hydra).Establish(8)

	mp := boardgame.NewMergerProcess(boardgame.Phoenix, []boardgame.CorporationID{boardgame.Quantum, boardgame.Hydra}, nil, boardgame.Position{})

	assert.Nil(t, mp.NextDefunctTie(ledger))
}

func TestMergerProcess_NextDefunctTie_TiedSizesNeedsPrompt(t *testing.T) {
	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Quantum).Establish(5)
	ledger.Get(boardgame.Hydra).Establish(5)

	mp := boardgame.NewMergerProcess(boardgame.Phoenix, []boardgame.CorporationID{boardgame.Quantum, boardgame.Hydra}, nil, boardgame.Position{})

	tie := mp.NextDefunctTie(ledger)
	assert.ElementsMatch(t, []boardgame.CorporationID{boardgame.Quantum, boardgame.Hydra}, tie)
}

func TestMergerProcess_StartNextDefunct_QueuesOnlyShareholders(t *testing.T) {
	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Phoenix).Establish(10)
	ledger.Get(boardgame.Quantum).Establish(5)
	market := boardgame.NewStockMarket(ledger)

	alice := boardgame.NewPlayer("alice")
	bob := boardgame.NewPlayer("bob")
	alice.Shares[boardgame.Quantum] = 2

	mp := boardgame.NewMergerProcess(boardgame.Phoenix, []boardgame.CorporationID{boardgame.Quantum}, []*boardgame.Player{alice, bob}, boardgame.Position{})

	ok := mp.StartNextDefunct(ledger, market, []*boardgame.Player{alice, bob}, "")

	assert.True(t, ok)
	assert.Equal(t, boardgame.Quantum, mp.CurrentDefunct)
	assert.Same(t, alice, mp.CurrentShareholder())
}

func TestMergerProcess_SubmitDeal_RejectsOutOfOrderShareholder(t *testing.T) {
	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Phoenix).Establish(10)
	ledger.Get(boardgame.Quantum).Establish(5)
	market := boardgame.NewStockMarket(ledger)

	alice := boardgame.NewPlayer("alice")
	bob := boardgame.NewPlayer("bob")
	alice.Shares[boardgame.Quantum] = 2
	bob.Shares[boardgame.Quantum] = 1

	mp := boardgame.NewMergerProcess(boardgame.Phoenix, []boardgame.CorporationID{boardgame.Quantum}, []*boardgame.Player{alice, bob}, boardgame.Position{})
	mp.StartNextDefunct(ledger, market, []*boardgame.Player{alice, bob}, "")

	ok := mp.SubmitDeal(market, bob, boardgame.MergerDeal{Sell: 1})
	assert.False(t, ok)
}

func TestMergerProcess_SubmitDeal_RejectsDealExceedingHoldings(t *testing.T) {
	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Phoenix).Establish(10)
	ledger.Get(boardgame.Quantum).Establish(5)
	market := boardgame.NewStockMarket(ledger)

	alice := boardgame.NewPlayer("alice")
	alice.Shares[boardgame.Quantum] = 2

	mp := boardgame.NewMergerProcess(boardgame.Phoenix, []boardgame.CorporationID{boardgame.Quantum}, []*boardgame.Player{alice}, boardgame.Position{})
	mp.StartNextDefunct(ledger, market, []*boardgame.Player{alice}, "")

	ok := mp.SubmitDeal(market, alice, boardgame.MergerDeal{Sell: 1, Trade: 2})
	assert.False(t, ok)
	assert.Equal(t, 2, alice.Shares[boardgame.Quantum])
}

func TestMergerProcess_SubmitDeal_AdvancesQueueAndDone(t *testing.T) {
	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Phoenix).Establish(10)
	ledger.Get(boardgame.Quantum).Establish(5)
	market := boardgame.NewStockMarket(ledger)

	alice := boardgame.NewPlayer("alice")
	alice.Shares[boardgame.Quantum] = 2

	mp := boardgame.NewMergerProcess(boardgame.Phoenix, []boardgame.CorporationID{boardgame.Quantum}, []*boardgame.Player{alice}, boardgame.Position{})
	mp.StartNextDefunct(ledger, market, []*boardgame.Player{alice}, "")

	ok := mp.SubmitDeal(market, alice, boardgame.MergerDeal{Sell: 2})
	assert.True(t, ok)
	assert.Nil(t, mp.CurrentShareholder())
}

func TestMergerProcess_FinishCurrentDefunct_ReassignsTilesAndLiquidates(t *testing.T) {
	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Phoenix).Establish(1)
	ledger.Get(boardgame.Quantum).Establish(2)
	board := boardgame.NewBoard()

	trigger := boardgame.Position{Row: 0, Col: 0}
	board.Place(trigger, boardgame.Phoenix)
	board.Place(boardgame.Position{Row: 0, Col: 1}, boardgame.Quantum)
	board.Place(boardgame.Position{Row: 0, Col: 2}, boardgame.Quantum)

	alice := boardgame.NewPlayer("alice")
	alice.Shares[boardgame.Quantum] = 3

	mp := boardgame.NewMergerProcess(boardgame.Phoenix, []boardgame.CorporationID{boardgame.Quantum}, []*boardgame.Player{alice}, trigger)
	mp.CurrentDefunct = boardgame.Quantum

	assigned := mp.FinishCurrentDefunct(board, ledger, []*boardgame.Player{alice})

	assert.Equal(t, 2, assigned)
	assert.Equal(t, 3, ledger.Get(boardgame.Phoenix).Size)
	assert.False(t, ledger.Get(boardgame.Quantum).Active)
	assert.Equal(t, 0, alice.Shares[boardgame.Quantum])
	assert.True(t, mp.Done())

	pt, _ := board.PlacedAt(boardgame.Position{Row: 0, Col: 1})
	assert.Equal(t, boardgame.Phoenix, pt.BelongsTo)
}
