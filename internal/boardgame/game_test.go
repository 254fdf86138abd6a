package boardgame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acquire-server/internal/boardgame"
)

func TestNewGame_DealsHandsAndOrdersByOrderTile(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)

	require.Len(t, g.Players, 2)
	assert.Equal(t, "alice", g.Players[0].Username)
	assert.Equal(t, "bob", g.Players[1].Username)
	assert.True(t, g.Players[0].TakingTurn)
	assert.False(t, g.Players[1].TakingTurn)
	assert.Len(t, g.Players[0].Hand, 6)
	assert.Len(t, g.Players[1].Hand, 6)
	assert.Equal(t, boardgame.StatePlaceTile, g.SM.Current())

	// Each player's order tile was placed as an incorporated tile.
	assert.True(t, g.Board.IsPlaced(boardgame.Position{Row: 1, Col: 0}))
	assert.True(t, g.Board.IsPlaced(boardgame.Position{Row: 1, Col: 1}))
}

func TestGame_PlaceTile_RejectsWrongPlayer(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)

	err := g.PlaceTile("bob", boardgame.Position{Row: 0, Col: 6})
	assert.ErrorIs(t, err, boardgame.ErrNotYourTurn)
}

func TestGame_PlaceTile_RejectsTileNotInHand(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)

	err := g.PlaceTile("alice", boardgame.Position{Row: 8, Col: 11})
	assert.ErrorIs(t, err, boardgame.ErrInvalidTile)
}

func TestGame_PlaceTile_IsolatedTileGoesStraightToBuyStocks(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)

	// (0,2) is alice's, and neither of its neighbors is placed yet.
	err := g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 2})

	require.NoError(t, err)
	assert.Equal(t, boardgame.StateBuyStocks, g.SM.Current())
}

func TestGame_PlaceTile_ConnectingTwoOrderTilesTriggersEstablish(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)

	// (0,0) is orthogonally adjacent to alice's order tile at (1,0),
	// which is itself adjacent to bob's order tile at (1,1): all three
	// are "incorporated" tiles with zero active corporations nearby.
	err := g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 0})

	require.NoError(t, err)
	assert.Equal(t, boardgame.StateEstablishCorporation, g.SM.Current())
	assert.Equal(t, boardgame.Position{Row: 0, Col: 0}, g.SM.Meta().TriggerPosition)
}

func TestGame_Establish_FoundsCorporationAndGrantsFounderShare(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 0}))

	err := g.Establish("alice", boardgame.Phoenix)

	require.NoError(t, err)
	assert.Equal(t, boardgame.StateBuyStocks, g.SM.Current())
	corp := g.Ledger.Get(boardgame.Phoenix)
	assert.True(t, corp.Active)
	assert.Equal(t, 3, corp.Size)
	assert.Equal(t, 1, g.Players[0].Shares[boardgame.Phoenix])
}

func TestGame_Establish_RejectsAlreadyActiveCorporation(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 0}))
	require.NoError(t, g.Establish("alice", boardgame.Phoenix))

	err := g.Establish("alice", boardgame.Phoenix)
	assert.ErrorIs(t, err, boardgame.ErrWrongState) // buy-stocks now, establish no longer valid
}

func TestGame_BuyStocksThenEndTurn_RotatesToNextPlayer(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 2}))

	require.NoError(t, g.BuyStocks("alice", nil))
	assert.Equal(t, boardgame.StateTilePlaced, g.SM.Current())

	require.NoError(t, g.EndTurn("alice"))
	assert.Equal(t, boardgame.StatePlaceTile, g.SM.Current())
	assert.Equal(t, 1, g.CurrentPlayer)
	assert.True(t, g.Players[1].TakingTurn)
	assert.False(t, g.Players[0].TakingTurn)
}

func TestGame_EndTurn_RefillsHandToSix(t *testing.T) {
	g := boardgame.NewGame([]string{"alice", "bob"}, boardgame.IdentityShuffle)
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 2}))
	require.NoError(t, g.BuyStocks("alice", nil))
	require.NoError(t, g.EndTurn("alice"))

	assert.Len(t, g.Players[0].Hand, 6)
}

// newMergeReadyGame builds a two-corporation-adjacency scenario by
// hand rather than through NewGame's shuffle-driven setup, so the
// merge path can be exercised directly with a controlled board.
func newMergeReadyGame(t *testing.T) *boardgame.Game {
	t.Helper()

	ledger := boardgame.NewLedger()
	ledger.Get(boardgame.Phoenix).Establish(3)
	ledger.Get(boardgame.Quantum).Establish(1)

	board := boardgame.NewBoard()
	board.Place(boardgame.Position{Row: 0, Col: 0}, boardgame.Phoenix)
	board.Place(boardgame.Position{Row: 0, Col: 2}, boardgame.Quantum)

	alice := boardgame.NewPlayer("alice")
	alice.Shares[boardgame.Quantum] = 1
	alice.Hand = []boardgame.Tile{{Position: boardgame.Position{Row: 0, Col: 1}}}

	g := &boardgame.Game{
		Board:    board,
		Stack:    boardgame.NewTileStack(boardgame.IdentityShuffle),
		Ledger:   ledger,
		Recorder: boardgame.NewTurnRecorder(),
		SM:       boardgame.NewGameStateMachine(),
		Players:  []*boardgame.Player{alice},
	}
	g.Market = boardgame.NewStockMarket(ledger)
	g.SM.Transition(boardgame.StatePlaceTile)
	return g
}

func TestGame_PlaceTile_DifferentSizedNeighborsMergeWithoutPrompt(t *testing.T) {
	g := newMergeReadyGame(t)

	err := g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 1})

	require.NoError(t, err)
	assert.Equal(t, boardgame.StateMerge, g.SM.Current())
	require.NotNil(t, g.Merger)
	assert.Equal(t, boardgame.Phoenix, g.Merger.Acquirer)
	assert.Equal(t, boardgame.Quantum, g.Merger.CurrentDefunct)
	assert.Same(t, g.Players[0], g.Merger.CurrentShareholder())
}

func TestGame_SubmitMergerDealThenEndMerge_ReturnsToBuyStocks(t *testing.T) {
	g := newMergeReadyGame(t)
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 1}))

	err := g.SubmitMergerDeal("alice", boardgame.MergerDeal{Sell: 1})
	require.NoError(t, err)
	assert.Nil(t, g.Merger.CurrentShareholder())
	assert.True(t, g.Merger.Done())

	err = g.EndMerge("alice")
	require.NoError(t, err)
	assert.Equal(t, boardgame.StateBuyStocks, g.SM.Current())
	assert.Nil(t, g.Merger)
	assert.False(t, g.Ledger.Get(boardgame.Quantum).Active)
}

func TestGame_EndMergerTurn_PassesWithoutSellingOrTrading(t *testing.T) {
	g := newMergeReadyGame(t)
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 1}))

	held := g.Players[0].Shares[boardgame.Phoenix]
	balance := g.Players[0].Balance

	err := g.EndMergerTurn("alice")
	require.NoError(t, err)
	assert.Nil(t, g.Merger.CurrentShareholder())
	// Nothing was traded, so alice gains no phoenix shares; alice was the
	// only shareholder, so quantum is dissolved and her kept quantum
	// share is discarded with it.
	assert.Equal(t, held, g.Players[0].Shares[boardgame.Phoenix])
	assert.Equal(t, 0, g.Players[0].Shares[boardgame.Quantum])
	assert.Equal(t, balance, g.Players[0].Balance)
}

func TestGame_EndMergerTurn_RejectsWrongShareholder(t *testing.T) {
	g := newMergeReadyGame(t)
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 1}))

	err := g.EndMergerTurn("bob")
	assert.ErrorIs(t, err, boardgame.ErrNotYourTurn)
}

func TestGame_SubmitMergerDeal_RejectsExceedingHoldings(t *testing.T) {
	g := newMergeReadyGame(t)
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 1}))

	err := g.SubmitMergerDeal("alice", boardgame.MergerDeal{Sell: 5})
	assert.ErrorIs(t, err, boardgame.ErrInvalidDeal)
}

func TestGame_EndTurn_EndsGameWhenAllActiveAreSafe(t *testing.T) {
	g := boardgame.NewGame([]string{"alice"}, boardgame.IdentityShuffle)
	// alice's order tile draw lands at (0,6); (0,5) is her last hand
	// tile and is adjacent to it, so placing it triggers establish.
	require.NoError(t, g.PlaceTile("alice", boardgame.Position{Row: 0, Col: 5}))
	require.NoError(t, g.Establish("alice", boardgame.Phoenix))
	g.Ledger.Get(boardgame.Phoenix).Size = 11
	g.Ledger.Get(boardgame.Phoenix).Safe = true
	require.NoError(t, g.BuyStocks("alice", nil))

	err := g.EndTurn("alice")

	require.NoError(t, err)
	assert.Equal(t, boardgame.StateGameEnd, g.SM.Current())
	require.Len(t, g.Ranking, 1)
	assert.Equal(t, "alice", g.Ranking[0].Username)
}
