package boardgame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"acquire-server/internal/boardgame"
)

func TestCorporation_Establish_ResetsShareAndSafety(t *testing.T) {
	c := boardgame.NewCorporation(boardgame.Phoenix)
	c.RemainingShares = 3

	c.Establish(4)

	assert.True(t, c.Active)
	assert.Equal(t, 4, c.Size)
	assert.Equal(t, 25, c.RemainingShares)
	assert.False(t, c.Safe)
}

func TestCorporation_Grow_CrossesSafeThresholdOnce(t *testing.T) {
	c := boardgame.NewCorporation(boardgame.Phoenix)
	c.Establish(9)

	assert.False(t, c.Grow(1)) // size 10, not yet safe
	assert.True(t, c.Grow(1))  // size 11, crosses the threshold
	assert.False(t, c.Grow(1)) // already safe, no repeated signal
}

func TestCorporation_Liquidate_ResetsToBrandNew(t *testing.T) {
	c := boardgame.NewCorporation(boardgame.Phoenix)
	c.Establish(20)
	c.RemainingShares = 3

	c.Liquidate()

	assert.False(t, c.Active)
	assert.Equal(t, 0, c.Size)
	assert.Equal(t, 25, c.RemainingShares)
	assert.False(t, c.Safe)
}

func TestCorporation_Stats_PriceGrowsWithSizeBand(t *testing.T) {
	c := boardgame.NewCorporation(boardgame.Phoenix) // premium tier, base 300
	c.Establish(2)
	small := c.Stats().Price

	c.Size = 25
	large := c.Stats().Price

	assert.Greater(t, large, small)
	assert.Equal(t, large*10, c.Stats().MajorityBonus)
	assert.Equal(t, large*5, c.Stats().MinorityBonus)
}

func TestLedger_ActiveAndInactivePartition(t *testing.T) {
	l := boardgame.NewLedger()
	l.Get(boardgame.Phoenix).Establish(3)

	active := l.Active()
	inactive := l.Inactive()

	assert.Len(t, active, 1)
	assert.Equal(t, boardgame.Phoenix, active[0].ID)
	assert.Len(t, inactive, len(boardgame.AllCorporations)-1)
}

func TestLedger_AllActiveSafe_FalseWithNoActive(t *testing.T) {
	l := boardgame.NewLedger()
	assert.False(t, l.AllActiveSafe())
}

func TestLedger_AllActiveSafe_RequiresEveryActiveCorp(t *testing.T) {
	l := boardgame.NewLedger()
	l.Get(boardgame.Phoenix).Establish(11)
	l.Get(boardgame.Quantum).Establish(3)

	assert.False(t, l.AllActiveSafe())

	l.Get(boardgame.Quantum).Establish(11)
	assert.True(t, l.AllActiveSafe())
}

func TestLedger_AnyActiveSizeAtLeast(t *testing.T) {
	l := boardgame.NewLedger()
	l.Get(boardgame.Phoenix).Establish(5)

	assert.False(t, l.AnyActiveSizeAtLeast(41))
	l.Get(boardgame.Phoenix).Size = 41
	assert.True(t, l.AnyActiveSizeAtLeast(41))
}
