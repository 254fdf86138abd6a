package boardgame

const startingBalance = 6000

// Player is one seat at the table.
type Player struct {
	Username           string
	Balance            int
	Hand               []Tile
	Shares             map[CorporationID]int
	TakingTurn         bool
	NewlyRefilledTile  *Position
}

// NewPlayer returns a player with a starting balance and an empty
// hand and share book.
func NewPlayer(username string) *Player {
	return &Player{
		Username: username,
		Balance:  startingBalance,
		Hand:     make([]Tile, 0, maxTilesInHand),
		Shares:   make(map[CorporationID]int, len(AllCorporations)),
	}
}

// HandTile returns the index of the unplaced hand tile at pos, or -1.
func (p *Player) HandTile(pos Position) int {
	for i, t := range p.Hand {
		if t.Position == pos && !t.Placed {
			return i
		}
	}
	return -1
}
