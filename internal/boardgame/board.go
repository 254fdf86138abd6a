package boardgame

// Board stores every tile that has been placed during a game. Tiles
// are never removed once placed, so the board only ever grows.
type Board struct {
	placed map[Position]*PlacedTile
}

// NewBoard returns an empty board.
func NewBoard() *Board {
	return &Board{placed: make(map[Position]*PlacedTile, BoardSize)}
}

// PlacedAt returns the placed tile at pos, if any.
func (b *Board) PlacedAt(pos Position) (*PlacedTile, bool) {
	t, ok := b.placed[pos]
	return t, ok
}

// IsPlaced reports whether pos already carries a placed tile.
func (b *Board) IsPlaced(pos Position) bool {
	_, ok := b.placed[pos]
	return ok
}

// Place commits pos to the board with the given owner. It is a
// programming error to place the same position twice; callers must
// check IsPlaced first since this invariant is never relaxed.
func (b *Board) Place(pos Position, belongsTo CorporationID) *PlacedTile {
	pt := &PlacedTile{Position: pos, BelongsTo: belongsTo}
	b.placed[pos] = pt
	return pt
}

// AllPlaced returns every placed tile keyed by position, for snapshot
// rendering by the delivery layer.
func (b *Board) AllPlaced() map[Position]*PlacedTile {
	return b.placed
}

// ConnectedComponent performs an iterative 4-neighbor flood fill
// starting at pos (which must already be placed) and returns every
// placed tile reachable through orthogonal adjacency, pos included.
func (b *Board) ConnectedComponent(pos Position) []*PlacedTile {
	start, ok := b.placed[pos]
	if !ok {
		return nil
	}

	visited := map[Position]bool{pos: true}
	frontier := []Position{pos}
	result := []*PlacedTile{start}

	for len(frontier) > 0 {
		cur := frontier[len(frontier)-1]
		frontier = frontier[:len(frontier)-1]

		for _, n := range cur.neighbors() {
			if visited[n] {
				continue
			}
			visited[n] = true
			if pt, ok := b.placed[n]; ok {
				result = append(result, pt)
				frontier = append(frontier, n)
			}
		}
	}

	return result
}

// NeighborCorporations returns the set of distinct corporations
// (including Incorporated) that own a placed tile orthogonally
// adjacent to pos.
func (b *Board) NeighborCorporations(pos Position) map[CorporationID]bool {
	out := make(map[CorporationID]bool)
	for _, n := range pos.neighbors() {
		if pt, ok := b.placed[n]; ok {
			out[pt.BelongsTo] = true
		}
	}
	return out
}

// GroupByCorporation bins tiles by their current owner.
func GroupByCorporation(tiles []*PlacedTile) map[CorporationID][]*PlacedTile {
	groups := make(map[CorporationID][]*PlacedTile)
	for _, t := range tiles {
		groups[t.BelongsTo] = append(groups[t.BelongsTo], t)
	}
	return groups
}

// Assign rewrites belongsTo in place for every tile given.
func Assign(tiles []*PlacedTile, c CorporationID) {
	for _, t := range tiles {
		t.BelongsTo = c
	}
}
