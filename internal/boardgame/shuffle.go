package boardgame

import "math/rand"

// NewRandomShuffle returns a ShuffleFunc backed by a private PRNG
// source, so production games never share mutable global rand state
// across concurrent tables.
func NewRandomShuffle(seed int64) ShuffleFunc {
	r := rand.New(rand.NewSource(seed))
	return func(positions []Position) {
		r.Shuffle(len(positions), func(i, j int) {
			positions[i], positions[j] = positions[j], positions[i]
		})
	}
}
