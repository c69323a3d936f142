package tiles

import rand "math/rand/v2"

// SetSize is the number of tiles in a complete double-six set.
const SetSize = 28

// HandSize is the number of tiles dealt to each of the four seats.
const HandSize = 7

// NewSet generates the complete 28-tile double-six set in canonical order.
func NewSet() []Tile {
	set := make([]Tile, 0, SetSize)
	for left := 0; left <= MaxPip; left++ {
		for right := left; right <= MaxPip; right++ {
			set = append(set, Tile{Left: left, Right: right})
		}
	}
	return set
}

// Shuffle randomizes the tile order in place using the provided source.
func Shuffle(set []Tile, rng *rand.Rand) {
	rng.Shuffle(len(set), func(i, j int) {
		set[i], set[j] = set[j], set[i]
	})
}

// DealHands shuffles a fresh set and splits it into four hands of seven.
func DealHands(rng *rand.Rand) [4][]Tile {
	set := NewSet()
	Shuffle(set, rng)

	var hands [4][]Tile
	for i := range hands {
		hand := make([]Tile, HandSize)
		copy(hand, set[i*HandSize:(i+1)*HandSize])
		hands[i] = hand
	}
	return hands
}
