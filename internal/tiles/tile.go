package tiles

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxPip is the highest pip value in a double-six set.
const MaxPip = 6

// Tile represents a single domino tile. The pair is unordered: (2|5) and
// (5|2) are the same tile. Orientation on the board is a placement-time
// decision, not a property of the tile itself.
type Tile struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// NewTile creates a tile with the given pip values.
func NewTile(left, right int) Tile {
	return Tile{Left: left, Right: right}
}

// String returns the tile in "6|6" notation.
func (t Tile) String() string {
	return fmt.Sprintf("%d|%d", t.Left, t.Right)
}

// IsDouble returns true if both halves show the same pip count.
func (t Tile) IsDouble() bool {
	return t.Left == t.Right
}

// IsDoubleSix returns true for the 6|6 tile, which opens the first round
// of every match.
func (t Tile) IsDoubleSix() bool {
	return t.Left == MaxPip && t.Right == MaxPip
}

// PipValue returns the combined pip count of the tile.
func (t Tile) PipValue() int {
	return t.Left + t.Right
}

// Equals compares two tiles ignoring orientation.
func (t Tile) Equals(other Tile) bool {
	return (t.Left == other.Left && t.Right == other.Right) ||
		(t.Left == other.Right && t.Right == other.Left)
}

// HasPip returns true if either half of the tile shows the given value.
func (t Tile) HasPip(pip int) bool {
	return t.Left == pip || t.Right == pip
}

// Flipped returns the tile with its halves swapped.
func (t Tile) Flipped() Tile {
	return Tile{Left: t.Right, Right: t.Left}
}

// ParseTile parses "a|b" notation into a Tile.
func ParseTile(s string) (Tile, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "|", 2)
	if len(parts) != 2 {
		return Tile{}, fmt.Errorf("invalid tile %q: expected a|b", s)
	}
	left, err := strconv.Atoi(parts[0])
	if err != nil {
		return Tile{}, fmt.Errorf("invalid tile %q: %w", s, err)
	}
	right, err := strconv.Atoi(parts[1])
	if err != nil {
		return Tile{}, fmt.Errorf("invalid tile %q: %w", s, err)
	}
	if left < 0 || left > MaxPip || right < 0 || right > MaxPip {
		return Tile{}, fmt.Errorf("invalid tile %q: pips must be 0-%d", s, MaxPip)
	}
	return Tile{Left: left, Right: right}, nil
}

// MustParseTile parses "a|b" notation and panics on error. For tests.
func MustParseTile(s string) Tile {
	t, err := ParseTile(s)
	if err != nil {
		panic(err)
	}
	return t
}

// HandValue returns the total pip count of a hand. An empty or nil hand
// is worth zero.
func HandValue(hand []Tile) int {
	total := 0
	for _, t := range hand {
		total += t.PipValue()
	}
	return total
}

// ContainsTile reports whether the hand holds the tile, ignoring
// orientation, and returns its index (-1 when absent).
func ContainsTile(hand []Tile, tile Tile) int {
	for i, t := range hand {
		if t.Equals(tile) {
			return i
		}
	}
	return -1
}
