package game

import "github.com/damproductions/domino4/internal/tiles"

// SeatID identifies one of the four fixed player slots in a room. Seats
// are the unit of turn authority and hand ownership; display names come
// and go, seats do not.
type SeatID string

const (
	Seat1 SeatID = "Jugador 1"
	Seat2 SeatID = "Jugador 2"
	Seat3 SeatID = "Jugador 3"
	Seat4 SeatID = "Jugador 4"
)

// SeatIDs lists the four seats in fixed order.
var SeatIDs = [4]SeatID{Seat1, Seat2, Seat3, Seat4}

// String returns the seat identity string.
func (s SeatID) String() string {
	return string(s)
}

// AvatarType discriminates the avatar payload kinds clients may send.
type AvatarType string

const (
	AvatarEmoji  AvatarType = "emoji"
	AvatarCustom AvatarType = "custom"
	AvatarFile   AvatarType = "file"
)

// Avatar is an opaque display descriptor. The core never interprets
// Data; it only echoes the descriptor back in projections.
type Avatar struct {
	Type AvatarType `json:"type"`
	Data string     `json:"data"`
}

// DefaultAvatar is used when a client joins without one.
var DefaultAvatar = Avatar{Type: AvatarEmoji, Data: "👤"}

// Seat is one fixed player slot. AssignedName is set on first bind and
// survives disconnects so the same identity can reclaim the seat; it is
// cleared only by a full room restart.
type Seat struct {
	ID           SeatID
	AssignedName string
	ConnID       string
	Connected    bool
	Avatar       Avatar
	Hand         []tiles.Tile
}

// newSeats creates the four empty seats of a fresh room.
func newSeats() [4]*Seat {
	var seats [4]*Seat
	for i, id := range SeatIDs {
		seats[i] = &Seat{ID: id, Avatar: DefaultAvatar}
	}
	return seats
}

// DisplayName returns the bound name, falling back to the seat identity
// before anyone has occupied the seat.
func (s *Seat) DisplayName() string {
	if s.AssignedName != "" {
		return s.AssignedName
	}
	return string(s.ID)
}

// HoldsDoubleSix reports whether the seat's hand contains the 6|6 tile.
func (s *Seat) HoldsDoubleSix() bool {
	for _, t := range s.Hand {
		if t.IsDoubleSix() {
			return true
		}
	}
	return false
}
