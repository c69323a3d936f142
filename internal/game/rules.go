package game

import "github.com/damproductions/domino4/internal/tiles"

// Side selects which open end of the board a tile is placed on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// hasLegalMove reports whether a seat could make any legal placement
// right now. Callers hold r.mu.
//
// On the first move of a round legality depends on the round kind: the
// opening round of a match requires the double six in hand, a round
// after a tied block grants any-tile privilege, and any other round
// accepts any tile. After the first move a tile is playable iff either
// face matches one of the open ends.
func (r *Room) hasLegalMove(seat *Seat) bool {
	gs := r.State
	if gs.IsFirstMove {
		if gs.IsFirstRoundOfMatch {
			return seat.HoldsDoubleSix()
		}
		return len(seat.Hand) > 0
	}
	for _, t := range seat.Hand {
		if t.HasPip(gs.LeftEnd) || t.HasPip(gs.RightEnd) {
			return true
		}
	}
	return false
}

// HasLegalMove is the exported form, for the transport layer and tests.
func (r *Room) HasLegalMove(seat SeatID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.seatOf(seat)
	return s != nil && r.hasLegalMove(s)
}

// PlaceTile validates and applies a tile placement for a seat. A
// rejection leaves the game state untouched. On acceptance the tile
// moves from hand to board, the turn advances, and the round-end check
// runs.
func (r *Room) PlaceTile(seat SeatID, tile tiles.Tile, side Side) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	gs := r.State
	if !gs.RoundActive {
		return ErrRoundNotActive
	}
	if gs.CurrentTurn != seat {
		return ErrNotYourTurn
	}
	s := r.seatOf(seat)
	if s == nil {
		return ErrNotYourTurn
	}
	idx := tiles.ContainsTile(s.Hand, tile)
	if idx < 0 {
		return ErrTileNotInHand
	}
	// Play the tile as held in the hand, not as the client spelled it.
	held := s.Hand[idx]

	var placed tiles.Tile
	if gs.IsFirstMove {
		if gs.IsFirstRoundOfMatch && !held.IsDoubleSix() {
			return ErrMustPlayDouble6
		}
		placed = held
		gs.Board = []tiles.Tile{placed}
		gs.LeftEnd = placed.Left
		gs.RightEnd = placed.Right
		spinner := placed
		gs.SpinnerTile = &spinner
		gs.IsFirstMove = false
		gs.IsAfterTiedBlockedGame = false
	} else {
		switch side {
		case SideLeft:
			if !held.HasPip(gs.LeftEnd) {
				return ErrIllegalPlacement
			}
			// Orient so the matching pip faces the chain.
			placed = held
			if placed.Right != gs.LeftEnd {
				placed = placed.Flipped()
			}
			gs.Board = append([]tiles.Tile{placed}, gs.Board...)
			gs.LeftEnd = placed.Left
		case SideRight:
			if !held.HasPip(gs.RightEnd) {
				return ErrIllegalPlacement
			}
			placed = held
			if placed.Left != gs.RightEnd {
				placed = placed.Flipped()
			}
			gs.Board = append(gs.Board, placed)
			gs.RightEnd = placed.Right
		default:
			return ErrIllegalPlacement
		}
	}

	s.Hand = append(s.Hand[:idx], s.Hand[idx+1:]...)
	last := placed
	gs.LastPlayed = &last

	if s.ConnID != "" {
		r.events.SendHand(s.ConnID, copyHand(s.Hand))
	}
	r.events.Notify(r.ID, TilePlacedEvent{eventStamp: stamp(), Seat: seat, Tile: placed})
	r.logger.Debug("tile placed", "seat", seat, "tile", placed, "side", side)

	r.advanceTurn()
	r.checkRoundEnd()
	return nil
}

// PassTurn validates and applies a pass. A seat holding any playable
// tile may not pass.
func (r *Room) PassTurn(seat SeatID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	gs := r.State
	if !gs.RoundActive {
		return ErrRoundNotActive
	}
	if gs.CurrentTurn != seat {
		return ErrNotYourTurn
	}
	s := r.seatOf(seat)
	if s == nil {
		return ErrNotYourTurn
	}
	if r.hasLegalMove(s) {
		return ErrCannotPassWithLegalMove
	}

	r.events.Notify(r.ID, PlayerPassedEvent{eventStamp: stamp(), Seat: seat})
	r.logger.Debug("turn passed", "seat", seat)

	r.advanceTurn()
	r.checkRoundEnd()
	return nil
}

// advanceTurn hands the turn to the next seat in seating order. A seat
// missing from the seating order is an internal invariant violation:
// it is logged and the turn stalls rather than corrupting state.
func (r *Room) advanceTurn() {
	gs := r.State
	if gs.CurrentTurn == "" || len(gs.Seating) == 0 {
		return
	}
	idx := -1
	for i, id := range gs.Seating {
		if id == gs.CurrentTurn {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.logger.Error("current seat missing from seating order", "seat", gs.CurrentTurn, "seating", gs.Seating)
		return
	}
	gs.CurrentTurn = gs.Seating[(idx+1)%len(gs.Seating)]
}
