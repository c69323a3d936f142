package game

import (
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/damproductions/domino4/internal/tiles"
)

// DefaultTargetScore is the match target when the first joiner does not
// ask for one.
const DefaultTargetScore = 70

// Room is one table of four seats plus its authoritative game state.
// Every inbound action locks the room for the full validate-and-mutate
// span, so actions interleave only at action granularity and a rejected
// action can never leave partial state behind. Rooms are fully
// independent; no lock is ever held across two rooms.
type Room struct {
	ID          string
	TargetScore int
	Seats       [4]*Seat
	State       *GameState

	mu     sync.Mutex
	rng    *rand.Rand
	logger *log.Logger
	events Broadcaster
}

// NewRoom creates an empty room with a fresh game state. The rng is
// owned exclusively by this room; rooms never share randomness.
func NewRoom(id string, rng *rand.Rand, logger *log.Logger, events Broadcaster) *Room {
	return &Room{
		ID:          id,
		TargetScore: DefaultTargetScore,
		Seats:       newSeats(),
		State:       NewGameState(),
		rng:         rng,
		logger:      logger.WithPrefix("room").With("room", id),
		events:      events,
	}
}

// BindSeat attaches a connection and display name to a seat.
//
// Reconnection takes priority over everything else: a disconnected seat
// whose bound name matches reclaims its identity, hand and turn
// position. A name already in use by a *connected* seat is rejected so a
// duplicate tab cannot steal turn authority. Otherwise the first
// never-occupied seat is bound; the very first bind of an empty room
// fixes the room's target score.
func (r *Room) BindSeat(connID, displayName string, avatar *Avatar, requestedTarget int) (SeatID, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Reconnection check first.
	for _, seat := range r.Seats {
		if seat.AssignedName == displayName && !seat.Connected {
			seat.ConnID = connID
			seat.Connected = true
			if avatar != nil {
				seat.Avatar = *avatar
			}
			r.logger.Info("player reconnected", "seat", seat.ID, "name", displayName)
			if r.State.RoundActive {
				r.events.SendHand(connID, copyHand(seat.Hand))
			}
			r.broadcast()
			return seat.ID, true, nil
		}
	}

	for _, seat := range r.Seats {
		if seat.Connected && seat.AssignedName == displayName {
			return "", false, ErrNameTaken
		}
	}

	var free *Seat
	occupied := false
	for _, seat := range r.Seats {
		if seat.AssignedName != "" {
			occupied = true
		}
		if free == nil && !seat.Connected && seat.AssignedName == "" {
			free = seat
		}
	}
	if free == nil {
		return "", false, ErrRoomFull
	}

	if !occupied {
		if requestedTarget > 0 {
			r.TargetScore = requestedTarget
		} else {
			r.TargetScore = DefaultTargetScore
		}
	}

	free.ConnID = connID
	free.Connected = true
	free.AssignedName = displayName
	if avatar != nil {
		free.Avatar = *avatar
	} else {
		free.Avatar = DefaultAvatar
	}
	r.logger.Info("player joined", "seat", free.ID, "name", displayName)

	if r.connectedCount() == 4 && !r.State.RoundActive &&
		r.State.EndRoundMessage == "" && !r.State.MatchOver {
		r.initializeRound()
	} else {
		r.broadcast()
	}
	return free.ID, false, nil
}

// UnbindSeat marks the owning seat disconnected and drops it from the
// ready set. An active round is left untouched; remaining players just
// see the connected flag flip. The second return value tells the
// registry the room is now empty and can be collected.
func (r *Room) UnbindSeat(connID string) (SeatID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seat := r.seatByConn(connID)
	if seat == nil {
		return "", false
	}

	seat.ConnID = ""
	seat.Connected = false
	delete(r.State.Ready, seat.ID)
	r.logger.Info("player disconnected", "seat", seat.ID, "name", seat.AssignedName)

	if r.connectedCount() == 0 {
		return seat.ID, true
	}
	r.broadcast()
	return seat.ID, false
}

// Restart wipes the room back to a fresh game state on behalf of a
// seat: connections and bound names survive, scores and per-seat stats
// do not. A new round starts immediately when all four seats are
// connected.
func (r *Room) Restart(seat SeatID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.seatOf(seat)
	if s == nil {
		return
	}

	r.State = NewGameState()
	// Hands live on the seats, not in the game state, so they must be
	// wiped explicitly or snapshots keep counting the old tiles.
	for _, st := range r.Seats {
		st.Hand = nil
	}
	r.logger.Info("game restarted", "by", s.DisplayName())
	r.events.Notify(r.ID, GameRestartedEvent{
		eventStamp:  stamp(),
		RestartedBy: s.DisplayName(),
		Message:     s.DisplayName() + " reinició el juego",
	})

	if r.connectedCount() == 4 {
		r.initializeRound()
	} else {
		r.broadcast()
	}
}

// PlayerReady records a seat's acknowledgement of the round end. When
// every connected seat is ready and all four are connected, the next
// round starts; if the match was over, a fresh match state is installed
// first, carrying over stats, match number and last winner. Ready
// messages during an active round are ignored so a misbehaving client
// cannot force a redeal mid-play.
func (r *Room) PlayerReady(seat SeatID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.seatOf(seat) == nil || r.State.RoundActive {
		return
	}
	r.State.Ready[seat] = struct{}{}
	r.broadcast()

	connected := r.connectedCount()
	if len(r.State.Ready) != connected || connected != 4 {
		return
	}

	if r.State.MatchOver {
		r.State = r.State.nextMatchState()
	}
	r.State.Ready = make(map[SeatID]struct{})
	r.initializeRound()
}

// Snapshot returns the current shared projection. Safe to call from any
// goroutine.
func (r *Room) Snapshot() *Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

// HandOf returns a copy of a seat's current hand.
func (r *Room) HandOf(seat SeatID) []tiles.Tile {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.seatOf(seat); s != nil {
		return copyHand(s.Hand)
	}
	return nil
}

// ConnectedCount returns the number of connected seats.
func (r *Room) ConnectedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.connectedCount()
}

// HasConn reports whether a connection is bound to one of the seats.
func (r *Room) HasConn(connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seatByConn(connID) != nil
}

// SeatForConn resolves a connection to its seat identity.
func (r *Room) SeatForConn(connID string) (SeatID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s := r.seatByConn(connID); s != nil {
		return s.ID, true
	}
	return "", false
}

// HasPlayerName reports whether a display name is bound to any seat,
// connected or not. The registry uses it for sticky room preference.
func (r *Room) HasPlayerName(displayName string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, seat := range r.Seats {
		if seat.AssignedName == displayName {
			return true
		}
	}
	return false
}

// internal helpers; callers hold r.mu.

func (r *Room) connectedCount() int {
	n := 0
	for _, seat := range r.Seats {
		if seat.Connected {
			n++
		}
	}
	return n
}

func (r *Room) seatByConn(connID string) *Seat {
	if connID == "" {
		return nil
	}
	for _, seat := range r.Seats {
		if seat.ConnID == connID {
			return seat
		}
	}
	return nil
}

func (r *Room) seatOf(id SeatID) *Seat {
	for _, seat := range r.Seats {
		if seat.ID == id {
			return seat
		}
	}
	return nil
}

func copyHand(hand []tiles.Tile) []tiles.Tile {
	out := make([]tiles.Tile, len(hand))
	copy(out, hand)
	return out
}
