package game

import (
	"time"

	"github.com/damproductions/domino4/internal/tiles"
)

// EventType represents a game notification type with type safety.
type EventType string

// Notification types emitted by the state machine. These are the
// transient effects the core decides but does not render: clients map
// them to sounds, highlights and banners.
const (
	EventTypeRoundStarted  EventType = "round_started"
	EventTypeTilePlaced    EventType = "tile_placed"
	EventTypePlayerPassed  EventType = "player_passed"
	EventTypePlayerWonHand EventType = "player_won_hand"
	EventTypeRoundEnded    EventType = "round_ended"
	EventTypeMatchEnded    EventType = "match_ended"
	EventTypeGameRestarted EventType = "game_restarted"
	EventTypeTurnReminder  EventType = "turn_reminder"
)

// String returns the string representation of the event type.
func (et EventType) String() string {
	return string(et)
}

// Event is any notification produced by a room transition.
type Event interface {
	EventType() EventType
	Timestamp() time.Time
}

type eventStamp struct {
	at time.Time
}

func stamp() eventStamp { return eventStamp{at: time.Now()} }

func (e eventStamp) Timestamp() time.Time { return e.at }

// RoundStartedEvent fires after a deal, once hands and turn order are
// set.
type RoundStartedEvent struct {
	eventStamp
	MatchNumber int
	FirstTurn   SeatID
}

func (RoundStartedEvent) EventType() EventType { return EventTypeRoundStarted }

// TilePlacedEvent fires on every accepted placement; clients use it for
// the placement sound cue.
type TilePlacedEvent struct {
	eventStamp
	Seat SeatID
	Tile tiles.Tile
}

func (TilePlacedEvent) EventType() EventType { return EventTypeTilePlaced }

// PlayerPassedEvent fires on every accepted pass.
type PlayerPassedEvent struct {
	eventStamp
	Seat SeatID
}

func (PlayerPassedEvent) EventType() EventType { return EventTypePlayerPassed }

// PlayerWonHandEvent fires when a seat empties its hand; clients ring
// the win bell on it.
type PlayerWonHandEvent struct {
	eventStamp
	Seat        SeatID
	DisplayName string
	Points      int
}

func (PlayerWonHandEvent) EventType() EventType { return EventTypePlayerWonHand }

// RoundEndedEvent carries the round summary text.
type RoundEndedEvent struct {
	eventStamp
	Message string
	Blocked bool
	Tied    bool
}

func (RoundEndedEvent) EventType() EventType { return EventTypeRoundEnded }

// MatchEndedEvent carries the match summary text.
type MatchEndedEvent struct {
	eventStamp
	Message     string
	WinningTeam Team
	Shutout     bool
}

func (MatchEndedEvent) EventType() EventType { return EventTypeMatchEnded }

// GameRestartedEvent fires when a seat wipes the room back to a fresh
// state.
type GameRestartedEvent struct {
	eventStamp
	RestartedBy string
	Message     string
}

func (GameRestartedEvent) EventType() EventType { return EventTypeGameRestarted }

// TurnReminderEvent is the optional idle-turn nudge. It never forces a
// move.
type TurnReminderEvent struct {
	eventStamp
	Seat SeatID
}

func (TurnReminderEvent) EventType() EventType { return EventTypeTurnReminder }

// NewTurnReminderEvent stamps a reminder for a seat. The transport
// layer fires these from its own timers, outside any room transition.
func NewTurnReminderEvent(seat SeatID) TurnReminderEvent {
	return TurnReminderEvent{eventStamp: stamp(), Seat: seat}
}

// Broadcaster is the outbound boundary of the core: the transport layer
// implements it to push projections and notifications to clients.
// Implementations must not block and must not call back into the room;
// they are invoked while the room's action lock is held.
type Broadcaster interface {
	// BroadcastSnapshot delivers the shared projection to every
	// connected seat of the room.
	BroadcastSnapshot(snap *Snapshot)
	// SendHand delivers a seat's private hand to a single connection.
	SendHand(connID string, hand []tiles.Tile)
	// Notify delivers a discrete notification to every connected seat
	// of the room.
	Notify(roomID string, ev Event)
}

// NopBroadcaster discards everything. Used by tests that only exercise
// state transitions.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastSnapshot(*Snapshot)   {}
func (NopBroadcaster) SendHand(string, []tiles.Tile) {}
func (NopBroadcaster) Notify(string, Event)          {}
