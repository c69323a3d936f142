package server

import (
	"encoding/json"
	"time"

	"github.com/damproductions/domino4/internal/game"
	"github.com/damproductions/domino4/internal/tiles"
)

// Message is the base WebSocket message envelope.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp.
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

// SetPlayerNameData is the join/reconnect request. RoomID and
// TargetScore are optional; Avatar is opaque to the server.
type SetPlayerNameData struct {
	Name        string       `json:"name"`
	Avatar      *game.Avatar `json:"avatar,omitempty"`
	RoomID      string       `json:"roomId,omitempty"`
	TargetScore int          `json:"targetScore,omitempty"`
}

type PlaceTileData struct {
	Tile     tiles.Tile `json:"tile"`
	Position string     `json:"position"`
}

type ChatMessageData struct {
	Message string `json:"message"`
}

// Server → Client Messages

type PlayerAssignedData struct {
	Seat   game.SeatID `json:"seat"`
	RoomID string      `json:"roomId"`
}

// PlayerHandData is the private hand push, delivered only to the seat
// that owns the hand.
type PlayerHandData struct {
	Hand []tiles.Tile `json:"hand"`
}

type MoveSuccessData struct {
	Tile tiles.Tile `json:"tile"`
}

// ErrorData mirrors game.Rejection on the wire.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Notification payloads, one per game.EventType.

type RoundStartedData struct {
	MatchNumber int         `json:"matchNumber"`
	FirstTurn   game.SeatID `json:"firstTurn"`
}

type TilePlacedData struct {
	PlayerName game.SeatID `json:"playerName"`
	Tile       tiles.Tile  `json:"tile"`
}

type PlayerPassedData struct {
	PlayerName game.SeatID `json:"playerName"`
}

type PlayerWonHandData struct {
	PlayerName  game.SeatID `json:"playerName"`
	DisplayName string      `json:"displayName"`
	Points      int         `json:"points"`
}

type RoundEndedData struct {
	Message string `json:"message"`
	Blocked bool   `json:"blocked"`
	Tied    bool   `json:"tied"`
}

type MatchEndedData struct {
	Message     string    `json:"message"`
	WinningTeam game.Team `json:"winningTeam"`
	Shutout     bool      `json:"shutout"`
}

type GameRestartedData struct {
	Message     string `json:"message"`
	RestartedBy string `json:"restartedBy"`
}

type TurnReminderData struct {
	Seat game.SeatID `json:"seat"`
}

type ChatBroadcastData struct {
	Sender  string `json:"sender"`
	Message string `json:"message"`
}

// messageForEvent converts a game notification into its wire message.
func messageForEvent(ev game.Event) (*Message, error) {
	var payload interface{}
	switch e := ev.(type) {
	case game.RoundStartedEvent:
		payload = RoundStartedData{MatchNumber: e.MatchNumber, FirstTurn: e.FirstTurn}
	case game.TilePlacedEvent:
		payload = TilePlacedData{PlayerName: e.Seat, Tile: e.Tile}
	case game.PlayerPassedEvent:
		payload = PlayerPassedData{PlayerName: e.Seat}
	case game.PlayerWonHandEvent:
		payload = PlayerWonHandData{PlayerName: e.Seat, DisplayName: e.DisplayName, Points: e.Points}
	case game.RoundEndedEvent:
		payload = RoundEndedData{Message: e.Message, Blocked: e.Blocked, Tied: e.Tied}
	case game.MatchEndedEvent:
		payload = MatchEndedData{Message: e.Message, WinningTeam: e.WinningTeam, Shutout: e.Shutout}
	case game.GameRestartedEvent:
		payload = GameRestartedData{Message: e.Message, RestartedBy: e.RestartedBy}
	case game.TurnReminderEvent:
		payload = TurnReminderData{Seat: e.Seat}
	default:
		payload = struct{}{}
	}
	return NewMessage(MessageType(ev.EventType()), payload)
}
