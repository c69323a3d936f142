package tui

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/damproductions/domino4/internal/game"
	"github.com/damproductions/domino4/internal/server"
	"github.com/damproductions/domino4/internal/tiles"
)

// Messages delivered into the Bubble Tea event loop.

// StateMsg carries a fresh room snapshot.
type StateMsg struct {
	Snapshot *game.Snapshot
}

// HandMsg carries the private hand.
type HandMsg struct {
	Hand []tiles.Tile
}

// AssignedMsg confirms the seat and room after joining.
type AssignedMsg struct {
	Seat   game.SeatID
	RoomID string
}

// NoticeMsg is a rendered game notification line.
type NoticeMsg struct {
	Line string
}

// ServerErrorMsg carries a rejection from the server.
type ServerErrorMsg struct {
	Code    string
	Message string
}

// DisconnectedMsg signals the socket closed.
type DisconnectedMsg struct {
	Err error
}

// MoveOkMsg confirms an accepted placement.
type MoveOkMsg struct {
	Tile tiles.Tile
}

// ChatMsg is a relayed chat line.
type ChatMsg struct {
	Sender string
	Text   string
}

// Client is the WebSocket side of the interactive client. It translates
// server messages into Bubble Tea messages.
type Client struct {
	conn   *websocket.Conn
	logger *log.Logger
}

// Dial connects to the server's /ws endpoint.
func Dial(url string, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Client{conn: conn, logger: logger.WithPrefix("client")}, nil
}

// Close closes the socket.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Send marshals and writes one message.
func (c *Client) Send(messageType server.MessageType, payload interface{}) error {
	msg, err := server.NewMessage(messageType, payload)
	if err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// Join sends the set_player_name request.
func (c *Client) Join(name, roomID string, targetScore int) error {
	return c.Send(server.MessageTypeSetPlayerName, server.SetPlayerNameData{
		Name:        name,
		RoomID:      roomID,
		TargetScore: targetScore,
	})
}

// ReadLoop reads server messages until the socket closes, forwarding
// each as a Bubble Tea message. Run it in its own goroutine with
// program.Send as the sink.
func (c *Client) ReadLoop(send func(tea.Msg)) {
	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			send(DisconnectedMsg{Err: err})
			return
		}
		if m := c.translate(&msg); m != nil {
			send(m)
		}
	}
}

// translate maps one wire message to its Bubble Tea counterpart.
func (c *Client) translate(msg *server.Message) tea.Msg {
	switch msg.Type {
	case server.MessageTypeGameState:
		var snap game.Snapshot
		if err := json.Unmarshal(msg.Data, &snap); err != nil {
			c.logger.Error("Bad game state payload", "error", err)
			return nil
		}
		return StateMsg{Snapshot: &snap}

	case server.MessageTypePlayerHand:
		var data server.PlayerHandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return HandMsg{Hand: data.Hand}

	case server.MessageTypePlayerAssigned:
		var data server.PlayerAssignedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return AssignedMsg{Seat: data.Seat, RoomID: data.RoomID}

	case server.MessageTypeMoveSuccess:
		var data server.MoveSuccessData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return MoveOkMsg{Tile: data.Tile}

	case server.MessageTypeGameError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return ServerErrorMsg{Code: data.Code, Message: data.Message}

	case server.MessageTypeChatMessage:
		var data server.ChatBroadcastData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return ChatMsg{Sender: data.Sender, Text: data.Message}

	default:
		return c.translateNotice(msg)
	}
}

// translateNotice renders game notifications as log lines.
func (c *Client) translateNotice(msg *server.Message) tea.Msg {
	switch game.EventType(msg.Type) {
	case game.EventTypeRoundStarted:
		var data server.RoundStartedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return NoticeMsg{Line: fmt.Sprintf("Round started (match %d), first turn: %s", data.MatchNumber, data.FirstTurn)}

	case game.EventTypeTilePlaced:
		var data server.TilePlacedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return NoticeMsg{Line: fmt.Sprintf("%s played %s", data.PlayerName, data.Tile)}

	case game.EventTypePlayerPassed:
		var data server.PlayerPassedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return NoticeMsg{Line: fmt.Sprintf("%s passed", data.PlayerName)}

	case game.EventTypePlayerWonHand:
		var data server.PlayerWonHandData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return NoticeMsg{Line: fmt.Sprintf("%s won the hand (+%d)", data.DisplayName, data.Points)}

	case game.EventTypeRoundEnded:
		var data server.RoundEndedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return NoticeMsg{Line: data.Message}

	case game.EventTypeMatchEnded:
		var data server.MatchEndedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return NoticeMsg{Line: data.Message}

	case game.EventTypeGameRestarted:
		var data server.GameRestartedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return NoticeMsg{Line: data.Message}

	case game.EventTypeTurnReminder:
		var data server.TurnReminderData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			return nil
		}
		return NoticeMsg{Line: fmt.Sprintf("Reminder: it is %s's turn", data.Seat)}
	}

	c.logger.Debug("Unhandled message type", "type", msg.Type)
	return nil
}
