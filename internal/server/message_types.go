package server

// MessageType represents a WebSocket message type with type safety.
type MessageType string

// WebSocket message type constants for the client-server protocol.
// Game notifications (tile_placed, round_ended, ...) reuse the event
// type names defined in internal/game.
const (
	// Client to server messages
	MessageTypeSetPlayerName MessageType = "set_player_name"
	MessageTypePlaceTile     MessageType = "place_tile"
	MessageTypePassTurn      MessageType = "pass_turn"
	MessageTypePlayerReady   MessageType = "player_ready"
	MessageTypeRestartGame   MessageType = "restart_game"
	MessageTypeChatMessage   MessageType = "chat_message"

	// Server to client messages
	MessageTypePlayerAssigned MessageType = "player_assigned"
	MessageTypeGameState      MessageType = "game_state"
	MessageTypePlayerHand     MessageType = "player_hand"
	MessageTypeMoveSuccess    MessageType = "move_success"
	MessageTypeGameError      MessageType = "game_error"
)

// String returns the string representation of the message type.
func (mt MessageType) String() string {
	return string(mt)
}
