package server

import (
	rand "math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/damproductions/domino4/internal/game"
	"github.com/damproductions/domino4/internal/tiles"
)

const (
	maxNameRunes = 12
	maxChatRunes = 100
)

// GameService connects the transport layer to the room registry. It
// implements game.Broadcaster, so every state mutation inside a room
// flows back out through the server's connections.
type GameService struct {
	server   *Server
	registry *game.Registry
	logger   *log.Logger
	clock    quartz.Clock
	config   *ServerConfig

	// reminders holds the pending idle-turn timer per room. Guarded by
	// remMu, never by any room lock.
	remMu     sync.Mutex
	reminders map[string]*quartz.Timer
}

// NewGameService creates a game service bound to a server. The registry
// is created here so its broadcaster is the service itself.
func NewGameService(server *Server, config *ServerConfig, logger *log.Logger, rng *rand.Rand, clock quartz.Clock) *GameService {
	svc := &GameService{
		server:    server,
		logger:    logger.WithPrefix("service"),
		clock:     clock,
		config:    config,
		reminders: make(map[string]*quartz.Timer),
	}
	svc.registry = game.NewRegistry(logger, rng, svc)
	return svc
}

// Registry exposes the room registry, mainly for tests and the lobby
// endpoint.
func (s *GameService) Registry() *game.Registry {
	return s.registry
}

// HandleJoin processes a set_player_name request: bind into a room,
// confirm the seat, and push the current state to the new connection.
func (s *GameService) HandleJoin(c *Connection, data SetPlayerNameData) {
	name := strings.TrimSpace(data.Name)
	if name == "" {
		c.sendError("invalid_name", "Nombre inválido!")
		return
	}
	if runes := []rune(name); len(runes) > maxNameRunes {
		name = string(runes[:maxNameRunes])
	}

	var room *game.Room
	if data.RoomID != "" {
		room = s.registry.FindOrCreateByID(data.RoomID)
	} else {
		room = s.registry.FindOrCreate(name)
	}

	seat, reconnected, err := room.BindSeat(c.ID(), name, data.Avatar, data.TargetScore)
	if err != nil {
		rej := game.RejectionOf(err)
		c.sendError(rej.Code, rej.Message)
		return
	}
	// Associate with the room only after the bind succeeds, so a
	// rejected connection never sees room broadcasts.
	c.SetRoom(room.ID)
	c.SetSeat(seat)

	s.logger.Info("Player bound to seat", "room", room.ID, "seat", seat, "name", name, "reconnected", reconnected)

	assigned, _ := NewMessage(MessageTypePlayerAssigned, PlayerAssignedData{
		Seat:   seat,
		RoomID: room.ID,
	})
	_ = c.SendMessage(assigned) // Ignore send errors

	// The bind broadcast ran before this connection joined the room
	// set, so it never arrived here. Push a fresh snapshot so the
	// client always has state after learning its seat.
	if state, err := NewMessage(MessageTypeGameState, room.Snapshot()); err == nil {
		_ = c.SendMessage(state)
	}
	if hand := room.HandOf(seat); len(hand) > 0 {
		s.SendHand(c.ID(), hand)
	}
}

// HandlePlaceTile processes a place_tile request.
func (s *GameService) HandlePlaceTile(c *Connection, data PlaceTileData) {
	room, seat, ok := s.roomAndSeat(c)
	if !ok {
		return
	}

	var side game.Side
	switch data.Position {
	case "left":
		side = game.SideLeft
	case "right":
		side = game.SideRight
	default:
		c.sendError("illegal_placement", "Jugada inválida!")
		return
	}

	if err := room.PlaceTile(seat, data.Tile, side); err != nil {
		rej := game.RejectionOf(err)
		c.sendError(rej.Code, rej.Message)
		return
	}

	response, _ := NewMessage(MessageTypeMoveSuccess, MoveSuccessData{Tile: data.Tile})
	_ = c.SendMessage(response) // Ignore send errors
}

// HandlePass processes a pass_turn request.
func (s *GameService) HandlePass(c *Connection) {
	room, seat, ok := s.roomAndSeat(c)
	if !ok {
		return
	}

	if err := room.PassTurn(seat); err != nil {
		rej := game.RejectionOf(err)
		c.sendError(rej.Code, rej.Message)
	}
}

// HandleReady processes a player_ready request.
func (s *GameService) HandleReady(c *Connection) {
	room, seat, ok := s.roomAndSeat(c)
	if !ok {
		return
	}
	room.PlayerReady(seat)
}

// HandleRestart processes a restart_game request.
func (s *GameService) HandleRestart(c *Connection) {
	room, seat, ok := s.roomAndSeat(c)
	if !ok {
		return
	}
	room.Restart(seat)
}

// HandleChat relays a chat line to everyone in the sender's room. Chat
// never touches game state.
func (s *GameService) HandleChat(c *Connection, data ChatMessageData) {
	room, seat, ok := s.roomAndSeat(c)
	if !ok {
		return
	}

	text := strings.TrimSpace(data.Message)
	if text == "" {
		return
	}
	if runes := []rune(text); len(runes) > maxChatRunes {
		text = string(runes[:maxChatRunes])
	}

	sender := string(seat)
	for _, info := range room.Snapshot().Seats {
		if info.Name == seat {
			sender = info.DisplayName
			break
		}
	}

	msg, err := NewMessage(MessageTypeChatMessage, ChatBroadcastData{
		Sender:  sender,
		Message: text,
	})
	if err != nil {
		s.logger.Error("Failed to create chat message", "error", err)
		return
	}
	s.server.BroadcastToRoom(room.ID, msg)
}

// HandleDisconnect frees the seat held by a closed connection.
func (s *GameService) HandleDisconnect(connID string) {
	room := s.registry.ByConn(connID)
	if room == nil {
		return
	}

	s.registry.Unbind(connID)

	if room.ConnectedCount() == 0 {
		s.stopReminder(room.ID)
	}
}

// ActiveRooms lists rooms for the lobby endpoint.
func (s *GameService) ActiveRooms() []ActiveRoomInfo {
	rooms := s.registry.Rooms()
	infos := make([]ActiveRoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, ActiveRoomInfo{
			RoomID:         room.ID,
			ConnectedCount: room.ConnectedCount(),
			RoundActive:    room.Snapshot().RoundActive,
		})
	}
	return infos
}

// Shutdown stops all reminder timers and clears the registry.
func (s *GameService) Shutdown() {
	s.remMu.Lock()
	for id, timer := range s.reminders {
		timer.Stop()
		delete(s.reminders, id)
	}
	s.remMu.Unlock()

	s.registry.Shutdown()
}

// roomAndSeat resolves the caller's room and seat, rejecting requests
// from connections that never joined.
func (s *GameService) roomAndSeat(c *Connection) (*game.Room, game.SeatID, bool) {
	room := s.registry.ByConn(c.ID())
	if room == nil {
		c.sendError("not_in_room", "Debes unirte a una sala primero!")
		return nil, "", false
	}
	seat, ok := room.SeatForConn(c.ID())
	if !ok {
		c.sendError("not_in_room", "Debes unirte a una sala primero!")
		return nil, "", false
	}
	return room, seat, true
}

// BroadcastSnapshot implements game.Broadcaster. Called with the room
// lock held, so it only queues messages and re-arms the idle timer.
func (s *GameService) BroadcastSnapshot(snap *game.Snapshot) {
	msg, err := NewMessage(MessageTypeGameState, snap)
	if err != nil {
		s.logger.Error("Failed to create game state message", "error", err)
		return
	}
	s.server.BroadcastToRoom(snap.RoomID, msg)

	s.armReminder(snap)
}

// SendHand implements game.Broadcaster.
func (s *GameService) SendHand(connID string, hand []tiles.Tile) {
	msg, err := NewMessage(MessageTypePlayerHand, PlayerHandData{Hand: hand})
	if err != nil {
		s.logger.Error("Failed to create hand message", "error", err)
		return
	}
	if err := s.server.SendToConn(connID, msg); err != nil {
		s.logger.Debug("Failed to deliver hand", "conn", connID, "error", err)
	}
}

// Notify implements game.Broadcaster.
func (s *GameService) Notify(roomID string, ev game.Event) {
	msg, err := messageForEvent(ev)
	if err != nil {
		s.logger.Error("Failed to create event message", "error", err, "event", ev.EventType())
		return
	}
	s.server.BroadcastToRoom(roomID, msg)
}

// armReminder schedules the idle-turn nudge for the seat whose turn it
// is. Each snapshot resets the timer, so the reminder only fires after
// the configured idle period with no state change. The reminder is a
// notification only; the server never moves for an idle seat.
func (s *GameService) armReminder(snap *game.Snapshot) {
	if s.config == nil || s.config.Game.TurnReminderSeconds <= 0 {
		return
	}

	s.remMu.Lock()
	defer s.remMu.Unlock()

	if timer, ok := s.reminders[snap.RoomID]; ok {
		timer.Stop()
		delete(s.reminders, snap.RoomID)
	}
	if !snap.RoundActive || snap.CurrentTurn == "" {
		return
	}

	roomID := snap.RoomID
	seat := snap.CurrentTurn
	delay := time.Duration(s.config.Game.TurnReminderSeconds) * time.Second
	s.reminders[roomID] = s.clock.AfterFunc(delay, func() {
		s.remMu.Lock()
		delete(s.reminders, roomID)
		s.remMu.Unlock()
		s.Notify(roomID, game.NewTurnReminderEvent(seat))
	})
}

func (s *GameService) stopReminder(roomID string) {
	s.remMu.Lock()
	defer s.remMu.Unlock()
	if timer, ok := s.reminders[roomID]; ok {
		timer.Stop()
		delete(s.reminders, roomID)
	}
}
