package game

import (
	rand "math/rand/v2"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/damproductions/domino4/internal/randutil"
	"github.com/damproductions/domino4/internal/roomid"
)

// Registry owns every live room. Lookups and room lifecycle run under
// the registry lock; the action a lookup dispatches to runs under the
// room's own lock, so no lock is ever held across rooms.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[string]*Room
	logger *log.Logger
	events Broadcaster
	rng    *rand.Rand
	idGen  *roomid.Generator

	// onRoomCreated is a fire-and-forget hook for external metrics. It
	// must never gate room creation.
	onRoomCreated func(roomID string)
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRoomCreatedHook registers an observer for room creation.
func WithRoomCreatedHook(hook func(roomID string)) RegistryOption {
	return func(r *Registry) { r.onRoomCreated = hook }
}

// NewRegistry creates an empty registry. The rng seeds each room's
// private shuffle source, so a fixed seed reproduces every deal in
// every room.
func NewRegistry(logger *log.Logger, rng *rand.Rand, events Broadcaster, opts ...RegistryOption) *Registry {
	r := &Registry{
		rooms:  make(map[string]*Room),
		logger: logger.WithPrefix("registry"),
		events: events,
		rng:    rng,
		idGen:  roomid.NewGenerator(rng),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindOrCreate returns a room for a joining player. A room where the
// display name previously held a seat wins if it has space (sticky
// reconnection preference), then any room with a free slot, then a
// freshly created room.
func (reg *Registry) FindOrCreate(displayName string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if displayName != "" {
		for _, room := range reg.rooms {
			if room.HasPlayerName(displayName) && room.ConnectedCount() < 4 {
				reg.logger.Info("returning player routed to previous room", "name", displayName, "room", room.ID)
				return room
			}
		}
	}
	for _, room := range reg.rooms {
		if room.ConnectedCount() < 4 {
			return room
		}
	}
	return reg.createLocked(reg.idGen.Generate())
}

// FindOrCreateByID returns the named room, creating it when absent.
// Player-chosen names are accepted verbatim.
func (reg *Registry) FindOrCreateByID(id string) *Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room, ok := reg.rooms[id]; ok {
		return room
	}
	return reg.createLocked(id)
}

func (reg *Registry) createLocked(id string) *Room {
	room := NewRoom(id, randutil.New(reg.rng.Int64()), reg.logger, reg.events)
	reg.rooms[id] = room
	reg.logger.Info("room created", "room", id, "total", len(reg.rooms))
	if reg.onRoomCreated != nil {
		reg.onRoomCreated(id)
	}
	return room
}

// ByConn resolves a connection to the room holding its seat, or nil.
func (reg *Registry) ByConn(connID string) *Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	for _, room := range reg.rooms {
		if room.HasConn(connID) {
			return room
		}
	}
	return nil
}

// Unbind disconnects whatever seat the connection holds and collects
// the room once its last seat disconnects.
func (reg *Registry) Unbind(connID string) {
	room := reg.ByConn(connID)
	if room == nil {
		return
	}
	if _, empty := room.UnbindSeat(connID); empty {
		reg.collect(room)
	}
}

// collect removes a room that reported itself empty. Emptiness is
// re-checked under the registry lock: a join can race the disconnect
// and reoccupy the room between the seat unbind and the delete, and
// deleting then would orphan the new player. The reg.mu before room.mu
// ordering here matches FindOrCreate.
func (reg *Registry) collect(room *Room) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if room.ConnectedCount() > 0 {
		return
	}
	delete(reg.rooms, room.ID)
	reg.logger.Info("room removed, all players disconnected", "room", room.ID)
}

// Rooms returns a snapshot of the live rooms.
func (reg *Registry) Rooms() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	out := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		out = append(out, room)
	}
	return out
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}

// Shutdown clears all rooms. Connections are closed by the transport
// layer; the registry only forgets the state.
func (reg *Registry) Shutdown() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.rooms = make(map[string]*Room)
	reg.logger.Info("registry cleared")
}
