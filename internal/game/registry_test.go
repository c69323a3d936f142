package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damproductions/domino4/internal/randutil"
	"github.com/damproductions/domino4/internal/roomid"
)

func newTestRegistry() *Registry {
	return NewRegistry(testLogger(), randutil.New(99), NopBroadcaster{})
}

func TestFindOrCreateMakesRoomWithGeneratedID(t *testing.T) {
	reg := newTestRegistry()

	room := reg.FindOrCreate("Ana")
	require.NotNil(t, room)
	assert.NoError(t, roomid.Validate(room.ID))
	assert.Equal(t, 1, reg.Len())
}

func TestFindOrCreateFillsExistingRoomFirst(t *testing.T) {
	reg := newTestRegistry()

	first := reg.FindOrCreate("Ana")
	_, _, err := first.BindSeat("conn-1", "Ana", nil, 0)
	require.NoError(t, err)

	second := reg.FindOrCreate("Beto")
	assert.Equal(t, first.ID, second.ID, "joiners fill rooms with free slots before new rooms open")
	assert.Equal(t, 1, reg.Len())
}

func TestFindOrCreatePrefersPreviousRoomByName(t *testing.T) {
	reg := newTestRegistry()

	// Ana and Beto share a room.
	roomOne := reg.FindOrCreateByID("sala-uno")
	_, _, err := roomOne.BindSeat("conn-1", "Ana", nil, 0)
	require.NoError(t, err)
	_, _, err = roomOne.BindSeat("conn-2", "Beto", nil, 0)
	require.NoError(t, err)

	// Ana drops and her seat stays bound to her name.
	reg.Unbind("conn-1")
	require.Equal(t, 1, reg.Len())

	// Matchmaking routes her back to the room that remembers her.
	back := reg.FindOrCreate("Ana")
	assert.Equal(t, roomOne.ID, back.ID)

	seat, reconnected, err := back.BindSeat("conn-9", "Ana", nil, 0)
	require.NoError(t, err)
	assert.True(t, reconnected)
	assert.Equal(t, Seat1, seat)
}

func TestFindOrCreateByIDIsVerbatim(t *testing.T) {
	reg := newTestRegistry()

	room := reg.FindOrCreateByID("mesa-de-juan")
	assert.Equal(t, "mesa-de-juan", room.ID)

	again := reg.FindOrCreateByID("mesa-de-juan")
	assert.Same(t, room, again)
	assert.Equal(t, 1, reg.Len())
}

func TestByConnResolvesRoom(t *testing.T) {
	reg := newTestRegistry()

	room := reg.FindOrCreateByID("sala-uno")
	_, _, err := room.BindSeat("conn-1", "Ana", nil, 0)
	require.NoError(t, err)

	assert.Same(t, room, reg.ByConn("conn-1"))
	assert.Nil(t, reg.ByConn("conn-2"))
}

func TestUnbindCollectsEmptyRoom(t *testing.T) {
	reg := newTestRegistry()

	room := reg.FindOrCreateByID("sala-uno")
	_, _, err := room.BindSeat("conn-1", "Ana", nil, 0)
	require.NoError(t, err)
	_, _, err = room.BindSeat("conn-2", "Beto", nil, 0)
	require.NoError(t, err)

	reg.Unbind("conn-1")
	assert.Equal(t, 1, reg.Len(), "room survives while a seat is connected")

	reg.Unbind("conn-2")
	assert.Equal(t, 0, reg.Len(), "room is collected when the last seat disconnects")
}

func TestCollectSkipsReoccupiedRoom(t *testing.T) {
	reg := newTestRegistry()

	room := reg.FindOrCreateByID("sala-uno")
	_, _, err := room.BindSeat("conn-1", "Ana", nil, 0)
	require.NoError(t, err)

	// The disconnect reports the room empty, but a joiner grabs a seat
	// before the registry gets around to removing it.
	_, empty := room.UnbindSeat("conn-1")
	require.True(t, empty)
	_, _, err = room.BindSeat("conn-2", "Beto", nil, 0)
	require.NoError(t, err)

	reg.collect(room)

	assert.Equal(t, 1, reg.Len(), "an occupied room must not be collected")
	assert.Same(t, room, reg.ByConn("conn-2"))
}

func TestRoomCreatedHookFires(t *testing.T) {
	var created []string
	reg := NewRegistry(testLogger(), randutil.New(99), NopBroadcaster{},
		WithRoomCreatedHook(func(id string) { created = append(created, id) }))

	reg.FindOrCreate("Ana")
	reg.FindOrCreateByID("sala-dos")

	require.Len(t, created, 2)
	assert.True(t, strings.HasPrefix(created[0], roomid.Prefix))
	assert.Equal(t, "sala-dos", created[1])
}

func TestRoomsAreIndependent(t *testing.T) {
	reg := newTestRegistry()

	a := reg.FindOrCreateByID("sala-a")
	b := reg.FindOrCreateByID("sala-b")

	_, _, err := a.BindSeat("conn-1", "Ana", nil, 120)
	require.NoError(t, err)
	_, _, err = b.BindSeat("conn-2", "Beto", nil, 0)
	require.NoError(t, err)

	assert.Equal(t, 120, a.Snapshot().TargetScore)
	assert.Equal(t, DefaultTargetScore, b.Snapshot().TargetScore)
}
