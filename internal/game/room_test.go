package game

import (
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damproductions/domino4/internal/randutil"
	"github.com/damproductions/domino4/internal/tiles"
)

// recorder captures everything a room pushes out, for assertions.
type recorder struct {
	mu        sync.Mutex
	snapshots []*Snapshot
	hands     map[string][][]tiles.Tile
	events    []Event
}

func newRecorder() *recorder {
	return &recorder{hands: make(map[string][][]tiles.Tile)}
}

func (rec *recorder) BroadcastSnapshot(snap *Snapshot) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.snapshots = append(rec.snapshots, snap)
}

func (rec *recorder) SendHand(connID string, hand []tiles.Tile) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.hands[connID] = append(rec.hands[connID], hand)
}

func (rec *recorder) Notify(roomID string, ev Event) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.events = append(rec.events, ev)
}

func (rec *recorder) eventsOfType(et EventType) []Event {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	var out []Event
	for _, ev := range rec.events {
		if ev.EventType() == et {
			out = append(out, ev)
		}
	}
	return out
}

func (rec *recorder) lastHand(connID string) []tiles.Tile {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	sent := rec.hands[connID]
	if len(sent) == 0 {
		return nil
	}
	return sent[len(sent)-1]
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestRoom(seed int64) (*Room, *recorder) {
	rec := newRecorder()
	return NewRoom("sala-test", randutil.New(seed), testLogger(), rec), rec
}

var testNames = []string{"Ana", "Beto", "Carla", "Diego"}

// bindFour joins four players as conn-1..conn-4, which starts the
// first round.
func bindFour(t *testing.T, r *Room) {
	t.Helper()
	for i, name := range testNames {
		_, _, err := r.BindSeat(fmt.Sprintf("conn-%d", i+1), name, nil, 0)
		require.NoError(t, err)
	}
}

func TestBindSeatAssignsSeatsInOrder(t *testing.T) {
	r, _ := newTestRoom(1)

	for i, name := range testNames {
		seat, reconnected, err := r.BindSeat(fmt.Sprintf("conn-%d", i+1), name, nil, 0)
		require.NoError(t, err)
		assert.False(t, reconnected)
		assert.Equal(t, SeatIDs[i], seat)
	}
}

func TestBindSeatRejectsConnectedDuplicateName(t *testing.T) {
	r, _ := newTestRoom(1)

	_, _, err := r.BindSeat("conn-1", "Ana", nil, 0)
	require.NoError(t, err)

	_, _, err = r.BindSeat("conn-2", "Ana", nil, 0)
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestBindSeatRejectsFifthPlayer(t *testing.T) {
	r, _ := newTestRoom(1)
	bindFour(t, r)

	_, _, err := r.BindSeat("conn-5", "Elena", nil, 0)
	assert.ErrorIs(t, err, ErrRoomFull)
}

func TestFirstBindSetsTargetScore(t *testing.T) {
	r, _ := newTestRoom(1)

	_, _, err := r.BindSeat("conn-1", "Ana", nil, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, r.Snapshot().TargetScore)

	// Later joiners cannot change it.
	_, _, err = r.BindSeat("conn-2", "Beto", nil, 50)
	require.NoError(t, err)
	assert.Equal(t, 100, r.Snapshot().TargetScore)
}

func TestFourthBindStartsRound(t *testing.T) {
	r, rec := newTestRoom(1)
	bindFour(t, r)

	snap := r.Snapshot()
	assert.True(t, snap.RoundActive)
	assert.True(t, snap.IsFirstMove)
	assert.Equal(t, 1, snap.MatchNumber)
	require.Len(t, snap.Seating, 4)

	// Seating alternates the two partnerships.
	teams := snap.Teams
	assert.Equal(t, teams.TeamA[0], snap.Seating[0])
	assert.Equal(t, teams.TeamB[0], snap.Seating[1])
	assert.Equal(t, teams.TeamA[1], snap.Seating[2])
	assert.Equal(t, teams.TeamB[1], snap.Seating[3])

	// Every seat got a private seven-tile hand.
	for i := 1; i <= 4; i++ {
		hand := rec.lastHand(fmt.Sprintf("conn-%d", i))
		assert.Len(t, hand, tiles.HandSize)
	}

	// The opener holds the double six.
	opener := r.seatOf(snap.CurrentTurn)
	require.NotNil(t, opener)
	assert.True(t, opener.HoldsDoubleSix())

	started := rec.eventsOfType(EventTypeRoundStarted)
	require.Len(t, started, 1)
	assert.Equal(t, snap.CurrentTurn, started[0].(RoundStartedEvent).FirstTurn)
}

func TestReconnectReclaimsSeatAndHand(t *testing.T) {
	r, rec := newTestRoom(1)
	bindFour(t, r)

	seatID, ok := r.SeatForConn("conn-2")
	require.True(t, ok)
	handBefore := r.HandOf(seatID)
	require.Len(t, handBefore, tiles.HandSize)

	gone, empty := r.UnbindSeat("conn-2")
	assert.Equal(t, seatID, gone)
	assert.False(t, empty)

	seat, reconnected, err := r.BindSeat("conn-9", "Beto", nil, 0)
	require.NoError(t, err)
	assert.True(t, reconnected)
	assert.Equal(t, seatID, seat)
	assert.Equal(t, handBefore, r.HandOf(seatID))

	// The active round means the hand was re-sent to the new conn.
	assert.Equal(t, handBefore, rec.lastHand("conn-9"))
}

func TestUnbindLastSeatReportsEmpty(t *testing.T) {
	r, _ := newTestRoom(1)
	_, _, err := r.BindSeat("conn-1", "Ana", nil, 0)
	require.NoError(t, err)

	_, empty := r.UnbindSeat("conn-1")
	assert.True(t, empty)
}

func TestDisconnectClearsReady(t *testing.T) {
	r, _ := newTestRoom(1)
	bindFour(t, r)

	// Force a round-end shape so ready-up is meaningful.
	r.State.RoundActive = false
	r.State.EndRoundMessage = "Mano finalizada!"

	r.PlayerReady(Seat2)
	assert.Contains(t, r.Snapshot().ReadyPlayers, Seat2)

	r.UnbindSeat("conn-2")
	assert.NotContains(t, r.Snapshot().ReadyPlayers, Seat2)
}

func TestReadyGateNeedsAllFourConnected(t *testing.T) {
	r, _ := newTestRoom(1)
	bindFour(t, r)

	r.State.RoundActive = false
	r.State.EndRoundMessage = "Mano finalizada!"
	r.State.IsFirstRoundOfMatch = false

	r.UnbindSeat("conn-4")

	// All three connected seats ready, but only three are connected.
	r.PlayerReady(Seat1)
	r.PlayerReady(Seat2)
	r.PlayerReady(Seat3)
	assert.False(t, r.Snapshot().RoundActive)

	// Fourth reconnects and readies: round starts.
	_, _, err := r.BindSeat("conn-9", "Diego", nil, 0)
	require.NoError(t, err)
	r.PlayerReady(Seat4)
	assert.True(t, r.Snapshot().RoundActive)
}

func TestReadyAfterMatchOverStartsNextMatch(t *testing.T) {
	r, _ := newTestRoom(1)
	bindFour(t, r)

	r.State.RoundActive = false
	r.State.MatchOver = true
	r.State.EndRoundMessage = "done"
	r.State.LastWinner = Seat3
	r.State.PlayerStats[Seat3].MatchesWon = 2

	for _, id := range SeatIDs {
		r.PlayerReady(id)
	}

	snap := r.Snapshot()
	assert.True(t, snap.RoundActive)
	assert.Equal(t, 2, snap.MatchNumber)
	assert.False(t, snap.MatchOver)
	assert.Equal(t, 0, snap.TeamScores[TeamA])
	assert.Equal(t, 0, snap.TeamScores[TeamB])
	// Stats and last winner carry across matches.
	assert.Equal(t, 2, snap.PlayerStats[Seat3].MatchesWon)

	// Match 2 rotates partnerships: seat 1 now pairs with seat 3.
	assert.Equal(t, snap.Teams.TeamOf(Seat1), snap.Teams.TeamOf(Seat3))
}

func TestRestartWipesScoresAndStats(t *testing.T) {
	r, rec := newTestRoom(1)
	bindFour(t, r)

	r.State.TeamScores[TeamA] = 55
	r.State.PlayerStats[Seat1].MatchesWon = 3
	r.State.MatchNumber = 5

	r.Restart(Seat2)

	snap := r.Snapshot()
	assert.True(t, snap.RoundActive) // four connected, new round deals immediately
	assert.Equal(t, 1, snap.MatchNumber)
	assert.Equal(t, 0, snap.TeamScores[TeamA])
	assert.Equal(t, 0, snap.PlayerStats[Seat1].MatchesWon)

	restarts := rec.eventsOfType(EventTypeGameRestarted)
	require.Len(t, restarts, 1)
	ev := restarts[0].(GameRestartedEvent)
	assert.Equal(t, "Beto", ev.RestartedBy)
	assert.Equal(t, "Beto reinició el juego", ev.Message)
}

func TestRestartWithMissingPlayerClearsHands(t *testing.T) {
	r, _ := newTestRoom(1)
	bindFour(t, r)

	r.UnbindSeat("conn-3")
	r.Restart(Seat1)

	// Only three connected, so no redeal runs; the old hands must be
	// gone rather than lingering as phantom tiles.
	snap := r.Snapshot()
	assert.False(t, snap.RoundActive)
	for _, info := range snap.Seats {
		assert.Zero(t, info.TileCount, "seat %s", info.Name)
	}
	for _, id := range SeatIDs {
		assert.Empty(t, r.HandOf(id), "seat %s", id)
	}
}

func TestReadyIgnoredDuringActiveRound(t *testing.T) {
	r, _ := newTestRoom(1)
	bindFour(t, r)

	before := r.Snapshot()
	require.True(t, before.RoundActive)

	for _, id := range SeatIDs {
		r.PlayerReady(id)
	}

	// The round in progress is untouched and nothing was recorded.
	snap := r.Snapshot()
	assert.True(t, snap.RoundActive)
	assert.Empty(t, snap.ReadyPlayers)
	assert.Equal(t, before.CurrentTurn, snap.CurrentTurn)
	for _, info := range snap.Seats {
		assert.Equal(t, tiles.HandSize, info.TileCount)
	}
}

func TestTeamsForMatchRotation(t *testing.T) {
	tests := []struct {
		match int
		teamA [2]SeatID
		teamB [2]SeatID
	}{
		{1, [2]SeatID{Seat1, Seat2}, [2]SeatID{Seat3, Seat4}},
		{2, [2]SeatID{Seat1, Seat3}, [2]SeatID{Seat2, Seat4}},
		{3, [2]SeatID{Seat1, Seat4}, [2]SeatID{Seat2, Seat3}},
		{4, [2]SeatID{Seat1, Seat2}, [2]SeatID{Seat3, Seat4}}, // cycle repeats
		{7, [2]SeatID{Seat1, Seat2}, [2]SeatID{Seat3, Seat4}},
	}

	for _, tt := range tests {
		got := teamsForMatch(tt.match)
		assert.Equal(t, tt.teamA, got.TeamA, "match %d", tt.match)
		assert.Equal(t, tt.teamB, got.TeamB, "match %d", tt.match)
	}
}

func TestSnapshotNeverExposesHands(t *testing.T) {
	r, _ := newTestRoom(1)
	bindFour(t, r)

	snap := r.Snapshot()
	for _, info := range snap.Seats {
		assert.Equal(t, tiles.HandSize, info.TileCount)
	}
	// Board is empty before the first move, ends are absent.
	assert.Empty(t, snap.Board)
	assert.Nil(t, snap.LeftEnd)
	assert.Nil(t, snap.RightEnd)
}
