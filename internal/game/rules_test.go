package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/damproductions/domino4/internal/tiles"
)

// fixedRound rebuilds a room into a known mid-match position: four
// bound players, prescribed hands, seat 1 to move first.
func fixedRound(t *testing.T, hands map[SeatID][]string) (*Room, *recorder) {
	t.Helper()
	r, rec := newTestRoom(1)
	bindFour(t, r)

	for id, specs := range hands {
		seat := r.seatOf(id)
		require.NotNil(t, seat)
		seat.Hand = nil
		for _, s := range specs {
			seat.Hand = append(seat.Hand, tiles.MustParseTile(s))
		}
	}
	r.State.CurrentTurn = Seat1
	r.State.IsFirstMove = true
	r.State.IsFirstRoundOfMatch = true
	return r, rec
}

func TestFirstMoveMustBeDoubleSix(t *testing.T) {
	r, _ := fixedRound(t, map[SeatID][]string{
		Seat1: {"6|6", "2|3"},
	})

	err := r.PlaceTile(Seat1, tiles.MustParseTile("2|3"), SideLeft)
	assert.ErrorIs(t, err, ErrMustPlayDouble6)

	// The rejection left state untouched.
	assert.True(t, r.State.IsFirstMove)
	assert.Len(t, r.seatOf(Seat1).Hand, 2)

	require.NoError(t, r.PlaceTile(Seat1, tiles.MustParseTile("6|6"), SideLeft))
	assert.Equal(t, []tiles.Tile{{Left: 6, Right: 6}}, r.State.Board)
	assert.Equal(t, 6, r.State.LeftEnd)
	assert.Equal(t, 6, r.State.RightEnd)
	require.NotNil(t, r.State.SpinnerTile)
	assert.True(t, r.State.SpinnerTile.IsDoubleSix())
	assert.False(t, r.State.IsFirstMove)
}

func TestFirstMoveAnyTileAfterTiedBlock(t *testing.T) {
	r, _ := fixedRound(t, map[SeatID][]string{
		Seat1: {"2|3", "1|1"},
		Seat3: {"3|3"},
		Seat2: {"2|2"},
		Seat4: {"3|4"},
	})
	r.State.IsFirstRoundOfMatch = false
	r.State.IsAfterTiedBlockedGame = true

	require.NoError(t, r.PlaceTile(Seat1, tiles.MustParseTile("2|3"), SideLeft))
	assert.False(t, r.State.IsAfterTiedBlockedGame, "privilege is consumed by the first placement")
}

func TestPlaceTileOutOfTurn(t *testing.T) {
	r, _ := fixedRound(t, map[SeatID][]string{
		Seat2: {"6|6"},
	})

	err := r.PlaceTile(Seat2, tiles.MustParseTile("6|6"), SideLeft)
	assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestPlaceTileNotInHand(t *testing.T) {
	r, _ := fixedRound(t, map[SeatID][]string{
		Seat1: {"6|6"},
	})

	err := r.PlaceTile(Seat1, tiles.MustParseTile("5|5"), SideLeft)
	assert.ErrorIs(t, err, ErrTileNotInHand)
}

func TestPlaceTileWhenRoundInactive(t *testing.T) {
	r, _ := fixedRound(t, map[SeatID][]string{
		Seat1: {"6|6"},
	})
	r.State.RoundActive = false

	err := r.PlaceTile(Seat1, tiles.MustParseTile("6|6"), SideLeft)
	assert.ErrorIs(t, err, ErrRoundNotActive)
}

// openWithDoubleSix opens the round with 6|6 from seat 1. Match 1
// seating is 1, 3, 2, 4, so seat 3 moves next.
func openWithDoubleSix(t *testing.T, r *Room) {
	t.Helper()
	require.NoError(t, r.PlaceTile(Seat1, tiles.MustParseTile("6|6"), SideLeft))
}

func TestPlacementOrientationAndEnds(t *testing.T) {
	// Match 1 seating is Seat1, Seat3, Seat2, Seat4.
	r, _ := fixedRound(t, map[SeatID][]string{
		Seat1: {"6|6", "0|0"},
		Seat3: {"6|2", "0|1"},
		Seat2: {"2|5", "0|2"},
		Seat4: {"6|1", "0|3"},
	})
	openWithDoubleSix(t, r)

	// Seat 3 plays 6|2 on the right: tile oriented 6 first.
	require.NoError(t, r.PlaceTile(Seat3, tiles.MustParseTile("2|6"), SideRight))
	assert.Equal(t, 6, r.State.LeftEnd)
	assert.Equal(t, 2, r.State.RightEnd)
	assert.Equal(t, tiles.Tile{Left: 6, Right: 2}, r.State.Board[len(r.State.Board)-1])

	// Seat 2 plays 2|5 on the right.
	require.NoError(t, r.PlaceTile(Seat2, tiles.MustParseTile("2|5"), SideRight))
	assert.Equal(t, 5, r.State.RightEnd)

	// Seat 4 plays 6|1 on the left: oriented so the 6 touches the chain.
	require.NoError(t, r.PlaceTile(Seat4, tiles.MustParseTile("6|1"), SideLeft))
	assert.Equal(t, 1, r.State.LeftEnd)
	first := r.State.Board[0]
	assert.Equal(t, tiles.Tile{Left: 1, Right: 6}, first)

	// Board reads left to right as a valid chain.
	for i := 1; i < len(r.State.Board); i++ {
		assert.Equal(t, r.State.Board[i-1].Right, r.State.Board[i].Left,
			"chain broken between %v and %v", r.State.Board[i-1], r.State.Board[i])
	}

	require.NotNil(t, r.State.LastPlayed)
	assert.Equal(t, tiles.Tile{Left: 1, Right: 6}, *r.State.LastPlayed)
}

func TestPlacementRejectsNonMatchingEnd(t *testing.T) {
	r, _ := fixedRound(t, map[SeatID][]string{
		Seat1: {"6|6", "0|0"},
		Seat3: {"3|4", "1|2"},
		Seat2: {"6|1"},
		Seat4: {"5|5"},
	})
	openWithDoubleSix(t, r)

	err := r.PlaceTile(Seat3, tiles.MustParseTile("3|4"), SideRight)
	assert.ErrorIs(t, err, ErrIllegalPlacement)
	assert.Len(t, r.seatOf(Seat3).Hand, 2)
}

func TestPassRequiresNoLegalMove(t *testing.T) {
	r, rec := fixedRound(t, map[SeatID][]string{
		Seat1: {"6|6", "1|1"},
		Seat3: {"6|2", "3|4"},
		Seat2: {"0|1"},
		Seat4: {"0|2"},
	})
	openWithDoubleSix(t, r)

	// Seat 3 holds 6|2, a legal move, so passing is rejected.
	err := r.PassTurn(Seat3)
	assert.ErrorIs(t, err, ErrCannotPassWithLegalMove)

	require.NoError(t, r.PlaceTile(Seat3, tiles.MustParseTile("6|2"), SideRight))

	// Seat 2 holds only 0|1 against ends 6 and 2: a forced pass.
	require.NoError(t, r.PassTurn(Seat2))
	assert.Equal(t, Seat4, r.State.CurrentTurn)

	passes := rec.eventsOfType(EventTypePlayerPassed)
	require.Len(t, passes, 1)
	assert.Equal(t, Seat2, passes[0].(PlayerPassedEvent).Seat)
}

func TestTurnRotatesThroughSeating(t *testing.T) {
	r, _ := fixedRound(t, map[SeatID][]string{
		Seat1: {"6|6", "1|1"},
		Seat3: {"6|2", "3|3"},
		Seat2: {"2|2", "4|4"},
		Seat4: {"2|0", "5|5"},
	})
	openWithDoubleSix(t, r)

	assert.Equal(t, Seat3, r.State.CurrentTurn)
	require.NoError(t, r.PlaceTile(Seat3, tiles.MustParseTile("6|2"), SideRight))
	assert.Equal(t, Seat2, r.State.CurrentTurn)
	require.NoError(t, r.PlaceTile(Seat2, tiles.MustParseTile("2|2"), SideRight))
	assert.Equal(t, Seat4, r.State.CurrentTurn)
	require.NoError(t, r.PlaceTile(Seat4, tiles.MustParseTile("2|0"), SideRight))
	assert.Equal(t, Seat1, r.State.CurrentTurn)
}

func TestTileConservation(t *testing.T) {
	r, _ := newTestRoom(7)
	bindFour(t, r)

	countTiles := func() int {
		total := len(r.State.Board)
		for _, seat := range r.Seats {
			total += len(seat.Hand)
		}
		return total
	}
	require.Equal(t, tiles.SetSize, countTiles())

	// Opener plays the double six; the total never changes.
	opener := r.State.CurrentTurn
	require.NoError(t, r.PlaceTile(opener, tiles.MustParseTile("6|6"), SideLeft))
	assert.Equal(t, tiles.SetSize, countTiles())
}
