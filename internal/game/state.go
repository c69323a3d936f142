package game

import "github.com/damproductions/domino4/internal/tiles"

// Team identifies one of the two partnerships in a round.
type Team string

const (
	TeamA Team = "teamA"
	TeamB Team = "teamB"
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamA {
		return TeamB
	}
	return TeamA
}

// Teams is the partnership assignment for the current match: a partition
// of the four seats into two pairs.
type Teams struct {
	TeamA [2]SeatID `json:"teamA"`
	TeamB [2]SeatID `json:"teamB"`
}

// TeamOf returns the team a seat belongs to.
func (t Teams) TeamOf(seat SeatID) Team {
	if t.TeamA[0] == seat || t.TeamA[1] == seat {
		return TeamA
	}
	return TeamB
}

// Members returns the two seats on a team.
func (t Teams) Members(team Team) [2]SeatID {
	if team == TeamA {
		return t.TeamA
	}
	return t.TeamB
}

// teamsForMatch computes the partnership rotation for a match number.
// The schedule has period three: match 1 pairs (1,2)/(3,4), match 2
// pairs (1,3)/(2,4), match 3 pairs (1,4)/(2,3), then it repeats.
func teamsForMatch(matchNumber int) Teams {
	switch (matchNumber - 1) % 3 {
	case 0:
		return Teams{TeamA: [2]SeatID{Seat1, Seat2}, TeamB: [2]SeatID{Seat3, Seat4}}
	case 1:
		return Teams{TeamA: [2]SeatID{Seat1, Seat3}, TeamB: [2]SeatID{Seat2, Seat4}}
	default:
		return Teams{TeamA: [2]SeatID{Seat1, Seat4}, TeamB: [2]SeatID{Seat2, Seat3}}
	}
}

// SeatStats is the per-seat cumulative bookkeeping that survives match
// resets. It is cleared only by an explicit room restart.
type SeatStats struct {
	MatchesWon int `json:"matchesWon"`
}

// GameState is the authoritative per-room round/match state. All
// mutations funnel through Room methods; nothing outside this package
// writes to it.
type GameState struct {
	RoundActive bool

	Board       []tiles.Tile
	SpinnerTile *tiles.Tile
	LastPlayed  *tiles.Tile
	LeftEnd     int
	RightEnd    int

	CurrentTurn SeatID
	Seating     []SeatID
	Teams       Teams
	TeamScores  map[Team]int

	IsFirstMove            bool
	IsFirstRoundOfMatch    bool
	IsAfterTiedBlockedGame bool
	IsTiedBlockedGame      bool
	GameBlocked            bool
	MatchOver              bool

	LastWinner  SeatID
	Ready       map[SeatID]struct{}
	MatchNumber int
	PlayerStats map[SeatID]*SeatStats

	EndRoundMessage string
	EndMatchMessage string
}

// NewGameState creates the state of a brand-new room: match 1, everything
// zeroed, first round pending.
func NewGameState() *GameState {
	stats := make(map[SeatID]*SeatStats, len(SeatIDs))
	for _, id := range SeatIDs {
		stats[id] = &SeatStats{}
	}
	return &GameState{
		TeamScores:          map[Team]int{TeamA: 0, TeamB: 0},
		IsFirstMove:         true,
		IsFirstRoundOfMatch: true,
		Ready:               make(map[SeatID]struct{}),
		MatchNumber:         1,
		PlayerStats:         stats,
	}
}

// nextMatchState builds the wholesale replacement state used when all
// seats ready up after a match ends: stats, winner and match counter
// carry over, everything else resets.
func (gs *GameState) nextMatchState() *GameState {
	next := NewGameState()
	next.PlayerStats = gs.PlayerStats
	next.MatchNumber = gs.MatchNumber + 1
	next.LastWinner = gs.LastWinner
	return next
}

// Ends returns the two open board ends. ok is false before the first
// tile of a round is played.
func (gs *GameState) Ends() (left, right int, ok bool) {
	if len(gs.Board) == 0 {
		return 0, 0, false
	}
	return gs.LeftEnd, gs.RightEnd, true
}

// ReadyList returns the ready set as a stable slice for wire
// transmission, in fixed seat order.
func (gs *GameState) ReadyList() []SeatID {
	out := make([]SeatID, 0, len(gs.Ready))
	for _, id := range SeatIDs {
		if _, ok := gs.Ready[id]; ok {
			out = append(out, id)
		}
	}
	return out
}
