package game

import "github.com/damproductions/domino4/internal/tiles"

// SeatInfo is the public view of one seat: everything a client may see
// about any player, which notably excludes the hand itself. TileCount
// stands in for the hand so opponents can be rendered face-down.
type SeatInfo struct {
	Name        SeatID `json:"name"`
	DisplayName string `json:"displayName"`
	Connected   bool   `json:"isConnected"`
	TileCount   int    `json:"tileCount"`
	Avatar      Avatar `json:"avatar"`
}

// Snapshot is the client-visible projection of a room's state. It is
// pushed to every connected seat after each mutation. Hands never appear
// here; each seat receives its own hand through a separate private push.
type Snapshot struct {
	RoomID      string `json:"roomId"`
	TargetScore int    `json:"targetScore"`

	Seats []SeatInfo `json:"jugadoresInfo"`

	Board       []tiles.Tile `json:"board"`
	SpinnerTile *tiles.Tile  `json:"spinnerTile"`
	LastPlayed  *tiles.Tile  `json:"lastPlayedTile"`
	LeftEnd     *int         `json:"leftEnd"`
	RightEnd    *int         `json:"rightEnd"`

	CurrentTurn SeatID       `json:"currentTurn"`
	Seating     []SeatID     `json:"seating"`
	Teams       Teams        `json:"teams"`
	TeamScores  map[Team]int `json:"teamScores"`

	RoundActive            bool `json:"gameInitialized"`
	IsFirstMove            bool `json:"isFirstMove"`
	IsFirstRoundOfMatch    bool `json:"isFirstRoundOfMatch"`
	IsAfterTiedBlockedGame bool `json:"isAfterTiedBlockedGame"`
	IsTiedBlockedGame      bool `json:"isTiedBlockedGame"`
	GameBlocked            bool `json:"gameBlocked"`
	MatchOver              bool `json:"matchOver"`

	LastWinner   SeatID                `json:"lastWinner"`
	ReadyPlayers []SeatID              `json:"readyPlayers"`
	MatchNumber  int                   `json:"matchNumber"`
	PlayerStats  map[SeatID]*SeatStats `json:"playerStats"`

	EndRoundMessage string `json:"endRoundMessage,omitempty"`
	EndMatchMessage string `json:"endMatchMessage,omitempty"`
}

// snapshot builds the shared projection. Callers must hold the room
// lock. All reference values are copied so the snapshot stays stable
// after the lock is released.
func (r *Room) snapshot() *Snapshot {
	gs := r.State

	seats := make([]SeatInfo, len(r.Seats))
	for i, s := range r.Seats {
		seats[i] = SeatInfo{
			Name:        s.ID,
			DisplayName: s.DisplayName(),
			Connected:   s.Connected,
			TileCount:   len(s.Hand),
			Avatar:      s.Avatar,
		}
	}

	board := make([]tiles.Tile, len(gs.Board))
	copy(board, gs.Board)

	var leftEnd, rightEnd *int
	if left, right, ok := gs.Ends(); ok {
		leftEnd, rightEnd = &left, &right
	}

	seating := make([]SeatID, len(gs.Seating))
	copy(seating, gs.Seating)

	scoreCopy := map[Team]int{TeamA: gs.TeamScores[TeamA], TeamB: gs.TeamScores[TeamB]}
	statsCopy := make(map[SeatID]*SeatStats, len(gs.PlayerStats))
	for id, st := range gs.PlayerStats {
		c := *st
		statsCopy[id] = &c
	}

	return &Snapshot{
		RoomID:      r.ID,
		TargetScore: r.TargetScore,

		Seats: seats,

		Board:       board,
		SpinnerTile: copyTile(gs.SpinnerTile),
		LastPlayed:  copyTile(gs.LastPlayed),
		LeftEnd:     leftEnd,
		RightEnd:    rightEnd,

		CurrentTurn: gs.CurrentTurn,
		Seating:     seating,
		Teams:       gs.Teams,
		TeamScores:  scoreCopy,

		RoundActive:            gs.RoundActive,
		IsFirstMove:            gs.IsFirstMove,
		IsFirstRoundOfMatch:    gs.IsFirstRoundOfMatch,
		IsAfterTiedBlockedGame: gs.IsAfterTiedBlockedGame,
		IsTiedBlockedGame:      gs.IsTiedBlockedGame,
		GameBlocked:            gs.GameBlocked,
		MatchOver:              gs.MatchOver,

		LastWinner:   gs.LastWinner,
		ReadyPlayers: gs.ReadyList(),
		MatchNumber:  gs.MatchNumber,
		PlayerStats:  statsCopy,

		EndRoundMessage: gs.EndRoundMessage,
		EndMatchMessage: gs.EndMatchMessage,
	}
}

func copyTile(t *tiles.Tile) *tiles.Tile {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// broadcast pushes the current projection to all connected seats.
// Callers must hold the room lock.
func (r *Room) broadcast() {
	r.events.BroadcastSnapshot(r.snapshot())
}
