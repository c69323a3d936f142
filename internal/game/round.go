package game

import (
	"fmt"

	"github.com/damproductions/domino4/internal/tiles"
)

// initializeRound deals a new round. Callers hold r.mu and have already
// verified that four seats are connected.
//
// Teams are recomputed from the match number and seating alternates
// between the two partnerships, which is what makes turn order rotate
// between opposing teams. The starting seat depends on the round kind:
// the first round of a match belongs to whoever drew the double six, a
// round after a tied blocked game belongs to the double-six holder with
// any-tile privilege, and every other round belongs to the last winner.
func (r *Room) initializeRound() {
	gs := r.State
	gs.RoundActive = true
	gs.IsFirstMove = true
	gs.Board = nil
	gs.LeftEnd, gs.RightEnd = 0, 0
	gs.SpinnerTile = nil
	gs.LastPlayed = nil
	gs.EndRoundMessage = ""
	gs.EndMatchMessage = ""
	gs.MatchOver = false
	gs.GameBlocked = false
	gs.IsTiedBlockedGame = false

	gs.Teams = teamsForMatch(gs.MatchNumber)
	gs.Seating = []SeatID{
		gs.Teams.TeamA[0], gs.Teams.TeamB[0],
		gs.Teams.TeamA[1], gs.Teams.TeamB[1],
	}

	hands := tiles.DealHands(r.rng)
	for i, id := range gs.Seating {
		seat := r.seatOf(id)
		if !seat.Connected {
			seat.Hand = nil
			continue
		}
		seat.Hand = hands[i]
		if seat.ConnID != "" {
			r.events.SendHand(seat.ConnID, copyHand(seat.Hand))
		}
	}

	switch {
	case gs.IsFirstRoundOfMatch:
		gs.CurrentTurn = r.doubleSixHolderOr(Seat1)
		gs.IsAfterTiedBlockedGame = false
	case gs.IsAfterTiedBlockedGame:
		fallback := gs.LastWinner
		if fallback == "" {
			fallback = gs.Seating[0]
		}
		gs.CurrentTurn = r.doubleSixHolderOr(fallback)
		r.logger.Info("tied-block rule: double six holder opens with any tile", "seat", gs.CurrentTurn)
	default:
		gs.CurrentTurn = gs.Seating[0]
		if w := r.seatOf(gs.LastWinner); w != nil && w.Connected {
			gs.CurrentTurn = gs.LastWinner
		}
		gs.IsAfterTiedBlockedGame = false
	}

	r.logger.Info("round started", "match", gs.MatchNumber, "firstTurn", gs.CurrentTurn)
	r.events.Notify(r.ID, RoundStartedEvent{
		eventStamp:  stamp(),
		MatchNumber: gs.MatchNumber,
		FirstTurn:   gs.CurrentTurn,
	})
	r.broadcast()
}

// doubleSixHolderOr scans connected seats for the 6|6 and returns its
// holder, or the fallback when no connected seat has it. With a
// complete 28-tile deal the fallback should be unreachable.
func (r *Room) doubleSixHolderOr(fallback SeatID) SeatID {
	for _, seat := range r.Seats {
		if seat.Connected && seat.HoldsDoubleSix() {
			return seat.ID
		}
	}
	return fallback
}

// checkRoundEnd runs after every accepted move or pass: a seat with an
// empty hand wins the round; if nobody can move the round is blocked.
// Otherwise the new state is simply broadcast. Callers hold r.mu.
func (r *Room) checkRoundEnd() {
	if !r.State.RoundActive {
		return
	}
	for _, seat := range r.Seats {
		if seat.Connected && len(seat.Hand) == 0 {
			r.endRound(outcome{winner: seat.ID})
			return
		}
	}
	for _, seat := range r.Seats {
		if seat.Connected && r.hasLegalMove(seat) {
			r.broadcast()
			return
		}
	}
	r.endRound(outcome{blocked: true})
}

type outcome struct {
	winner  SeatID
	blocked bool
}

// endRound scores the finished round and either arms the ready-up gate
// for the next round or, when a team reached the target, for the next
// match. Board and teams are deliberately left in place so clients can
// show the final position until everyone readies up. Callers hold r.mu.
func (r *Room) endRound(out outcome) {
	gs := r.State
	endMessage := "Mano finalizada!"

	switch {
	case out.winner != "":
		winner := out.winner
		gs.LastWinner = winner
		winnerTeam := gs.Teams.TeamOf(winner)
		points := r.teamPipTotal(winnerTeam.Opponent())
		gs.TeamScores[winnerTeam] += points

		display := r.seatOf(winner).DisplayName()
		endMessage = fmt.Sprintf("%s domino! Equipo %s gana %d puntos!", display, teamLetter(winnerTeam), points)
		r.events.Notify(r.ID, PlayerWonHandEvent{
			eventStamp:  stamp(),
			Seat:        winner,
			DisplayName: display,
			Points:      points,
		})

	case out.blocked:
		gs.GameBlocked = true
		pipsA := r.teamPipTotal(TeamA)
		pipsB := r.teamPipTotal(TeamB)

		if pipsA != pipsB {
			winningTeam := TeamA
			points := pipsA
			if pipsB < pipsA {
				winningTeam = TeamB
			} else {
				points = pipsB
			}
			gs.TeamScores[winningTeam] += points
			endMessage = fmt.Sprintf("Juego Cerrado! Equipo %s gana con menos puntos, gana %d puntos.", teamLetter(winningTeam), points)
			gs.LastWinner = r.lowestPipSeat()
			gs.IsAfterTiedBlockedGame = false
			gs.IsTiedBlockedGame = false
		} else {
			// Tied block: nobody scores, and the next round opens with
			// whoever holds the double six, free to play any tile.
			endMessage = "Juego Cerrado! Empate - nadie gana puntos."
			gs.IsTiedBlockedGame = true
			gs.IsAfterTiedBlockedGame = true
			if holder := r.doubleSixHolderOr(""); holder != "" {
				gs.LastWinner = holder
			} else {
				gs.LastWinner = r.lowestPipSeat()
			}
		}
	}

	r.events.Notify(r.ID, RoundEndedEvent{
		eventStamp: stamp(),
		Message:    endMessage,
		Blocked:    out.blocked,
		Tied:       gs.IsTiedBlockedGame,
	})

	scoreA := gs.TeamScores[TeamA]
	scoreB := gs.TeamScores[TeamB]
	if scoreA >= r.TargetScore || scoreB >= r.TargetScore {
		winningTeam := TeamA
		losingScore := scoreB
		if scoreB > scoreA {
			winningTeam = TeamB
			losingScore = scoreA
		}

		// Shutout doubles the match-point award.
		matchPoints := 1
		if losingScore == 0 {
			matchPoints = 2
		}
		for _, id := range gs.Teams.Members(winningTeam) {
			if st := gs.PlayerStats[id]; st != nil {
				st.MatchesWon += matchPoints
			}
		}

		matchMessage := fmt.Sprintf("Team %s gana el match %d a %d!", teamLetter(winningTeam), scoreA, scoreB)
		if losingScore == 0 {
			matchMessage += fmt.Sprintf(" (Zapato: +%d puntos!)", matchPoints)
		}

		gs.MatchOver = true
		gs.EndMatchMessage = matchMessage
		gs.EndRoundMessage = endMessage + "\n" + matchMessage
		gs.RoundActive = false
		gs.Ready = make(map[SeatID]struct{})

		r.logger.Info("match over", "winner", winningTeam, "scoreA", scoreA, "scoreB", scoreB, "shutout", losingScore == 0)
		r.events.Notify(r.ID, MatchEndedEvent{
			eventStamp:  stamp(),
			Message:     matchMessage,
			WinningTeam: winningTeam,
			Shutout:     losingScore == 0,
		})
		r.broadcast()
		return
	}

	gs.IsFirstRoundOfMatch = false
	gs.MatchOver = false
	gs.EndMatchMessage = ""
	gs.RoundActive = false
	gs.EndRoundMessage = endMessage
	gs.Ready = make(map[SeatID]struct{})
	r.logger.Info("round over", "scoreA", scoreA, "scoreB", scoreB)
	r.broadcast()
}

// teamPipTotal sums the remaining pips held by a team's two seats.
func (r *Room) teamPipTotal(team Team) int {
	total := 0
	for _, id := range r.State.Teams.Members(team) {
		total += tiles.HandValue(r.seatOf(id).Hand)
	}
	return total
}

// lowestPipSeat returns the connected seat holding the cheapest hand.
func (r *Room) lowestPipSeat() SeatID {
	best := SeatID("")
	bestPips := 0
	for _, seat := range r.Seats {
		if !seat.Connected {
			continue
		}
		pips := tiles.HandValue(seat.Hand)
		if best == "" || pips < bestPips {
			best, bestPips = seat.ID, pips
		}
	}
	return best
}

func teamLetter(t Team) string {
	if t == TeamA {
		return "A"
	}
	return "B"
}
