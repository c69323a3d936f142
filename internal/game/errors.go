package game

import "errors"

// Action rejection errors. All of them leave the room state untouched;
// the caller reports them back to the originating connection only.
var (
	ErrNameTaken               = errors.New("display name already taken in this room")
	ErrRoomFull                = errors.New("room is full")
	ErrNotYourTurn             = errors.New("not this seat's turn")
	ErrRoundNotActive          = errors.New("no round in progress")
	ErrTileNotInHand           = errors.New("tile not in hand")
	ErrIllegalPlacement        = errors.New("tile does not match the requested end")
	ErrMustPlayDouble6         = errors.New("first tile of the match must be the double six")
	ErrCannotPassWithLegalMove = errors.New("cannot pass while holding a playable tile")
)

// Rejection is the wire form of a rejected action: a stable code plus a
// human-readable message in the game's source language. Translation is
// the client's job.
type Rejection struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RejectionOf maps a rejection error to its wire form. Unrecognized
// errors map to a generic invalid-move rejection so internal wording
// never leaks to clients.
func RejectionOf(err error) Rejection {
	switch {
	case errors.Is(err, ErrNameTaken):
		return Rejection{Code: "name_taken", Message: "Ese nombre ya está en uso en esta sala. Elige otro."}
	case errors.Is(err, ErrRoomFull):
		return Rejection{Code: "room_full", Message: "Room is full. Looking for another room..."}
	case errors.Is(err, ErrNotYourTurn):
		return Rejection{Code: "not_your_turn", Message: "No es tu turno!"}
	case errors.Is(err, ErrRoundNotActive):
		return Rejection{Code: "round_not_active", Message: "La mano no está en curso."}
	case errors.Is(err, ErrTileNotInHand):
		return Rejection{Code: "tile_not_in_hand", Message: "No tienes esa ficha!"}
	case errors.Is(err, ErrMustPlayDouble6):
		return Rejection{Code: "must_play_double6", Message: "Primera ficha debe ser 6|6!"}
	case errors.Is(err, ErrCannotPassWithLegalMove):
		return Rejection{Code: "cannot_pass", Message: "Tienes una jugada válida!"}
	default:
		return Rejection{Code: "illegal_placement", Message: "Jugada inválida!"}
	}
}
