package reversi

import (
	"fmt"

	rterr "github.com/Frojdholm/reversi-tournament/internal/errors"
)

// Move is a validated placement. Flips is derived from the position the
// move was generated or parsed against, never supplied from outside; a
// move that flips nothing is illegal by definition.
type Move struct {
	Row    int
	Col    int
	Flips  Bitboard
	Player Player
}

// Token returns the wire form of the move: column letter, 1-based row
// digit, player letter. Example: "d3b".
func (m Move) Token() string {
	return fmt.Sprintf("%c%c%s", byte('a'+m.Col), byte('1'+m.Row), m.Player.Letter())
}

func (m Move) String() string {
	return m.Token()
}

func errInvalidPlayer(s string) error {
	return fmt.Errorf("%w: invalid player %q", rterr.ErrMalformedCommand, s)
}

// ParseMove decodes a wire token against the position it is to be played
// in. The flip mask is recomputed from s rather than trusted from the
// sender, and the token is rejected when it is malformed, names an
// occupied cell, is played out of turn, or captures nothing.
func ParseMove(token string, s State) (Move, error) {
	if len(token) != 3 {
		return Move{}, fmt.Errorf("%w: move token %q", rterr.ErrMalformedCommand, token)
	}
	col := int(token[0] - 'a')
	row := int(token[1] - '1')
	if !InBounds(row, col) {
		return Move{}, fmt.Errorf("%w: move token %q out of bounds", rterr.ErrMalformedCommand, token)
	}
	player, err := ParsePlayer(token[2:])
	if err != nil {
		return Move{}, fmt.Errorf("move token %q: %w", token, err)
	}

	next, ok := s.NextPlayer()
	if !ok {
		return Move{}, fmt.Errorf("move token %q: %w", token, rterr.ErrGameOver)
	}
	if next != player {
		return Move{}, fmt.Errorf("move token %q: %w", token, rterr.ErrNotYourTurn)
	}
	if (s.Black | s.White).Occupied(row, col) {
		return Move{}, fmt.Errorf("%w: cell %q is occupied", rterr.ErrIllegalMove, token[:2])
	}

	own, opp := s.boards(player)
	flips := flipsAt(row, col, own, opp)
	if flips == 0 {
		return Move{}, fmt.Errorf("%w: %q flips nothing", rterr.ErrIllegalMove, token)
	}
	return Move{Row: row, Col: col, Flips: flips, Player: player}, nil
}
