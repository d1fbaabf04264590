package reversi

import (
	"fmt"
	"strings"
)

// directions covers the eight rays a capture run can follow.
var directions = [8][2]int{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{-1, -1}, {1, -1}, {1, 1}, {-1, 1},
}

// State is an immutable snapshot of a game. LastPlayed is the side that
// moved into this state and determines whose turn is next.
type State struct {
	Black      Bitboard
	White      Bitboard
	LastPlayed Player
}

// StartPosition returns the canonical opening state. LastPlayed is White,
// so Black is first to move.
func StartPosition() State {
	return State{
		Black:      Square(3, 3) | Square(4, 4),
		White:      Square(3, 4) | Square(4, 3),
		LastPlayed: White,
	}
}

func (s State) boards(p Player) (own, opp Bitboard) {
	if p == Black {
		return s.Black, s.White
	}
	return s.White, s.Black
}

// flipsInDirection walks outward from (row, col) along (dr, dc) and returns
// the run of opponent stones closed off by an own stone, or 0 when the run
// hits the edge or an empty cell first.
func flipsInDirection(row, col, dr, dc int, own, opp Bitboard) Bitboard {
	var run Bitboard
	for i := 1; i < BoardSize; i++ {
		r := row + dr*i
		c := col + dc*i
		switch {
		case !InBounds(r, c):
			return 0
		case own.Occupied(r, c):
			return run
		case opp.Occupied(r, c):
			run |= Square(r, c)
		default:
			return 0
		}
	}
	return 0
}

// flipsAt unions the capture runs in all eight directions for a stone
// placed at (row, col).
func flipsAt(row, col int, own, opp Bitboard) Bitboard {
	var flips Bitboard
	for _, d := range directions {
		flips |= flipsInDirection(row, col, d[0], d[1], own, opp)
	}
	return flips
}

// PossibleMoves returns every legal move for p in row-major order. A cell
// is a legal move iff it is empty and captures at least one opponent stone.
func (s State) PossibleMoves(p Player) []Move {
	own, opp := s.boards(p)
	occupied := own | opp
	var moves []Move
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if occupied.Occupied(row, col) {
				continue
			}
			if flips := flipsAt(row, col, own, opp); flips != 0 {
				moves = append(moves, Move{Row: row, Col: col, Flips: flips, Player: p})
			}
		}
	}
	return moves
}

// HasMove reports whether p has at least one legal move, without building
// the full move list.
func (s State) HasMove(p Player) bool {
	own, opp := s.boards(p)
	occupied := own | opp
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if occupied.Occupied(row, col) {
				continue
			}
			if flipsAt(row, col, own, opp) != 0 {
				return true
			}
		}
	}
	return false
}

// NextPlayer returns the side to move. The opponent of the last mover goes
// first; if they cannot move the turn passes back (forced pass); if neither
// side can move the game is over and ok is false.
func (s State) NextPlayer() (next Player, ok bool) {
	other := s.LastPlayed.Opponent()
	if s.HasMove(other) {
		return other, true
	}
	if s.HasMove(s.LastPlayed) {
		return s.LastPlayed, true
	}
	return 0, false
}

// Apply plays m and returns the resulting state. The mover's stone is
// placed and every captured cell changes owner in one XOR against both
// bitboards: captured cells belong to the opponent before the move and to
// the mover after it. Legality is not re-checked here; callers validate
// moves before applying them.
func (s State) Apply(m Move) State {
	next := State{Black: s.Black, White: s.White, LastPlayed: m.Player}
	if m.Player == Black {
		next.Black |= Square(m.Row, m.Col)
	} else {
		next.White |= Square(m.Row, m.Col)
	}
	next.Black ^= m.Flips
	next.White ^= m.Flips
	return next
}

// Counts returns the disc counts for both sides.
func (s State) Counts() (black, white int) {
	return s.Black.Count(), s.White.Count()
}

// Winner returns the side with strictly more discs. ok is false on a draw.
func (s State) Winner() (winner Player, ok bool) {
	black, white := s.Counts()
	switch {
	case black > white:
		return Black, true
	case white > black:
		return White, true
	}
	return 0, false
}

// String renders the combined position with B/W stones and the side to move.
func (s State) String() string {
	var sb strings.Builder
	next := "none"
	if p, ok := s.NextPlayer(); ok {
		next = p.String()
	}
	fmt.Fprintf(&sb, "Next player: %s\n", next)
	sb.WriteString(" abcdefgh")
	for row := 0; row < BoardSize; row++ {
		sb.WriteByte('\n')
		sb.WriteByte(byte('1' + row))
		for col := 0; col < BoardSize; col++ {
			switch {
			case s.Black.Occupied(row, col):
				sb.WriteByte('B')
			case s.White.Occupied(row, col):
				sb.WriteByte('W')
			default:
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
