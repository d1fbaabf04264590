package reversi

import (
	"math/bits"
	"strings"
)

// BoardSize is the side length of the playing grid.
const BoardSize = 8

// Bitboard packs one player's stones into a 64-bit set. Bit row*8+col is
// set when the cell at (row, col) holds a stone.
type Bitboard uint64

// Square returns the bitboard with only the bit for (row, col) set.
func Square(row, col int) Bitboard {
	return 1 << uint(row*BoardSize+col)
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < BoardSize && col >= 0 && col < BoardSize
}

// Occupied reports whether the cell at (row, col) is set.
func (b Bitboard) Occupied(row, col int) bool {
	return b&Square(row, col) != 0
}

// Count returns the number of set cells.
func (b Bitboard) Count() int {
	return bits.OnesCount64(uint64(b))
}

// String renders the bitboard as a grid with a column header and 1-based
// row labels, set cells marked X.
func (b Bitboard) String() string {
	var sb strings.Builder
	sb.WriteString(" abcdefgh")
	for row := 0; row < BoardSize; row++ {
		sb.WriteByte('\n')
		sb.WriteByte(byte('1' + row))
		for col := 0; col < BoardSize; col++ {
			if b.Occupied(row, col) {
				sb.WriteByte('X')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}

// Player identifies one of the two sides.
type Player int

const (
	Black Player = iota
	White
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	if p == Black {
		return White
	}
	return Black
}

// Letter returns the single-character wire form of the player.
func (p Player) Letter() string {
	if p == Black {
		return "b"
	}
	return "w"
}

func (p Player) String() string {
	if p == Black {
		return "Black"
	}
	return "White"
}

// ParsePlayer converts a wire letter into a Player.
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(s) {
	case "b":
		return Black, nil
	case "w":
		return White, nil
	}
	return Black, errInvalidPlayer(s)
}
