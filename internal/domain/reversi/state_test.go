package reversi

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartPosition(t *testing.T) {
	s := StartPosition()
	assert.Equal(t, Square(3, 3)|Square(4, 4), s.Black)
	assert.Equal(t, Square(3, 4)|Square(4, 3), s.White)
	assert.Equal(t, White, s.LastPlayed)

	next, ok := s.NextPlayer()
	require.True(t, ok)
	assert.Equal(t, Black, next, "black moves first")
}

func TestStartPositionMovesForBlack(t *testing.T) {
	s := StartPosition()
	moves := s.PossibleMoves(Black)
	require.Len(t, moves, 4)

	// Row-major generation order with known flip masks.
	want := []Move{
		{Row: 2, Col: 4, Flips: Square(3, 4), Player: Black},
		{Row: 3, Col: 5, Flips: Square(3, 4), Player: Black},
		{Row: 4, Col: 2, Flips: Square(4, 3), Player: Black},
		{Row: 5, Col: 3, Flips: Square(4, 3), Player: Black},
	}
	assert.Equal(t, want, moves)
}

func TestApplyFlipsExactlyTheMask(t *testing.T) {
	s := StartPosition()
	m := s.PossibleMoves(Black)[0] // e3, flipping e4

	next := s.Apply(m)
	assert.Equal(t, s.Black|Square(m.Row, m.Col)|m.Flips, next.Black)
	assert.Equal(t, s.White&^m.Flips, next.White)
	assert.Equal(t, Black, next.LastPlayed)

	// The played cell is occupied now, so no side can move there again.
	for _, p := range []Player{Black, White} {
		for _, mv := range next.PossibleMoves(p) {
			if mv.Row == m.Row && mv.Col == m.Col {
				t.Fatalf("cell (%d,%d) generated as a move after being played", mv.Row, mv.Col)
			}
		}
	}
}

func TestNextPlayerForcedPass(t *testing.T) {
	// White cannot capture anything, Black can take c1 by flipping b1.
	// The turn passes back to Black even though Black just moved.
	s := State{Black: Square(0, 0), White: Square(0, 1), LastPlayed: Black}
	require.False(t, s.HasMove(White))
	require.True(t, s.HasMove(Black))

	next, ok := s.NextPlayer()
	require.True(t, ok)
	assert.Equal(t, Black, next)
}

func TestNextPlayerGameOver(t *testing.T) {
	s := State{Black: Square(0, 0), LastPlayed: Black}
	_, ok := s.NextPlayer()
	assert.False(t, ok)

	winner, ok := s.Winner()
	require.True(t, ok)
	assert.Equal(t, Black, winner)
}

func TestWinnerDraw(t *testing.T) {
	s := State{Black: Square(0, 0), White: Square(7, 7)}
	_, ok := s.Winner()
	assert.False(t, ok)
}

// Random legal play must keep the two bitboards disjoint and grow the
// stone count by exactly one per move.
func TestDisjointnessUnderRandomPlay(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for game := 0; game < 20; game++ {
		s := StartPosition()
		played := 0
		for {
			next, ok := s.NextPlayer()
			if !ok {
				break
			}
			moves := s.PossibleMoves(next)
			require.NotEmpty(t, moves)
			s = s.Apply(moves[rng.Intn(len(moves))])
			played++

			require.Zero(t, s.Black&s.White, "bitboards overlap after %d moves", played)
			black, white := s.Counts()
			require.Equal(t, 4+played, black+white)
		}
		require.LessOrEqual(t, played, BoardSize*BoardSize-4, "game ran past a full board")
	}
}

func TestBitboardString(t *testing.T) {
	b := Square(0, 0) | Square(7, 7)
	want := " abcdefgh\n" +
		"1X.......\n" +
		"2........\n" +
		"3........\n" +
		"4........\n" +
		"5........\n" +
		"6........\n" +
		"7........\n" +
		"8.......X"
	assert.Equal(t, want, b.String())
}
