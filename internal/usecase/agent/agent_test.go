package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
	rterr "github.com/Frojdholm/reversi-tournament/internal/errors"
)

func legalTokens(s reversi.State, p reversi.Player) []string {
	var tokens []string
	for _, m := range s.PossibleMoves(p) {
		tokens = append(tokens, m.Token())
	}
	return tokens
}

func TestRandomAgentPlaysLegalMoves(t *testing.T) {
	s := reversi.StartPosition()
	a := NewRandom(reversi.Black, nil)
	a.SetState(s)
	for i := 0; i < 20; i++ {
		token, err := a.Search(1000, 1000, 0, 0)
		require.NoError(t, err)
		assert.Contains(t, legalTokens(s, reversi.Black), token)
	}
}

func TestRandomAgentNoMoves(t *testing.T) {
	a := NewRandom(reversi.White, nil)
	a.SetState(reversi.State{Black: reversi.Square(0, 0), LastPlayed: reversi.Black})
	_, err := a.Search(1000, 1000, 0, 0)
	assert.ErrorIs(t, err, rterr.ErrNoLegalMoves)
}

func TestMinimaxAgentPlaysLegalMove(t *testing.T) {
	s := reversi.StartPosition()
	a := NewMinimax(reversi.Black, 4, nil)
	a.SetState(s)
	token, err := a.Search(1000, 1000, 0, 0)
	require.NoError(t, err)
	assert.Contains(t, legalTokens(s, reversi.Black), token)
}

func TestMinimaxAgentOutOfTurn(t *testing.T) {
	a := NewMinimax(reversi.White, 4, nil)
	a.SetState(reversi.StartPosition())
	_, err := a.Search(1000, 1000, 0, 0)
	assert.ErrorIs(t, err, rterr.ErrNotYourTurn)
}

func TestFactoriesAssignSides(t *testing.T) {
	r := RandomFactory(nil)(reversi.White)
	require.IsType(t, &Random{}, r)
	assert.Equal(t, reversi.White, r.(*Random).player)

	m := MinimaxFactory(3, nil)(reversi.Black)
	require.IsType(t, &Minimax{}, m)
	assert.Equal(t, reversi.Black, m.(*Minimax).player)
}
