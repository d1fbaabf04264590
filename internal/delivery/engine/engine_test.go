package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
	rterr "github.com/Frojdholm/reversi-tournament/internal/errors"
	"github.com/Frojdholm/reversi-tournament/internal/usecase/agent"
)

func newTestEngine(out *bytes.Buffer) *Engine {
	return New("TESTENGINE 1.0", "nobody", agent.RandomFactory(nil), strings.NewReader(""), out, nil)
}

func flushed(t *testing.T, e *Engine, out *bytes.Buffer) []string {
	t.Helper()
	require.NoError(t, e.out.Flush())
	text := strings.TrimSpace(out.String())
	out.Reset()
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestFullCommandCycle(t *testing.T) {
	input := strings.Join([]string{
		"reversi_v1",
		"newgame b",
		"isready",
		"position startpos",
		"isready",
		"go btime=1000 wtime=1000 binc=0 winc=0",
	}, "\n")
	var out bytes.Buffer
	e := New("TESTENGINE 1.0", "nobody", agent.RandomFactory(nil), strings.NewReader(input), &out, nil)
	require.NoError(t, e.Run())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "id name TESTENGINE 1.0", lines[0])
	assert.Equal(t, "id author nobody", lines[1])
	assert.Equal(t, "reversi_v1_ok", lines[2])
	assert.Equal(t, "readyok", lines[3])
	assert.Equal(t, "readyok", lines[4])

	fields := strings.Fields(lines[5])
	require.Len(t, fields, 2)
	require.Equal(t, "bestmove", fields[0])

	_, err := reversi.ParseMove(fields[1], reversi.StartPosition())
	assert.NoError(t, err, "bestmove must be legal for black in the start position")
}

func TestOutOfOrderCommandDoesNotAdvance(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)

	require.NoError(t, e.Handle("reversi_v1"))
	flushed(t, e, &out)

	err := e.Handle("go btime=1 wtime=1 binc=0 winc=0")
	assert.ErrorIs(t, err, rterr.ErrUnexpectedCommand)
	assert.Empty(t, flushed(t, e, &out), "a rejected command must not produce output")

	// The machine is still awaiting newgame.
	require.NoError(t, e.Handle("newgame b"))
}

func TestHandshakeRequiredFirst(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)
	err := e.Handle("newgame b")
	assert.ErrorIs(t, err, rterr.ErrUnexpectedCommand)
	err = e.Handle("isready")
	assert.ErrorIs(t, err, rterr.ErrUnexpectedCommand)
	require.NoError(t, e.Handle("reversi_v1"))
}

func TestNewGameResetsFromAnyState(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)
	for _, line := range []string{"reversi_v1", "newgame b", "isready", "position startpos", "isready"} {
		require.NoError(t, e.Handle(line))
	}
	require.Equal(t, awaitingGo, e.state)

	// Mid-cycle newgame discards the game and restarts the cycle.
	require.NoError(t, e.Handle("newgame w"))
	require.Equal(t, newGameCompleted, e.state)
	require.NoError(t, e.Handle("isready"))
	require.NoError(t, e.Handle("position startpos e3b"))
}

func TestNewGameArgValidation(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)
	require.NoError(t, e.Handle("reversi_v1"))

	assert.ErrorIs(t, e.Handle("newgame"), rterr.ErrMalformedCommand)
	assert.ErrorIs(t, e.Handle("newgame b w"), rterr.ErrMalformedCommand)
	assert.ErrorIs(t, e.Handle("newgame x"), rterr.ErrMalformedCommand)
	require.NoError(t, e.Handle("newgame w"))
}

func TestPositionReplayRejectsBadTokens(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)
	for _, line := range []string{"reversi_v1", "newgame b", "isready"} {
		require.NoError(t, e.Handle(line))
	}

	assert.ErrorIs(t, e.Handle("position e3b"), rterr.ErrMalformedCommand)
	assert.ErrorIs(t, e.Handle("position startpos zzz"), rterr.ErrMalformedCommand)
	// e3 played by white is out of turn at the start position.
	assert.ErrorIs(t, e.Handle("position startpos e3w"), rterr.ErrNotYourTurn)
	// a1 flips nothing.
	assert.ErrorIs(t, e.Handle("position startpos a1b"), rterr.ErrIllegalMove)
	require.Equal(t, awaitingPosition, e.state)

	// A good position still goes through afterwards.
	require.NoError(t, e.Handle("position startpos e3b d3w"))
	require.Equal(t, positionParsed, e.state)
}

func TestPositionReplayTracksState(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)
	for _, line := range []string{"reversi_v1", "newgame w", "isready"} {
		require.NoError(t, e.Handle(line))
	}
	require.NoError(t, e.Handle("position startpos e3b"))

	want := reversi.StartPosition()
	m, err := reversi.ParseMove("e3b", want)
	require.NoError(t, err)
	assert.Equal(t, want.Apply(m), e.game)
}

func TestGoArgValidation(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)
	for _, line := range []string{"reversi_v1", "newgame b", "isready", "position startpos", "isready"} {
		require.NoError(t, e.Handle(line))
	}
	flushed(t, e, &out)

	tests := []string{
		"go",
		"go btime=1 wtime=1 binc=0",
		"go btime=1 wtime=1 binc=0 winc=0 extra=1",
		"go btime=1 wtime=1 binc=0 winc",
		"go btime=1 wtime=1 binc=0 winc=zero",
		"go btime=1 btime=2 binc=0 winc=0",
		"go atime=1 wtime=1 binc=0 winc=0",
	}
	for _, line := range tests {
		assert.ErrorIs(t, e.Handle(line), rterr.ErrMalformedCommand, "line %q", line)
		assert.Equal(t, awaitingGo, e.state)
	}
	assert.Empty(t, flushed(t, e, &out))

	require.NoError(t, e.Handle("go btime=1000 wtime=1000 binc=0 winc=0"))
	lines := flushed(t, e, &out)
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "bestmove "))
	assert.Equal(t, awaitingPosition, e.state)
}

func TestEmptyLineRejected(t *testing.T) {
	var out bytes.Buffer
	e := newTestEngine(&out)
	assert.ErrorIs(t, e.Handle(""), rterr.ErrMalformedCommand)
	assert.ErrorIs(t, e.Handle("   "), rterr.ErrMalformedCommand)
}
