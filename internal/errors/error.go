package errors

import "errors"

var (
	ErrUnexpectedCommand = errors.New("unexpected command for current engine state")
	ErrMalformedCommand  = errors.New("malformed command")
	ErrIllegalMove       = errors.New("illegal move")
	ErrNoLegalMoves      = errors.New("no legal moves in position")
	ErrGameOver          = errors.New("game is over")
	ErrNotYourTurn       = errors.New("not this player's turn")
	ErrEngineMisbehaved  = errors.New("engine violated the protocol")
)
