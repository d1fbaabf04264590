package agent

import (
	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
)

// Agent is the capability the protocol layer drives: it is configured with
// a position and asked for a move under the referee's time controls. The
// returned move is in wire-token form.
type Agent interface {
	SetState(state reversi.State)
	Search(btimeMs, wtimeMs, bincMs, wincMs int) (string, error)
}

// Factory builds an agent playing the given side. The protocol engine
// calls it on every newgame.
type Factory func(player reversi.Player) Agent
