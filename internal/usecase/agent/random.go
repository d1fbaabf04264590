package agent

import (
	"fmt"

	"go.uber.org/zap"
	"lukechampine.com/frand"

	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
	rterr "github.com/Frojdholm/reversi-tournament/internal/errors"
)

// Random plays a uniformly random legal move. It exists as a baseline
// opponent, not as a serious player.
type Random struct {
	player reversi.Player
	state  reversi.State
	log    *zap.SugaredLogger
}

func NewRandom(player reversi.Player, log *zap.SugaredLogger) *Random {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Random{player: player, state: reversi.StartPosition(), log: log}
}

// RandomFactory returns a Factory producing Random agents.
func RandomFactory(log *zap.SugaredLogger) Factory {
	return func(player reversi.Player) Agent {
		return NewRandom(player, log)
	}
}

func (a *Random) SetState(state reversi.State) {
	a.state = state
}

func (a *Random) Search(btimeMs, wtimeMs, bincMs, wincMs int) (string, error) {
	moves := a.state.PossibleMoves(a.player)
	if len(moves) == 0 {
		return "", fmt.Errorf("random agent for %s: %w", a.player, rterr.ErrNoLegalMoves)
	}
	move := moves[frand.Intn(len(moves))]
	a.log.Debugw("random move", "player", a.player.String(), "move", move.Token())
	return move.Token(), nil
}
