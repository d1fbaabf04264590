package agent

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
	"github.com/Frojdholm/reversi-tournament/internal/usecase/search"
)

// Minimax wraps the iterative-deepening searcher. Time controls are
// accepted and logged but effort is governed by the searcher's fixed depth
// ceiling.
type Minimax struct {
	player   reversi.Player
	state    reversi.State
	searcher *search.Searcher
	log      *zap.SugaredLogger
}

func NewMinimax(player reversi.Player, depth int, log *zap.SugaredLogger) *Minimax {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Minimax{
		player:   player,
		state:    reversi.StartPosition(),
		searcher: search.New(depth, log),
		log:      log,
	}
}

// MinimaxFactory returns a Factory producing Minimax agents with the given
// depth ceiling.
func MinimaxFactory(depth int, log *zap.SugaredLogger) Factory {
	return func(player reversi.Player) Agent {
		return NewMinimax(player, depth, log)
	}
}

func (a *Minimax) SetState(state reversi.State) {
	a.state = state
}

func (a *Minimax) Search(btimeMs, wtimeMs, bincMs, wincMs int) (string, error) {
	a.log.Debugw("search requested",
		"player", a.player.String(),
		"btime", btimeMs, "wtime", wtimeMs, "binc", bincMs, "winc", wincMs,
	)
	move, err := a.searcher.Search(a.state, a.player)
	if err != nil {
		return "", fmt.Errorf("minimax agent for %s: %w", a.player, err)
	}
	return move.Token(), nil
}
