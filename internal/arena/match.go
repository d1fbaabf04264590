package arena

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
)

// TimeControl is the per-move clock the referee announces on every go.
type TimeControl struct {
	BTimeMs int
	WTimeMs int
	BIncMs  int
	WIncMs  int
}

// Outcome of one finished game.
type Outcome struct {
	Winner reversi.Player
	Draw   bool
	// Forfeit is set when the game ended on an illegal bestmove rather
	// than by playing out the position.
	Forfeit bool
	Moves   int
}

// Series tallies a sequence of games between two engines.
type Series struct {
	WinsP1 int
	WinsP2 int
	Draws  int
}

// Referee drives matches between two engines per the protocol contract:
// it alternates position/isready/go between the sides, checks every
// returned token against the legal-move set and scores finished games by
// disc count.
type Referee struct {
	tc  TimeControl
	log *zap.SugaredLogger
}

func NewReferee(tc TimeControl, log *zap.SugaredLogger) *Referee {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Referee{tc: tc, log: log}
}

// PlayGame plays one game to completion with black and white already
// handshaken. An illegal bestmove forfeits the game to the opponent.
func (r *Referee) PlayGame(black, white *Engine) (Outcome, error) {
	gameKey := uuid.New().String()
	if err := black.NewGame(reversi.Black); err != nil {
		return Outcome{}, err
	}
	if err := white.NewGame(reversi.White); err != nil {
		return Outcome{}, err
	}
	if err := black.IsReady(); err != nil {
		return Outcome{}, err
	}
	if err := white.IsReady(); err != nil {
		return Outcome{}, err
	}

	moves := []string{"startpos"}
	state := reversi.StartPosition()
	for {
		next, ok := state.NextPlayer()
		if !ok {
			break
		}
		eng := black
		if next == reversi.White {
			eng = white
		}

		token, err := r.requestMove(eng, moves)
		if err != nil {
			return Outcome{}, fmt.Errorf("game %s: %w", gameKey, err)
		}
		move, err := reversi.ParseMove(token, state)
		if err != nil {
			// The mover loses immediately on an illegal submission.
			r.log.Infow("illegal move, game forfeited",
				"game", gameKey, "engine", eng.tag, "token", token, "error", err)
			return Outcome{Winner: next.Opponent(), Forfeit: true, Moves: len(moves) - 1}, nil
		}
		moves = append(moves, token)
		state = state.Apply(move)
	}

	out := Outcome{Moves: len(moves) - 1}
	result := "draw"
	if winner, ok := state.Winner(); ok {
		out.Winner = winner
		result = winner.String()
	} else {
		out.Draw = true
	}
	blackCount, whiteCount := state.Counts()
	r.log.Infow("game finished",
		"game", gameKey, "moves", out.Moves,
		"black", blackCount, "white", whiteCount,
		"result", result)
	return out, nil
}

func (r *Referee) requestMove(eng *Engine, moves []string) (string, error) {
	if err := eng.Position(moves); err != nil {
		return "", err
	}
	if err := eng.IsReady(); err != nil {
		return "", err
	}
	return eng.Go(r.tc)
}

// RunSeries handshakes both engines and plays the requested number of
// games, swapping colors for the second half.
func (r *Referee) RunSeries(p1, p2 *Engine, games int) (Series, error) {
	var g errgroup.Group
	g.Go(p1.Handshake)
	g.Go(p2.Handshake)
	if err := g.Wait(); err != nil {
		return Series{}, err
	}
	r.log.Infow("match starting", "p1", p1.String(), "p2", p2.String(), "games", games)

	var series Series
	for i := 0; i < games; i++ {
		// p1 has black for the first half of the series.
		black, white := p1, p2
		p1IsBlack := i < (games+1)/2
		if !p1IsBlack {
			black, white = p2, p1
		}
		out, err := r.PlayGame(black, white)
		if err != nil {
			return series, fmt.Errorf("game %d: %w", i, err)
		}
		switch {
		case out.Draw:
			series.Draws++
		case (out.Winner == reversi.Black) == p1IsBlack:
			series.WinsP1++
		default:
			series.WinsP2++
		}
	}
	return series, nil
}
