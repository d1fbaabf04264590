package search

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
	rterr "github.com/Frojdholm/reversi-tournament/internal/errors"
)

// ScoreBound is one more than the largest reachable disc differential, so
// it sits strictly outside the evaluation range and can seed alpha/beta.
// Recompute it if the evaluation changes.
const ScoreBound = reversi.BoardSize*reversi.BoardSize + 1

// Result carries one pass of the search. Line is the principal variation,
// Score is the minimax value from the root player's perspective, and
// Remaining reports whether the depth ceiling truncated any branch: true
// means a deeper pass could still change the answer, false means every
// explored line ran into a true game-tree leaf.
type Result struct {
	Line      []reversi.Move
	Score     int
	Remaining bool
}

func evaluate(s reversi.State, root reversi.Player) int {
	black, white := s.Counts()
	if root == reversi.Black {
		return black - white
	}
	return white - black
}

// hoist moves the principal-variation hint to the front of the move list,
// keeping the remaining moves in generation order.
func hoist(moves []reversi.Move, hint reversi.Move) bool {
	for i, m := range moves {
		if m.Row == hint.Row && m.Col == hint.Col && m.Player == hint.Player {
			copy(moves[1:i+1], moves[:i])
			moves[0] = m
			return true
		}
	}
	return false
}

func alphabeta(s reversi.State, alpha, beta, depth, maxDepth int, root reversi.Player, prior []reversi.Move) Result {
	next, ok := s.NextPlayer()
	if !ok {
		return Result{Score: evaluate(s, root), Remaining: false}
	}
	if depth == maxDepth {
		return Result{Score: evaluate(s, root), Remaining: true}
	}

	moves := s.PossibleMoves(next)
	var hint []reversi.Move
	if len(prior) > 0 && hoist(moves, prior[0]) {
		hint = prior[1:]
	}

	maximizing := next == root
	best := Result{Score: ScoreBound}
	if maximizing {
		best.Score = -ScoreBound
	}
	remaining := false
	for i, m := range moves {
		var childPrior []reversi.Move
		if i == 0 {
			childPrior = hint
		}
		child := alphabeta(s.Apply(m), alpha, beta, depth+1, maxDepth, root, childPrior)
		remaining = remaining || child.Remaining

		if maximizing {
			if child.Score > best.Score {
				best.Score = child.Score
				best.Line = append([]reversi.Move{m}, child.Line...)
			}
			if best.Score > alpha {
				alpha = best.Score
			}
			if best.Score >= beta {
				break
			}
		} else {
			if child.Score < best.Score {
				best.Score = child.Score
				best.Line = append([]reversi.Move{m}, child.Line...)
			}
			if best.Score < beta {
				beta = best.Score
			}
			if best.Score <= alpha {
				break
			}
		}
	}
	best.Remaining = remaining
	return best
}

// Searcher runs iterative deepening over the alpha-beta search up to a
// fixed depth ceiling.
type Searcher struct {
	maxDepth int
	log      *zap.SugaredLogger
}

func New(maxDepth int, log *zap.SugaredLogger) *Searcher {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Searcher{maxDepth: maxDepth, log: log}
}

// Search picks a move for p. Depth ceilings 1, 2, ... are searched in
// order, each pass seeding the next with its principal variation for move
// ordering. The loop stops early when a pass reports Remaining=false: the
// tree below the root was fully resolved and deeper searching cannot
// change the result.
func (s *Searcher) Search(state reversi.State, p reversi.Player) (reversi.Move, error) {
	next, ok := state.NextPlayer()
	if !ok {
		return reversi.Move{}, rterr.ErrGameOver
	}
	if next != p {
		return reversi.Move{}, fmt.Errorf("%w: %s to move", rterr.ErrNotYourTurn, next)
	}

	var res Result
	var line []reversi.Move
	for depth := 1; depth <= s.maxDepth; depth++ {
		res = alphabeta(state, -ScoreBound, ScoreBound, 0, depth, p, line)
		line = res.Line
		s.log.Debugw("search pass",
			"depth", depth,
			"score", res.Score,
			"remaining", res.Remaining,
			"pv", lineTokens(line),
		)
		if !res.Remaining {
			break
		}
	}
	if len(res.Line) == 0 {
		return reversi.Move{}, rterr.ErrNoLegalMoves
	}
	return res.Line[0], nil
}

func lineTokens(line []reversi.Move) []string {
	tokens := make([]string, len(line))
	for i, m := range line {
		tokens[i] = m.Token()
	}
	return tokens
}
