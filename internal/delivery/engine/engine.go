package engine

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
	rterr "github.com/Frojdholm/reversi-tournament/internal/errors"
	"github.com/Frojdholm/reversi-tournament/internal/usecase/agent"
)

// fsmState tracks where the engine is in the command cycle. Commands
// advance the machine strictly in order; the only escape hatch is newgame,
// accepted from any initialized state.
type fsmState int

const (
	// uninitialized: awaiting the "reversi_v1" handshake.
	uninitialized fsmState = iota
	// awaitingNewGame: identity sent, no game started.
	awaitingNewGame
	// newGameCompleted: agent created, awaiting "isready".
	newGameCompleted
	// awaitingPosition: ready to receive positions.
	awaitingPosition
	// positionParsed: position handed to the agent, awaiting "isready".
	positionParsed
	// awaitingGo: ready to search.
	awaitingGo
)

// Engine drives the line protocol between a referee and an Agent. It
// parses commands, validates their ordering and hands positions and search
// requests to the agent. A bad line is logged and rejected without
// advancing the machine; the session keeps running.
type Engine struct {
	name    string
	author  string
	factory agent.Factory
	in      *bufio.Scanner
	out     *bufio.Writer
	log     *zap.SugaredLogger

	state fsmState
	agent agent.Agent
	game  reversi.State
}

func New(name, author string, factory agent.Factory, in io.Reader, out io.Writer, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	log.Infow("creating engine", "name", name, "author", author)
	return &Engine{
		name:    name,
		author:  author,
		factory: factory,
		in:      bufio.NewScanner(in),
		out:     bufio.NewWriter(out),
		log:     log,
		state:   uninitialized,
	}
}

// Run reads commands until the input stream closes. Responses are flushed
// after every line so the referee never blocks on a buffered reply.
func (e *Engine) Run() error {
	for e.in.Scan() {
		line := strings.TrimSpace(e.in.Text())
		e.log.Debugw("recv", "line", line)
		if err := e.Handle(line); err != nil {
			e.log.Errorw("command rejected", "line", line, "error", err)
		}
		if err := e.out.Flush(); err != nil {
			return fmt.Errorf("flush response: %w", err)
		}
	}
	return e.in.Err()
}

// Handle processes a single command line. On error the machine stays in
// its current state.
func (e *Engine) Handle(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return fmt.Errorf("%w: empty line", rterr.ErrMalformedCommand)
	}
	command, args := fields[0], fields[1:]

	// newgame is allowed any time after initialization and discards the
	// current game.
	if command == "newgame" && e.state != uninitialized {
		e.state = awaitingNewGame
		e.agent = nil
		e.game = reversi.State{}
	}

	switch e.state {
	case uninitialized:
		if err := expect("reversi_v1", command); err != nil {
			return err
		}
		e.sendID()
		e.state = awaitingNewGame
	case awaitingNewGame:
		if err := expect("newgame", command); err != nil {
			return err
		}
		if err := e.setupAgent(args); err != nil {
			return err
		}
		e.state = newGameCompleted
	case newGameCompleted:
		if err := expect("isready", command); err != nil {
			return err
		}
		e.respond("readyok")
		e.state = awaitingPosition
	case awaitingPosition:
		if err := expect("position", command); err != nil {
			return err
		}
		if err := e.parsePosition(args); err != nil {
			return err
		}
		e.state = positionParsed
	case positionParsed:
		if err := expect("isready", command); err != nil {
			return err
		}
		e.respond("readyok")
		e.state = awaitingGo
	case awaitingGo:
		if err := expect("go", command); err != nil {
			return err
		}
		if err := e.sendBestMove(args); err != nil {
			return err
		}
		e.state = awaitingPosition
	}
	return nil
}

func expect(expected, actual string) error {
	if expected != actual {
		return fmt.Errorf("%w: expected %q, got %q", rterr.ErrUnexpectedCommand, expected, actual)
	}
	return nil
}

func (e *Engine) sendID() {
	e.respond("id name " + e.name)
	e.respond("id author " + e.author)
	e.respond("reversi_v1_ok")
}

func (e *Engine) setupAgent(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: newgame wants one side argument, got %v", rterr.ErrMalformedCommand, args)
	}
	player, err := reversi.ParsePlayer(args[0])
	if err != nil {
		return fmt.Errorf("newgame: %w", err)
	}
	e.agent = e.factory(player)
	e.log.Infow("new game", "side", player.String())
	return nil
}

// parsePosition replays the move tokens from the canonical start position.
// Each token's flip mask is recomputed against the evolving replay state,
// never trusted from the wire; the first bad token aborts the command.
func (e *Engine) parsePosition(args []string) error {
	if len(args) == 0 || args[0] != "startpos" {
		return fmt.Errorf("%w: position wants startpos, got %v", rterr.ErrMalformedCommand, args)
	}
	state := reversi.StartPosition()
	for _, token := range args[1:] {
		move, err := reversi.ParseMove(token, state)
		if err != nil {
			return fmt.Errorf("position replay: %w", err)
		}
		state = state.Apply(move)
	}
	e.game = state
	e.agent.SetState(state)
	e.log.Debugw("position parsed", "moves", len(args)-1, "position", state.String())
	return nil
}

func (e *Engine) sendBestMove(args []string) error {
	tc, err := parseTimeControl(args)
	if err != nil {
		return err
	}
	move, err := e.agent.Search(tc.btime, tc.wtime, tc.binc, tc.winc)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	e.respond("bestmove " + move)
	return nil
}

type timeControl struct {
	btime, wtime, binc, winc int
}

func parseTimeControl(args []string) (timeControl, error) {
	if len(args) != 4 {
		return timeControl{}, fmt.Errorf("%w: go wants 4 arguments, got %v", rterr.ErrMalformedCommand, args)
	}
	seen := make(map[string]int, 4)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return timeControl{}, fmt.Errorf("%w: go argument %q is not key=value", rterr.ErrMalformedCommand, arg)
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return timeControl{}, fmt.Errorf("%w: go argument %q: %v", rterr.ErrMalformedCommand, arg, err)
		}
		if _, dup := seen[key]; dup {
			return timeControl{}, fmt.Errorf("%w: duplicate go argument %q", rterr.ErrMalformedCommand, key)
		}
		seen[key] = n
	}
	var tc timeControl
	for key, dst := range map[string]*int{
		"btime": &tc.btime, "wtime": &tc.wtime,
		"binc": &tc.binc, "winc": &tc.winc,
	} {
		n, ok := seen[key]
		if !ok {
			return timeControl{}, fmt.Errorf("%w: go is missing %q", rterr.ErrMalformedCommand, key)
		}
		*dst = n
	}
	return tc, nil
}

func (e *Engine) respond(msg string) {
	msg = strings.TrimSpace(msg)
	e.log.Debugw("send", "line", msg)
	e.out.WriteString(msg + "\n")
}
