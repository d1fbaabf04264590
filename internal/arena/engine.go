package arena

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/Frojdholm/reversi-tournament/internal/domain/reversi"
	rterr "github.com/Frojdholm/reversi-tournament/internal/errors"
)

// Engine is the referee's handle on one engine instance speaking the line
// protocol. The transport is any pair of ordered line-buffered streams; a
// subprocess is the usual case, in-memory pipes work the same way.
type Engine struct {
	tag    string
	in     *bufio.Writer
	out    *bufio.Scanner
	name   string
	author string
	cmd    *exec.Cmd
	log    *zap.SugaredLogger
}

// NewEngine wraps an already-connected stream pair. w carries commands to
// the engine, r carries its responses back.
func NewEngine(tag string, w io.Writer, r io.Reader, log *zap.SugaredLogger) *Engine {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{
		tag: tag,
		in:  bufio.NewWriter(w),
		out: bufio.NewScanner(r),
		log: log,
	}
}

// StartProcess spawns an engine subprocess and connects its stdin/stdout.
// The child's stderr passes through so its own diagnostics stay visible.
func StartProcess(tag, command string, log *zap.SugaredLogger) (*Engine, error) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty engine command for %s", tag)
	}
	cmd := exec.Command(parts[0], parts[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe for %s: %w", tag, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe for %s: %w", tag, err)
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start engine %s (%q): %w", tag, command, err)
	}
	e := NewEngine(tag, stdin, stdout, log)
	e.cmd = cmd
	return e, nil
}

// Close terminates a spawned engine. Engines on caller-owned streams are
// left alone.
func (e *Engine) Close() error {
	if e.cmd == nil {
		return nil
	}
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	return e.cmd.Wait()
}

func (e *Engine) String() string {
	return fmt.Sprintf("%s by %s", e.name, e.author)
}

func (e *Engine) write(msg string) error {
	msg = strings.TrimSpace(msg)
	e.log.Debugw("send", "engine", e.tag, "line", msg)
	if _, err := e.in.WriteString(msg + "\n"); err != nil {
		return fmt.Errorf("write to %s: %w", e.tag, err)
	}
	if err := e.in.Flush(); err != nil {
		return fmt.Errorf("flush to %s: %w", e.tag, err)
	}
	return nil
}

func (e *Engine) read() (string, error) {
	if !e.out.Scan() {
		if err := e.out.Err(); err != nil {
			return "", fmt.Errorf("read from %s: %w", e.tag, err)
		}
		return "", fmt.Errorf("%w: %s closed its output", rterr.ErrEngineMisbehaved, e.tag)
	}
	line := strings.TrimSpace(e.out.Text())
	e.log.Debugw("recv", "engine", e.tag, "line", line)
	return line, nil
}

// Handshake runs the protocol handshake and collects the engine identity.
func (e *Engine) Handshake() error {
	if err := e.write("reversi_v1"); err != nil {
		return err
	}
	for {
		line, err := e.read()
		if err != nil {
			return err
		}
		if line == "reversi_v1_ok" {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "id" {
			return fmt.Errorf("%w: %s sent %q during handshake", rterr.ErrEngineMisbehaved, e.tag, line)
		}
		value := strings.Join(fields[2:], " ")
		switch fields[1] {
		case "name":
			e.name = value
		case "author":
			e.author = value
		default:
			return fmt.Errorf("%w: %s sent unknown id field %q", rterr.ErrEngineMisbehaved, e.tag, fields[1])
		}
	}
}

// NewGame assigns the engine its side for the next game.
func (e *Engine) NewGame(player reversi.Player) error {
	return e.write("newgame " + player.Letter())
}

// IsReady waits for the engine to acknowledge readiness.
func (e *Engine) IsReady() error {
	if err := e.write("isready"); err != nil {
		return err
	}
	line, err := e.read()
	if err != nil {
		return err
	}
	if line != "readyok" {
		return fmt.Errorf("%w: %s answered %q to isready", rterr.ErrEngineMisbehaved, e.tag, line)
	}
	return nil
}

// Position syncs the game so far. moves starts with "startpos" followed by
// the move tokens in play order.
func (e *Engine) Position(moves []string) error {
	return e.write("position " + strings.Join(moves, " "))
}

// Go asks the engine for its move under the given time control and returns
// the bestmove token.
func (e *Engine) Go(tc TimeControl) (string, error) {
	cmd := fmt.Sprintf("go btime=%d wtime=%d binc=%d winc=%d", tc.BTimeMs, tc.WTimeMs, tc.BIncMs, tc.WIncMs)
	if err := e.write(cmd); err != nil {
		return "", err
	}
	line, err := e.read()
	if err != nil {
		return "", err
	}
	fields := strings.Fields(line)
	if len(fields) != 2 || fields[0] != "bestmove" {
		return "", fmt.Errorf("%w: %s answered %q to go", rterr.ErrEngineMisbehaved, e.tag, line)
	}
	return fields[1], nil
}
