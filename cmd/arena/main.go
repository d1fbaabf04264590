package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Frojdholm/reversi-tournament/internal/arena"
	"github.com/Frojdholm/reversi-tournament/internal/bootstrap"
)

func main() {
	configPath := flag.String("config", ".env", "path to the arena config file")
	games := flag.Int("games", 0, "number of games to play (overrides config)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: arena [flags] <engine1-command> <engine2-command>")
		os.Exit(2)
	}

	cfg, err := bootstrap.Setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup configuration:", err)
		os.Exit(1)
	}
	if *games > 0 {
		cfg.ArenaGames = *games
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	p1, err := arena.StartProcess("p1", flag.Arg(0), logger)
	if err != nil {
		logger.Fatalw("failed to start engine", "engine", "p1", "error", err)
	}
	defer p1.Close()
	p2, err := arena.StartProcess("p2", flag.Arg(1), logger)
	if err != nil {
		logger.Fatalw("failed to start engine", "engine", "p2", "error", err)
	}
	defer p2.Close()

	tc := arena.TimeControl{
		BTimeMs: cfg.ArenaTimeMs,
		WTimeMs: cfg.ArenaTimeMs,
		BIncMs:  cfg.ArenaTimeMs,
		WIncMs:  cfg.ArenaTimeMs,
	}
	referee := arena.NewReferee(tc, logger)
	series, err := referee.RunSeries(p1, p2, cfg.ArenaGames)
	if err != nil {
		logger.Fatalw("match aborted", "error", err)
	}

	fmt.Println(p1, "vs", p2)
	fmt.Printf("P1: %d P2: %d Draw: %d\n", series.WinsP1, series.WinsP2, series.Draws)
}

func newLogger(cfg *bootstrap.Config) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.LogFile != "" {
		zcfg.OutputPaths = []string{cfg.LogFile}
		zcfg.ErrorOutputPaths = []string{cfg.LogFile}
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
