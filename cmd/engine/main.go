package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Frojdholm/reversi-tournament/internal/bootstrap"
	"github.com/Frojdholm/reversi-tournament/internal/delivery/engine"
	"github.com/Frojdholm/reversi-tournament/internal/usecase/agent"
)

func main() {
	configPath := flag.String("config", ".env", "path to the engine config file")
	random := flag.Bool("random", false, "play random legal moves instead of searching")
	flag.Parse()

	cfg, err := bootstrap.Setup(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to setup configuration:", err)
		os.Exit(1)
	}

	// An optional side argument only picks the default log file name, so
	// two engines sharing a working directory do not clobber each other.
	logFile := "engine.log"
	if side := flag.Arg(0); side != "" {
		logFile = "engine" + side + ".log"
	}
	logger, err := newLogger(cfg, logFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	factory := agent.MinimaxFactory(cfg.SearchDepth, logger)
	if *random {
		factory = agent.RandomFactory(logger)
	}

	eng := engine.New(cfg.EngineName, cfg.EngineAuthor, factory, os.Stdin, os.Stdout, logger)
	if err := eng.Run(); err != nil {
		logger.Errorw("engine stopped", "error", err)
		os.Exit(1)
	}
}

// newLogger builds the engine logger. It must never write to stdout, which
// carries the wire protocol; output goes to a file instead.
func newLogger(cfg *bootstrap.Config, defaultFile string) (*zap.SugaredLogger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.LogLevel, err)
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	path := cfg.LogFile
	if path == "" {
		path = defaultFile
	}
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
