package bootstrap

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// maxSearchDepth caps the deepening ceiling so recursion depth stays
// trivially bounded.
const maxSearchDepth = 16

type Config struct {
	EngineName   string `mapstructure:"ENGINE_NAME"`
	EngineAuthor string `mapstructure:"ENGINE_AUTHOR"`
	SearchDepth  int    `mapstructure:"SEARCH_DEPTH"`
	LogFile      string `mapstructure:"LOG_FILE"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
	ArenaGames   int    `mapstructure:"ARENA_GAMES"`
	ArenaTimeMs  int    `mapstructure:"ARENA_TIME_MS"`
}

// Setup reads configuration from the given file with env-var overrides. A
// missing file is fine; defaults cover every field.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("ENGINE_NAME", "rt-engine 1.0")
	v.SetDefault("ENGINE_AUTHOR", "reversi-tournament")
	v.SetDefault("SEARCH_DEPTH", 5)
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ARENA_GAMES", 100)
	v.SetDefault("ARENA_TIME_MS", 10000)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %q: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.SearchDepth < 1 || cfg.SearchDepth > maxSearchDepth {
		return nil, fmt.Errorf("SEARCH_DEPTH %d out of range [1, %d]", cfg.SearchDepth, maxSearchDepth)
	}
	if cfg.ArenaGames < 1 {
		return nil, fmt.Errorf("ARENA_GAMES %d must be positive", cfg.ArenaGames)
	}
	return &cfg, nil
}
