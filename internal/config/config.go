// Package config loads the duel configuration from a YAML file, MAGE_*
// environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Decision DecisionConfig `mapstructure:"decision"`
	Observer ObserverConfig `mapstructure:"observer"`
	Decks    DecksConfig    `mapstructure:"decks"`
}

// LoggingConfig selects the log level and encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GameConfig holds the rules parameters of a game.
type GameConfig struct {
	StartingLife   int    `mapstructure:"starting_life"`
	OpeningHand    int    `mapstructure:"opening_hand"`
	MaxHandSize    int    `mapstructure:"max_hand_size"`
	HistoryLimit   int    `mapstructure:"history_limit"`
	MaxBuildPasses int    `mapstructure:"max_build_passes"`
	Shuffle        bool   `mapstructure:"shuffle"`
	Seed           uint64 `mapstructure:"seed"`
}

// Decision failure policies.
const (
	OnFailureAbort = "abort"
	OnFailurePass  = "pass"
)

// DecisionConfig controls how the engine treats decision providers.
type DecisionConfig struct {
	OnFailure string `mapstructure:"on_failure"`
}

// ObserverConfig configures the snapshot server.
type ObserverConfig struct {
	Enabled             bool     `mapstructure:"enabled"`
	Address             string   `mapstructure:"address"`
	AllowedOrigins      []string `mapstructure:"allowed_origins"`
	MaxUpdatesPerSecond float64  `mapstructure:"max_updates_per_second"`
	MaxClients          int      `mapstructure:"max_clients"`
}

// Player controllers.
const (
	ControllerConsole = "console"
	ControllerGreedy  = "greedy"
	ControllerPass    = "pass"
)

// DecksConfig points at the deck list file and seats the players.
type DecksConfig struct {
	Path    string         `mapstructure:"path"`
	Players []PlayerConfig `mapstructure:"players"`
}

// PlayerConfig seats one player.
type PlayerConfig struct {
	Name       string `mapstructure:"name"`
	Deck       string `mapstructure:"deck"`
	Controller string `mapstructure:"controller"`
}

// Load reads the configuration at path. A missing file is not an error:
// defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	for i := range cfg.Decks.Players {
		if cfg.Decks.Players[i].Controller == "" {
			cfg.Decks.Players[i].Controller = ControllerConsole
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("game.starting_life", 20)
	v.SetDefault("game.opening_hand", 7)
	v.SetDefault("game.max_hand_size", 7)
	v.SetDefault("game.history_limit", 512)
	v.SetDefault("game.max_build_passes", 256)
	v.SetDefault("game.shuffle", true)
	v.SetDefault("game.seed", 0)

	v.SetDefault("decision.on_failure", OnFailureAbort)

	v.SetDefault("observer.enabled", false)
	v.SetDefault("observer.address", "127.0.0.1:8088")
	v.SetDefault("observer.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("observer.max_updates_per_second", 10.0)
	v.SetDefault("observer.max_clients", 32)

	v.SetDefault("decks.path", "config/decks.yaml")
}

// Validate checks the values Load cannot enforce through defaults.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unknown level %q", c.Logging.Level)
	}
	if c.Game.StartingLife <= 0 {
		return fmt.Errorf("game.starting_life must be positive, got %d", c.Game.StartingLife)
	}
	if c.Game.OpeningHand < 0 || c.Game.MaxHandSize < 0 {
		return errors.New("game.opening_hand and game.max_hand_size must not be negative")
	}
	if c.Game.MaxBuildPasses <= 0 {
		return fmt.Errorf("game.max_build_passes must be positive, got %d", c.Game.MaxBuildPasses)
	}
	switch c.Decision.OnFailure {
	case OnFailureAbort, OnFailurePass:
	default:
		return fmt.Errorf("decision.on_failure: want %q or %q, got %q",
			OnFailureAbort, OnFailurePass, c.Decision.OnFailure)
	}
	if c.Observer.Enabled {
		if c.Observer.Address == "" {
			return errors.New("observer.address is required when the observer is enabled")
		}
		if c.Observer.MaxUpdatesPerSecond <= 0 {
			return errors.New("observer.max_updates_per_second must be positive")
		}
	}
	if len(c.Decks.Players) > 0 && len(c.Decks.Players) < 2 {
		return fmt.Errorf("decks.players: need at least two players, got %d", len(c.Decks.Players))
	}
	for i, p := range c.Decks.Players {
		if p.Name == "" || p.Deck == "" {
			return fmt.Errorf("decks.players[%d]: name and deck are required", i)
		}
		switch p.Controller {
		case ControllerConsole, ControllerGreedy, ControllerPass:
		default:
			return fmt.Errorf("decks.players[%d]: unknown controller %q", i, p.Controller)
		}
	}
	return nil
}
