package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/magefree/mage-rules-go/internal/config"
	"github.com/magefree/mage-rules-go/internal/decision"
	"github.com/magefree/mage-rules-go/internal/game"
	"github.com/magefree/mage-rules-go/internal/game/cards"
	"github.com/magefree/mage-rules-go/internal/observer"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting MAGE duel",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("duel interrupted")
			return
		}
		logger.Error("duel failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	decks, err := cards.LoadDecks(cfg.Decks.Path)
	if err != nil {
		return err
	}

	seats := cfg.Decks.Players
	if len(seats) == 0 {
		seats = defaultSeats(decks)
	}

	console := decision.NewConsole(os.Stdin, os.Stdout, logger.Named("console"))
	router := decision.NewRouter()
	setups := make([]game.PlayerSetup, 0, len(seats))
	for _, seat := range seats {
		deck, err := cards.DeckByName(decks, seat.Deck)
		if err != nil {
			return fmt.Errorf("player %s: %w", seat.Name, err)
		}
		setups = append(setups, game.PlayerSetup{Name: seat.Name, Deck: deck.Cards})
		router.Add(seat.Name, controllerFor(seat.Controller, console))
		logger.Info("player seated",
			zap.String("player", seat.Name),
			zap.String("deck", deck.Name),
			zap.Int("cards", len(deck.Cards)),
			zap.String("controller", seat.Controller),
		)
	}

	opts := []game.Option{
		game.WithLogger(logger),
		game.WithRules(rulesFrom(cfg)),
	}

	if cfg.Observer.Enabled {
		feed := observer.NewFeed()
		opts = append(opts, game.WithSnapshotSink(feed))
		srv := observer.NewServer(observer.Config{
			Address:             cfg.Observer.Address,
			AllowedOrigins:      cfg.Observer.AllowedOrigins,
			MaxUpdatesPerSecond: cfg.Observer.MaxUpdatesPerSecond,
			MaxClients:          cfg.Observer.MaxClients,
		}, feed, logger.Named("observer"))

		srvCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		go func() {
			if err := srv.Run(srvCtx); err != nil {
				logger.Error("observer server error", zap.Error(err))
			}
		}()
	}

	g, err := game.New(setups, router, opts...)
	if err != nil {
		return err
	}

	res, err := g.Run(ctx)
	if err != nil {
		return err
	}
	if res == nil {
		logger.Warn("game ended without a result", zap.Int("pending", g.Pending()))
		return nil
	}
	logger.Info("game over",
		zap.String("winner", res.WinnerName),
		zap.Int("turn", res.Turn),
	)
	return nil
}

func rulesFrom(cfg *config.Config) game.Rules {
	return game.Rules{
		StartingLife:          cfg.Game.StartingLife,
		OpeningHand:           cfg.Game.OpeningHand,
		MaxHandSize:           cfg.Game.MaxHandSize,
		HistoryLimit:          cfg.Game.HistoryLimit,
		MaxBuildPasses:        cfg.Game.MaxBuildPasses,
		Shuffle:               cfg.Game.Shuffle,
		Seed:                  cfg.Game.Seed,
		PassOnDecisionFailure: cfg.Decision.OnFailure == config.OnFailurePass,
	}
}

func controllerFor(kind string, console *decision.Console) game.DecisionProvider {
	switch kind {
	case config.ControllerGreedy:
		return decision.NewGreedy()
	case config.ControllerPass:
		return decision.AutoPass{}
	default:
		return console
	}
}

// defaultSeats pits a console player against a greedy bot using the first
// two decks of the file.
func defaultSeats(decks []cards.Deck) []config.PlayerConfig {
	second := decks[0].Name
	if len(decks) > 1 {
		second = decks[1].Name
	}
	return []config.PlayerConfig{
		{Name: "You", Deck: decks[0].Name, Controller: config.ControllerConsole},
		{Name: "Bot", Deck: second, Controller: config.ControllerGreedy},
	}
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
