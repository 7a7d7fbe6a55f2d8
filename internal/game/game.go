package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/magefree/mage-rules-go/internal/game/rules"
	"github.com/magefree/mage-rules-go/internal/metrics"
)

// Rules holds the tunable parameters of a game.
type Rules struct {
	StartingLife int
	OpeningHand  int
	// MaxHandSize of zero disables the discard step.
	MaxHandSize    int
	HistoryLimit   int
	MaxBuildPasses int
	Shuffle        bool
	Seed           uint64
	// PassOnDecisionFailure treats provider errors as a pass instead of
	// aborting the game.
	PassOnDecisionFailure bool
}

// DefaultRules returns the standard two-player setup.
func DefaultRules() Rules {
	return Rules{
		StartingLife:   20,
		OpeningHand:    7,
		MaxHandSize:    7,
		HistoryLimit:   512,
		MaxBuildPasses: 256,
	}
}

// PlayerSetup seats a player with a deck. The first card of Deck is the top.
type PlayerSetup struct {
	Name string
	Deck []*CardTemplate
}

// Option configures a Game.
type Option func(*Game)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Game) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithRules replaces the default rules.
func WithRules(r Rules) Option {
	return func(g *Game) {
		g.rules = r
	}
}

// WithSnapshotSink publishes a snapshot after every applied event.
func WithSnapshotSink(sink SnapshotSink) Option {
	return func(g *Game) {
		g.sink = sink
	}
}

// Game runs one game. It is not safe for concurrent use: a single goroutine
// drives it through Step or Run, and everything else sees it through
// snapshots.
type Game struct {
	id       uuid.UUID
	logger   *zap.Logger
	rules    Rules
	provider DecisionProvider
	sink     SnapshotSink

	store     *Store
	turn      *rules.TurnManager[PlayerID]
	stack     *rules.Stack[Object]
	pending   *rules.Stack[Event]
	order     *AbilityOrdering
	lastActor PlayerID

	sequence uint64
	history  []Event
	losses   []Loss
	result   *Result
	aborted  error
}

// New sets up a game: players are seated in order, decks are built (and
// shuffled if the rules say so) and opening hands are queued to be drawn.
func New(players []PlayerSetup, provider DecisionProvider, opts ...Option) (*Game, error) {
	if len(players) < 2 {
		return nil, fmt.Errorf("need at least two players, got %d", len(players))
	}
	if provider == nil {
		return nil, errors.New("decision provider is required")
	}

	g := &Game{
		id:       uuid.New(),
		logger:   zap.NewNop(),
		rules:    DefaultRules(),
		provider: provider,
		store:    NewStore(),
		stack:    rules.NewStack[Object](),
		pending:  rules.NewStack[Event](),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.With(zap.String("game_id", g.id.String()))

	var rng *rand.Rand
	if g.rules.Shuffle {
		seed := g.rules.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	for _, setup := range players {
		p := g.store.AddPlayer(setup.Name, g.rules.StartingLife)
		for _, t := range slices.Backward(setup.Deck) {
			if t == nil {
				return nil, fmt.Errorf("player %q: nil card in deck", setup.Name)
			}
			g.store.AddCard(p.ID, t, ZoneDeck)
		}
		if rng != nil {
			g.store.Shuffle(p.ID, rng)
		}
	}

	seats := g.store.Players()
	g.turn = rules.NewTurnManager(seats[0].ID)
	g.pending.Push(BeginStep{Step: rules.StepUntap, Player: seats[0].ID})
	for _, p := range slices.Backward(seats) {
		for i := 0; i < g.rules.OpeningHand; i++ {
			g.pending.Push(DrawCard{Player: p.ID})
		}
	}

	g.rebuild()
	g.logger.Info("game created",
		zap.Int("players", len(seats)),
		zap.Int("starting_life", g.rules.StartingLife))
	return g, nil
}

// ID returns the unique id of this game.
func (g *Game) ID() uuid.UUID {
	return g.id
}

// View returns a read-only view of the current state.
func (g *Game) View() *View {
	return g.view()
}

// Ordering returns the current ability ordering.
func (g *Game) Ordering() *AbilityOrdering {
	return g.order
}

// Result returns the result once the game is over, nil before.
func (g *Game) Result() *Result {
	return g.result
}

// History returns the most recently applied events, oldest first.
func (g *Game) History() []Event {
	return slices.Clone(g.history)
}

// Pending returns the number of events waiting to be processed.
func (g *Game) Pending() int {
	return g.pending.Len()
}

// Push queues an event on top of the pending queue.
func (g *Game) Push(ev Event) {
	g.pending.Push(ev)
}

// Run processes events until the game is over. It returns the result, or
// an error if the game was aborted or ctx was cancelled between events.
func (g *Game) Run(ctx context.Context) (*Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		more, err := g.Step(ctx)
		if err != nil {
			return nil, err
		}
		if !more {
			return g.result, nil
		}
	}
}

// Step processes a single event. It reports whether more events are
// waiting and the game is still going.
func (g *Game) Step(ctx context.Context) (more bool, err error) {
	if g.aborted != nil {
		return false, g.aborted
	}
	if g.result != nil {
		return false, nil
	}

	defer func() {
		if r := recover(); r != nil {
			iv, ok := r.(*InvariantViolation)
			if !ok {
				panic(r)
			}
			g.logger.Error("invariant violated, aborting game", zap.String("reason", iv.Msg))
			g.aborted = iv
			more, err = false, iv
		}
	}()

	ev, popErr := g.pending.Pop()
	if popErr != nil {
		return false, nil
	}
	if err := g.process(ctx, ev); err != nil {
		g.aborted = fmt.Errorf("%w: %w", ErrGameAborted, err)
		g.logger.Error("game aborted", zap.Error(err))
		return false, err
	}
	return g.result == nil && !g.pending.IsEmpty(), nil
}

// process runs one event through the abilities and applies it.
func (g *Game) process(ctx context.Context, ev Event) error {
	res := g.order.Listen(ev, g.view())
	switch res.Outcome {
	case Replaced:
		metrics.EventReplaced(ev.Name())
		g.pushAll(res.Events)
		g.rebuild()
		return nil
	case Triggered:
		metrics.EventTriggered(ev.Name())
		g.pushAll(res.Events)
		g.rebuild()
		ev = res.Event
	}

	g.logger.Debug("applying event", zap.String("event", ev.Name()))
	if err := g.apply(ctx, ev); err != nil {
		return err
	}
	metrics.EventApplied(ev.Name())
	g.record(ev)
	g.rebuild()
	g.publish()
	return nil
}

// pushAll queues events so that they are processed in slice order.
func (g *Game) pushAll(events []Event) {
	for _, ev := range slices.Backward(events) {
		g.pending.Push(ev)
	}
}

func (g *Game) rebuild() {
	g.order = BuildAbilityOrdering(g, g.rules.MaxBuildPasses, g.logger)
}

func (g *Game) view() *View {
	return &View{g: g, order: g.order}
}

func (g *Game) record(ev Event) {
	g.sequence++
	if g.rules.HistoryLimit <= 0 {
		return
	}
	g.history = append(g.history, ev)
	if over := len(g.history) - g.rules.HistoryLimit; over > 0 {
		g.history = slices.Delete(g.history, 0, over)
	}
}

func (g *Game) publish() {
	if g.sink != nil {
		g.sink.Publish(g.Snapshot())
	}
}

// finish moves the game into its terminal state.
func (g *Game) finish(res *Result) {
	g.result = res
	metrics.GameFinished()
	g.logger.Info("game over",
		zap.Stringer("winner", res.Winner),
		zap.String("winner_name", res.WinnerName),
		zap.Int("turn", res.Turn))
	if n, ok := g.provider.(GameOverNotifier); ok {
		n.GameOver(*res)
	}
}
