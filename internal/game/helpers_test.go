package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-rules-go/internal/game/mana"
	"github.com/magefree/mage-rules-go/internal/game/rules"
)

// scriptedProvider answers decision requests from a fixed list of indices.
type scriptedProvider struct {
	answers  []int
	requests []DecisionRequest
	results  []Result
}

func (s *scriptedProvider) Decide(_ context.Context, req DecisionRequest) (int, error) {
	s.requests = append(s.requests, req)
	if len(s.answers) == 0 {
		return 0, errors.New("script exhausted")
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

func (s *scriptedProvider) GameOver(res Result) {
	s.results = append(s.results, res)
}

type recordingSink struct {
	snapshots []Snapshot
}

func (r *recordingSink) Publish(s Snapshot) {
	r.snapshots = append(r.snapshots, s)
}

// addMana is a test activated effect producing one unit of mana.
type addMana struct {
	mana mana.ManaType
}

func (e addMana) Clone() Effect { return e }

func (e addMana) Activate(src AssignedAbility, v *View) []Event {
	return []Event{AddMana{Player: v.Controller(src), Mana: e.mana, Source: FromAbility(src)}}
}

// boost gives creatures controlled by the ability's controller +1/+1.
type boost struct{}

func (boost) Clone() Effect { return boost{} }
func (boost) Layer() Layer  { return LayerPowerToughness }

func (boost) Query(src AssignedAbility, q Query, v *View) {
	obs, ok := q.(*ObservePermanentQuery)
	if !ok || !obs.Permanent.Types.Has(TypeCreature) || obs.Permanent.Controller != v.Controller(src) {
		return
	}
	obs.Permanent.Power++
	obs.Permanent.Toughness++
}

// animateLands turns every land into a 1/1 creature.
type animateLands struct{}

func (animateLands) Clone() Effect { return animateLands{} }
func (animateLands) Layer() Layer  { return LayerType }

func (animateLands) Query(_ AssignedAbility, q Query, _ *View) {
	obs, ok := q.(*ObservePermanentQuery)
	if !ok || !obs.Permanent.Types.Has(TypeLand) || obs.Permanent.Types.Has(TypeCreature) {
		return
	}
	obs.Permanent.Types.Types = append(obs.Permanent.Types.Types, TypeCreature)
	obs.Permanent.Power = 1
	obs.Permanent.Toughness = 1
}

// grant adds an ability to one permanent's ability list.
type grant struct {
	to      PermanentID
	ability AbilityID
}

func (e grant) Clone() Effect { return e }

func (e grant) Query(_ AssignedAbility, q Query, _ *View) {
	if pa, ok := q.(*PermanentAbilitiesQuery); ok && pa.Permanent == e.to {
		pa.Abilities = append(pa.Abilities, e.ability)
	}
}

// listener records every event it sees and answers with a fixed reaction.
type listener struct {
	name     string
	log      *[]string
	reaction func(ev Event, v *View) Reaction
}

func (l listener) Clone() Effect { return l }

func (l listener) Listen(_ AssignedAbility, ev Event, v *View) Reaction {
	*l.log = append(*l.log, l.name+":"+ev.Name())
	if l.reaction == nil {
		return Ignore()
	}
	return l.reaction(ev, v)
}

func mountainTemplate() *CardTemplate {
	return &CardTemplate{
		Name:  "Mountain",
		Types: TypeLine{Supertypes: []SuperType{SuperBasic}, Types: []CardType{TypeLand}, Subtypes: []string{"Mountain"}},
		Abilities: []AbilityTemplate{{
			Class:       ClassActivated,
			Description: "{T}: Add {R}",
			Cost:        Cost{Tap: true},
			Effect:      addMana{mana: mana.ManaRed},
		}},
	}
}

func creatureTemplate(name, cost string, power, toughness int) *CardTemplate {
	return &CardTemplate{
		Name:      name,
		Cost:      mana.MustParseCost(cost),
		Types:     TypeLine{Types: []CardType{TypeCreature}},
		Power:     power,
		Toughness: toughness,
	}
}

func legendTemplate(name string) *CardTemplate {
	t := creatureTemplate(name, "{R}", 2, 2)
	t.Types.Supertypes = []SuperType{SuperLegendary}
	return t
}

func enchantmentTemplate(name string, abilities ...AbilityTemplate) *CardTemplate {
	return &CardTemplate{
		Name:      name,
		Types:     TypeLine{Types: []CardType{TypeEnchantment}},
		Abilities: abilities,
	}
}

func testRules() Rules {
	r := DefaultRules()
	r.OpeningHand = 0
	return r
}

// newTestGame seats Alice and Bob with the given decks and an empty
// pending queue, so tests decide exactly what happens next.
func newTestGame(t *testing.T, provider DecisionProvider, opts ...Option) (*Game, PlayerID, PlayerID) {
	t.Helper()
	if provider == nil {
		provider = &scriptedProvider{}
	}
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithRules(testRules())}, opts...)
	g, err := New([]PlayerSetup{{Name: "Alice"}, {Name: "Bob"}}, provider, opts...)
	require.NoError(t, err)

	g.pending = rules.NewStack[Event]()
	players := g.store.Players()
	return g, players[0].ID, players[1].ID
}

// enterMain moves the turn structure to the first main step of turn 1.
func enterMain(g *Game) {
	for g.turn.CurrentStep() != rules.StepMain1 {
		g.turn.AdvanceStep(g.nextPlayer(g.turn.ActivePlayer()))
	}
}

func step(t *testing.T, g *Game, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := g.Step(context.Background())
		require.NoError(t, err)
	}
}

func historyNames(g *Game) []string {
	var names []string
	for _, ev := range g.History() {
		names = append(names, ev.Name())
	}
	return names
}

func choiceIndex(t *testing.T, g *Game, player PlayerID, match func(Action) bool) int {
	t.Helper()
	choices := g.priorityChoices(g.view(), g.store.Player(player))
	for i, c := range choices {
		if match(c.Action) {
			return i
		}
	}
	t.Fatalf("no matching choice among %d", len(choices))
	return -1
}
