package cards

import (
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-rules-go/internal/game"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// script picks the first choice whose description matches the next wanted
// entry and passes otherwise.
type script struct {
	want []string
}

func (s *script) Decide(_ context.Context, req game.DecisionRequest) (int, error) {
	if len(s.want) == 0 {
		return 0, nil
	}
	for i, c := range req.Choices {
		if c.Description == s.want[0] {
			s.want = s.want[1:]
			return i, nil
		}
	}
	return 0, nil
}

func newGame(t *testing.T, provider game.DecisionProvider, aliceDeck ...*game.CardTemplate) (*game.Game, game.PlayerID, game.PlayerID) {
	t.Helper()
	if provider == nil {
		provider = &script{}
	}
	r := game.DefaultRules()
	r.OpeningHand = 0
	g, err := game.New(
		[]game.PlayerSetup{{Name: "Alice", Deck: aliceDeck}, {Name: "Bob"}},
		provider,
		game.WithLogger(zaptest.NewLogger(t)),
		game.WithRules(r),
	)
	require.NoError(t, err)
	players := g.View().Players()
	return g, players[0], players[1]
}

func stepN(t *testing.T, g *game.Game, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := g.Step(context.Background())
		require.NoError(t, err)
	}
}

func playUntil(t *testing.T, g *game.Game, done func(v *game.View) bool) {
	t.Helper()
	for i := 0; i < 1000 && !done(g.View()); i++ {
		more, err := g.Step(context.Background())
		require.NoError(t, err)
		if !more {
			break
		}
	}
	require.True(t, done(g.View()), "condition never reached")
}

// register puts permanents straight onto the battlefield and returns their
// ids in template order.
func register(t *testing.T, g *game.Game, controller game.PlayerID, templates ...*game.CardTemplate) []game.PermanentID {
	t.Helper()
	before := g.View().Permanents()
	for _, tmpl := range slices.Backward(templates) {
		g.Push(game.RegisterPermanent{Controller: controller, Template: tmpl})
	}
	stepN(t, g, 2*len(templates))

	var added []game.PermanentID
	for _, id := range g.View().Permanents() {
		if !slices.Contains(before, id) {
			added = append(added, id)
		}
	}
	require.Len(t, added, len(templates))
	return added
}

func activate(g *game.Game, player game.PlayerID, perm game.PermanentID) {
	ab := g.View().PermanentAbilities(perm)[0]
	g.Push(game.ActivateAbility{
		Player:  player,
		Ability: game.AssignedAbility{Holder: game.Holder{Permanent: perm}, Ability: ab},
	})
}

func TestMirarisWake(t *testing.T) {
	g, alice, bob := newGame(t, nil)
	perms := register(t, g, alice, MirarisWake(), Mountain(), GrizzlyBears())
	theirs := register(t, g, bob, GrizzlyBears())

	v := g.View()
	assert.Equal(t, 3, v.Observe(perms[2]).Power)
	assert.Equal(t, 3, v.Observe(perms[2]).Toughness)
	assert.Equal(t, 2, v.Observe(theirs[0]).Power)

	activate(g, alice, perms[1])
	stepN(t, g, 3)
	assert.Equal(t, []mana.ManaType{mana.ManaRed, mana.ManaRed}, g.View().Player(alice).Pool.Units())

	g.Push(game.AddMana{Player: alice, Mana: mana.ManaBlue, Source: game.FromPlayer(alice)})
	stepN(t, g, 1)
	assert.Equal(t, 3, g.View().Player(alice).Pool.Len(), "only land mana is doubled")
}

func TestHardenedScalesAddsACounter(t *testing.T) {
	g, alice, bob := newGame(t, nil)
	perms := register(t, g, alice, HardenedScales(), GrizzlyBears())
	theirs := register(t, g, bob, GrizzlyBears())

	g.Push(game.AddCounters{Permanent: theirs[0], Counter: counters.CounterTypeP1P1, Amount: 1})
	g.Push(game.AddCounters{Permanent: perms[1], Counter: counters.CounterTypeP1P1, Amount: 1})
	stepN(t, g, 2)

	v := g.View()
	assert.Equal(t, 2, v.Permanent(perms[1]).Counters.Get(counters.CounterTypeP1P1))
	assert.Equal(t, 4, v.Observe(perms[1]).Power)
	assert.Equal(t, 1, v.Permanent(theirs[0]).Counters.Get(counters.CounterTypeP1P1))
}

func TestEnergyFieldPreventsDamageToController(t *testing.T) {
	g, alice, bob := newGame(t, nil)
	register(t, g, alice, EnergyField())

	g.Push(game.DealDamage{Target: game.Target{Player: bob}, Amount: 3})
	g.Push(game.DealDamage{Target: game.Target{Player: alice}, Amount: 3})
	stepN(t, g, 2)

	assert.Equal(t, 20, g.View().Life(alice))
	assert.Equal(t, 17, g.View().Life(bob))
}

func TestChandraPaysLoyalty(t *testing.T) {
	g, alice, bob := newGame(t, nil)
	perms := register(t, g, alice, ChandraAblaze())
	require.Equal(t, 5, g.View().Permanent(perms[0]).Counters.Get(counters.CounterTypeLoyalty))

	activate(g, alice, perms[0])
	stepN(t, g, 3)
	assert.Equal(t, 4, g.View().Permanent(perms[0]).Counters.Get(counters.CounterTypeLoyalty))
	assert.Equal(t, 19, g.View().Life(bob))
}

func TestLlanowarElvesAreSummoningSick(t *testing.T) {
	g, alice, _ := newGame(t, nil)
	perms := register(t, g, alice, LlanowarElves())
	ab := g.View().Ability(g.View().PermanentAbilities(perms[0])[0])

	_, err := g.TryPay(alice, perms[0], ab.Cost)
	assert.ErrorIs(t, err, game.ErrSummoningSick)
}

func TestCastSpellsFromHand(t *testing.T) {
	tests := []struct {
		name   string
		card   *game.CardTemplate
		pool   []mana.ManaType
		choice string
		extra  []*game.CardTemplate
		check  func(t *testing.T, g *game.Game, alice, bob game.PlayerID)
	}{
		{
			name:   "lava spike",
			card:   LavaSpike(),
			pool:   []mana.ManaType{mana.ManaRed},
			choice: "Cast Lava Spike {R}",
			check: func(t *testing.T, g *game.Game, _, bob game.PlayerID) {
				assert.Equal(t, 17, g.View().Life(bob))
			},
		},
		{
			name:   "battlegrowth",
			card:   Battlegrowth(),
			pool:   []mana.ManaType{mana.ManaGreen},
			choice: "Cast Battlegrowth {G}",
			extra:  []*game.CardTemplate{HardenedScales(), GrizzlyBears()},
			check: func(t *testing.T, g *game.Game, alice, _ game.PlayerID) {
				bears, ok := findPermanent(g.View(), "Grizzly Bears")
				require.True(t, ok)
				assert.Equal(t, 2, bears.Counters.Get(counters.CounterTypeP1P1))
			},
		},
		{
			name:   "goblin assailant",
			card:   GoblinAssailant(),
			pool:   []mana.ManaType{mana.ManaRed, mana.ManaGreen},
			choice: "Cast Goblin Assailant {1}{R}",
			check: func(t *testing.T, g *game.Game, alice, _ game.PlayerID) {
				goblin, ok := findPermanent(g.View(), "Goblin Assailant")
				require.True(t, ok)
				assert.Equal(t, alice, goblin.Controller)
				assert.Zero(t, g.View().Player(alice).Pool.Len())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &script{want: []string{tt.choice}}
			g, alice, bob := newGame(t, provider, tt.card)
			register(t, g, alice, tt.extra...)
			g.Push(game.DrawCard{Player: alice})
			for _, m := range tt.pool {
				g.Push(game.AddMana{Player: alice, Mana: m, Source: game.FromPlayer(alice)})
			}

			playUntil(t, g, func(v *game.View) bool {
				return len(provider.want) == 0 && v.StackEmpty() && len(v.Hand(alice)) == 0
			})
			stepN(t, g, 2)
			tt.check(t, g, alice, bob)
		})
	}
}

func findPermanent(v *game.View, name string) (game.Permanent, bool) {
	for _, id := range v.Permanents() {
		if p := v.Observe(id); p.Name == name {
			return p, true
		}
	}
	return game.Permanent{}, false
}
