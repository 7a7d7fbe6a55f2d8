package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magefree/mage-rules-go/internal/game/counters"
)

func TestStateBasedActions(t *testing.T) {
	t.Run("consistent state needs nothing", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		g.store.AddPermanent(0, alice, creatureTemplate("Grizzly Bears", "{1}{G}", 2, 2))
		g.rebuild()

		assert.Empty(t, CheckStateBasedActions(g.View()))
	})

	t.Run("lethal damage destroys", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		bears := g.store.AddPermanent(0, alice, creatureTemplate("Grizzly Bears", "{1}{G}", 2, 2))
		bears.Damage = 2
		g.rebuild()

		assert.Equal(t, []Event{
			Destroy{Permanent: bears.ID, Source: FromRule(RuleLethalDamage)},
		}, CheckStateBasedActions(g.View()))
	})

	t.Run("toughness includes statics", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		g.store.AddPermanent(0, alice, enchantmentTemplate("Anthem",
			AbilityTemplate{Class: ClassStatic, Effect: boost{}}))
		bears := g.store.AddPermanent(0, alice, creatureTemplate("Grizzly Bears", "{1}{G}", 2, 2))
		bears.Damage = 2
		g.rebuild()

		assert.Empty(t, CheckStateBasedActions(g.View()))
	})

	t.Run("planeswalker without loyalty is destroyed", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		walker := g.store.AddPermanent(0, alice, &CardTemplate{
			Name:    "Chandra",
			Types:   TypeLine{Supertypes: []SuperType{SuperLegendary}, Types: []CardType{TypePlaneswalker}},
			Loyalty: 3,
		})
		g.rebuild()
		assert.Empty(t, CheckStateBasedActions(g.View()))

		walker.Counters.Remove(counters.CounterTypeLoyalty, 3)
		g.rebuild()
		assert.Equal(t, []Event{
			Destroy{Permanent: walker.ID, Source: FromRule(RuleNoLoyalty)},
		}, CheckStateBasedActions(g.View()))
	})

	t.Run("opposed counters cancel out", func(t *testing.T) {
		g, alice, _ := newTestGame(t, nil)
		bears := g.store.AddPermanent(0, alice, creatureTemplate("Grizzly Bears", "{1}{G}", 2, 2))
		bears.Counters.Add(counters.CounterTypeP1P1, 3)
		bears.Counters.Add(counters.CounterTypeM1M1, 1)
		g.rebuild()

		source := FromRule(RuleCancelCounters)
		assert.Equal(t, []Event{
			RemoveCounters{Permanent: bears.ID, Counter: counters.CounterTypeP1P1, Amount: 1, Source: source},
			RemoveCounters{Permanent: bears.ID, Counter: counters.CounterTypeM1M1, Amount: 1, Source: source},
		}, CheckStateBasedActions(g.View()))
	})

	t.Run("legends of one owner conflict", func(t *testing.T) {
		g, alice, bob := newTestGame(t, nil)
		first := g.store.AddPermanent(0, alice, legendTemplate("Zurgo Bellstriker"))
		second := g.store.AddPermanent(0, alice, legendTemplate("Zurgo Bellstriker"))
		g.store.AddPermanent(0, bob, legendTemplate("Zurgo Bellstriker"))
		g.store.AddPermanent(0, alice, legendTemplate("Krenko"))
		g.rebuild()

		assert.Equal(t, []Event{
			LegendConflict{Player: alice, Permanents: []PermanentID{first.ID, second.ID}},
		}, CheckStateBasedActions(g.View()))
	})

	t.Run("players at zero life lose once", func(t *testing.T) {
		g, alice, bob := newTestGame(t, nil)
		g.store.Player(bob).Life = 0
		assert.Equal(t, []Event{Lose{Player: bob, Reason: RuleNoHealth}}, CheckStateBasedActions(g.View()))

		g.store.Player(bob).Lost = true
		g.store.Player(alice).Life = -3
		assert.Equal(t, []Event{Lose{Player: alice, Reason: RuleNoHealth}}, CheckStateBasedActions(g.View()))
	})
}

func TestOpposedCountersAnnihilate(t *testing.T) {
	g, alice, _ := newTestGame(t, nil)
	bears := g.store.AddPermanent(0, alice, creatureTemplate("Grizzly Bears", "{1}{G}", 2, 2))
	bears.Counters.Add(counters.CounterTypeP1P1, 3)
	bears.Counters.Add(counters.CounterTypeM1M1, 1)
	g.rebuild()

	for _, ev := range CheckStateBasedActions(g.View()) {
		g.Push(ev)
	}
	step(t, g, 2)

	assert.Equal(t, 2, bears.Counters.Get(counters.CounterTypeP1P1))
	assert.Equal(t, 0, bears.Counters.Get(counters.CounterTypeM1M1))
	assert.Empty(t, CheckStateBasedActions(g.View()))
	assert.Equal(t, 4, g.View().Observe(bears.ID).Power)
}

func TestStateBasedActionsOnOnePermanent(t *testing.T) {
	t.Run("lethal damage with opposed counters", func(t *testing.T) {
		provider := &scriptedProvider{answers: []int{0}}
		g, alice, _ := newTestGame(t, provider)
		bears := g.store.AddPermanent(0, alice, creatureTemplate("Grizzly Bears", "{1}{G}", 2, 2))
		bears.Counters.Add(counters.CounterTypeP1P1, 1)
		bears.Counters.Add(counters.CounterTypeM1M1, 1)
		bears.Damage = 2
		g.rebuild()

		source := FromRule(RuleCancelCounters)
		assert.Equal(t, []Event{
			Destroy{Permanent: bears.ID, Source: FromRule(RuleLethalDamage)},
			RemoveCounters{Permanent: bears.ID, Counter: counters.CounterTypeP1P1, Amount: 1, Source: source},
			RemoveCounters{Permanent: bears.ID, Counter: counters.CounterTypeM1M1, Amount: 1, Source: source},
		}, CheckStateBasedActions(g.View()))

		g.Push(GivePriority{Player: alice})
		step(t, g, 5)

		assert.False(t, g.store.HasPermanent(bears.ID))
		assert.Equal(t, []string{"GivePriority", "Destroy", "RemoveCounters", "RemoveCounters", "GivePriority"}, historyNames(g))
		assert.Len(t, provider.requests, 1)
		assert.Nil(t, g.Result())
	})

	t.Run("creature planeswalker without loyalty and with lethal damage", func(t *testing.T) {
		provider := &scriptedProvider{answers: []int{0}}
		g, alice, _ := newTestGame(t, provider)
		hybrid := g.store.AddPermanent(0, alice, &CardTemplate{
			Name:      "Gideon",
			Types:     TypeLine{Types: []CardType{TypeCreature, TypePlaneswalker}},
			Power:     2,
			Toughness: 2,
		})
		hybrid.Damage = 2
		g.rebuild()

		assert.Equal(t, []Event{
			Destroy{Permanent: hybrid.ID, Source: FromRule(RuleLethalDamage)},
			Destroy{Permanent: hybrid.ID, Source: FromRule(RuleNoLoyalty)},
		}, CheckStateBasedActions(g.View()))

		g.Push(GivePriority{Player: alice})
		step(t, g, 4)

		assert.False(t, g.store.HasPermanent(hybrid.ID))
		assert.Equal(t, []string{"GivePriority", "Destroy", "Destroy", "GivePriority"}, historyNames(g))
		assert.Len(t, provider.requests, 1)
	})
}

func TestEventsOnDepartedPermanentDoNothing(t *testing.T) {
	g, alice, _ := newTestGame(t, nil)
	bears := g.store.AddPermanent(0, alice, creatureTemplate("Grizzly Bears", "{1}{G}", 2, 2))
	g.rebuild()

	g.Push(UntapPermanent{Permanent: bears.ID})
	g.Push(TapPermanent{Permanent: bears.ID})
	g.Push(RemoveCounters{Permanent: bears.ID, Counter: counters.CounterTypeP1P1, Amount: 1})
	g.Push(AddCounters{Permanent: bears.ID, Counter: counters.CounterTypeP1P1, Amount: 1})
	g.Push(Destroy{Permanent: bears.ID})
	step(t, g, 5)

	require.False(t, g.store.HasPermanent(bears.ID))
	assert.Equal(t, []string{"Destroy", "AddCounters", "RemoveCounters", "TapPermanent", "UntapPermanent"}, historyNames(g))
	assert.Equal(t, 0, g.Pending())
}
