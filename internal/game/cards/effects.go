package cards

import (
	"github.com/magefree/mage-rules-go/internal/game"
	"github.com/magefree/mage-rules-go/internal/game/counters"
	"github.com/magefree/mage-rules-go/internal/game/mana"
)

// AddMana adds one unit of mana to the controller's pool.
type AddMana struct {
	Mana mana.ManaType
}

func (e AddMana) Clone() game.Effect { return e }

func (e AddMana) Activate(src game.AssignedAbility, v *game.View) []game.Event {
	return []game.Event{game.AddMana{Player: v.Controller(src), Mana: e.Mana, Source: game.FromAbility(src)}}
}

// Anthem gives creatures the controller controls a power/toughness bonus.
type Anthem struct {
	Power, Toughness int
}

func (e Anthem) Clone() game.Effect { return e }
func (Anthem) Layer() game.Layer    { return game.LayerPowerToughness }

func (e Anthem) Query(src game.AssignedAbility, q game.Query, v *game.View) {
	obs, ok := q.(*game.ObservePermanentQuery)
	if !ok || !obs.Permanent.Types.Has(game.TypeCreature) {
		return
	}
	if obs.Permanent.Controller != v.Controller(src) {
		return
	}
	obs.Permanent.Power += e.Power
	obs.Permanent.Toughness += e.Toughness
}

// LandManaDoubler adds one more mana of the same type whenever a land the
// controller controls produces mana for them.
type LandManaDoubler struct{}

func (LandManaDoubler) Clone() game.Effect { return LandManaDoubler{} }

func (LandManaDoubler) Listen(src game.AssignedAbility, ev game.Event, v *game.View) game.Reaction {
	add, ok := ev.(game.AddMana)
	if !ok || add.Source.Kind != game.SourceAbility {
		return game.Ignore()
	}
	holder := add.Source.Ability.Holder
	if !holder.IsPermanent() || !v.HasPermanent(holder.Permanent) {
		return game.Ignore()
	}
	if add.Player != v.Controller(src) || !v.Observe(holder.Permanent).Types.Has(game.TypeLand) {
		return game.Ignore()
	}
	return game.Trigger(nil, game.AddMana{Player: add.Player, Mana: add.Mana, Source: game.FromAbility(src)})
}

// DamageOpponents deals damage to each opponent of the controller.
type DamageOpponents struct {
	Amount int
}

func (e DamageOpponents) Clone() game.Effect { return e }

func (e DamageOpponents) Activate(src game.AssignedAbility, v *game.View) []game.Event {
	var events []game.Event
	for _, opp := range v.Opponents(v.Controller(src)) {
		events = append(events, game.DealDamage{
			Target: game.Target{Player: opp},
			Amount: e.Amount,
			Source: game.FromAbility(src),
		})
	}
	return events
}

// Loyalty pays loyalty from its own permanent, then runs Then.
type Loyalty struct {
	Cost int
	Then game.OneShot
}

func (e Loyalty) Clone() game.Effect { return e }

func (e Loyalty) Activate(src game.AssignedAbility, v *game.View) []game.Event {
	events := []game.Event{game.RemoveCounters{
		Permanent: src.Holder.Permanent,
		Counter:   counters.CounterTypeLoyalty,
		Amount:    e.Cost,
		Source:    game.FromAbility(src),
	}}
	return append(events, e.Then.Activate(src, v)...)
}

// CounterEach puts counters on each creature the controller controls.
type CounterEach struct {
	Counter counters.CounterType
	Amount  int
}

func (e CounterEach) Clone() game.Effect { return e }

func (e CounterEach) Activate(src game.AssignedAbility, v *game.View) []game.Event {
	controller := v.Controller(src)
	var events []game.Event
	for _, id := range v.Permanents() {
		perm := v.Observe(id)
		if perm.Controller != controller || !perm.Types.Has(game.TypeCreature) {
			continue
		}
		events = append(events, game.AddCounters{
			Permanent: id,
			Counter:   e.Counter,
			Amount:    e.Amount,
			Source:    game.FromAbility(src),
		})
	}
	return events
}

// ExtraCounters raises the number of +1/+1 counters put on creatures the
// controller controls.
type ExtraCounters struct {
	Extra int
}

func (e ExtraCounters) Clone() game.Effect { return e }

func (e ExtraCounters) Listen(src game.AssignedAbility, ev game.Event, v *game.View) game.Reaction {
	add, ok := ev.(game.AddCounters)
	if !ok || add.Counter != counters.CounterTypeP1P1 || add.Amount <= 0 || !v.HasPermanent(add.Permanent) {
		return game.Ignore()
	}
	perm := v.Observe(add.Permanent)
	if perm.Controller != v.Controller(src) || !perm.Types.Has(game.TypeCreature) {
		return game.Ignore()
	}
	add.Amount += e.Extra
	return game.Trigger(add)
}

// PreventDamage replaces damage that would be dealt to the controller.
type PreventDamage struct{}

func (PreventDamage) Clone() game.Effect { return PreventDamage{} }

func (PreventDamage) Listen(src game.AssignedAbility, ev game.Event, v *game.View) game.Reaction {
	dmg, ok := ev.(game.DealDamage)
	if !ok || dmg.Target.Player != v.Controller(src) {
		return game.Ignore()
	}
	return game.Replace()
}
